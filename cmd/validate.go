package cmd

import (
	"fmt"

	"github.com/rosca/committee-forecast/internal/calculation"
	"github.com/rosca/committee-forecast/internal/config"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config.yaml>",
		Short: "Validate a configuration and report allocation warnings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			cfg, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			matrix, warnings, err := calculation.ResolveMatrix(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, w := range warnings {
				logger.Warnf("%s", w)
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			fmt.Fprintf(out, "Configuration %q is valid: durations %v, horizon %d months\n",
				cfg.Name, matrix.Durations(), cfg.Lifecycle.Horizon())
			for _, rc := range matrix.Committees {
				fmt.Fprintf(out, "  duration %d: %d of %d slots open, %d slabs\n",
					rc.Duration, rc.OpenSlots(), len(rc.Slots), len(rc.Slabs))
			}
			return nil
		},
	}
}
