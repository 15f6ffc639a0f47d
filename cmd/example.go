package cmd

import (
	"fmt"

	"github.com/rosca/committee-forecast/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newExampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "example [file]",
		Short: "Write an example configuration to a file, or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			example := parser.CreateExampleConfiguration()

			if len(args) == 1 {
				if err := parser.SaveToFile(example, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", args[0])
				return nil
			}

			data, err := yaml.Marshal(example)
			if err != nil {
				return fmt.Errorf("failed to marshal example: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
