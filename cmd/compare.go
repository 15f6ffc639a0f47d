package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rosca/committee-forecast/internal/calculation"
	"github.com/rosca/committee-forecast/internal/config"
	"github.com/rosca/committee-forecast/internal/output"
	"github.com/spf13/cobra"
)

func newCompareCommand() *cobra.Command {
	compareCmd := &cobra.Command{
		Use:   "compare <config.yaml> <config.yaml>...",
		Short: "Forecast several configurations and compare them",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			scenarios, err := config.NewInputParser().LoadScenarios(args)
			if err != nil {
				return err
			}

			engine := calculation.NewForecastEngine()
			engine.Workers = settings.Workers
			engine.SetLogger(logger)

			comparison, err := engine.RunScenarios(cmd.Context(), scenarios)
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}

			data, err := output.FormatComparison(comparison, settings.Format)
			if err != nil {
				return err
			}
			if settings.OutputDir == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			ext := "txt"
			switch output.NormalizeFormatName(settings.Format) {
			case "json":
				ext = "json"
			case "csv":
				ext = "csv"
			}
			if err := os.MkdirAll(settings.OutputDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			filename := filepath.Join(settings.OutputDir, fmt.Sprintf("comparison_%s.%s", output.Now().Format("20060102_150405"), ext))
			if err := os.WriteFile(filename, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", filename, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", filename)
			return nil
		},
	}

	compareCmd.Flags().String("format", "console", "Output format (console, json, csv)")
	compareCmd.Flags().String("output-dir", "", "Directory for the comparison file; stdout when empty")
	return compareCmd
}
