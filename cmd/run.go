package cmd

import (
	"fmt"

	"github.com/rosca/committee-forecast/internal/calculation"
	"github.com/rosca/committee-forecast/internal/config"
	"github.com/rosca/committee-forecast/internal/output"
	"github.com/spf13/cobra"
)

func newRunCommand() *cobra.Command {
	var saveConfig string

	runCmd := &cobra.Command{
		Use:   "run <config.yaml>",
		Short: "Run a cohort forecast for one configuration",
		Long: "Run a cohort forecast and render it. Without --output-dir the report is written to stdout;\n" +
			"with it, a timestamped report file is written (format \"all\" writes the Forecast, Monthly,\n" +
			"Yearly and Flows CSV partitions plus the console report).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			parser := config.NewInputParser()
			cfg, err := parser.LoadFromFile(args[0])
			if err != nil {
				return err
			}

			engine := calculation.NewForecastEngine()
			engine.Workers = settings.Workers
			engine.SetLogger(logger)

			result, err := engine.Run(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("forecast failed: %w", err)
			}
			result.Assumptions = output.GenerateAssumptions(cfg)

			if saveConfig != "" {
				if err := output.SaveConfiguration(cfg, saveConfig); err != nil {
					return fmt.Errorf("failed to save configuration: %w", err)
				}
				logger.Infof("configuration saved to %s", saveConfig)
			}

			if settings.OutputDir == "" && output.NormalizeFormatName(settings.Format) != "all" {
				f := output.GetFormatterByName(settings.Format)
				if f == nil {
					return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, settings.Format)
				}
				data, err := f.Format(result)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			dir := settings.OutputDir
			if dir == "" {
				dir = "."
			}
			files, err := output.GenerateReport(result, settings.Format, dir)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", f)
			}
			return nil
		},
	}

	runCmd.Flags().String("format", "console", "Output format (console, console-lite, json, csv, yearly-csv, detailed-csv, flows-csv, all)")
	runCmd.Flags().String("output-dir", "", "Directory for report files; stdout when empty")
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "Also write the resolved configuration (with defaults) to this file")
	return runCmd
}
