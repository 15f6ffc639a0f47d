package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Settings are the CLI knobs shared by every command. Flags win over ROSCA_* environment
// variables, which win over an optional settings file.
type Settings struct {
	LogLevel  string
	Workers   int
	Format    string
	OutputDir string
}

// settingFlags maps viper keys to the flag names that feed them
var settingFlags = map[string]string{
	"log":        "log",
	"workers":    "workers",
	"format":     "format",
	"output_dir": "output-dir",
}

// NewRootCommand builds the CLI command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "rosca-forecast",
		Short:         "Cohort forecast engine for ROSCA committee products",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	root.PersistentFlags().Int("workers", runtime.NumCPU(), "Concurrent cell groups per month (1 computes sequentially)")
	root.PersistentFlags().String("settings", "", "Optional YAML settings file (log, workers, format, output_dir)")

	root.AddCommand(newRunCommand(), newValidateCommand(), newExampleCommand(), newCompareCommand())
	return root
}

// Execute runs the CLI root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		os.Exit(1)
	}
}

// loadSettings resolves the settings for cmd using viper
func loadSettings(cmd *cobra.Command) (*Settings, error) {
	v := viper.New()
	v.SetDefault("log", "warn")
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("format", "console")
	v.SetDefault("output_dir", "")

	v.SetEnvPrefix("ROSCA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path, _ := cmd.Flags().GetString("settings"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	}

	for key, name := range settingFlags {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			f = cmd.InheritedFlags().Lookup(name)
		}
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}

	s := &Settings{
		LogLevel:  v.GetString("log"),
		Workers:   v.GetInt("workers"),
		Format:    v.GetString("format"),
		OutputDir: v.GetString("output_dir"),
	}
	if s.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", s.Workers)
	}
	return s, nil
}

// newLogger creates the logrus logger injected into the forecast engine
func newLogger(cmd *cobra.Command, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return logger, nil
}

// setup resolves settings and the logger for a command
func setup(cmd *cobra.Command) (*Settings, *logrus.Logger, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cmd, settings.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return settings, logger, nil
}
