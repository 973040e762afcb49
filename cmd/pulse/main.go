package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"pulse/internal/app"
	"pulse/internal/config"

	"github.com/spf13/cobra"
)

var (
	version  = "0.1.0"
	cfgFile  string
	model    string
	provider string
	preset   string
	logLevel string
	outDir   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pulse [prompt...]",
		Short: "Describe a project, get the code",
		Long: `Pulse turns a natural-language description into a complete multi-file
project using Gemini (or a local Ollama model), shows it in a file browser
and code viewer, and refines it with follow-up instructions.

Any arguments are joined into the first prompt.`,
		SilenceUsage: true,
		RunE:         runApp,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/pulse/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "model to use (default is gemini-3-pro-preview)")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "provider: gemini or ollama")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "model preset: "+strings.Join(config.ListPresets(), ", "))
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level written to pulse.log: debug, info, warn, error")
	rootCmd.Flags().StringVar(&outDir, "out", "", "directory ctrl+s exports projects into (default is ./"+config.DefaultExportDir+")")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pulse version %s\n", version)
		},
	})
	rootCmd.AddCommand(newModelsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if preset != "" && !cfg.ApplyPreset(preset) {
		return nil, fmt.Errorf("unknown preset %q (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
	}
	if model != "" {
		cfg.Model.Name = model
		if provider == "" && preset == "" {
			cfg.API.Provider = config.DetectProvider(model)
		}
	}
	if provider != "" {
		cfg.API.Provider = provider
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if outDir != "" {
		cfg.Export.Dir = outDir
	}
	cfg.Version = version

	return cfg, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingAuth) {
			return fmt.Errorf("%w\n\nGet a key at https://aistudio.google.com/apikey, or run with --preset local to use Ollama", err)
		}
		return err
	}

	application, err := app.New(cfg, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	return application.Run()
}
