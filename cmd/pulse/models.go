package main

import (
	"fmt"

	"pulse/internal/app"
	"pulse/internal/client"
	"pulse/internal/config"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newModelsCmd() *cobra.Command {
	var providerFilter string

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List known models and the active configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var rows [][]string
			for _, p := range []string{config.ProviderGemini, config.ProviderOllama} {
				if providerFilter != "" && providerFilter != p {
					continue
				}
				for _, m := range client.GetModelsForProvider(p) {
					rows = append(rows, []string{m.ID, m.Provider, m.Description})
				}
			}

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))).
				Headers("ID", "PROVIDER", "DESCRIPTION").
				Rows(rows...)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Active: %s\n", app.Describe(cfg))
			fmt.Fprintln(out, t.String())
			fmt.Fprintf(out, "Presets: %v\n", config.ListPresets())
			return nil
		},
	}

	cmd.Flags().StringVar(&providerFilter, "only", "", "show only one provider's models")
	return cmd
}
