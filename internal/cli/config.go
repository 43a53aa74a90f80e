package cli

import (
	"board-cli/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration (file, env and defaults merged)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if save {
				if err := config.Save(app.Config); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"path":   config.Path(),
					"config": app.Config,
					"saved":  save,
				},
			})
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Write the effective configuration to the config file")
	return cmd
}
