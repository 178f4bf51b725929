package main

import (
	"github.com/spf13/cobra"

	"github.com/opsbench/setup/internal/app"
)

var statusCmd = &cobra.Command{
	Use:   "status [phase1|phase2]",
	Short: "Show which tools a phase would install, without installing",
	Args:  validatePhaseArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		phase := app.Phase1
		if len(args) == 1 {
			phase = args[0]
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		svc, environ, err := buildService(cmd.OutOrStdout())
		if err != nil {
			return err
		}

		return svc.Status(cmd.Context(), phase, environ, cfg)
	},
}
