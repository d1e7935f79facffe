package main

import (
	"github.com/spf13/cobra"

	"github.com/deppfellow/concerts/internal/lib/utils"
)

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print every concert introduction and the top bands as JSON",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer a.shutdownInto(&err)

			lineup, err := a.services.Report.Lineup(cmd.Context())
			if err != nil {
				return err
			}
			return utils.WriteJSON(cmd.OutOrStdout(), lineup)
		},
	}
}
