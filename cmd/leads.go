package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/outboundiq/leadpipe/internal/store"
)

var leadsRunID string

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List the stored leads dump for a run",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer st.Close()

		run, err := st.GetRun(ctx, leadsRunID)
		if err != nil {
			return eris.Wrap(err, "get run")
		}

		leads, err := st.ListLeads(ctx, leadsRunID)
		if err != nil {
			return eris.Wrap(err, "list leads")
		}

		fmt.Printf("Run %s (%s): %d profile / %d directory inputs, %d leads stored\n",
			run.ID, run.Status, run.ProfileCount, run.DirectoryCount, len(leads))
		for _, l := range leads {
			fmt.Printf("  %-30s %-30s %-12s score=%d\n", l.CompanyName, l.Email, l.LeadSource, l.Score())
		}
		return nil
	},
}

func init() {
	leadsCmd.Flags().StringVar(&leadsRunID, "run", "", "run ID (required)")
	_ = leadsCmd.MarkFlagRequired("run")
	rootCmd.AddCommand(leadsCmd)
}
