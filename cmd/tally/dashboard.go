package main

import (
	"github.com/spf13/cobra"

	"github.com/tally-fin/tally/internal/ledger"
	"github.com/tally-fin/tally/internal/tui"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		Long: `Browse transactions grouped by day, filter by type and month, and add,
edit, or delete entries. On an owner's very first visit the starter
categories are created automatically.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			owner, err := resolveOwner()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			session, err := ledger.NewSession(store, owner)
			if err != nil {
				return err
			}
			if err := session.Start(ctx); err != nil {
				return err
			}

			return tui.Run(ctx, session)
		},
	}
}
