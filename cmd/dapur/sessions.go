package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nursyahid/dapur-ledger/internal/cli"
	"github.com/nursyahid/dapur-ledger/internal/common"
)

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage saved import sessions",
	}

	cmd.AddCommand(sessionsListCmd())
	cmd.AddCommand(sessionsDeleteCmd())

	return cmd
}

func sessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved import sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openSessionStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			infos, err := store.ListSnapshots(ctx)
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}

			if len(infos) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No saved sessions."))
				return nil
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Sessions (%d)", len(infos))))
			header := fmt.Sprintf("%-24s  %-16s  %6s  %6s", "Name", "Saved", "Rows", "Valid")
			fmt.Println(cli.TableHeaderStyle.Render(header))
			for _, info := range infos {
				fmt.Printf("%-24s  %-16s  %6d  %6d\n",
					info.Name, info.SavedAt.Format("2006-01-02 15:04"), info.Rows, info.ValidRows)
			}
			return nil
		},
	}
}

func sessionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved import session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openSessionStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteSnapshot(ctx, args[0]); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(fmt.Sprintf("no saved session named %q", args[0]), nil)
				}
				return fmt.Errorf("failed to delete session: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted session %q", args[0])))
			return nil
		},
	}
}
