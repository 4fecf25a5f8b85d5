package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	enumlifecycle "github.com/aretw0/loamenum/pkg/adapters/lifecycle"
	"github.com/aretw0/loamenum/pkg/core"
)

var watchGlob string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Validate documents as they change",
	Long:  `Watches the vault and validates every created or modified document whose ID belongs to a declared model. Requires a watchable adapter (fs).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return withApp(ctx, func(a *app) error {
			w, ok := a.repo.(core.Watchable)
			if !ok {
				return fmt.Errorf("adapter %s does not support watching", cfg.Adapter)
			}
			events, err := w.Watch(ctx, watchGlob)
			if err != nil {
				return err
			}
			a.logger.Info("watching", "vault", cfg.Vault, "glob", watchGlob)

			src := enumlifecycle.NewSource(events, a.models, a.repo)
			if err := src.Start(ctx); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for e := range src.Events() {
				if c, ok := e.(enumlifecycle.Checked); ok && c.Err != nil {
					a.logger.Warn("failed to load changed document", "id", c.Event.ID, "error", c.Err)
				}
				fmt.Fprintln(out, e)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchGlob, "glob", "**", "Only watch document IDs matching this doublestar pattern")
}
