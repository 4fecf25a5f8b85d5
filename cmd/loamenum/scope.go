package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scopeCmd = &cobra.Command{
	Use:   "scope <model> <scope>",
	Short: "List the IDs of documents selected by a scope",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			e, err := a.entry(args[0])
			if err != nil {
				return err
			}
			all, err := e.Model.All(cmd.Context(), a.repo)
			if err != nil {
				return err
			}
			matched, err := all.Scope(args[1])
			if err != nil {
				return err
			}
			for _, id := range matched.IDs() {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(scopeCmd)
}
