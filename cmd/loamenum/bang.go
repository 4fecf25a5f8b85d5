package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var bangCmd = &cobra.Command{
	Use:   "bang <model> <id> <value>",
	Short: "Run the value! member of a document",
	Long:  `Sets a scalar enum to value, or appends value to a multiple enum, and saves immediately.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			doc, err := a.find(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if err := doc.Bang(cmd.Context(), args[2]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s!\n", doc.ID, args[2])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(bangCmd)
}
