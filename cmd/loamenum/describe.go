package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe [model]",
	Short: "Print the declarations of models as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			var out any
			if len(args) == 1 {
				e, err := a.entry(args[0])
				if err != nil {
					return err
				}
				out = e.Model.State()
			} else {
				states := []any{}
				for _, e := range a.models.Entries() {
					states = append(states, e.Model.State())
				}
				out = states
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		})
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
