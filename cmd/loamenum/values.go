package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var valuesCmd = &cobra.Command{
	Use:   "values <model> <attribute>",
	Short: "Print the allowed values of an enum",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			_, en, err := a.enum(args[0], args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, v := range en.Values() {
				fmt.Fprintln(out, v)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(valuesCmd)
}
