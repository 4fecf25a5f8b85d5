package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [model...]",
	Short: "Validate stored documents against their enums",
	Long:  `Loads every document of the given models (all models by default) and reports enum validation failures. Exits non-zero if any document is invalid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			names := args
			if len(names) == 0 {
				names = a.models.Names()
			}

			out := cmd.OutOrStdout()
			invalid := 0
			for _, name := range names {
				e, err := a.entry(name)
				if err != nil {
					return err
				}
				all, err := e.Model.All(cmd.Context(), a.repo)
				if err != nil {
					return err
				}
				for _, doc := range all.Documents() {
					if doc.Valid() {
						continue
					}
					invalid++
					for _, f := range doc.Errors() {
						fmt.Fprintf(out, "%s: %s\n", doc.ID, f)
					}
				}
				a.logger.Debug("checked model", "model", name, "documents", all.Len())
			}
			if invalid > 0 {
				return fmt.Errorf("%d invalid document(s)", invalid)
			}
			fmt.Fprintln(out, "all documents valid")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
