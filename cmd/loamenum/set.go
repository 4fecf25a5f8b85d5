package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var setClear bool

var setCmd = &cobra.Command{
	Use:   "set <model> <id> <attribute> [value...]",
	Short: "Set an enum attribute and save the document",
	Long:  `Sets a scalar enum to one value, or a multiple enum to the given values, then validates and saves. Use --clear to store no value.`,
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			_, en, err := a.enum(args[0], args[2])
			if err != nil {
				return err
			}
			doc, err := a.find(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			values := args[3:]
			var v any
			switch {
			case setClear:
				v = nil
			case en.Multiple():
				v = values
			case len(values) == 1:
				v = values[0]
			default:
				return fmt.Errorf("%s is a single-value enum: pass exactly one value or --clear", args[2])
			}

			if err := en.Set(doc, v); err != nil {
				return err
			}
			if err := doc.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s.%s = %v\n", doc.ID, args[2], doc.ReadAttribute(en.Field()))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.Flags().BoolVar(&setClear, "clear", false, "Store no value")
}
