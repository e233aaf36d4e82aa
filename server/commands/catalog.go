package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"costumeshop/server/catalog"
)

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Validate and print the costume catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(cfg.CatalogPath)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPRICE\tUNLOCK")
			for _, c := range cat.List() {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", c.ID, c.DisplayName, c.Price, c.UnlockLevel)
			}
			return tw.Flush()
		},
	}
}
