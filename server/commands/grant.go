package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"costumeshop/server/account"
	"costumeshop/server/catalog"
	"costumeshop/server/shop"
)

// grantCmd credits gold to a stored player outside a live session.
func grantCmd() *cobra.Command {
	var (
		player string
		amount int64
		reason string
	)
	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Credit gold to a player record",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(cfg.CatalogPath)
			if err != nil {
				return err
			}
			first, ok := cat.First()
			if !ok {
				return errors.New("catalog is empty")
			}
			store, closeStore, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			accounts := account.NewService(store, account.WithLogger(logger), account.WithStartingGold(cfg.StartingGold), account.WithDefaultCostume(first.ID))
			p, err := accounts.Open(cmd.Context(), player)
			if err != nil {
				return err
			}
			defer accounts.Release(player)

			if err := shop.NewEngine(cat, shop.WithLogger(logger)).Award(p, amount, reason); err != nil {
				return err
			}
			if err := accounts.Save(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d gold\n", p.Name(), p.Balance())
			return nil
		},
	}
	cmd.Flags().StringVar(&player, "player", "", "player name")
	cmd.Flags().Int64Var(&amount, "amount", 0, "gold to credit")
	cmd.Flags().StringVar(&reason, "reason", "admin", "reason recorded in logs and metrics")
	_ = cmd.MarkFlagRequired("player")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
