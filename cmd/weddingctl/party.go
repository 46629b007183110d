package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wedding-site/internal/models"
	"wedding-site/internal/storage"
)

func newPartyCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "party",
		Short: "Manage the wedding party",
	}
	cmd.AddCommand(newPartyAddCmd(c), newPartyListCmd(c))
	return cmd
}

func newPartyAddCmd(c *cli) *cobra.Command {
	var m models.WeddingPartyMember
	var role, side string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a wedding party member",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openDB()
			if err != nil {
				return err
			}
			m.Role = models.Role(role)
			m.Side = models.Side(side)
			m.IsActive = true

			if err := storage.NewPartyStore(db).Create(cmd.Context(), &m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s, %s side)\n", m.Name, m.Role.Label(), m.Side)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&m.Name, "name", "", "member name")
	f.StringVar(&role, "role", "", "maid_of_honor, best_man, bridesmaid, groomsman, flower_girl or ring_bearer")
	f.StringVar(&side, "side", "", "bride or groom")
	f.StringVar(&m.Bio, "bio", "", "short bio")
	f.StringVar(&m.PhotoURL, "photo-url", "", "photo URL")
	f.IntVar(&m.Order, "order", 0, "display order within the side")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("role")
	_ = cmd.MarkFlagRequired("side")
	return cmd
}

func newPartyListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active wedding party members",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openDB()
			if err != nil {
				return err
			}
			members, err := storage.NewPartyStore(db).ListActive(cmd.Context(), "")
			if err != nil {
				return err
			}
			for _, m := range members {
				fmt.Fprintf(cmd.OutOrStdout(), "%-6s %3d  %-16s %s\n", m.Side, m.Order, m.Role.Label(), m.Name)
			}
			return nil
		},
	}
}
