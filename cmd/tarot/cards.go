package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/leekwangpil/tarot-web/internal/domain"
	"github.com/leekwangpil/tarot-web/pkg/client"
)

var cardsRemote bool

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "List the 22 major arcana",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cards := domain.Catalog()
		if cardsRemote {
			remote, err := client.New(serverURL).Cards(cmd.Context())
			if err != nil {
				return err
			}
			if err := domain.ValidateCatalog(remote); err != nil {
				return fmt.Errorf("server catalog: %w", err)
			}
			cards = remote
		}

		out := cmd.OutOrStdout()
		for _, c := range cards {
			fmt.Fprintf(out, "%s %-20s %s\n", color.CyanString("%2d", c.ID), c.Name, color.HiBlackString(c.Image))
		}
		return nil
	},
}

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Draw three cards without asking for an interpretation",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		printDraw(cmd.OutOrStdout(), domain.DrawThree(stdRNG{}))
	},
}

func init() {
	cardsCmd.Flags().BoolVar(&cardsRemote, "remote", false, "fetch the catalog from the server")
}
