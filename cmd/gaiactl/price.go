package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Show the current SOL price",
	Run:   runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)
}

type solPriceView struct {
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
	Volume24h float64 `json:"volume24h"`
	MarketCap float64 `json:"marketCap"`
}

func runPrice(cmd *cobra.Command, args []string) {
	var price solPriceView
	if err := apiGet("/api/solana/price", &price); err != nil {
		printError(err)
		os.Exit(1)
	}
	if printJSON(cmd, price) {
		return
	}

	change := color.GreenString("%+.2f%%", price.Change24h)
	if price.Change24h < 0 {
		change = color.RedString("%+.2f%%", price.Change24h)
	}
	fmt.Printf("\nSOL %s  %s (24h)\n", color.YellowString("$%.2f", price.Price), change)
	fmt.Printf("Volume 24h:  $%.0f\n", price.Volume24h)
	fmt.Printf("Market cap:  $%.0f\n\n", price.MarketCap)
}
