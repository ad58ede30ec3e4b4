package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List trending Solana tokens",
	Run:   runTrending,
}

func init() {
	rootCmd.AddCommand(trendingCmd)
}

type trendingView struct {
	Mint      string  `json:"mint"`
	Symbol    string  `json:"symbol"`
	PriceUsd  float64 `json:"priceUsd"`
	Change24h float64 `json:"change24h"`
	Liquidity float64 `json:"liquidity"`
}

func runTrending(cmd *cobra.Command, args []string) {
	var tokens []trendingView
	if err := apiGet("/api/tokens/trending", &tokens); err != nil {
		printError(err)
		os.Exit(1)
	}
	if printJSON(cmd, tokens) {
		return
	}
	if len(tokens) == 0 {
		fmt.Println("\nNo trending tokens right now.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 72))
	color.Green("                      TRENDING SOLANA TOKENS")
	fmt.Println(strings.Repeat("=", 72))
	for _, t := range tokens {
		symbol := t.Symbol
		if symbol == "" {
			symbol = t.Mint[:8] + "..."
		}
		change := color.GreenString("%+.1f%%", t.Change24h)
		if t.Change24h < 0 {
			change = color.RedString("%+.1f%%", t.Change24h)
		}
		fmt.Printf("  %-10s $%-12.6f %s  liq $%.0f\n",
			color.YellowString(symbol), t.PriceUsd, change, t.Liquidity)
	}
	fmt.Println()
}
