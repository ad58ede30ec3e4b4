package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <wallet>",
	Short: "Show a wallet's SOL and token balances",
	Args:  cobra.ExactArgs(1),
	Run:   runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

type balanceView struct {
	Address string  `json:"address"`
	Sol     float64 `json:"sol"`
	Tokens  []struct {
		Mint   string  `json:"mint"`
		Symbol string  `json:"symbol"`
		Amount float64 `json:"amount"`
	} `json:"tokens"`
}

func runBalance(cmd *cobra.Command, args []string) {
	var b balanceView
	if err := apiGet("/api/solana/balance?address="+args[0], &b); err != nil {
		printError(err)
		os.Exit(1)
	}
	if printJSON(cmd, b) {
		return
	}

	fmt.Printf("\n%s\n", color.HiBlackString(b.Address))
	fmt.Printf("SOL: %s\n", color.YellowString("%.4f", b.Sol))
	for _, t := range b.Tokens {
		name := t.Symbol
		if name == "" {
			name = t.Mint[:8] + "..."
		}
		fmt.Printf("  %-10s %.4f\n", name, t.Amount)
	}
	fmt.Println()
}
