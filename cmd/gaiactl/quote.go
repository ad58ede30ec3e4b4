package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	quoteInputMint   string
	quoteOutputMint  string
	quoteAmount      uint64
	quoteSlippageBps int
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Get a swap quote",
	Long: `Get a swap quote across the aggregated DEX providers. Amounts are in
the token's smallest units.

Example:
  gaiactl quote --in So11111111111111111111111111111111111111112 \
    --out EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v --amount 1000000000`,
	Run: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringVar(&quoteInputMint, "in", "", "Input token mint")
	quoteCmd.Flags().StringVar(&quoteOutputMint, "out", "", "Output token mint")
	quoteCmd.Flags().Uint64Var(&quoteAmount, "amount", 0, "Input amount in smallest units")
	quoteCmd.Flags().IntVar(&quoteSlippageBps, "slippage-bps", 50, "Slippage tolerance in basis points")
	quoteCmd.MarkFlagRequired("in")
	quoteCmd.MarkFlagRequired("out")
	quoteCmd.MarkFlagRequired("amount")
}

type quoteView struct {
	InAmount             uint64  `json:"inAmount,string"`
	OutAmount            uint64  `json:"outAmount,string"`
	OtherAmountThreshold uint64  `json:"otherAmountThreshold,string"`
	PriceImpactPct       float64 `json:"priceImpactPct"`
	Provider             string  `json:"provider"`
	Executable           bool    `json:"executable"`
	PriceInfo            *struct {
		Rate float64 `json:"rate"`
	} `json:"priceInfo"`
}

func runQuote(cmd *cobra.Command, args []string) {
	path := fmt.Sprintf("/api/quote?inputMint=%s&outputMint=%s&amount=%d&slippageBps=%d",
		quoteInputMint, quoteOutputMint, quoteAmount, quoteSlippageBps)

	var q quoteView
	if err := apiGet(path, &q); err != nil {
		printError(err)
		os.Exit(1)
	}
	if printJSON(cmd, q) {
		return
	}

	fmt.Printf("\nProvider:      %s\n", color.CyanString(q.Provider))
	fmt.Printf("In:            %d\n", q.InAmount)
	fmt.Printf("Out:           %s\n", color.YellowString("%d", q.OutAmount))
	fmt.Printf("Min out:       %d\n", q.OtherAmountThreshold)
	fmt.Printf("Price impact:  %.2f%%\n", q.PriceImpactPct)
	if q.PriceInfo != nil {
		fmt.Printf("Rate:          %.6f\n", q.PriceInfo.Rate)
	}
	if !q.Executable {
		color.Yellow("\nEstimate only: no venue will execute this quote.")
	}
	fmt.Println()
}
