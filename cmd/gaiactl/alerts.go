package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	alertWallet    string
	alertMint      string
	alertTarget    float64
	alertCondition string
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Manage price alerts",
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List alerts",
	Run:   runAlertsList,
}

var alertsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a price alert",
	Run:   runAlertsAdd,
}

var alertsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete an alert",
	Args:  cobra.ExactArgs(1),
	Run:   runAlertsRemove,
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsListCmd, alertsAddCmd, alertsRemoveCmd)

	alertsListCmd.Flags().StringVar(&alertWallet, "wallet", "", "Filter by wallet address")

	alertsAddCmd.Flags().StringVar(&alertWallet, "wallet", "", "Wallet address")
	alertsAddCmd.Flags().StringVar(&alertMint, "mint", "", "Token mint")
	alertsAddCmd.Flags().Float64Var(&alertTarget, "target", 0, "Target USD price")
	alertsAddCmd.Flags().StringVar(&alertCondition, "condition", "above", "Trigger condition: above or below")
	alertsAddCmd.MarkFlagRequired("wallet")
	alertsAddCmd.MarkFlagRequired("mint")
	alertsAddCmd.MarkFlagRequired("target")
}

type alertView struct {
	ID           string  `json:"id"`
	TokenSymbol  string  `json:"tokenSymbol"`
	TokenMint    string  `json:"tokenMint"`
	TargetPrice  float64 `json:"targetPrice"`
	Condition    string  `json:"condition"`
	CurrentPrice float64 `json:"currentPrice"`
	Triggered    bool    `json:"triggered"`
}

func runAlertsList(cmd *cobra.Command, args []string) {
	path := "/api/alerts"
	if alertWallet != "" {
		path += "?wallet=" + alertWallet
	}
	var list []alertView
	if err := apiGet(path, &list); err != nil {
		printError(err)
		os.Exit(1)
	}
	if printJSON(cmd, list) {
		return
	}
	if len(list) == 0 {
		fmt.Println("\nNo alerts.")
		return
	}

	fmt.Println()
	for _, a := range list {
		name := a.TokenSymbol
		if name == "" {
			name = a.TokenMint[:8] + "..."
		}
		state := color.CyanString("armed")
		if a.Triggered {
			state = color.GreenString("TRIGGERED")
		}
		fmt.Printf("  %-10s %-10s %s $%.4f  now $%.4f  %s\n",
			a.ID, color.YellowString(name), a.Condition, a.TargetPrice, a.CurrentPrice, state)
	}
	fmt.Println()
}

func runAlertsAdd(cmd *cobra.Command, args []string) {
	body := fmt.Sprintf(`{"walletAddress": %q, "tokenMint": %q, "targetPrice": %g, "condition": %q}`,
		alertWallet, alertMint, alertTarget, alertCondition)

	var created alertView
	if err := apiDo("POST", "/api/alerts", body, &created); err != nil {
		printError(err)
		os.Exit(1)
	}
	if printJSON(cmd, created) {
		return
	}
	color.Green("\nAlert %s created.\n", created.ID)
}

func runAlertsRemove(cmd *cobra.Command, args []string) {
	if err := apiDo("DELETE", "/api/alerts?id="+args[0], "", nil); err != nil {
		printError(err)
		os.Exit(1)
	}
	color.Green("\nAlert %s removed.\n", args[0])
}
