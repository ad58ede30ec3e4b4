package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "gaiactl",
	Short: "CLI for the Solana dashboard backend",
	Long: `gaiactl queries a running gaiad instance: swap quotes, SOL market
data, wallet balances, trending tokens and price alerts.

Examples:
  gaiactl price
  gaiactl quote --in So111...112 --out EPjF...t1v --amount 1000000000
  gaiactl balance <wallet>
  gaiactl trending`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "gaiad base URL")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output raw JSON")
}

func printError(err error) {
	color.Red("\nError: %v\n", err)
}

// apiGet fetches path from the server and decodes the JSON response into out.
// Non-2xx responses surface the server's error message.
func apiGet(path string, out any) error {
	return apiDo(http.MethodGet, path, "", out)
}

func apiDo(method, path, body string, out any) error {
	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, serverURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Code != "" {
				return fmt.Errorf("%s (%s)", apiErr.Error, apiErr.Code)
			}
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// printJSON pretty-prints v when --json is set and returns true.
func printJSON(cmd *cobra.Command, v any) bool {
	if jsonOut, _ := cmd.Flags().GetBool("json"); !jsonOut {
		return false
	}
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
	return true
}
