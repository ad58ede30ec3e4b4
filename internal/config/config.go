// internal/config/config.go
package config

import (
	"errors"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Listen         string   `mapstructure:"listen"`
	RPCList        []string `mapstructure:"rpc_list"`
	JupiterURLs    []string `mapstructure:"jupiter_urls"`
	RaydiumURL     string   `mapstructure:"raydium_url"`
	OrcaURL        string   `mapstructure:"orca_url"`
	DexScreenerURL string   `mapstructure:"dexscreener_url"`
	CoinGeckoURL   string   `mapstructure:"coingecko_url"`
	DebugLogging   bool     `mapstructure:"debug_logging"`
	LogFile        string   `mapstructure:"log_file"`
}

const (
	DefaultListen         = ":8080"
	DefaultRaydiumURL     = "https://api-v3.raydium.io"
	DefaultOrcaURL        = "https://api.orca.so"
	DefaultDexScreenerURL = "https://api.dexscreener.com"
	DefaultCoinGeckoURL   = "https://api.coingecko.com"
)

var defaultJupiterURLs = []string{
	"https://quote-api.jup.ag/v6",
	"https://lite-api.jup.ag/v6",
}

var defaultRPCList = []string{
	"https://api.mainnet-beta.solana.com",
}

// Load reads configuration from the optional file at path, with environment
// variables (GAIA_*) and built-in defaults layered underneath.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"listen":          DefaultListen,
		"rpc_list":        defaultRPCList,
		"jupiter_urls":    defaultJupiterURLs,
		"raydium_url":     DefaultRaydiumURL,
		"orca_url":        DefaultOrcaURL,
		"dexscreener_url": DefaultDexScreenerURL,
		"coingecko_url":   DefaultCoinGeckoURL,
		"log_file":        "gaia.log",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("GAIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if cfg.Listen == "" {
		return errors.New("listen address is empty")
	}
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateURL(rpcURL); err != nil {
			return errors.New("invalid RPC URL: " + rpcURL)
		}
	}
	if len(cfg.JupiterURLs) == 0 {
		return errors.New("jupiter_urls is empty")
	}
	apiURLs := append([]string{}, cfg.JupiterURLs...)
	apiURLs = append(apiURLs, cfg.RaydiumURL, cfg.OrcaURL, cfg.DexScreenerURL, cfg.CoinGeckoURL)
	for _, u := range apiURLs {
		if err := validateURL(u); err != nil {
			return errors.New("invalid API URL: " + u)
		}
	}
	return nil
}

func validateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(parsed.Scheme, "http") {
		return errors.New("unsupported protocol")
	}
	if parsed.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
