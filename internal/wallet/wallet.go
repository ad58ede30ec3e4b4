// ==================================
// File: internal/wallet/wallet.go
// ==================================
package wallet

import (
	"context"
	"encoding/binary"
	"fmt"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Ibxdevgh/gaia-main/internal/coingecko"
	"github.com/Ibxdevgh/gaia-main/internal/oracle"
	"github.com/Ibxdevgh/gaia-main/internal/token"
)

const (
	lamportsPerSol = 1_000_000_000

	// SPL token account layout offsets.
	tokenAccountMintOffset   = 0
	tokenAccountAmountOffset = 64
	tokenAccountSize         = 165

	maxSignatures = 50
	rpcMaxRetries = 3
)

// rpcAPI is the slice of the Solana RPC surface the service needs.
type rpcAPI interface {
	GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
	GetTokenAccountsByOwner(ctx context.Context, owner solana.PublicKey, conf *rpc.GetTokenAccountsConfig, opts *rpc.GetTokenAccountsOpts) (*rpc.GetTokenAccountsResult, error)
	GetSignaturesForAddressWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetSignaturesForAddressOpts) ([]*rpc.TransactionSignature, error)
}

// TokenBalance is one SPL token holding of a wallet.
type TokenBalance struct {
	Mint      string  `json:"mint"`
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	RawAmount uint64  `json:"rawAmount,string"`
	Decimals  int     `json:"decimals"`
}

// Balance is a wallet's SOL and SPL token holdings.
type Balance struct {
	Address  string         `json:"address"`
	Sol      float64        `json:"sol"`
	Lamports uint64         `json:"lamports,string"`
	Tokens   []TokenBalance `json:"tokens"`
}

// PortfolioItem is a priced holding.
type PortfolioItem struct {
	TokenBalance
	PriceUsd float64 `json:"priceUsd"`
	ValueUsd float64 `json:"valueUsd"`
}

// Portfolio is a wallet's holdings valued in USD, largest positions first.
type Portfolio struct {
	Address       string          `json:"address"`
	TotalValueUsd float64         `json:"totalValueUsd"`
	SolBalance    float64         `json:"solBalance"`
	SolValueUsd   float64         `json:"solValueUsd"`
	SolChange24h  float64         `json:"solChange24h"`
	Items         []PortfolioItem `json:"items"`
}

// TransactionRecord is one confirmed signature touching a wallet.
type TransactionRecord struct {
	Signature string     `json:"signature"`
	Slot      uint64     `json:"slot"`
	BlockTime *time.Time `json:"blockTime,omitempty"`
	Succeeded bool       `json:"succeeded"`
	Memo      string     `json:"memo,omitempty"`
}

// Service answers read-only wallet queries against the Solana RPC.
type Service struct {
	rpc       rpcAPI
	registry  *token.Registry
	prices    oracle.PriceSource
	coingecko *coingecko.Client
	logger    *zap.Logger
}

func NewService(rpcClient rpcAPI, registry *token.Registry, prices oracle.PriceSource, cg *coingecko.Client, logger *zap.Logger) *Service {
	return &Service{
		rpc:       rpcClient,
		registry:  registry,
		prices:    prices,
		coingecko: cg,
		logger:    logger.Named("wallet"),
	}
}

// Balance fetches a wallet's SOL balance and every non-empty SPL token
// account it owns. RPC calls retry with exponential backoff because public
// nodes rate-limit aggressively.
func (s *Service) Balance(ctx context.Context, address string) (*Balance, error) {
	owner, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, fmt.Errorf("invalid wallet address: %w", err)
	}

	lamports, err := backoff.Retry(ctx, func() (uint64, error) {
		res, err := s.rpc.GetBalance(ctx, owner, rpc.CommitmentConfirmed)
		if err != nil {
			return 0, err
		}
		return res.Value, nil
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(rpcMaxRetries))
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	accounts, err := backoff.Retry(ctx, func() (*rpc.GetTokenAccountsResult, error) {
		return s.rpc.GetTokenAccountsByOwner(ctx, owner,
			&rpc.GetTokenAccountsConfig{ProgramId: solana.TokenProgramID.ToPointer()},
			&rpc.GetTokenAccountsOpts{
				Commitment: rpc.CommitmentConfirmed,
				Encoding:   solana.EncodingBase64,
			})
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(rpcMaxRetries))
	if err != nil {
		return nil, fmt.Errorf("failed to get token accounts: %w", err)
	}

	tokens := make([]TokenBalance, 0, len(accounts.Value))
	for _, acc := range accounts.Value {
		tb, ok := s.parseTokenAccount(acc.Account.Data.GetBinary())
		if !ok {
			continue
		}
		tokens = append(tokens, tb)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].Amount > tokens[j].Amount })

	return &Balance{
		Address:  address,
		Sol:      float64(lamports) / lamportsPerSol,
		Lamports: lamports,
		Tokens:   tokens,
	}, nil
}

// parseTokenAccount extracts the mint and amount from raw SPL token account
// data. Empty accounts are skipped.
func (s *Service) parseTokenAccount(data []byte) (TokenBalance, bool) {
	if len(data) < tokenAccountSize {
		return TokenBalance{}, false
	}
	amount := binary.LittleEndian.Uint64(data[tokenAccountAmountOffset : tokenAccountAmountOffset+8])
	if amount == 0 {
		return TokenBalance{}, false
	}
	mint := solana.PublicKeyFromBytes(data[tokenAccountMintOffset : tokenAccountMintOffset+32]).String()

	decimals := s.registry.Decimals(mint)
	meta, _ := s.registry.Lookup(mint)
	return TokenBalance{
		Mint:      mint,
		Symbol:    meta.Symbol,
		Name:      meta.Name,
		Amount:    float64(amount) / pow10(decimals),
		RawAmount: amount,
		Decimals:  decimals,
	}, true
}

// Portfolio values a wallet's holdings in USD. Token pricing runs
// concurrently; a token without a discoverable price stays in the portfolio
// with a zero value rather than failing the whole call.
func (s *Service) Portfolio(ctx context.Context, address string) (*Portfolio, error) {
	balance, err := s.Balance(ctx, address)
	if err != nil {
		return nil, err
	}

	solPrice, err := s.coingecko.SolPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to price SOL: %w", err)
	}

	items := make([]PortfolioItem, len(balance.Tokens))
	g, gctx := errgroup.WithContext(ctx)
	for i, tb := range balance.Tokens {
		i, tb := i, tb
		g.Go(func() error {
			price, err := s.prices.GetUsdPrice(gctx, tb.Mint)
			if err != nil {
				s.logger.Debug("token has no price", zap.String("mint", tb.Mint), zap.Error(err))
				price = 0
			}
			items[i] = PortfolioItem{
				TokenBalance: tb,
				PriceUsd:     price,
				ValueUsd:     tb.Amount * price,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ValueUsd > items[j].ValueUsd })

	solValue := balance.Sol * solPrice.Price
	total := solValue
	for _, item := range items {
		total += item.ValueUsd
	}

	return &Portfolio{
		Address:       address,
		TotalValueUsd: total,
		SolBalance:    balance.Sol,
		SolValueUsd:   solValue,
		SolChange24h:  solPrice.Change24h,
		Items:         items,
	}, nil
}

// Transactions lists the wallet's most recent signatures, newest first.
func (s *Service) Transactions(ctx context.Context, address string, limit int) ([]TransactionRecord, error) {
	owner, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, fmt.Errorf("invalid wallet address: %w", err)
	}
	if limit <= 0 || limit > maxSignatures {
		limit = maxSignatures
	}

	sigs, err := backoff.Retry(ctx, func() ([]*rpc.TransactionSignature, error) {
		return s.rpc.GetSignaturesForAddressWithOpts(ctx, owner, &rpc.GetSignaturesForAddressOpts{
			Limit:      &limit,
			Commitment: rpc.CommitmentConfirmed,
		})
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(rpcMaxRetries))
	if err != nil {
		return nil, fmt.Errorf("failed to get signatures: %w", err)
	}

	records := make([]TransactionRecord, 0, len(sigs))
	for _, sig := range sigs {
		rec := TransactionRecord{
			Signature: sig.Signature.String(),
			Slot:      sig.Slot,
			Succeeded: sig.Err == nil,
		}
		if sig.BlockTime != nil {
			t := sig.BlockTime.Time()
			rec.BlockTime = &t
		}
		if sig.Memo != nil {
			rec.Memo = *sig.Memo
		}
		records = append(records, rec)
	}
	return records, nil
}

func pow10(n int) float64 {
	v := 1.0
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
