// internal/quote/priceinfo.go
package quote

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/Ibxdevgh/gaia-main/internal/oracle"
	"github.com/Ibxdevgh/gaia-main/internal/token"
)

// buildPriceInfo attaches USD display prices to a normalized quote. The two
// oracle lookups are independent and run concurrently; an unavailable price
// degrades to zero rather than failing the quote.
func buildPriceInfo(ctx context.Context, prices oracle.PriceSource, registry *token.Registry, req Request, outAmount uint64) *PriceInfo {
	var inputPrice, outputPrice float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if p, err := prices.GetUsdPrice(gctx, req.InputMint); err == nil {
			inputPrice = p
		}
		return nil
	})
	g.Go(func() error {
		if p, err := prices.GetUsdPrice(gctx, req.OutputMint); err == nil {
			outputPrice = p
		}
		return nil
	})
	_ = g.Wait()

	inNum := float64(req.Amount) / math.Pow10(registry.Decimals(req.InputMint))
	outNum := float64(outAmount) / math.Pow10(registry.Decimals(req.OutputMint))

	rate := 0.0
	if inNum > 0 {
		rate = outNum / inNum
	}
	return &PriceInfo{
		InputPrice:  inputPrice,
		OutputPrice: outputPrice,
		Rate:        rate,
	}
}
