package l1_service

import (
	"context"
	"fmt"
	"screenerbacktest/internal/domain"
	"screenerbacktest/internal/logger"
	"screenerbacktest/internal/repository"
	"sort"
	"strings"
	"sync"
	"time"
)

/**

behavior - when the engine asks for a price on a date, figure it out
without repeated db round trips. the series for a (security set, date
range) query is fetched once per run and reused.

missing dates are expected: the exact date is tried first, then up to
30 calendar days back (a fallback), then up to 90 (an extended
fallback). a security with nothing in 90 days is NotAvailable - the
caller excludes it from the trade set, it is never priced at zero.

*/

const (
	fallbackDays         = 30
	extendedFallbackDays = 90
)

type PriceService interface {
	// Resolve returns the usable trade price for a security on asOf,
	// or nil when no price exists within the extended fallback window.
	Resolve(ctx context.Context, securityID int64, asOf time.Time) (*domain.ResolvedPrice, error)
	// ResolveMany resolves each security independently; securities that
	// resolve to NotAvailable are simply absent from the result.
	ResolveMany(ctx context.Context, securityIDs []int64, asOf time.Time) (map[int64]domain.ResolvedPrice, error)
}

// NewPriceService returns a resolver whose cache lives exactly as long
// as the service instance. One backtest run owns one instance; nothing
// is shared across runs.
func NewPriceService(priceRepository repository.PriceRepository) PriceService {
	return &priceServiceHandler{
		PriceRepository: priceRepository,
		cache:           map[string][]domain.PricePoint{},
		mu:              &sync.RWMutex{},
	}
}

type priceServiceHandler struct {
	PriceRepository repository.PriceRepository

	cache map[string][]domain.PricePoint
	mu    *sync.RWMutex
}

func (h *priceServiceHandler) Resolve(ctx context.Context, securityID int64, asOf time.Time) (*domain.ResolvedPrice, error) {
	log := logger.FromContext(ctx)

	// exact date first
	series, err := h.pricesBetween(ctx, []int64{securityID}, asOf, asOf)
	if err != nil {
		return nil, err
	}
	if resolved := latestUsable(series, securityID, asOf); resolved != nil {
		resolved.Source = domain.PriceSourceExact
		return resolved, nil
	}

	// scan back up to 30 calendar days
	series, err = h.pricesBetween(ctx, []int64{securityID}, asOf.AddDate(0, 0, -fallbackDays), asOf)
	if err != nil {
		return nil, err
	}
	if resolved := latestUsable(series, securityID, asOf); resolved != nil {
		resolved.Source = domain.PriceSourceFallback
		log.Infow("using fallback price",
			"securityId", securityID,
			"requested", asOf.Format(time.DateOnly),
			"resolved", resolved.Date.Format(time.DateOnly))
		return resolved, nil
	}

	// extended window, up to 90 days
	series, err = h.pricesBetween(ctx, []int64{securityID}, asOf.AddDate(0, 0, -extendedFallbackDays), asOf)
	if err != nil {
		return nil, err
	}
	if resolved := latestUsable(series, securityID, asOf); resolved != nil {
		resolved.Source = domain.PriceSourceExtendedFallback
		log.Warnw("using extended fallback price",
			"securityId", securityID,
			"requested", asOf.Format(time.DateOnly),
			"resolved", resolved.Date.Format(time.DateOnly))
		return resolved, nil
	}

	log.Errorw("no price data on or before date",
		"securityId", securityID, "requested", asOf.Format(time.DateOnly))
	return nil, nil
}

func (h *priceServiceHandler) ResolveMany(ctx context.Context, securityIDs []int64, asOf time.Time) (map[int64]domain.ResolvedPrice, error) {
	log := logger.FromContext(ctx)

	// one range query spans every security's full fallback window, and
	// each lookup below is answered out of the returned series
	series, err := h.pricesBetween(ctx, securityIDs, asOf.AddDate(0, 0, -extendedFallbackDays), asOf)
	if err != nil {
		return nil, err
	}

	out := map[int64]domain.ResolvedPrice{}
	for _, id := range securityIDs {
		resolved := latestUsable(series, id, asOf)
		if resolved == nil {
			log.Errorw("no price data on or before date",
				"securityId", id, "requested", asOf.Format(time.DateOnly))
			continue
		}
		resolved.Source = sourceForGap(asOf, resolved.Date)
		switch resolved.Source {
		case domain.PriceSourceFallback:
			log.Infow("using fallback price",
				"securityId", id,
				"requested", asOf.Format(time.DateOnly),
				"resolved", resolved.Date.Format(time.DateOnly))
		case domain.PriceSourceExtendedFallback:
			log.Warnw("using extended fallback price",
				"securityId", id,
				"requested", asOf.Format(time.DateOnly),
				"resolved", resolved.Date.Format(time.DateOnly))
		}
		out[id] = *resolved
	}
	return out, nil
}

// sourceForGap classifies a resolved date by its distance from the
// requested one, mirroring the tiers Resolve walks query by query.
func sourceForGap(asOf, resolved time.Time) domain.PriceSource {
	gap := int(asOf.Sub(resolved).Hours() / 24)
	switch {
	case gap <= 0:
		return domain.PriceSourceExact
	case gap <= fallbackDays:
		return domain.PriceSourceFallback
	default:
		return domain.PriceSourceExtendedFallback
	}
}

// latestUsable returns the most recent point at or before asOf with a
// usable trade price.
func latestUsable(series []domain.PricePoint, securityID int64, asOf time.Time) *domain.ResolvedPrice {
	for i := len(series) - 1; i >= 0; i-- {
		p := series[i]
		if p.SecurityID != securityID || p.Date.After(asOf) {
			continue
		}
		price := p.TradePrice()
		if price == nil || !price.IsPositive() {
			continue
		}
		return &domain.ResolvedPrice{
			SecurityID: securityID,
			Date:       p.Date,
			Price:      *price,
		}
	}
	return nil
}

// pricesBetween is the cached form of PriceRepository.ListBetween,
// keyed by the exact parameter tuple. Cached entries are immutable;
// callers always receive a fresh copy.
func (h *priceServiceHandler) pricesBetween(ctx context.Context, securityIDs []int64, start, end time.Time) ([]domain.PricePoint, error) {
	key := cacheKey(securityIDs, start, end)

	h.mu.RLock()
	cached, ok := h.cache[key]
	h.mu.RUnlock()
	if ok {
		return copySeries(cached), nil
	}

	series, err := h.PriceRepository.ListBetween(securityIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}

	h.mu.Lock()
	h.cache[key] = series
	h.mu.Unlock()

	return copySeries(series), nil
}

func cacheKey(securityIDs []int64, start, end time.Time) string {
	ids := make([]int64, len(securityIDs))
	copy(ids, securityIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, "%d,", id)
	}
	fmt.Fprintf(&b, "%s:%s", start.Format(time.DateOnly), end.Format(time.DateOnly))
	return b.String()
}

func copySeries(series []domain.PricePoint) []domain.PricePoint {
	out := make([]domain.PricePoint, len(series))
	copy(out, series)
	return out
}
