package ledger

import (
	"fmt"
	"screenerbacktest/internal/domain"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type State int

const (
	StateFunded State = iota
	StateHolding
	StateLiquidated
)

func (s State) String() string {
	switch s {
	case StateFunded:
		return "funded"
	case StateHolding:
		return "holding"
	case StateLiquidated:
		return "liquidated"
	}
	return "unknown"
}

// WeightDriftTolerance is the per-security weight change below which a
// rebalance is suppressed entirely.
var WeightDriftTolerance = decimal.NewFromFloat(0.01)

// Target is one entry of the portfolio the ledger should trade into:
// the security, its weight, and its resolved trade price.
type Target struct {
	Security domain.Security
	Weight   decimal.Decimal
	Price    decimal.Decimal
}

// Ledger is the portfolio state machine for one backtest run. It owns
// cash, open lots and the append-only transaction/snapshot histories.
// It is strictly sequential: every rebalance depends on the state the
// previous one produced, so a Ledger must never be shared across
// goroutines.
type Ledger struct {
	state        State
	cash         decimal.Decimal
	lots         map[int64][]*domain.Lot
	securities   map[int64]domain.Security
	transactions []domain.Transaction
	snapshots    []domain.PortfolioSnapshot

	log *zap.SugaredLogger
}

// New returns a funded ledger holding initialCapital in cash.
func New(initialCapital decimal.Decimal, log *zap.SugaredLogger) *Ledger {
	return &Ledger{
		state:      StateFunded,
		cash:       domain.RoundCurrency(initialCapital),
		lots:       map[int64][]*domain.Lot{},
		securities: map[int64]domain.Security{},
		log:        log,
	}
}

func (l *Ledger) State() State                          { return l.state }
func (l *Ledger) Cash() decimal.Decimal                 { return l.cash }
func (l *Ledger) Transactions() []domain.Transaction    { return l.transactions }
func (l *Ledger) Snapshots() []domain.PortfolioSnapshot { return l.snapshots }

// HeldSecurityIDs returns the ids of securities with open lots, in
// ascending order so iteration is deterministic.
func (l *Ledger) HeldSecurityIDs() []int64 {
	ids := make([]int64, 0, len(l.lots))
	for id, lots := range l.lots {
		if len(lots) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Holding aggregates the open lots of one security. Nil when nothing
// is held.
func (l *Ledger) Holding(securityID int64) *domain.Holding {
	lots := l.lots[securityID]
	if len(lots) == 0 {
		return nil
	}

	quantity := decimal.Zero
	cost := decimal.Zero
	for _, lot := range lots {
		quantity = quantity.Add(lot.Quantity)
		cost = cost.Add(lot.Quantity.Mul(lot.UnitCost))
	}

	return &domain.Holding{
		SecurityID: securityID,
		Symbol:     l.securities[securityID].Symbol,
		Quantity:   quantity,
		AvgCost:    domain.RoundCurrency(cost.Div(quantity)),
	}
}

// Holdings returns the aggregated view of every open position.
func (l *Ledger) Holdings() []domain.Holding {
	out := []domain.Holding{}
	for _, id := range l.HeldSecurityIDs() {
		out = append(out, *l.Holding(id))
	}
	return out
}

// TotalValue is cash plus the market value of every priced holding.
// Holdings missing from the price map are excluded and logged, never
// silently valued at zero in the math that matters - the snapshot
// records them with a zero current price so the gap is visible.
func (l *Ledger) TotalValue(prices map[int64]decimal.Decimal) decimal.Decimal {
	total := l.cash
	for _, id := range l.HeldSecurityIDs() {
		price, ok := prices[id]
		if !ok {
			l.log.Warnw("no price for held security, excluding from total value",
				"securityId", id, "symbol", l.securities[id].Symbol)
			continue
		}
		total = total.Add(l.Holding(id).Quantity.Mul(price))
	}
	return domain.RoundCurrency(total)
}

// CurrentWeights returns the value weight of each held security. The
// second return is false when any holding cannot be priced, in which
// case the weights are unusable for drift comparison.
func (l *Ledger) CurrentWeights(prices map[int64]decimal.Decimal) (map[int64]decimal.Decimal, bool) {
	weights := map[int64]decimal.Decimal{}
	total := l.TotalValue(prices)
	if !total.IsPositive() {
		return weights, len(l.lots) == 0
	}

	for _, id := range l.HeldSecurityIDs() {
		price, ok := prices[id]
		if !ok {
			return nil, false
		}
		value := l.Holding(id).Quantity.Mul(price)
		weights[id] = value.DivRound(total, domain.WeightPlaces)
	}
	return weights, true
}

// buy executes a purchase, creating a new lot. The order is rejected
// (logged, no transaction) when its cost would exceed available cash.
func (l *Ledger) buy(date time.Time, security domain.Security, quantity decimal.Decimal, price decimal.Decimal, prices map[int64]decimal.Decimal) {
	if !price.IsPositive() || !quantity.IsPositive() {
		l.log.Errorw("rejecting buy with non-positive price or quantity",
			"symbol", security.Symbol, "price", price, "quantity", quantity)
		return
	}

	cost := domain.RoundCurrency(quantity.Mul(price))
	if cost.GreaterThan(l.cash) {
		l.log.Warnw("insufficient cash for buy order",
			"symbol", security.Symbol, "cost", cost, "cash", l.cash)
		return
	}

	l.cash = l.cash.Sub(cost)
	l.securities[security.SecurityID] = security
	l.lots[security.SecurityID] = append(l.lots[security.SecurityID], &domain.Lot{
		SecurityID: security.SecurityID,
		AcquiredOn: date,
		Quantity:   quantity,
		UnitCost:   price,
	})

	l.record(date, security, domain.ActionBuy, quantity, price, cost, prices)
	l.state = StateHolding
}

// sell executes a sale, consuming open lots oldest-first. The quantity
// is capped at the held quantity - a position can never go negative.
func (l *Ledger) sell(date time.Time, securityID int64, quantity decimal.Decimal, price decimal.Decimal, prices map[int64]decimal.Decimal) decimal.Decimal {
	lots := l.lots[securityID]
	if len(lots) == 0 {
		l.log.Warnw("cannot sell security not in portfolio", "securityId", securityID)
		return decimal.Zero
	}
	if !price.IsPositive() {
		l.log.Errorw("rejecting sell with non-positive price",
			"securityId", securityID, "price", price)
		return decimal.Zero
	}

	held := l.Holding(securityID).Quantity
	if quantity.GreaterThan(held) {
		quantity = held
	}

	remaining := quantity
	kept := lots[:0]
	for _, lot := range lots {
		if !remaining.IsPositive() {
			kept = append(kept, lot)
			continue
		}
		if lot.Quantity.LessThanOrEqual(remaining) {
			remaining = remaining.Sub(lot.Quantity)
			continue
		}
		lot.Quantity = lot.Quantity.Sub(remaining)
		remaining = decimal.Zero
		kept = append(kept, lot)
	}
	if len(kept) == 0 {
		delete(l.lots, securityID)
	} else {
		l.lots[securityID] = kept
	}

	proceeds := domain.RoundCurrency(quantity.Mul(price))
	l.cash = l.cash.Add(proceeds)

	l.record(date, l.securities[securityID], domain.ActionSell, quantity, price, proceeds, prices)
	return quantity
}

func (l *Ledger) record(date time.Time, security domain.Security, action domain.TransactionAction, quantity, price, gross decimal.Decimal, prices map[int64]decimal.Decimal) {
	l.transactions = append(l.transactions, domain.Transaction{
		Date:           date,
		SecurityID:     security.SecurityID,
		Symbol:         security.Symbol,
		SecurityName:   security.Name,
		Action:         action,
		Quantity:       quantity,
		Price:          price,
		GrossValue:     gross,
		CashAfter:      l.cash,
		PortfolioValue: l.TotalValue(prices),
	})
}

// Rebalance trades the portfolio into the target composition and
// records a snapshot. It returns false without touching any state when
// the target weights are within WeightDriftTolerance of the current
// weights over an identical security set.
//
// heldPrices must carry a resolved price for every security the caller
// could resolve; holdings absent from it are flagged and left in place
// (they simply cannot be sold this round).
func (l *Ledger) Rebalance(date time.Time, targets []Target, heldPrices map[int64]decimal.Decimal) (bool, error) {
	if l.state == StateLiquidated {
		return false, fmt.Errorf("cannot rebalance a liquidated ledger")
	}
	if len(targets) == 0 {
		return false, fmt.Errorf("cannot rebalance into an empty target set")
	}

	prices := map[int64]decimal.Decimal{}
	for id, p := range heldPrices {
		prices[id] = p
	}
	for _, t := range targets {
		if !t.Price.IsPositive() {
			return false, fmt.Errorf("target %s has non-positive price %s", t.Security.Symbol, t.Price)
		}
		prices[t.Security.SecurityID] = t.Price
	}

	if l.withinDriftTolerance(targets, prices) {
		l.log.Infow("target weights within tolerance of current, skipping rebalance",
			"date", date.Format(time.DateOnly))
		return false, nil
	}

	// sell every current holding in full
	for _, id := range l.HeldSecurityIDs() {
		price, ok := prices[id]
		if !ok {
			l.log.Errorw("cannot sell holding with unresolvable price",
				"securityId", id, "symbol", l.securities[id].Symbol,
				"date", date.Format(time.DateOnly))
			continue
		}
		l.sell(date, id, l.Holding(id).Quantity, price, prices)
	}

	// allocate cash across targets and buy whole shares
	cashAfterSells := l.cash
	for _, t := range targets {
		allocation := domain.RoundCurrency(cashAfterSells.Mul(t.Weight))
		quantity := allocation.Div(t.Price).Floor()
		if !quantity.IsPositive() {
			// target too small to buy a single share
			continue
		}
		l.buy(date, t.Security, quantity, t.Price, prices)
	}

	l.TakeSnapshot(date, prices)
	return true, nil
}

// withinDriftTolerance reports whether the new targets cover exactly
// the held securities with every weight within tolerance.
func (l *Ledger) withinDriftTolerance(targets []Target, prices map[int64]decimal.Decimal) bool {
	current, ok := l.CurrentWeights(prices)
	if !ok || len(current) == 0 {
		return false
	}
	if len(current) != len(targets) {
		return false
	}
	for _, t := range targets {
		cw, held := current[t.Security.SecurityID]
		if !held {
			return false
		}
		if cw.Sub(t.Weight).Abs().GreaterThan(WeightDriftTolerance) {
			return false
		}
	}
	return true
}

// TakeSnapshot records the portfolio state at date using the given
// prices. Holdings without a price are recorded with zero current
// price and excluded from the total, keeping the conservation
// invariant over what could actually be valued.
func (l *Ledger) TakeSnapshot(date time.Time, prices map[int64]decimal.Decimal) domain.PortfolioSnapshot {
	details := []domain.HoldingDetail{}
	holdingsValue := decimal.Zero

	for _, id := range l.HeldSecurityIDs() {
		holding := l.Holding(id)
		detail := domain.HoldingDetail{
			SecurityID: id,
			Symbol:     holding.Symbol,
			Quantity:   holding.Quantity,
			AvgCost:    holding.AvgCost,
		}
		if price, ok := prices[id]; ok {
			detail.CurrentPrice = price
			detail.MarketValue = domain.RoundCurrency(holding.Quantity.Mul(price))
			holdingsValue = holdingsValue.Add(detail.MarketValue)
		} else {
			l.log.Warnw("no price for holding at snapshot, recording zero value",
				"securityId", id, "date", date.Format(time.DateOnly))
		}
		details = append(details, detail)
	}

	snapshot := domain.PortfolioSnapshot{
		Date:       date,
		Cash:       l.cash,
		Holdings:   details,
		TotalValue: domain.RoundCurrency(l.cash.Add(holdingsValue)),
	}
	l.snapshots = append(l.snapshots, snapshot)
	return snapshot
}

// Liquidate sells every remaining holding at the given prices and
// moves the ledger to its terminal state. Holdings that cannot be
// priced are returned as unliquidated positions and excluded from the
// final cash total.
func (l *Ledger) Liquidate(date time.Time, prices map[int64]decimal.Decimal) []domain.UnliquidatedPosition {
	unliquidated := []domain.UnliquidatedPosition{}

	for _, id := range l.HeldSecurityIDs() {
		holding := l.Holding(id)
		price, ok := prices[id]
		if !ok {
			l.log.Errorw("cannot liquidate holding, no resolvable price",
				"securityId", id, "symbol", holding.Symbol,
				"quantity", holding.Quantity, "date", date.Format(time.DateOnly))
			unliquidated = append(unliquidated, domain.UnliquidatedPosition{
				SecurityID: id,
				Symbol:     holding.Symbol,
				Quantity:   holding.Quantity,
				AvgCost:    holding.AvgCost,
			})
			continue
		}
		l.sell(date, id, holding.Quantity, price, prices)
	}

	l.TakeSnapshot(date, prices)
	l.state = StateLiquidated
	return unliquidated
}
