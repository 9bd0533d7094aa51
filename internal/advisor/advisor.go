// Package advisor turns the gap between a current and a target allocation
// into an ordered list of buy and sell suggestions. It is advisory only: it
// never mutates a portfolio and leaves execution to the caller.
package advisor

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ujjain127/better-wealth/internal/apperrors"
	"github.com/ujjain127/better-wealth/internal/model"
)

// Suggestion actions.
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
)

// driftEpsilon absorbs float noise so that a drift equal to the threshold
// never triggers.
const driftEpsilon = 1e-9

// Holding is the advisor's view of a position.
type Holding struct {
	Symbol     string
	Name       string
	AssetClass model.AssetClass
	Shares     float64
	Value      float64
}

func (h Holding) price() decimal.Decimal {
	if h.Shares <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(h.Value).Div(decimal.NewFromFloat(h.Shares))
}

// Instrument is the broad-market fund preferred when buying into a class.
type Instrument struct {
	Symbol string  `yaml:"symbol" json:"symbol"`
	Name   string  `yaml:"name" json:"name"`
	Price  float64 `yaml:"price" json:"price"`
}

// Options tune a single Suggest call.
type Options struct {
	// Threshold is the drift, in percentage points, a class must exceed
	// before it is acted on.
	Threshold float64
	// FeePerTrade is charged once per suggestion.
	FeePerTrade float64
	// Instruments maps a class to its broad-market instrument.
	Instruments map[model.AssetClass]Instrument
}

// Suggestion is one proposed trade.
type Suggestion struct {
	Action     string           `json:"action"`
	Symbol     string           `json:"symbol"`
	AssetClass model.AssetClass `json:"assetClass"`
	Shares     float64          `json:"shares"`
	Amount     float64          `json:"amount"`
	Reason     string           `json:"reason"`

	drift float64
}

// Impact summarises what applying the plan would change.
type Impact struct {
	CurrentDrift  float64 `json:"currentDrift"`
	ResidualDrift float64 `json:"residualDrift"`
	Turnover      float64 `json:"turnover"`
}

// Plan is the result of Suggest.
type Plan struct {
	Suggestions    []Suggestion `json:"suggestions"`
	EstimatedCost  float64      `json:"estimatedCost"`
	ExpectedImpact Impact       `json:"expectedImpact"`
}

// Suggest compares current against target and proposes trades for every
// class whose drift strictly exceeds opts.Threshold. Overweight classes get a
// sell against their largest holding; underweight classes get a buy of the
// class's broad-market instrument, falling back to its largest holding. Cash
// is never traded directly. Sells come first, then buys, each ordered by
// descending absolute drift.
//
// Suggest returns *apperrors.InvalidTargetError when target falls outside
// the allocation tolerance. No other error is returned.
func Suggest(current, target model.Allocation, holdings []Holding, opts Options) (Plan, error) {
	if check := model.Validate(target); !check.Valid {
		return Plan{}, &apperrors.InvalidTargetError{Total: check.Total}
	}

	byClass := make(map[model.AssetClass][]Holding)
	total := decimal.Zero
	for _, h := range holdings {
		byClass[h.AssetClass] = append(byClass[h.AssetClass], h)
		total = total.Add(decimal.NewFromFloat(h.Value))
	}

	plan := Plan{Suggestions: []Suggestion{}}
	var currentDrift, residualDrift float64
	traded := decimal.Zero

	for _, class := range model.AssetClasses {
		drift := current.Get(class) - target.Get(class)
		currentDrift += math.Abs(drift)

		if math.Abs(drift) <= opts.Threshold+driftEpsilon || class == model.Cash || !total.IsPositive() {
			residualDrift += math.Abs(drift)
			continue
		}

		amount := total.Mul(decimal.NewFromFloat(math.Abs(drift))).Div(decimal.NewFromInt(100))

		var s *Suggestion
		if drift > 0 {
			s = sellSuggestion(class, drift, amount, byClass[class])
		} else {
			s = buySuggestion(class, drift, amount, byClass[class], opts.Instruments)
		}
		if s == nil {
			residualDrift += math.Abs(drift)
			continue
		}

		plan.Suggestions = append(plan.Suggestions, *s)
		traded = traded.Add(decimal.NewFromFloat(s.Amount))
	}

	sort.SliceStable(plan.Suggestions, func(i, j int) bool {
		a, b := plan.Suggestions[i], plan.Suggestions[j]
		if a.Action != b.Action {
			return a.Action == ActionSell
		}
		return math.Abs(a.drift) > math.Abs(b.drift)
	})

	plan.EstimatedCost = decimal.NewFromFloat(opts.FeePerTrade).
		Mul(decimal.NewFromInt(int64(len(plan.Suggestions)))).
		Round(2).
		InexactFloat64()
	plan.ExpectedImpact = Impact{
		CurrentDrift:  round2(currentDrift / 2),
		ResidualDrift: round2(residualDrift / 2),
	}
	if total.IsPositive() {
		plan.ExpectedImpact.Turnover = traded.Div(total).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}

	return plan, nil
}

func sellSuggestion(class model.AssetClass, drift float64, amount decimal.Decimal, held []Holding) *Suggestion {
	h, ok := largest(held)
	if !ok {
		return nil
	}
	price := h.price()
	if !price.IsPositive() {
		return nil
	}

	shares := decimal.Min(amount.Div(price).Truncate(4), decimal.NewFromFloat(h.Shares))
	if !shares.IsPositive() {
		return nil
	}

	return &Suggestion{
		Action:     ActionSell,
		Symbol:     h.Symbol,
		AssetClass: class,
		Shares:     shares.InexactFloat64(),
		Amount:     shares.Mul(price).Round(2).InexactFloat64(),
		Reason:     fmt.Sprintf("Overweight in %s by %.1f points", class, drift),
		drift:      drift,
	}
}

func buySuggestion(class model.AssetClass, drift float64, amount decimal.Decimal, held []Holding, instruments map[model.AssetClass]Instrument) *Suggestion {
	var symbol, reason string
	var price decimal.Decimal

	if inst, ok := instruments[class]; ok && inst.Symbol != "" {
		symbol = inst.Symbol
		reason = fmt.Sprintf("Increase broad market %s exposure by %.1f points", class, -drift)
		price = decimal.NewFromFloat(inst.Price)
		for _, h := range held {
			if h.Symbol == inst.Symbol && h.price().IsPositive() {
				price = h.price()
				break
			}
		}
	} else if h, ok := largest(held); ok {
		symbol = h.Symbol
		reason = fmt.Sprintf("Underweight in %s by %.1f points", class, -drift)
		price = h.price()
	} else {
		return nil
	}

	if !price.IsPositive() {
		return nil
	}
	shares := amount.Div(price).Truncate(4)
	if !shares.IsPositive() {
		return nil
	}

	return &Suggestion{
		Action:     ActionBuy,
		Symbol:     symbol,
		AssetClass: class,
		Shares:     shares.InexactFloat64(),
		Amount:     shares.Mul(price).Round(2).InexactFloat64(),
		Reason:     reason,
		drift:      drift,
	}
}

// largest returns the highest-value holding with a positive share count.
func largest(held []Holding) (Holding, bool) {
	var best Holding
	found := false
	for _, h := range held {
		if h.Shares <= 0 || h.Value <= 0 {
			continue
		}
		if !found || h.Value > best.Value {
			best = h
			found = true
		}
	}
	return best, found
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
