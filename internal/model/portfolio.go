package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ujjain127/better-wealth/internal/apperrors"
)

// Field limits and defaults for a Portfolio.
const (
	MaxNameLength             = 100
	MaxDescriptionLength      = 500
	MinRiskScore              = 0.0
	MaxRiskScore              = 10.0
	DefaultRiskScore          = 5.0
	MinRebalanceThreshold     = 1.0
	MaxRebalanceThreshold     = 20.0
	DefaultRebalanceThreshold = 5.0
)

// Performance holds the portfolio return over fixed horizons, in percent.
type Performance struct {
	OneDay      float64 `json:"oneDay"`
	OneWeek     float64 `json:"oneWeek"`
	OneMonth    float64 `json:"oneMonth"`
	ThreeMonths float64 `json:"threeMonths"`
	SixMonths   float64 `json:"sixMonths"`
	OneYear     float64 `json:"oneYear"`
	YTD         float64 `json:"ytd"`
	Inception   float64 `json:"inception"`
}

// Benchmarks holds index returns the portfolio is compared against, in percent.
type Benchmarks struct {
	SP500  float64 `json:"sp500"`
	Nasdaq float64 `json:"nasdaq"`
	Dow    float64 `json:"dow"`
}

// Portfolio is the aggregate a single owner holds: valuation, return metrics,
// allocation and rebalance scheduling. Construct it with NewPortfolio so that
// defaults and range rules are applied.
type Portfolio struct {
	ID                    string      `json:"id"`
	OwnerID               string      `json:"ownerId"`
	Name                  string      `json:"name"`
	Description           string      `json:"description"`
	TotalValue            float64     `json:"totalValue"`
	TotalCost             float64     `json:"totalCost"`
	TotalReturn           float64     `json:"totalReturn"`
	TotalReturnPercentage float64     `json:"totalReturnPercentage"`
	DayChange             float64     `json:"dayChange"`
	DayChangePercentage   float64     `json:"dayChangePercentage"`
	RiskScore             float64     `json:"riskScore"`
	IsActive              bool        `json:"isActive"`
	Allocation            Allocation  `json:"allocation"`
	TargetAllocation      *Allocation `json:"targetAllocation,omitempty"`
	Performance           Performance `json:"performance"`
	Benchmarks            Benchmarks  `json:"benchmarks"`
	LastRebalanced        *time.Time  `json:"lastRebalanced"`
	NextRebalanceDate     *time.Time  `json:"nextRebalanceDate"`
	AutoRebalance         bool        `json:"autoRebalance"`
	RebalanceThreshold    float64     `json:"rebalanceThreshold"`
	CreatedAt             time.Time   `json:"createdAt"`
	UpdatedAt             time.Time   `json:"updatedAt"`
}

// PortfolioFields carries caller-supplied values for creating or updating a
// portfolio. A nil field keeps the default (on create) or the current value
// (on update).
type PortfolioFields struct {
	Name                  *string      `json:"name"`
	Description           *string      `json:"description"`
	TotalValue            *float64     `json:"totalValue"`
	TotalCost             *float64     `json:"totalCost"`
	TotalReturn           *float64     `json:"totalReturn"`
	TotalReturnPercentage *float64     `json:"totalReturnPercentage"`
	DayChange             *float64     `json:"dayChange"`
	DayChangePercentage   *float64     `json:"dayChangePercentage"`
	RiskScore             *float64     `json:"riskScore"`
	IsActive              *bool        `json:"isActive"`
	Allocation            *Allocation  `json:"allocation"`
	TargetAllocation      *Allocation  `json:"targetAllocation"`
	Performance           *Performance `json:"performance"`
	Benchmarks            *Benchmarks  `json:"benchmarks"`
	NextRebalanceDate     *time.Time   `json:"nextRebalanceDate"`
	AutoRebalance         *bool        `json:"autoRebalance"`
	RebalanceThreshold    *float64     `json:"rebalanceThreshold"`
}

// NewPortfolio validates fields and builds a Portfolio for ownerID in one pass.
// Missing fields take their defaults. Out-of-range values are rejected with an
// *apperrors.ValidationError rather than truncated; a target allocation outside
// the sum tolerance yields an *apperrors.InvalidTargetError.
func NewPortfolio(ownerID string, fields PortfolioFields) (Portfolio, error) {
	now := time.Now().UTC()
	p := Portfolio{
		ID:                 uuid.New().String(),
		OwnerID:            ownerID,
		RiskScore:          DefaultRiskScore,
		IsActive:           true,
		RebalanceThreshold: DefaultRebalanceThreshold,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	p.apply(fields)

	errs := make(map[string]string)
	if strings.TrimSpace(ownerID) == "" {
		errs["ownerId"] = "owner is required"
	}
	if fields.Name == nil {
		errs["name"] = "name is required"
	}
	if err := p.validate(errs); err != nil {
		return Portfolio{}, err
	}
	return p, nil
}

// Update merges the non-nil fields into a copy of p, re-validates the result
// and returns it touched. p itself is never modified.
func (p Portfolio) Update(fields PortfolioFields) (Portfolio, error) {
	updated := p
	if p.TargetAllocation != nil {
		target := *p.TargetAllocation
		updated.TargetAllocation = &target
	}
	updated.apply(fields)

	if err := updated.validate(make(map[string]string)); err != nil {
		return Portfolio{}, err
	}
	return updated.Touch(), nil
}

// Touch returns a copy of p with UpdatedAt set to the current time.
func (p Portfolio) Touch() Portfolio {
	p.UpdatedAt = time.Now().UTC()
	return p
}

// TotalAllocation returns the sum of the six allocation fields.
func (p Portfolio) TotalAllocation() float64 {
	return p.Allocation.Total()
}

// IsValidAllocation reports whether the allocation sums to 100 within tolerance.
func (p Portfolio) IsValidAllocation() bool {
	return Validate(p.Allocation).Valid
}

// WithHoldings returns a touched copy of p whose totals and allocation are
// replaced by the summary of its holdings.
func (p Portfolio) WithHoldings(s HoldingsSummary) Portfolio {
	p.TotalValue = s.TotalValue
	p.TotalCost = s.TotalCost
	p.TotalReturn = s.TotalReturn
	p.TotalReturnPercentage = s.TotalReturnPercentage
	p.Allocation = s.Allocation
	return p.Touch()
}

// Rebalanced returns a touched copy of p stamped as rebalanced at now, with
// the next automatic rebalance one interval later.
func (p Portfolio) Rebalanced(now time.Time, interval time.Duration) Portfolio {
	last := now.UTC()
	next := last.Add(interval)
	p.LastRebalanced = &last
	p.NextRebalanceDate = &next
	return p.Touch()
}

// RebalanceDue reports whether the scheduled sweep should consider p at now.
func (p Portfolio) RebalanceDue(now time.Time) bool {
	if !p.IsActive || !p.AutoRebalance || p.TargetAllocation == nil {
		return false
	}
	return p.NextRebalanceDate == nil || !p.NextRebalanceDate.After(now)
}

func (p *Portfolio) apply(f PortfolioFields) {
	if f.Name != nil {
		p.Name = strings.TrimSpace(*f.Name)
	}
	if f.Description != nil {
		p.Description = *f.Description
	}
	if f.TotalValue != nil {
		p.TotalValue = *f.TotalValue
	}
	if f.TotalCost != nil {
		p.TotalCost = *f.TotalCost
	}
	if f.TotalReturn != nil {
		p.TotalReturn = *f.TotalReturn
	}
	if f.TotalReturnPercentage != nil {
		p.TotalReturnPercentage = *f.TotalReturnPercentage
	}
	if f.DayChange != nil {
		p.DayChange = *f.DayChange
	}
	if f.DayChangePercentage != nil {
		p.DayChangePercentage = *f.DayChangePercentage
	}
	if f.RiskScore != nil {
		p.RiskScore = *f.RiskScore
	}
	if f.IsActive != nil {
		p.IsActive = *f.IsActive
	}
	if f.Allocation != nil {
		p.Allocation = *f.Allocation
	}
	if f.TargetAllocation != nil {
		target := *f.TargetAllocation
		p.TargetAllocation = &target
	}
	if f.Performance != nil {
		p.Performance = *f.Performance
	}
	if f.Benchmarks != nil {
		p.Benchmarks = *f.Benchmarks
	}
	if f.NextRebalanceDate != nil {
		next := f.NextRebalanceDate.UTC()
		p.NextRebalanceDate = &next
	}
	if f.AutoRebalance != nil {
		p.AutoRebalance = *f.AutoRebalance
	}
	if f.RebalanceThreshold != nil {
		p.RebalanceThreshold = *f.RebalanceThreshold
	}
}

// validate adds every range violation of p to errs. Field errors take
// precedence over a target allocation outside tolerance.
func (p Portfolio) validate(errs map[string]string) error {
	if _, seen := errs["name"]; !seen {
		if p.Name == "" {
			errs["name"] = "name is required"
		} else if utf8.RuneCountInString(p.Name) > MaxNameLength {
			errs["name"] = "name must be 100 characters or less"
		}
	}
	if utf8.RuneCountInString(p.Description) > MaxDescriptionLength {
		errs["description"] = "description must be 500 characters or less"
	}
	if p.TotalValue < 0 {
		errs["totalValue"] = "totalValue cannot be negative"
	}
	if p.TotalCost < 0 {
		errs["totalCost"] = "totalCost cannot be negative"
	}
	if p.RiskScore < MinRiskScore || p.RiskScore > MaxRiskScore {
		errs["riskScore"] = "riskScore must be between 0 and 10"
	}
	if p.RebalanceThreshold < MinRebalanceThreshold || p.RebalanceThreshold > MaxRebalanceThreshold {
		errs["rebalanceThreshold"] = "rebalanceThreshold must be between 1 and 20"
	}
	for _, c := range AssetClasses {
		if v := p.Allocation.Get(c); v < 0 || v > 100 {
			errs["allocation."+string(c)] = "must be between 0 and 100"
		}
		if p.TargetAllocation != nil {
			if v := p.TargetAllocation.Get(c); v < 0 || v > 100 {
				errs["targetAllocation."+string(c)] = "must be between 0 and 100"
			}
		}
	}

	if len(errs) > 0 {
		return &apperrors.ValidationError{Fields: errs}
	}

	if p.TargetAllocation != nil {
		if check := Validate(*p.TargetAllocation); !check.Valid {
			return &apperrors.InvalidTargetError{Total: check.Total}
		}
	}
	return nil
}
