package model

// Allocation tolerance bounds. A record summing inside [AllocationMinTotal,
// AllocationMaxTotal] is considered valid.
const (
	AllocationMinTotal = 99.0
	AllocationMaxTotal = 101.0
)

// AssetClass names one of the six allocation buckets.
type AssetClass string

const (
	Stocks AssetClass = "stocks"
	Bonds  AssetClass = "bonds"
	REITs  AssetClass = "reits"
	Crypto AssetClass = "crypto"
	Cash   AssetClass = "cash"
	Other  AssetClass = "other"
)

// AssetClasses lists every asset class in canonical order.
var AssetClasses = []AssetClass{Stocks, Bonds, REITs, Crypto, Cash, Other}

// Valid reports whether c is one of the known asset classes.
func (c AssetClass) Valid() bool {
	for _, known := range AssetClasses {
		if c == known {
			return true
		}
	}
	return false
}

// Allocation is the percentage split of a portfolio across asset classes.
// It is a value type; every method uses a value receiver.
type Allocation struct {
	Stocks float64 `json:"stocks"`
	Bonds  float64 `json:"bonds"`
	REITs  float64 `json:"reits"`
	Crypto float64 `json:"crypto"`
	Cash   float64 `json:"cash"`
	Other  float64 `json:"other"`
}

// AllocationCheck is the outcome of Validate.
type AllocationCheck struct {
	Valid bool    `json:"valid"`
	Total float64 `json:"total"`
}

// Get returns the percentage held in class c. Unknown classes read as zero.
func (a Allocation) Get(c AssetClass) float64 {
	switch c {
	case Stocks:
		return a.Stocks
	case Bonds:
		return a.Bonds
	case REITs:
		return a.REITs
	case Crypto:
		return a.Crypto
	case Cash:
		return a.Cash
	case Other:
		return a.Other
	}
	return 0
}

// With returns a copy of a with class c set to pct.
func (a Allocation) With(c AssetClass, pct float64) Allocation {
	switch c {
	case Stocks:
		a.Stocks = pct
	case Bonds:
		a.Bonds = pct
	case REITs:
		a.REITs = pct
	case Crypto:
		a.Crypto = pct
	case Cash:
		a.Cash = pct
	case Other:
		a.Other = pct
	}
	return a
}

// Total returns the sum of all six fields.
func (a Allocation) Total() float64 {
	return a.Stocks + a.Bonds + a.REITs + a.Crypto + a.Cash + a.Other
}

// Validate sums the record and flags it valid when the total lies within the
// rounding tolerance. Individual fields are not range-checked here.
func Validate(a Allocation) AllocationCheck {
	total := a.Total()
	return AllocationCheck{
		Valid: total >= AllocationMinTotal && total <= AllocationMaxTotal,
		Total: total,
	}
}
