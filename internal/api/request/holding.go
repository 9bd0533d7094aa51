package request

// UpsertHoldingRequest represents the request body for setting a position.
// The symbol comes from the URL.
type UpsertHoldingRequest struct {
	Name       string   `json:"name"`
	AssetClass string   `json:"assetClass"`
	Shares     float64  `json:"shares"`
	Price      float64  `json:"price"`
	CostBasis  *float64 `json:"costBasis,omitempty"`
}
