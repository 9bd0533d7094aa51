package request

import "github.com/ujjain127/better-wealth/internal/model"

// CreatePortfolioRequest represents the request body for creating a portfolio.
// Omitted fields take their defaults.
type CreatePortfolioRequest struct {
	model.PortfolioFields
}

// UpdatePortfolioRequest represents the request body for updating the caller's
// portfolio. Only supplied fields change.
type UpdatePortfolioRequest struct {
	model.PortfolioFields
}

// RebalanceRequest represents the request body for computing rebalance suggestions.
type RebalanceRequest struct {
	TargetAllocation *model.Allocation `json:"targetAllocation"`
}
