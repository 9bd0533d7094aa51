package validation

import (
	"github.com/ujjain127/better-wealth/internal/api/request"
)

// ValidateRebalance checks that a rebalance request carries a target. Range
// and sum checks on the target belong to the advisor.
func ValidateRebalance(req request.RebalanceRequest) error {
	errors := make(map[string]string)

	if req.TargetAllocation == nil {
		errors["targetAllocation"] = "targetAllocation is required"
	}

	return result(errors)
}
