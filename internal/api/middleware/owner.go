package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ujjain127/better-wealth/internal/api/response"
	"github.com/ujjain127/better-wealth/internal/validation"
)

// OwnerHeader identifies the caller whose portfolio a request acts on.
const OwnerHeader = "X-Owner-ID"

type ownerKey struct{}

// OwnerMiddleware resolves the request owner from the X-Owner-ID header,
// falling back to defaultOwner when the header is absent. It responds 400
// when neither is set or the value is not a UUID.
//
// Example usage in router:
//
//	r.Use(middleware.OwnerMiddleware(cfg.Owner.DefaultID))
func OwnerMiddleware(defaultOwner string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := strings.TrimSpace(r.Header.Get(OwnerHeader))
			if owner == "" {
				owner = defaultOwner
			}

			if owner == "" {
				response.RespondError(w, http.StatusBadRequest, "owner ID is required", "Missing X-Owner-ID header")
				return
			}

			if err := validation.ValidateUUID(owner); err != nil {
				response.RespondError(w, http.StatusBadRequest, "invalid owner ID", err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
		})
	}
}

// WithOwner returns a copy of ctx carrying ownerID.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerFromContext returns the owner resolved by OwnerMiddleware.
func OwnerFromContext(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(ownerKey{}).(string)
	return owner, ok && owner != ""
}
