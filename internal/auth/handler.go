package auth

import (
	"net/http"

	"github.com/frahmantamala/ghost-payroll/internal"
	"github.com/frahmantamala/ghost-payroll/internal/transport"
	"github.com/frahmantamala/ghost-payroll/pkg/logger"
)

type Verifier interface {
	Verify(tokenString string) (*Claims, error)
}

type Handler struct {
	*transport.BaseHandler
	Verifier Verifier
}

func NewHandler(baseHandler *transport.BaseHandler, verifier Verifier) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Verifier:    verifier,
	}
}

// AuthMiddleware resolves the bearer token to an account and places the
// account id on the request context for the domain handlers.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleServiceError(w, internal.ErrMissingAccount)
			return
		}

		claims, err := h.Verifier.Verify(token)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		accountID := claims.AccountID()
		ctx := internal.ContextWithAccountID(r.Context(), accountID)
		ctx = logger.With(ctx, "account_id", accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
