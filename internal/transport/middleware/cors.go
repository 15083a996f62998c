package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
)

// CORS allows the dashboard origins listed in allowedOrigins, a comma
// separated list where "*" allows any origin.
func CORS(allowedOrigins string) func(http.Handler) http.Handler {
	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPatch}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", RequestIDHeader}),
		handlers.ExposedHeaders([]string{"Content-Disposition", RequestIDHeader}),
		handlers.OptionStatusCode(http.StatusNoContent),
	)
}
