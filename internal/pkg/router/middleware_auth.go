package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
)

// Bearer rejects requests without an "Authorization: Bearer <token>" header and
// stores the raw token in the request context for the handler to verify.
func Bearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := strings.Fields(r.Header.Get("Authorization"))
		if len(p) != 2 || !strings.EqualFold(p[0], "Bearer") {
			writeUnauthorized(w, "Not authenticated")
			return
		}

		next.ServeHTTP(w, r.WithContext(jwt.SetToken(r.Context(), p[1])))
	})
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeJSON(w, errorResponse{Detail: detail}, http.StatusUnauthorized)
}
