package router

import (
	"net/http"

	"github.com/shandysiswandi/otpgate/internal/pkg/config"
)

// middlewareMaintenance answers 503 for routes listed in app.maintenance.endpoints.
// The list is read per request so a config reload takes effect immediately.
func middlewareMaintenance(cfg config.Config) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg == nil {
				next.ServeHTTP(w, r)
				return
			}

			route := routeOf(r)
			for _, endpoint := range cfg.GetArray("app.maintenance.endpoints") {
				if endpoint == route {
					writeJSON(w, errorResponse{Detail: "Service is under maintenance"}, http.StatusServiceUnavailable)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
