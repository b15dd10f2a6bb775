package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
	"github.com/jolix/portal-api/internal/config"
	"go.uber.org/zap"
)

// CORS builds the cross-origin policy for the portal frontends. The
// configured origin list is authoritative; a wildcard entry or an empty
// list in development falls back to reflecting any origin.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	isDev := environment == "development" || environment == "local" || environment == ""

	switch {
	case slices.Contains(cfg.AllowedOrigins, "*"):
		if !isDev {
			logger.Warn("CORS wildcard origin outside development",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = reflectAnyOrigin

	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS origins configured",
			zap.Strings("origins", cfg.AllowedOrigins))

	case isDev:
		options.AllowOriginFunc = reflectAnyOrigin
		logger.Info("CORS allowing all origins in development")

	default:
		// An empty AllowedOrigins list means "*" to the cors package,
		// so denial has to be explicit.
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
		logger.Warn("no CORS origins configured, denying all cross-origin requests",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}

func reflectAnyOrigin(r *http.Request, origin string) bool {
	return origin != ""
}
