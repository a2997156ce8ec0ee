package server

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/cmdvault/cmdvault/pkg/application"
	"github.com/cmdvault/cmdvault/pkg/configuration"
	"github.com/cmdvault/cmdvault/pkg/middleware"
	"github.com/cmdvault/cmdvault/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

// publicPrefixes lists paths served without a bearer token.
var publicPrefixes = []string{"/token", "/refresh", "/register", "/health"}

func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application
	conf := options.Configuration

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(conf.AllowedOrigins, ","),
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch,
			http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type", conf.RequestIDHeader},
		AllowCredentials: true,
	})

	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger),
		corsHandler.Handler,
		middleware.WithPool(options.Pool),
	}
	if conf.RateLimit.Enabled {
		middlewares = append(middlewares, middleware.RateLimit(conf.RateLimit.GlobalRPS))
	}

	public := append([]string{}, publicPrefixes...)
	if conf.Prometheus.Enabled {
		public = append(public, conf.Prometheus.Path)
	}
	middlewares = append(middlewares, middleware.Authorize(conf.JWT.Secret, public...))

	app.RegisterMiddleware(middlewares...)
	app.RegisterControllers(NewHealthController(options.Pool))

	return server.NewHTTPServer(app, notFoundHandler(), methodNotAllowedHandler()), nil
}

func notFoundHandler() http.Handler {
	return jsonError(http.StatusNotFound, "not found")
}

func methodNotAllowedHandler() http.Handler {
	return jsonError(http.StatusMethodNotAllowed, "method not allowed")
}

func jsonError(status int, detail string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"detail":"` + detail + `"}`))
	})
}
