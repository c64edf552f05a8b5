// Package mockserver is a small in-memory banking backend that speaks the
// same REST contract as the production services. It backs the serve-demo
// command and the integration tests.
package mockserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"banking-dashboard/internal/metrics"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const DefaultSecret = "banking-dashboard-demo-secret"

type Config struct {
	Secret string
	Logger *log.Logger
	// Registry receives the server's request metrics. A fresh registry is
	// created when nil.
	Registry *prometheus.Registry
	// Now overrides the clock, for token expiry tests.
	Now func() time.Time
}

type Server struct {
	bank     *bank
	secret   []byte
	log      *log.Logger
	metrics  metrics.Collector
	registry *prometheus.Registry
	now      func() time.Time
	router   *mux.Router
}

func New(cfg Config) (*Server, error) {
	if cfg.Secret == "" {
		cfg.Secret = DefaultSecret
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	collector := metrics.NewPrometheusCollector("banking_demo")
	if err := collector.Register(cfg.Registry); err != nil {
		return nil, err
	}

	b, err := newBank(cfg.Now)
	if err != nil {
		return nil, err
	}

	s := &Server{
		bank:     b,
		secret:   []byte(cfg.Secret),
		log:      cfg.Logger.WithPrefix("demo"),
		metrics:  collector,
		registry: cfg.Registry,
		now:      cfg.Now,
	}
	s.routes()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(s.metricsMiddleware())

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "UP"})
	}).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/v1/signin", s.signIn).Methods("POST")
	api.HandleFunc("/auth/v1/signup", s.signUp).Methods("POST")

	authed := api.NewRoute().Subrouter()
	authed.Use(s.requireAuth())

	authed.HandleFunc("/accounts/v1", adminOnly(s.createAccount)).Methods("POST")
	authed.HandleFunc("/accounts/v1/user/{profileId}", s.userAccounts).Methods("GET")
	authed.HandleFunc("/accounts/v1/{accountNumber}", adminOnly(s.updateAccount)).Methods("PUT")
	authed.HandleFunc("/accounts/v1/{accountNumber}/balance", s.accountBalance).Methods("GET")
	authed.HandleFunc("/accounts/v1/{accountNumber}/activate", adminOnly(s.setAccountStatus(true))).Methods("PATCH")
	authed.HandleFunc("/accounts/v1/{accountNumber}/deactivate", adminOnly(s.setAccountStatus(false))).Methods("PATCH")
	authed.HandleFunc("/accounts/v1/{accountNumber}/credit", adminOnly(s.adjustBalance(true))).Methods("POST")
	authed.HandleFunc("/accounts/v1/{accountNumber}/debit", adminOnly(s.adjustBalance(false))).Methods("POST")
	authed.HandleFunc("/accounts/v1/{accountNumber}/status", adminOnly(s.accountStatus)).Methods("GET")

	authed.HandleFunc("/transactions/v1/deposit", s.deposit).Methods("POST")
	authed.HandleFunc("/transactions/v1/withdraw", s.withdraw).Methods("POST")
	authed.HandleFunc("/transactions/v1/transfer", s.transfer).Methods("POST")
	authed.HandleFunc("/transactions/v1/user/{userId}", s.userTransactions).Methods("GET")
	authed.HandleFunc("/transactions/v1/{reference}", s.transactionByReference).Methods("GET")

	authed.HandleFunc("/profile/v1/me", s.me).Methods("GET")
	authed.HandleFunc("/profile/v1/me", s.updateMe).Methods("PUT")
	authed.HandleFunc("/profile/v1/{id}", adminOnly(s.profileByID)).Methods("GET")

	authed.HandleFunc("/payments/v1/process", s.processPayment).Methods("POST")
	authed.HandleFunc("/payments/v1/{transactionId}", s.paymentDetails).Methods("GET")

	authed.HandleFunc("/notifications/v1", adminOnly(s.allNotifications)).Methods("GET")
	authed.HandleFunc("/notifications/v1/user/{userId}", s.userNotifications).Methods("GET")
	authed.HandleFunc("/notifications/v1/transaction/{reference}", s.transactionNotifications).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})

	s.router = r
}

func (s *Server) metricsMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			srw := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(srw, r)

			endpoint := routeTemplate(r)
			s.metrics.RecordRequest(r.Method, endpoint, srw.statusCode, time.Since(start))
			s.log.Debug("handled", "method", r.Method, "endpoint", endpoint, "status", srw.statusCode)
		})
	}
}

type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// routeTemplate returns the matched route's path template for metrics.
func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return r.URL.Path
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return r.URL.Path
	}
	return tpl
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeError maps bank errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errNotFound):
		writeMessage(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, errForbiddenAccount):
		writeMessage(w, http.StatusForbidden, err.Error())
	default:
		writeMessage(w, http.StatusBadRequest, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed request body")
		return false
	}
	return true
}
