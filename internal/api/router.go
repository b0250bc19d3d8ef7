package api

import (
	"log/slog"
	"net/http"
	"time"

	"lending-engine/internal/api/handler"
	mw "lending-engine/internal/api/middleware"
	"lending-engine/internal/config"
	"lending-engine/internal/domain/application"
	"lending-engine/internal/domain/authcode"
	"lending-engine/internal/domain/borrower"
	"lending-engine/internal/domain/loan"

	_ "lending-engine/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/redis/go-redis/v9"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Services struct {
	Borrower    borrower.BorrowerService
	Application application.ApplicationService
	AuthCode    authcode.AuthCodeService
	Loan        loan.LoanService
}

func SetupRouter(services Services, cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, redisClient, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupAuthRoutes(router, cfg, logger)
	setupBorrowerRoutes(router, cfg, services.Borrower, logger)
	setupApplicationRoutes(router, cfg, services, logger)
	setupLoanRoutes(router, cfg, services.Loan, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, redisClient, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(*cfg, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})
}

func setupBorrowerRoutes(router chi.Router, cfg *config.Config, svc borrower.BorrowerService, logger *slog.Logger) {
	h := handler.NewBorrowerHandler(svc, logger)

	router.Route("/borrowers", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateBorrower)
		r.Route("/{borrowerID}", func(r chi.Router) {
			r.Get("/", h.GetBorrower)
			r.Put("/profile", h.UpdateProfile)
			r.Post("/kyc", h.SubmitKYC)
			r.Put("/kyc", h.ReviewKYC)
			r.Put("/status", h.SetStatus)
			r.Get("/score", h.GetScore)
		})
	})
}

func setupApplicationRoutes(router chi.Router, cfg *config.Config, services Services, logger *slog.Logger) {
	h := handler.NewApplicationHandler(services.Application, services.AuthCode, services.Loan, logger)

	router.Route("/applications", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateApplication)
		r.Route("/{applicationID}", func(r chi.Router) {
			r.Get("/", h.GetApplication)
			r.Put("/", h.UpdateReview)
			r.Post("/approvals", h.RecordDecision)
			r.Get("/approvals", h.ListApprovals)
			r.Post("/authorization-codes", h.IssueAuthCode)
			r.Post("/disbursement", h.Disburse)
		})
	})
}

func setupLoanRoutes(router chi.Router, cfg *config.Config, svc loan.LoanService, logger *slog.Logger) {
	h := handler.NewLoanHandler(svc, logger)

	router.Route("/loans", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/schedule", h.PreviewSchedule)
		r.Route("/{loanID}", func(r chi.Router) {
			r.Get("/", h.GetLoan)
			r.Get("/schedule", h.GetSchedule)
			r.Post("/payments", h.RecordPayment)
			r.Get("/payments", h.ListPayments)
		})
	})
}
