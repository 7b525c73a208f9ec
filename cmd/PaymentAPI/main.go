package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/PaymentAdmin/internal/auth"
	"github.com/sebuszqo/PaymentAdmin/internal/config"
	database "github.com/sebuszqo/PaymentAdmin/internal/db"
	"github.com/sebuszqo/PaymentAdmin/internal/finance/application"
	"github.com/sebuszqo/PaymentAdmin/internal/finance/infrastructure"
	"github.com/sebuszqo/PaymentAdmin/internal/finance/interfaces"
	"github.com/sebuszqo/PaymentAdmin/internal/middleware"
)

type Server struct {
	router         *http.ServeMux
	dbService      *database.DBService
	jwtManager     auth.JWTManagerInterface
	paymentHandler *interfaces.PaymentHandler
}

func NewServer(dbService *database.DBService, jwtManager auth.JWTManagerInterface, paymentHandler *interfaces.PaymentHandler) *Server {
	return &Server{
		router:         http.NewServeMux(),
		dbService:      dbService,
		jwtManager:     jwtManager,
		paymentHandler: paymentHandler,
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	interfaces.RespondError(w, http.StatusNotFound, "Path not found")
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	health := s.dbService.Health(r.Context())
	if health["status"] != "up" {
		interfaces.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	interfaces.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) RegisterRoutes() {
	s.router.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))
	s.paymentHandler.RegisterRoutes(s.router, "/api/protected", auth.JWTAccessTokenMiddleware(s.jwtManager))
	s.router.Handle("/", http.HandlerFunc(notFoundHandler))
}

func main() {
	cfg, err := config.LoadAPIConfig()
	config.SetupLogging(cfg.LogFormat)
	if err != nil {
		log.Fatal().Err(err).Msg("missing configuration, update to start server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbService, err := database.NewDBService(ctx, cfg.DBConnection, database.DefaultPoolConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize database")
	}
	defer dbService.Close()

	paymentRepo := infrastructure.NewPaymentRepository(dbService.DB)
	if err := paymentRepo.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("could not migrate payment_methods")
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create jwt manager")
	}

	paymentService := application.NewPaymentService(paymentRepo)
	paymentHandler := interfaces.NewPaymentHandler(paymentService, interfaces.RespondJSON, interfaces.RespondError)

	server := NewServer(dbService, jwtManager, paymentHandler)
	server.RegisterRoutes()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           middleware.Logging(server.router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("payment methods API starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("payment methods API stopped")
}
