package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/marketsquare/fundsledger/docs"
	"github.com/marketsquare/fundsledger/internal/commission"
	"github.com/marketsquare/fundsledger/internal/config"
	"github.com/marketsquare/fundsledger/internal/database"
	"github.com/marketsquare/fundsledger/internal/escrow"
	"github.com/marketsquare/fundsledger/internal/payment"
	"github.com/marketsquare/fundsledger/internal/refund"
	"github.com/marketsquare/fundsledger/internal/settlement"
	mw "github.com/marketsquare/fundsledger/pkg/middleware"
)

// @title           MarketSquare Funds Ledger API
// @version         1.0
// @description     Commission, escrow, refund and settlement tracking for marketplace orders
// @BasePath        /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	logger, err := newLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("connected to database")

	// Commission feature
	commissionRepo := commission.NewPostgresRepository(db)
	commissionService := commission.NewService(commissionRepo, cfg.Funds, logger)
	commissionHandler := commission.NewHandler(commissionService)

	// Escrow feature
	escrowRepo := escrow.NewPostgresRepository(db)
	escrowService := escrow.NewService(escrowRepo, cfg.Funds, logger)
	escrowHandler := escrow.NewHandler(escrowService)

	// Refund feature (orchestrates escrow and commission)
	refundRepo := refund.NewPostgresRepository(db)
	refundService := refund.NewService(refundRepo, escrowService, commissionService, nil, cfg.Funds, logger)
	refundHandler := refund.NewHandler(refundService)

	// Settlement feature (aggregates commission records)
	settlementRepo := settlement.NewPostgresRepository(db)
	settlementService := settlement.NewService(settlementRepo, commissionRepo, logger)
	settlementHandler := settlement.NewHandler(settlementService)

	// Payment confirmation fan-out
	paymentService := payment.NewService(commissionService, escrowService, logger)
	paymentHandler := payment.NewHandler(paymentService)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.ActorMiddleware)

		// Mount feature routers
		r.With(mw.RequireRole(mw.RoleAdmin, mw.RoleSystem)).
			Mount("/payments", paymentHandler.Routes())
		r.Mount("/commissions", commissionHandler.Routes())
		r.Mount("/escrow", escrowHandler.Routes())
		r.Mount("/refunds", refundHandler.Routes())
		r.With(mw.RequireRole(mw.RoleAdmin, mw.RoleSystem)).
			Mount("/settlements", settlementHandler.Routes())
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	logger.Info("server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal("server failed to start", zap.Error(err))
	}
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
