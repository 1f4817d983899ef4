package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/aam9063/dogwalk/internal/app"
	"github.com/aam9063/dogwalk/internal/config"
	"github.com/aam9063/dogwalk/internal/controller/httpapi"
	"github.com/aam9063/dogwalk/internal/repository"
	"github.com/aam9063/dogwalk/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	userRepo := repository.NewUserRepository(pool)
	dogRepo := repository.NewDogRepository(pool)
	serviceRepo := repository.NewServiceRepository(pool)
	priceRepo := repository.NewPriceRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool, slotRepo)

	pricingService := service.NewPricingService(priceRepo, userRepo, serviceRepo, logger)
	availabilityService := service.NewAvailabilityService(slotRepo, reservationRepo, logger)
	reservationService := service.NewReservationService(
		reservationRepo, slotRepo, pricingService, userRepo, dogRepo, serviceRepo, logger)

	api := httpapi.NewAPI(
		availabilityService, reservationService, pricingService,
		userRepo, dogRepo, serviceRepo,
		cfg.JWTSecret, logger)

	server := app.NewServer(cfg.HTTPAddr, api.Router(cfg.Environment), logger)
	server.Start()

	<-ctx.Done()
	server.Stop(context.Background())
	logger.Info("Shutdown complete")
}
