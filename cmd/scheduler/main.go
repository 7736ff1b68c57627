package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klougaris/smartclinic/internal/api"
	"github.com/klougaris/smartclinic/internal/auth"
	"github.com/klougaris/smartclinic/internal/availability"
	"github.com/klougaris/smartclinic/internal/booking"
	"github.com/klougaris/smartclinic/internal/guard"
	"github.com/klougaris/smartclinic/internal/search"
	"github.com/klougaris/smartclinic/internal/store"
	"github.com/klougaris/smartclinic/pkg/config"
	"github.com/klougaris/smartclinic/pkg/database"
	"github.com/klougaris/smartclinic/pkg/logger"
	"github.com/klougaris/smartclinic/pkg/monitoring"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logger.New(cfg.LogLevel)

	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.CreateSchema(ctx); err != nil {
		cancel()
		logger.Fatalf("Failed to create schema: %v", err)
	}
	cancel()

	doctors := store.NewDoctors(db, logger)
	patients := store.NewPatients(db, logger)
	admins := store.NewAdmins(db, logger)
	appointments := store.NewAppointments(db, logger)
	prescriptions := store.NewPrescriptions(db, logger)

	metrics := monitoring.NewCollector()
	authority := auth.NewAuthority(&cfg.JWT, doctors, patients, admins, logger)
	accessGuard := guard.New(authority, metrics, logger)
	engine := availability.NewEngine(doctors, appointments, logger)
	ledger := booking.NewLedger(doctors, patients, appointments, prescriptions, engine, metrics, logger)
	filter := search.NewFilter(doctors, appointments, engine, logger)

	server := api.NewServer(cfg, db, accessGuard, authority, ledger, engine, filter, metrics, logger)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start scheduler: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down scheduler...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
	logger.Info("Scheduler stopped")
}
