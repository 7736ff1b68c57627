// Package api is the HTTP surface of the scheduler. It is glue only:
// handlers parse, delegate to the services and translate typed errors
// onto status codes. No invariant lives here.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/klougaris/smartclinic/internal/auth"
	"github.com/klougaris/smartclinic/internal/availability"
	"github.com/klougaris/smartclinic/internal/booking"
	"github.com/klougaris/smartclinic/internal/guard"
	"github.com/klougaris/smartclinic/internal/search"
	"github.com/klougaris/smartclinic/pkg/config"
	"github.com/klougaris/smartclinic/pkg/database"
	"github.com/klougaris/smartclinic/pkg/logger"
	"github.com/klougaris/smartclinic/pkg/monitoring"
)

// Server wires the scheduler's services behind a mux router.
type Server struct {
	config    *config.Config
	logger    *logger.Logger
	db        *database.DB
	guard     *guard.Guard
	authority *auth.Authority
	ledger    *booking.Ledger
	engine    *availability.Engine
	filter    *search.Filter
	metrics   *monitoring.Collector
	health    *monitoring.HealthManager
	server    *http.Server
}

// NewServer creates the HTTP server over the assembled services.
func NewServer(cfg *config.Config, db *database.DB, g *guard.Guard, authority *auth.Authority, ledger *booking.Ledger, engine *availability.Engine, filter *search.Filter, metrics *monitoring.Collector, log *logger.Logger) *Server {
	health := monitoring.NewHealthManager("scheduler")
	health.RegisterChecker("database", monitoring.NewDatabaseHealthChecker(db.DB))

	return &Server{
		config:    cfg,
		logger:    log,
		db:        db,
		guard:     g,
		authority: authority,
		ledger:    ledger,
		engine:    engine,
		filter:    filter,
		metrics:   metrics,
		health:    health,
	}
}

// setupRoutes configures the HTTP routes.
func (s *Server) setupRoutes(router *mux.Router) {
	router.Handle("/metrics", s.metrics.Handler()).Methods("GET")
	router.HandleFunc("/health", s.health.HTTPHandler()).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.metricsMiddleware)

	// Login
	api.HandleFunc("/auth/admin/login", s.adminLoginHandler).Methods("POST")
	api.HandleFunc("/auth/doctor/login", s.doctorLoginHandler).Methods("POST")
	api.HandleFunc("/auth/patient/login", s.patientLoginHandler).Methods("POST")

	// Doctor directory and availability
	api.HandleFunc("/doctors", s.searchDoctorsHandler).Methods("GET")
	api.HandleFunc("/doctors/{id}/availability", s.availabilityHandler).Methods("GET")
	api.HandleFunc("/doctors/{id}/calendar", s.doctorDayHandler).Methods("GET")

	// Doctor administration
	api.HandleFunc("/doctors", s.createDoctorHandler).Methods("POST")
	api.HandleFunc("/doctors/{id}", s.updateDoctorHandler).Methods("PUT")
	api.HandleFunc("/doctors/{id}", s.deleteDoctorHandler).Methods("DELETE")

	// Patients
	api.HandleFunc("/patients", s.registerPatientHandler).Methods("POST")
	api.HandleFunc("/patients/{id}", s.getPatientHandler).Methods("GET")
	api.HandleFunc("/patients/{id}", s.updatePatientHandler).Methods("PUT")
	api.HandleFunc("/patients/{id}/appointments", s.patientAppointmentsHandler).Methods("GET")

	// Appointment lifecycle
	api.HandleFunc("/appointments", s.bookHandler).Methods("POST")
	api.HandleFunc("/appointments/{id}", s.rescheduleHandler).Methods("PUT")
	api.HandleFunc("/appointments/{id}", s.cancelHandler).Methods("DELETE")
	api.HandleFunc("/appointments/{id}/complete", s.completeHandler).Methods("POST")

	// Prescriptions
	api.HandleFunc("/appointments/{id}/prescription", s.writePrescriptionHandler).Methods("POST")
	api.HandleFunc("/appointments/{id}/prescription", s.getPrescriptionHandler).Methods("GET")

	s.logger.Info("Scheduler routes configured")
}

// Start builds the router and serves until Shutdown.
func (s *Server) Start() error {
	router := mux.NewRouter()
	s.setupRoutes(router)

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(s.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.config.Server.IdleTimeout) * time.Second,
	}

	s.logger.Infof("Starting scheduler on %s", addr)
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("Stopping scheduler")
	return s.server.Shutdown(ctx)
}
