package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/andeslogistics/dock-scheduler/internal/auth"
	"github.com/andeslogistics/dock-scheduler/internal/config"
	"github.com/andeslogistics/dock-scheduler/internal/database"
	"github.com/andeslogistics/dock-scheduler/internal/handler"
	"github.com/andeslogistics/dock-scheduler/internal/kafka"
	"github.com/andeslogistics/dock-scheduler/internal/lookup"
	"github.com/andeslogistics/dock-scheduler/internal/router"
	"github.com/andeslogistics/dock-scheduler/internal/service"
	"github.com/andeslogistics/dock-scheduler/internal/store/postgres"
)

// API is the HTTP server mode: migrate, wire everything, serve.
type API struct {
	cfg      *config.Config
	httpSrv  *http.Server
	producer *kafka.Producer
}

func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	st := postgres.NewStore(db)
	tokens := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	producer := kafka.NewProducer(kafka.ParseBrokers(cfg.KafkaBrokers), cfg.KafkaTopic)
	lookups := lookup.NewClient(cfg.PeruIDAPIURL, cfg.PeruIDAPIToken)

	apptSvc := service.NewAppointmentService(st, st, st, cfg.SlotCapacity)
	carrierSvc := service.NewCarrierService(st, st)
	tenantSvc := service.NewTenantService(st)
	incidentSvc := service.NewIncidentService(st, st)
	authSvc := service.NewAuthService(st)

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(authSvc, tokens),
		Appointments: handler.NewAppointmentHandler(apptSvc, cfg.SlotCapacity, producer),
		Carriers:     handler.NewCarrierHandler(carrierSvc),
		Tenants:      handler.NewTenantHandler(tenantSvc),
		Incidents:    handler.NewIncidentHandler(incidentSvc, cfg.UploadDir),
		Lookups:      handler.NewLookupHandler(lookups),
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(h, tokens, cfg.UploadDir),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{cfg: cfg, httpSrv: httpSrv, producer: producer}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", a.httpSrv.Addr)
	log.Printf("  Swagger UI:   %s/swagger", base)
	log.Printf("  Health:       %s/health", base)
	log.Printf("  Ready:        %s/ready", base)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.producer.Close(); err != nil {
		log.Printf("kafka: close: %v", err)
	}
	return nil
}
