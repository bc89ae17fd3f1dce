package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"movibanca/internal/config"
	"movibanca/internal/infra"
	"movibanca/internal/repository"
	"movibanca/internal/router"
	"movibanca/internal/service"
	"movibanca/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	mongoDB, err := infra.NewMongo(cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker pool: entrega de notificaciones en tiempo real y correo SMTP.
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	workerHandlers := &worker.WorkerHandlers{
		Notificacion: worker.NewNotificacionWorker(rdb),
		Email:        worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	// Planificador de domiciliaciones: cobra los mandatos vencidos en cada tick.
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	cuentaRepo := repository.NewCuentaRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(mongoDB)
	domiciliacionRepo := repository.NewDomiciliacionRepository(mongoDB)
	motor := service.NewMovimientoService(
		movimientoRepo, domiciliacionRepo, cuentaRepo, clienteRepo, usuarioRepo, dispatcher)

	worker.StartDomiciliacionCron(ctx, worker.DomiciliacionCronConfig{
		Registro:   domiciliacionRepo,
		Motor:      motor,
		Cuentas:    cuentaRepo,
		Clientes:   clienteRepo,
		Dispatcher: dispatcher,
		RDB:        rdb,
		Tick:       cfg.DomiciliacionTick,
		MaxFallos:  cfg.MaxFallosCobro,
	})

	r := router.New(cfg, db, mongoDB, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("movibanca backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
