package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/iudanet/gophtodo/internal/config"
	"github.com/iudanet/gophtodo/internal/crypto"
	"github.com/iudanet/gophtodo/internal/logger"
	"github.com/iudanet/gophtodo/internal/server"
	"github.com/iudanet/gophtodo/internal/server/identity"
	"github.com/iudanet/gophtodo/internal/server/jwt"
	"github.com/iudanet/gophtodo/internal/server/metrics"
	"github.com/iudanet/gophtodo/internal/server/revocation"
	"github.com/iudanet/gophtodo/internal/server/session"
	"github.com/iudanet/gophtodo/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Parse flags
	showVersion := flag.Bool("version", false, "Show version information")
	envFile := flag.String("env-file", ".env", "Path to .env file (optional)")
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "gophtodo server: %v\n", err)
		os.Exit(1)
	}
}

func run(envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	log, err := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	var revocations revocation.List
	switch cfg.RevocationBackend {
	case config.RevocationMemory:
		revocations = revocation.NewMemory()
	default:
		revocations = revocation.NewPersistent(store)
	}

	var verifier identity.Verifier = identity.DisabledVerifier{}
	if cfg.GoogleClientID != "" {
		verifier = identity.NewGoogleVerifier(cfg.GoogleClientID)
	} else {
		log.Warn("GOOGLE_CLIENT_ID is not set, federated login is disabled")
	}

	var (
		recorder metrics.Recorder = metrics.Noop{}
		gatherer prometheus.Gatherer
	)
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewCollector(reg)
		gatherer = reg
	}

	sessions := session.NewService(
		log,
		store,
		crypto.NewPasswordHasher(cfg.BcryptCost),
		jwt.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL),
		revocations,
		verifier,
	)

	go revocation.RunPruner(ctx, revocations, cfg.PruneInterval, log, recorder)

	router := server.NewRouter(server.Deps{
		Logger:   log,
		Sessions: sessions,
		Tasks:    store,
		DB:       store,
		Recorder: recorder,
		Gatherer: gatherer,
		Version:  Version,
	})

	log.Info("starting gophtodo server",
		slog.String("version", Version),
		slog.String("revocation_backend", cfg.RevocationBackend),
		slog.Bool("metrics", cfg.MetricsEnabled))

	srv := server.New(log, cfg.ServerAddr, router, cfg.ReadHeaderTimeout, cfg.ShutdownTimeout)
	return srv.Run(ctx)
}

func printVersion() {
	fmt.Printf("GophTodo Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
