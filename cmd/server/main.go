package main

import (
	"context"
	"fmt"

	"github.com/zpasskit/zpass/internal/config"
	handler "github.com/zpasskit/zpass/internal/handler/http"
	"github.com/zpasskit/zpass/internal/logger"
	"github.com/zpasskit/zpass/internal/server"
	"github.com/zpasskit/zpass/internal/service"
	"github.com/zpasskit/zpass/internal/store"
	"github.com/zpasskit/zpass/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("zpass-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()
	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB.DSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = migrations.Migrate(db.DB); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	repos := store.NewRepositories(db, log)
	services := &service.Services{
		Auth: service.NewAuthService(service.AuthConfig{
			CredentialHashKey: cfg.Auth.CredentialHashKey,
			TokenSignKey:      cfg.Auth.TokenSignKey,
			TokenIssuer:       cfg.Auth.TokenIssuer,
			TokenDuration:     cfg.Auth.TokenDuration,
		}, repos.Users, log),
		Vault: service.NewVaultService(repos.Vaults, log),
	}

	router := handler.NewHandler(services, log).Init()

	srv, err := server.NewServer(router, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
