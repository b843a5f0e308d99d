// Command server runs the HTTP front-end: an HTML search form that returns
// the cross-reference result as an .xlsx download.
package main

import (
	"log/slog"
	"os"

	"buscacnpj/internal/config"
	"buscacnpj/pipeline"
	"buscacnpj/places"
	"buscacnpj/registry"
	"buscacnpj/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuracao invalida", "erro", err)
		os.Exit(1)
	}

	placesClient := places.NewClient(cfg.GoogleAPIKey, cfg.RequestTimeout)
	registryClient := registry.NewClient(cfg.CNPJAAPIKey, "", cfg.RequestTimeout)
	pipe := pipeline.New(placesClient, registryClient, logger)

	srv := server.New(pipe, logger)
	if err := srv.Run(cfg.Addr()); err != nil {
		logger.Error("servidor encerrou com erro", "erro", err)
		os.Exit(1)
	}
}
