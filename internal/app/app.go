package app

import (
	"log/slog"
	"os"

	routerApp "github.com/avoronin/clipcast/internal/app/router"
	"github.com/avoronin/clipcast/internal/lib/logger/sl"
	"github.com/avoronin/clipcast/internal/storage/jsonfile"
	"github.com/avoronin/clipcast/internal/storage/sqlite"
)

type App struct {
	Router routerApp.App
}

func New(
	log *slog.Logger,
	address string,
	storageType string,
	storagePath string,
	uploadDir string,
) *App {
	var storage routerApp.Storage

	switch storageType {
	case "json", "":
		s, err := jsonfile.New(storagePath)
		if err != nil {
			log.Error("failed to init storage", sl.Err(err))
			os.Exit(1)
		}
		storage = s
	case "sqlite":
		s, err := sqlite.New(storagePath)
		if err != nil {
			log.Error("failed to init storage", sl.Err(err))
			os.Exit(1)
		}
		storage = s
	default:
		log.Error("unknown storage type", slog.String("type", storageType))
		os.Exit(1)
	}

	routerApp := routerApp.New(
		log,
		storage,
		address,
		uploadDir,
	)

	return &App{
		Router: *routerApp,
	}
}
