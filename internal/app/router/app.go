package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/avoronin/clipcast/internal/models"

	analyticsSrv "github.com/avoronin/clipcast/internal/service/analytics"
	videoSrv "github.com/avoronin/clipcast/internal/service/video"

	analyticsCtr "github.com/avoronin/clipcast/internal/controller/analytics"
	uploadCtr "github.com/avoronin/clipcast/internal/controller/upload"
	videoCtr "github.com/avoronin/clipcast/internal/controller/video"
)

// Storage is the record store capability the router wires
// into services. Both the jsonfile and sqlite backends
// satisfy it.
type Storage interface {
	SaveVideo(ctx context.Context, video models.VideoRecord) error
	Video(ctx context.Context, id string) (models.VideoRecord, error)
	AllVideos(ctx context.Context) ([]models.VideoRecord, error)
	UpdateVideo(ctx context.Context, video models.VideoRecord) error
}

type App struct {
	log     *slog.Logger
	address string
	app     *fiber.App
}

// New returns configured router.App
func New(
	log *slog.Logger,
	storage Storage,
	address string,
	uploadDir string,
) *App {
	// Create services
	video := videoSrv.New(
		log,
		storage,
		uploadDir,
	)

	analytics := analyticsSrv.New(
		log,
		storage,
	)

	app := fiber.New()

	// Stored clips are public by share-link capability
	app.Static("/uploads", uploadDir)

	// Mount controllers to an app
	app.Mount("/upload", uploadCtr.New(video))
	app.Mount("/analytics", analyticsCtr.New(analytics))
	app.Mount("/", videoCtr.New(video))

	return &App{
		log:     log,
		address: address,
		app:     app,
	}
}

func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic(err)
	}
}

func (a *App) Run() error {
	return a.app.Listen(a.address)
}

func (a *App) Stop() {
	a.app.Shutdown()
}

// Test serves one request in-process, for tests.
func (a *App) Test(req *http.Request) (*http.Response, error) {
	return a.app.Test(req, -1)
}
