package analytics

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/avoronin/clipcast/internal/models"
	"github.com/avoronin/clipcast/internal/service"
)

func New(
	srvAnalytics Analytics,
) *fiber.App {
	analyticsCtr := analyticsController{
		srvAnalytics: srvAnalytics,
	}

	app := fiber.New()

	app.Post("/", analyticsCtr.track)

	return app
}

type analyticsController struct {
	srvAnalytics Analytics
}

type Analytics interface {
	Track(ctx context.Context, event models.AnalyticsRequest) error
}

// track applies one view/complete event. Duplicate calls
// across page reloads increment again, there is no
// server-side deduplication.
func (analyticsCtr *analyticsController) track(c *fiber.Ctx) error {
	var request models.AnalyticsRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid body",
		})
	}

	if err := analyticsCtr.srvAnalytics.Track(context.TODO(), request); err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "video not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to track",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
	})
}
