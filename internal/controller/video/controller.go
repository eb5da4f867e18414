package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/avoronin/clipcast/internal/models"
	"github.com/avoronin/clipcast/internal/service"
)

func New(
	srvVideo Video,
) *fiber.App {
	videoCtr := videoController{
		srvVideo: srvVideo,
	}

	app := fiber.New()

	app.Get("/videos", videoCtr.searchVideos)
	app.Get("/videos/:id", videoCtr.video)
	app.Get("/watch/:id", videoCtr.watch)

	return app
}

type videoController struct {
	srvVideo Video
}

type Video interface {
	Video(ctx context.Context, id string) (models.VideoRecord, error)
	SearchVideos(ctx context.Context, filter models.VideoFilter) ([]models.VideoRecord, error)
}

// searchVideos returns records filtered and ranked
// by query criteria.
func (videoCtr *videoController) searchVideos(c *fiber.Ctx) error {
	filter := models.VideoFilter{
		Name:       c.Query("name"),
		MaxRespLen: c.QueryInt("res_len"),
	}

	videos, err := videoCtr.srvVideo.SearchVideos(context.TODO(), filter)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"videos": videos,
	})
}

// video returns full record json by id.
func (videoCtr *videoController) video(c *fiber.Ctx) error {
	video, err := videoCtr.srvVideo.Video(context.TODO(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "video not found",
			})
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusOK).JSON(video)
}

// watch serves the playback page for a share link.
// Styling lives elsewhere, the page only has to resolve.
func (videoCtr *videoController) watch(c *fiber.Ctx) error {
	video, err := videoCtr.srvVideo.Video(context.TODO(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
			return c.Status(fiber.StatusNotFound).SendString(notFoundPage)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)

	return c.Status(fiber.StatusOK).
		SendString(fmt.Sprintf(watchPage, video.OriginalName, video.ID, "/uploads/"+video.Filename))
}

const notFoundPage = `<!DOCTYPE html>
<html>
<head><title>Video not found</title></head>
<body>
<h1>Video not found</h1>
<p>This recording does not exist or the link is wrong.</p>
</body>
</html>`

const watchPage = `<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body>
<video id="player" data-video-id="%s" src="%s" controls playsinline></video>
<script>
const player = document.getElementById('player');
const videoId = player.dataset.videoId;
let viewSent = false;
let completeSent = false;

function track(body) {
  fetch('/analytics', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify(body),
  }).catch(() => {});
}

player.addEventListener('play', () => {
  if (viewSent) return;
  viewSent = true;
  track({videoId: videoId, event: 'view', duration: player.duration});
});

player.addEventListener('timeupdate', () => {
  if (completeSent || !player.duration) return;
  if (player.currentTime / player.duration >= 0.9) {
    completeSent = true;
    track({videoId: videoId, event: 'complete'});
  }
});
</script>
</body>
</html>`
