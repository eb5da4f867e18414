package controller

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"

	"github.com/avoronin/clipcast/internal/models"
	"github.com/avoronin/clipcast/internal/service"
)

func New(
	srvVideo Video,
) *fiber.App {
	uploadCtr := uploadController{
		srvVideo: srvVideo,
	}

	app := fiber.New()

	app.Post("/", uploadCtr.upload)

	return app
}

type uploadController struct {
	srvVideo Video
}

type Video interface {
	Upload(ctx context.Context, blob models.Blob, originalName string) (models.VideoRecord, error)
}

// upload stores the sent clip and returns its id
// with the public file path.
func (uploadCtr *uploadController) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("video")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "no video file",
		})
	}

	reader, err := file.Open()
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	// recognize MIME-type (allow any video/*)
	fileType := file.Header.Get("Content-Type")
	if fileType == "" || fileType == "application/octet-stream" {
		fileType = mimetype.Detect(data).String()
	}
	if !strings.HasPrefix(fileType, "video/") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unsupported mime-type",
		})
	}

	video, err := uploadCtr.srvVideo.Upload(
		context.TODO(),
		models.Blob{Data: data, MIME: fileType},
		file.Filename,
	)
	if err != nil {
		if errors.Is(err, service.ErrEmptyBlob) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "no video file",
			})
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":  video.ID,
		"url": "/uploads/" + video.Filename,
	})
}
