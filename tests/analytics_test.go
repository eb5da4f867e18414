package tests

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/avoronin/clipcast/tests/suite"
)

func TestTrackView(t *testing.T) {
	e, _ := suite.New(t)

	id := e.POST("/upload").
		WithMultipart().
		WithFileBytes("video", "demo.webm", suite.WebmBytes(256)).
		Expect().
		Status(200).
		JSON().
		Path("$.id").
		String().
		Raw()

	e.POST("/analytics").
		WithJSON(map[string]interface{}{
			"videoId":  id,
			"event":    "view",
			"duration": 12.5,
		}).
		Expect().
		Status(200).
		JSON().
		Path("$.success").
		Boolean().
		IsTrue()

	json := e.GET("/videos/{id}", id).
		Expect().
		Status(200).
		JSON()

	json.Path("$.views").Number().IsEqual(1)
	json.Path("$.duration").Number().IsEqual(12.5)
}

func TestTrackViewCountsEveryPageLoad(t *testing.T) {
	e, _ := suite.New(t)

	id := e.POST("/upload").
		WithMultipart().
		WithFileBytes("video", "demo.webm", suite.WebmBytes(256)).
		Expect().
		Status(200).
		JSON().
		Path("$.id").
		String().
		Raw()

	for i := 0; i < 2; i++ {
		e.POST("/analytics").
			WithJSON(map[string]string{
				"videoId": id,
				"event":   "view",
			}).
			Expect().
			Status(200)
	}

	e.GET("/videos/{id}", id).
		Expect().
		Status(200).
		JSON().
		Path("$.views").
		Number().
		IsEqual(2)
}

func TestTrackComplete(t *testing.T) {
	e, _ := suite.New(t)

	id := e.POST("/upload").
		WithMultipart().
		WithFileBytes("video", "demo.webm", suite.WebmBytes(256)).
		Expect().
		Status(200).
		JSON().
		Path("$.id").
		String().
		Raw()

	e.POST("/analytics").
		WithJSON(map[string]string{
			"videoId": id,
			"event":   "complete",
		}).
		Expect().
		Status(200).
		JSON().
		Path("$.success").
		Boolean().
		IsTrue()

	json := e.GET("/videos/{id}", id).
		Expect().
		Status(200).
		JSON()

	json.Path("$.views").Number().IsEqual(0)
	json.Path("$.completions").Number().IsEqual(1)
}

func TestTrackUnknownVideo(t *testing.T) {
	e, _ := suite.New(t)

	e.POST("/analytics").
		WithJSON(map[string]string{
			"videoId": gofakeit.UUID(),
			"event":   "view",
		}).
		Expect().
		Status(404).
		JSON().
		Path("$.error").
		String().
		IsEqual("video not found")
}

func TestTrackInvalidBody(t *testing.T) {
	e, _ := suite.New(t)

	e.POST("/analytics").
		WithHeader("Content-Type", "application/json").
		WithBytes([]byte("{not json")).
		Expect().
		Status(400).
		JSON().
		Path("$.error").
		String().
		IsEqual("invalid body")
}
