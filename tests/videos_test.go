package tests

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/avoronin/clipcast/tests/suite"
)

func TestGetVideo(t *testing.T) {
	e, _ := suite.New(t)

	name := gofakeit.AppName() + ".webm"

	id := e.POST("/upload").
		WithMultipart().
		WithFileBytes("video", name, suite.WebmBytes(256)).
		Expect().
		Status(200).
		JSON().
		Path("$.id").
		String().
		Raw()

	json := e.GET("/videos/{id}", id).
		Expect().
		Status(200).
		JSON()

	json.Object().Keys().ContainsOnly(
		"id", "filename", "originalName", "createdAt",
		"views", "completions", "duration",
	)
	json.Path("$.id").String().IsEqual(id)
	json.Path("$.originalName").String().IsEqual(name)
	json.Path("$.views").Number().IsEqual(0)
	json.Path("$.completions").Number().IsEqual(0)
	json.Path("$.duration").Number().IsEqual(0)
}

func TestGetUnknownVideo(t *testing.T) {
	e, _ := suite.New(t)

	e.GET("/videos/{id}", gofakeit.UUID()).
		Expect().
		Status(404).
		JSON().
		Path("$.error").
		String().
		IsEqual("video not found")
}

func TestSearchVideos(t *testing.T) {
	e, _ := suite.New(t)

	for _, name := range []string{"standup demo.webm", "sprint review.webm", "demo take two.webm"} {
		e.POST("/upload").
			WithMultipart().
			WithFileBytes("video", name, suite.WebmBytes(128)).
			Expect().
			Status(200)
	}

	e.GET("/videos").
		Expect().
		Status(200).
		JSON().
		Path("$.videos").
		Array().
		Length().
		IsEqual(3)

	// ranked by name closeness, best match first
	ranked := e.GET("/videos").
		WithQuery("name", "sprint review.webm").
		Expect().
		Status(200).
		JSON().
		Path("$.videos").
		Array()

	ranked.Length().IsEqual(3)
	ranked.Value(0).Object().Value("originalName").String().IsEqual("sprint review.webm")

	e.GET("/videos").
		WithQuery("res_len", 1).
		Expect().
		Status(200).
		JSON().
		Path("$.videos").
		Array().
		Length().
		IsEqual(1)
}

func TestWatchPage(t *testing.T) {
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

	body := e.GET("/watch/{id}", id).
		Expect().
		Status(200).
		HasContentType("text/html").
		Body()

	body.Contains("/uploads/" + id + ".webm")
	body.Contains("data-video-id=\"" + id + "\"")
}

func TestWatchUnknownVideo(t *testing.T) {
	e, _ := suite.New(t)

	e.GET("/watch/{id}", gofakeit.UUID()).
		Expect().
		Status(404).
		HasContentType("text/html").
		Body().
		Contains("Video not found")
}
