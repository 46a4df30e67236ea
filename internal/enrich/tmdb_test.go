// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package enrich

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abdul1ah/cinephile/internal/config"
)

func testTMDBConfig(baseURL string) config.TMDBConfig {
	return config.TMDBConfig{
		Enabled:           true,
		APIKey:            "test-key",
		BaseURL:           baseURL,
		ImageBaseURL:      "https://image.example.org/t/p",
		Timeout:           2 * time.Second,
		RequestsPerSecond: 100,
		CacheSize:         100,
		CacheTTL:          time.Minute,
	}
}

func TestGetMovie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Errorf("missing api key in %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 603,
			"title": "The Matrix",
			"overview": "A computer hacker learns about the true nature of reality.",
			"poster_path": "/matrix.jpg",
			"release_date": "1999-03-31",
			"vote_average": 8.2,
			"runtime": 136,
			"genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}]
		}`))
	}))
	defer server.Close()

	client := NewTMDBClient(testTMDBConfig(server.URL))
	movie, err := client.GetMovie(context.Background(), 603)
	if err != nil {
		t.Fatalf("GetMovie failed: %v", err)
	}

	if movie.Title != "The Matrix" {
		t.Errorf("unexpected title %q", movie.Title)
	}
	if movie.VoteAverage != 8.2 {
		t.Errorf("unexpected vote average %g", movie.VoteAverage)
	}
	if len(movie.Genres) != 2 || movie.Genres[1].Name != "Science Fiction" {
		t.Errorf("unexpected genres %+v", movie.Genres)
	}
}

func TestGetMovieNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewTMDBClient(testTMDBConfig(server.URL))
	_, err := client.GetMovie(context.Background(), 999999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetMovieServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewTMDBClient(testTMDBConfig(server.URL))
	if _, err := client.GetMovie(context.Background(), 603); err == nil {
		t.Error("expected error on HTTP 500")
	}
}

func TestGetMovieMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": not json`))
	}))
	defer server.Close()

	client := NewTMDBClient(testTMDBConfig(server.URL))
	if _, err := client.GetMovie(context.Background(), 603); err == nil {
		t.Error("expected decode error")
	}
}

func TestGetMovieContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	client := NewTMDBClient(testTMDBConfig(server.URL))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.GetMovie(ctx, 603); err == nil {
		t.Error("expected error on cancelled context")
	}
}

func TestPosterURL(t *testing.T) {
	client := NewTMDBClient(testTMDBConfig("http://unused"))

	if got := client.PosterURL(&Movie{PosterPath: "/matrix.jpg"}); got != "https://image.example.org/t/p/w500/matrix.jpg" {
		t.Errorf("unexpected poster url %q", got)
	}
	if got := client.PosterURL(&Movie{}); got != "" {
		t.Errorf("expected empty url without poster, got %q", got)
	}
	if got := client.PosterURL(nil); got != "" {
		t.Errorf("expected empty url for nil movie, got %q", got)
	}
}
