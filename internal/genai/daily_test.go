package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/eternalglow/internal/models"
)

func TestDailyImageClientGenerate(t *testing.T) {
	var got models.DailyImageRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"imageUrl":"https://cdn.example/daily.png"}`))
	}))
	defer srv.Close()

	client := NewDailyImageClient(srv.URL, "secret", time.Second)
	url, err := client.Generate(context.Background(), models.DailyImageRequest{
		Partner1:  "Ana",
		Partner2:  "Ben",
		StyleInfo: "Vintage",
		BaseImage: "https://photos/us.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/daily.png", url)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "Ana", got.Partner1)
	assert.Equal(t, "Vintage", got.StyleInfo)
	assert.Equal(t, "https://photos/us.jpg", got.BaseImage)
}

func TestDailyImageClientErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "server error",
			status: http.StatusBadRequest,
			body:   `{"error":"API key missing"}`,
			check: func(t *testing.T, err error) {
				var serr *StatusError
				require.ErrorAs(t, err, &serr)
				assert.Equal(t, http.StatusBadRequest, serr.Code)
				assert.Equal(t, "API key missing", serr.Message)
			},
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `<html>`,
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "malformed response")
			},
		},
		{
			name:   "empty url",
			status: http.StatusOK,
			body:   `{"imageUrl":"  "}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrEmptyImageURL)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewDailyImageClient(srv.URL, "", time.Second).Generate(context.Background(), models.DailyImageRequest{})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestDailyImageClientHonorsContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewDailyImageClient(srv.URL, "", 0).Generate(ctx, models.DailyImageRequest{})
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "flat", errorMessage([]byte(`{"error":"flat"}`)))
	assert.Equal(t, "nested", errorMessage([]byte(`{"error":{"message":"nested"}}`)))
	assert.Equal(t, "plain text", errorMessage([]byte("  plain text \n")))
}
