package share

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLinker struct {
	link string
	err  error
	keys []string
}

func (l *staticLinker) Link(_ context.Context, _ string, key string) (string, error) {
	l.keys = append(l.keys, key)
	return l.link, l.err
}

func writeCard(t *testing.T) Asset {
	t.Helper()
	path := filepath.Join(t.TempDir(), "share_card_2026-4-20_42_Vintage.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0600))
	return Asset{Key: filepath.Base(path), Path: path, Caption: "42 days to go"}
}

func TestStoryTargetPostsLink(t *testing.T) {
	var got WebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	linker := &staticLinker{link: "https://cdn.example.com/card.png"}
	target := NewStoryTarget(srv.URL, "https://eternalglow.app", linker, time.Second)
	asset := writeCard(t)

	out, err := target.Send(context.Background(), asset)
	require.NoError(t, err)

	assert.Equal(t, TargetStory, out.Target)
	assert.Equal(t, "https://cdn.example.com/card.png", out.Link)
	assert.Equal(t, []string{asset.Key}, linker.keys)
	assert.Equal(t, WebhookPayload{
		Type:     TargetStory,
		ImageURL: "https://cdn.example.com/card.png",
		Link:     "https://eternalglow.app",
	}, got)
}

func TestMessageTargetPostsCaption(t *testing.T) {
	var got WebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	target := NewMessageTarget(srv.URL, nil, time.Second)
	asset := writeCard(t)

	_, err := target.Send(context.Background(), asset)
	require.NoError(t, err)

	assert.Equal(t, TargetMessage, got.Type)
	assert.Equal(t, "42 days to go", got.Caption)
	assert.True(t, strings.HasPrefix(got.ImageURL, "file://"))
}

func TestWebhookTargetStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "app not installed", http.StatusBadGateway)
	}))
	defer srv.Close()

	target := NewStoryTarget(srv.URL, "", &staticLinker{link: "x"}, time.Second)

	_, err := target.Send(context.Background(), writeCard(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "app not installed")
}

func TestWebhookTargetNotConfigured(t *testing.T) {
	target := NewStoryTarget("", "", nil, time.Second)
	_, err := target.Send(context.Background(), writeCard(t))
	assert.Error(t, err)
}

func TestWebhookTargetLinkError(t *testing.T) {
	target := NewMessageTarget("http://127.0.0.1:1", &staticLinker{err: errors.New("bucket gone")}, time.Second)
	_, err := target.Send(context.Background(), writeCard(t))
	assert.EqualError(t, err, "bucket gone")
}

func TestLibraryTargetCopiesCard(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Pictures")
	target := NewLibraryTarget(dir)
	asset := writeCard(t)

	out, err := target.Send(context.Background(), asset)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, asset.Key), out.Path)
	data, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLibraryTargetRequiresCard(t *testing.T) {
	target := NewLibraryTarget(t.TempDir())
	_, err := target.Send(context.Background(), Asset{Caption: "x"})
	assert.Error(t, err)
}

func TestGenericTargetCopiesCaption(t *testing.T) {
	var copied string
	target := &GenericTarget{write: func(s string) error {
		copied = s
		return nil
	}}
	asset := writeCard(t)

	out, err := target.Send(context.Background(), asset)
	require.NoError(t, err)

	assert.True(t, out.Copied)
	assert.Equal(t, asset.Path, out.Path)
	assert.Equal(t, "42 days to go\n"+asset.Path, copied)
}

func TestGenericTargetWithoutClipboard(t *testing.T) {
	target := &GenericTarget{write: func(string) error { return errors.New("no clipboard") }}

	out, err := target.Send(context.Background(), Asset{Caption: "42 days to go"})
	require.NoError(t, err)
	assert.False(t, out.Copied)
	assert.Equal(t, "42 days to go", out.Caption)
}
