package share

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"

	"github.com/julianstephens/eternalglow/internal/logger"
)

// TargetKind names a share destination.
type TargetKind string

const (
	TargetStory   TargetKind = "story"
	TargetMessage TargetKind = "message"
	TargetLibrary TargetKind = "library"
	TargetGeneric TargetKind = "generic"
)

// TargetKinds lists every destination in menu order.
var TargetKinds = []TargetKind{TargetStory, TargetMessage, TargetLibrary, TargetGeneric}

// Asset is a prepared card ready to be sent. Path is empty when rendering
// failed and only the caption can be shared.
type Asset struct {
	Key     string
	Path    string
	Caption string
	Cached  bool
}

// Outcome reports where a share ended up.
type Outcome struct {
	Target   TargetKind
	Path     string
	Link     string
	Copied   bool
	Caption  string
	Fallback bool
}

// Target delivers an asset to one destination.
type Target interface {
	Kind() TargetKind
	Send(ctx context.Context, asset Asset) (Outcome, error)
}

// WebhookPayload is posted to story and message webhooks.
type WebhookPayload struct {
	Type     TargetKind `json:"type"`
	ImageURL string     `json:"imageUrl"`
	Caption  string     `json:"caption,omitempty"`
	Link     string     `json:"link,omitempty"`
}

// WebhookTarget publishes the card link to an HTTP endpoint, e.g. a chat bot
// or a social scheduler.
type WebhookTarget struct {
	kind     TargetKind
	url      string
	appLink  string
	uploader LinkUploader
	client   *http.Client
}

func NewStoryTarget(url, appLink string, uploader LinkUploader, timeout time.Duration) *WebhookTarget {
	return newWebhookTarget(TargetStory, url, appLink, uploader, timeout)
}

func NewMessageTarget(url string, uploader LinkUploader, timeout time.Duration) *WebhookTarget {
	return newWebhookTarget(TargetMessage, url, "", uploader, timeout)
}

func newWebhookTarget(kind TargetKind, url, appLink string, uploader LinkUploader, timeout time.Duration) *WebhookTarget {
	if uploader == nil {
		uploader = FileLinker{}
	}
	return &WebhookTarget{
		kind:     kind,
		url:      url,
		appLink:  appLink,
		uploader: uploader,
		client:   &http.Client{Timeout: timeout},
	}
}

func (t *WebhookTarget) Kind() TargetKind { return t.kind }

func (t *WebhookTarget) Send(ctx context.Context, asset Asset) (Outcome, error) {
	if t.url == "" {
		return Outcome{}, fmt.Errorf("no %s webhook configured", t.kind)
	}
	if asset.Path == "" {
		return Outcome{}, fmt.Errorf("no card to share")
	}

	link, err := t.uploader.Link(ctx, asset.Path, asset.Key)
	if err != nil {
		return Outcome{}, err
	}

	payload := WebhookPayload{Type: t.kind, ImageURL: link}
	switch t.kind {
	case TargetStory:
		payload.Link = t.appLink
	case TargetMessage:
		payload.Caption = asset.Caption
	}

	if err := t.post(ctx, payload); err != nil {
		return Outcome{}, err
	}
	return Outcome{Target: t.kind, Path: asset.Path, Link: link, Caption: asset.Caption}, nil
}

func (t *WebhookTarget) post(ctx context.Context, payload WebhookPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("%s webhook failed with status %d: %s", t.kind, res.StatusCode, string(body))
}

// LibraryTarget copies the card into a pictures folder.
type LibraryTarget struct {
	dir string
}

func NewLibraryTarget(dir string) *LibraryTarget {
	return &LibraryTarget{dir: dir}
}

func (t *LibraryTarget) Kind() TargetKind { return TargetLibrary }

func (t *LibraryTarget) Send(_ context.Context, asset Asset) (Outcome, error) {
	if t.dir == "" {
		return Outcome{}, fmt.Errorf("no pictures folder configured")
	}
	if asset.Path == "" {
		return Outcome{}, fmt.Errorf("no card to save")
	}
	if err := os.MkdirAll(t.dir, 0700); err != nil {
		return Outcome{}, fmt.Errorf("permission needed to save into %s: %w", t.dir, err)
	}

	dest := filepath.Join(t.dir, filepath.Base(asset.Path))
	if err := copyFile(asset.Path, dest); err != nil {
		return Outcome{}, err
	}
	return Outcome{Target: TargetLibrary, Path: dest, Caption: asset.Caption}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open card: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy card: %w", err)
	}
	return out.Close()
}

// GenericTarget puts the caption (and card path, when there is one) on the
// clipboard. It never fails: without a clipboard the outcome simply reports
// Copied=false and the caller prints the text instead.
type GenericTarget struct {
	write func(string) error
}

func NewGenericTarget() *GenericTarget {
	return &GenericTarget{write: clipboard.WriteAll}
}

func (t *GenericTarget) Kind() TargetKind { return TargetGeneric }

func (t *GenericTarget) Send(_ context.Context, asset Asset) (Outcome, error) {
	text := asset.Caption
	if asset.Path != "" {
		text = asset.Caption + "\n" + asset.Path
	}

	out := Outcome{Target: TargetGeneric, Path: asset.Path, Caption: asset.Caption}
	if err := t.write(text); err != nil {
		logger.Warn("Clipboard unavailable", "error", err)
		return out, nil
	}
	out.Copied = true
	return out, nil
}
