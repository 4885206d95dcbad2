package genai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/julianstephens/eternalglow/internal/models"
)

var ErrEmptyImageURL = errors.New("daily image response has no imageUrl")

// DailyImageClient calls the hosted daily image function.
type DailyImageClient struct {
	url    string
	apiKey string
	client *http.Client
}

func NewDailyImageClient(url, apiKey string, timeout time.Duration) *DailyImageClient {
	return &DailyImageClient{
		url:    url,
		apiKey: apiKey,
		client: newHTTPClient(timeout),
	}
}

type dailyImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

// Generate returns the URL of a freshly generated image for the couple.
func (c *DailyImageClient) Generate(ctx context.Context, req models.DailyImageRequest) (string, error) {
	headers := map[string]string{}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}

	var res dailyImageResponse
	if err := postJSON(ctx, c.client, c.url, headers, req, &res); err != nil {
		return "", err
	}
	if strings.TrimSpace(res.ImageURL) == "" {
		return "", ErrEmptyImageURL
	}
	return res.ImageURL, nil
}
