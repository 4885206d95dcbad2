package genai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/julianstephens/eternalglow/internal/logger"
)

// ImageClient asks a Gemini-style generateContent endpoint for an illustration.
type ImageClient struct {
	url    string
	apiKey string
	client *http.Client
}

func NewImageClient(url, apiKey string, timeout time.Duration) *ImageClient {
	return &ImageClient{
		url:    url,
		apiKey: apiKey,
		client: newHTTPClient(timeout),
	}
}

type imagePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type imageRequest struct {
	Contents []struct {
		Parts []imagePart `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		ResponseModalities []string `json:"responseModalities"`
		Temperature        float64  `json:"temperature"`
	} `json:"generationConfig"`
}

type imageResponse struct {
	Candidates []struct {
		Content struct {
			Parts []imagePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate returns the first inline image as a data URI. A nil result with
// a nil error means the model answered without an image.
func (c *ImageClient) Generate(ctx context.Context, scenePrompt string) (*string, error) {
	var req imageRequest
	req.Contents = make([]struct {
		Parts []imagePart `json:"parts"`
	}, 1)
	req.Contents[0].Parts = []imagePart{{
		Text: fmt.Sprintf(`Create a beautiful, dreamy, artistic illustration of a couple: %s.
Style: romantic, warm colors, soft lighting, wedding photography inspired, elegant and timeless.`, scenePrompt),
	}}
	req.GenerationConfig.ResponseModalities = []string{"IMAGE", "TEXT"}
	req.GenerationConfig.Temperature = 1.0

	headers := map[string]string{}
	if c.apiKey != "" {
		headers["x-goog-api-key"] = c.apiKey
	}

	var res imageResponse
	if err := postJSON(ctx, c.client, c.url, headers, req, &res); err != nil {
		logger.Warn("Image generation failed", "error", err)
		return nil, err
	}

	if len(res.Candidates) > 0 {
		for _, part := range res.Candidates[0].Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				uri := fmt.Sprintf("data:%s;base64,%s", part.InlineData.MimeType, part.InlineData.Data)
				return &uri, nil
			}
		}
	}

	logger.Warn("No image found in generation response")
	return nil, nil
}
