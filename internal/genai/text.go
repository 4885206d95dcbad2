package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	langopenai "github.com/tmc/langchaingo/llms/openai"

	"github.com/julianstephens/eternalglow/internal/logger"
)

var fallbackScenes = []string{
	"Dancing under string lights at a rooftop garden party",
	"Walking hand in hand through a misty enchanted forest",
	"Laughing on the bow of a luxury yacht at golden hour",
	"Strolling through a lavender field in Provence at sunset",
	"Sharing wine at a cozy candlelit cabin in the mountains",
	"Twirling in the rain on an old European cobblestone street",
}

// TextClient generates scene prompts and love letters. Every method falls
// back to local text when the model is unavailable, so callers never fail.
type TextClient struct {
	model llms.Model
}

func NewTextClient(model llms.Model) *TextClient {
	return &TextClient{model: model}
}

// NewOpenAITextClient connects to an OpenAI-compatible chat endpoint.
func NewOpenAITextClient(baseURL, modelName, apiKey string) (*TextClient, error) {
	llm, err := langopenai.New(
		langopenai.WithToken(apiKey),
		langopenai.WithModel(modelName),
		langopenai.WithBaseURL(baseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create text model: %w", err)
	}
	return NewTextClient(llm), nil
}

// FallbackScenes returns up to count of the built-in scene prompts.
func FallbackScenes(count int) []string {
	if count < 0 {
		count = 0
	}
	if count > len(fallbackScenes) {
		count = len(fallbackScenes)
	}
	out := make([]string, count)
	copy(out, fallbackScenes[:count])
	return out
}

// ScenePrompts asks for count one-sentence romantic scenes for the couple.
func (c *TextClient) ScenePrompts(ctx context.Context, partner1, partner2 string, count int) []string {
	if c.model == nil {
		return FallbackScenes(count)
	}

	prompt := fmt.Sprintf(`Generate exactly %d short, vivid, romantic scene descriptions for a couple named %s and %s.
Each scene should be a single sentence describing a beautiful setting or activity, like:
- "Dancing under string lights in a rooftop garden at sunset"
- "Walking hand in hand on a misty forest trail"
- "Laughing together on the bow of a yacht at golden hour"

Return ONLY a JSON array of strings, nothing else. Example: ["scene 1", "scene 2"]`, count, partner1, partner2)

	text, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt,
		llms.WithTemperature(1.0),
		llms.WithTopP(0.95),
	)
	if err != nil {
		logger.Warn("Scene prompt generation failed, using fallback", "error", err)
		return FallbackScenes(count)
	}

	scenes, err := parseSceneList(text)
	if err != nil {
		logger.Warn("Scene prompt response unusable, using fallback", "error", err)
		return FallbackScenes(count)
	}
	if len(scenes) > count {
		scenes = scenes[:count]
	}
	return scenes
}

func parseSceneList(text string) ([]string, error) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var scenes []string
	if err := json.Unmarshal([]byte(cleaned), &scenes); err != nil {
		return nil, fmt.Errorf("expected a JSON array of strings: %w", err)
	}
	return scenes, nil
}

// LoveLetter writes a save-the-date letter to friends and family.
func (c *TextClient) LoveLetter(ctx context.Context, partner1, partner2, story, adjectives string) string {
	if c.model == nil {
		return TemplateLetter(partner1, partner2)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a short, heartfelt letter from %s and %s to their friends and family announcing their wedding and asking them to save the date.", partner1, partner2)
	if strings.TrimSpace(story) != "" {
		fmt.Fprintf(&b, " Their story: %s.", strings.TrimSpace(story))
	}
	if strings.TrimSpace(adjectives) != "" {
		fmt.Fprintf(&b, " The tone should feel %s.", strings.TrimSpace(adjectives))
	}
	fmt.Fprintf(&b, " Start with \"Dearest Friends and Family,\" and sign it \"With love,\" followed by %s & %s. Return only the letter.", partner1, partner2)

	text, err := llms.GenerateFromSinglePrompt(ctx, c.model, b.String(), llms.WithTemperature(0.9))
	if err != nil || strings.TrimSpace(text) == "" {
		logger.Warn("Love letter generation failed, using template", "error", err)
		return TemplateLetter(partner1, partner2)
	}
	return strings.TrimSpace(text)
}

// TemplateLetter is the letter used when no model is reachable.
func TemplateLetter(partner1, partner2 string) string {
	return fmt.Sprintf(`Dearest Friends and Family,

We are over the moon to share our special day with you. As the days count down, our excitement grows, knowing that we will soon be celebrating our love surrounded by the people who mean the most to us.

Save the date, because we can't wait to dance the night away with you!

With love,
%s & %s`, partner1, partner2)
}
