package studio

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/eternalglow/internal/cli"
	"github.com/julianstephens/eternalglow/internal/constants"
)

// LetterCmd writes a save-the-date letter from the couple's story.
type LetterCmd struct {
	Out string `short:"o" type:"path" help:"Write the letter to a file."`
}

func (c *LetterCmd) Run(ctx *cli.Context) error {
	snap := ctx.Store.Snapshot()
	if snap.Partner1Name == "" || snap.Partner2Name == "" {
		return fmt.Errorf("set your names first with `eternalglow profile names`")
	}

	rctx, cancel := ctx.WithTimeout(context.Background())
	defer cancel()

	letter := ctx.TextClient().LoveLetter(rctx, snap.Partner1Name, snap.Partner2Name, snap.Story, snap.Adjectives)
	if c.Out != "" {
		if err := os.WriteFile(c.Out, []byte(letter+"\n"), 0600); err != nil {
			return fmt.Errorf("failed to write letter: %w", err)
		}
		fmt.Printf("✓ Letter written to %s\n", c.Out)
		return nil
	}
	fmt.Println(letter)
	return nil
}

// PromptsCmd suggests scenes for the gallery.
type PromptsCmd struct {
	Count int `short:"n" default:"6" help:"How many scenes to suggest."`
}

func (c *PromptsCmd) Validate() error {
	if c.Count < 1 || c.Count > 20 {
		return fmt.Errorf("count must be between 1 and 20")
	}
	return nil
}

func (c *PromptsCmd) Run(ctx *cli.Context) error {
	snap := ctx.Store.Snapshot()

	rctx, cancel := ctx.WithTimeout(context.Background())
	defer cancel()

	for i, scene := range ctx.TextClient().ScenePrompts(rctx, snap.Partner1Name, snap.Partner2Name, c.Count) {
		fmt.Printf("%d. %s\n", i+1, scene)
	}
	return nil
}

// ImageCmd illustrates one scene.
type ImageCmd struct {
	Scene string `arg:"" optional:"" help:"Scene to illustrate. Defaults to a suggested scene."`
	Out   string `short:"o" type:"path" help:"Write the image to a file instead of printing a data URI."`
	Use   bool   `help:"Use the image as the base photo."`
}

func (c *ImageCmd) Run(ctx *cli.Context) error {
	rctx, cancel := ctx.WithTimeout(context.Background())
	defer cancel()

	scene := strings.TrimSpace(c.Scene)
	if scene == "" {
		snap := ctx.Store.Snapshot()
		scenes := ctx.TextClient().ScenePrompts(rctx, snap.Partner1Name, snap.Partner2Name, constants.DefaultScenePromptCount)
		if len(scenes) == 0 {
			return fmt.Errorf("no scene to illustrate")
		}
		scene = scenes[0]
		fmt.Printf("Scene: %s\n", scene)
	}

	uri, err := ctx.ImageClient().Generate(rctx, scene)
	if err != nil {
		return fmt.Errorf("image generation failed, please try again: %w", err)
	}
	if uri == nil {
		return fmt.Errorf("no image came back for this scene, try another one")
	}

	if c.Use {
		if err := ctx.Store.SetBaseImage(*uri); err != nil {
			return err
		}
		fmt.Println("✓ Image set as base photo")
	}

	if c.Out != "" {
		data, err := DecodeDataURI(*uri)
		if err != nil {
			return err
		}
		if err := os.WriteFile(c.Out, data, 0600); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
		fmt.Printf("✓ Image written to %s\n", c.Out)
		return nil
	}
	if !c.Use {
		fmt.Println(*uri)
	}
	return nil
}

// DecodeDataURI returns the bytes of a base64 data URI.
func DecodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if !strings.HasPrefix(uri, "data:") || comma < 0 || !strings.HasSuffix(uri[:comma], ";base64") {
		return nil, fmt.Errorf("not a base64 data URI")
	}
	data, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("invalid image data: %w", err)
	}
	return data, nil
}
