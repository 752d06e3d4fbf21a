// Package gemini implements the external advice path against Google's
// Generative Language API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genlang "google.golang.org/api/generativelanguage/v1beta"
	goption "google.golang.org/api/option"

	"khata/internal/advice"
)

const defaultModel = "gemini-2.5-flash"

// temperature keeps tips consistent between calls without going fully
// deterministic.
const temperature = 0.3

type Advisor struct {
	svc   *genlang.Service
	model string
}

// Ensure interface conformance
var _ advice.TextAdvisor = (*Advisor)(nil)

// New creates an advisor authenticated with an API key. The model name may
// be bare ("gemini-2.5-flash") or fully qualified ("models/gemini-2.5-flash").
func New(ctx context.Context, apiKey, model string) (*Advisor, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing Google API key")
	}

	svc, err := genlang.NewService(ctx, goption.WithAPIKey(strings.TrimSpace(apiKey)))
	if err != nil {
		return nil, fmt.Errorf("generative language service: %w", err)
	}

	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}

	return &Advisor{svc: svc, model: model}, nil
}

// Generate sends the snapshot prompt to the model and returns its reply text.
func (a *Advisor) Generate(ctx context.Context, snap advice.Snapshot) (string, error) {
	if a.svc == nil {
		return "", errors.New("generative language service not initialized")
	}

	req := &genlang.GenerateContentRequest{
		Contents: []*genlang.Content{{
			Role:  "user",
			Parts: []*genlang.Part{{Text: advice.Prompt(snap)}},
		}},
		GenerationConfig: &genlang.GenerationConfig{
			Temperature: temperature,
		},
	}

	resp, err := a.svc.Models.GenerateContent(a.qualifiedModel(), req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return "", errors.New("empty model response")
	}

	return text, nil
}

func (a *Advisor) qualifiedModel() string {
	if strings.HasPrefix(a.model, "models/") {
		return a.model
	}
	return "models/" + a.model
}

// extractText concatenates the text parts of the first candidate that has
// any. Candidates without content are skipped.
func extractText(resp *genlang.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if part != nil {
				b.WriteString(part.Text)
			}
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			return text
		}
	}
	return ""
}
