// Package gemini implements the candidate name generator on top of the Google
// GenAI API with structured JSON output.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"marketdir/internal/domain"
)

const (
	// Operation-level budget for one generation call when the caller's context
	// carries no deadline.
	generateTimeout = 60 * time.Second

	systemPrompt = `You are a commodity market research assistant. You only list
real, publicly known companies that have a public brand presence (a website and
recognizable branding). Never invent company names.`
)

type Generator struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Generator{client: client, model: model}, nil
}

// candidateSchema constrains the model to the exact list-of-tuples shape the
// pipeline consumes. Non-conforming output is rejected, not repaired.
func candidateSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name":   {Type: genai.TypeString, Description: "official company name"},
				"type":   {Type: genai.TypeString, Description: "business category, e.g. Mining Company"},
				"region": {Type: genai.TypeString, Description: "coarse geography, e.g. Americas, Europe, Asia, Africa"},
			},
			Required: []string{"name", "type", "region"},
		},
	}
}

func buildPrompt(commodityLabel string, count int) string {
	return fmt.Sprintf(
		"List %d real companies active in %s. Cover a diverse set of regions. "+
			"Return only the JSON array described by the response schema, with each "+
			"entry's name, type and region filled in.",
		count, commodityLabel)
}

// Generate asks the model for up to count candidates for a commodity. Any
// transport, timeout or schema failure is a *domain.GenerationError; the batch
// attempt is not salvaged from malformed output.
func (g *Generator) Generate(ctx context.Context, commodityLabel string, count int) ([]domain.Candidate, error) {
	if count <= 0 {
		return nil, fmt.Errorf("gemini: count must be positive, got %d", count)
	}
	if strings.TrimSpace(commodityLabel) == "" {
		return nil, fmt.Errorf("gemini: commodity label is required")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, generateTimeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    candidateSchema(),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(buildPrompt(commodityLabel, count)), cfg)
	if err != nil {
		return nil, &domain.GenerationError{Reason: "generate content request failed", Err: err}
	}

	return parseCandidates(resp.Text(), count)
}

// parseCandidates validates the raw model output against the expected shape
// and trims it to count. Blank entries mean the output does not conform.
func parseCandidates(raw string, count int) ([]domain.Candidate, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &domain.GenerationError{Reason: "empty completion"}
	}

	var parsed []struct {
		Name   string `json:"name"`
		Type   string `json:"type"`
		Region string `json:"region"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, &domain.GenerationError{Reason: "completion is not a candidate list", Err: err}
	}
	if len(parsed) == 0 {
		return nil, &domain.GenerationError{Reason: "completion contained no candidates"}
	}

	candidates := make([]domain.Candidate, 0, len(parsed))
	for _, p := range parsed {
		if strings.TrimSpace(p.Name) == "" {
			return nil, &domain.GenerationError{Reason: "candidate with empty name"}
		}
		candidates = append(candidates, domain.Candidate{
			Name:   strings.TrimSpace(p.Name),
			Type:   strings.TrimSpace(p.Type),
			Region: strings.TrimSpace(p.Region),
		})
	}
	if len(candidates) > count {
		candidates = candidates[:count]
	}
	return candidates, nil
}
