package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"finlog/internal/ledgererror"
	"finlog/internal/models"
	"finlog/internal/taxonomy"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

var log = logrus.New()

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// GeminiExtractor implements Extractor against the Google Gemini API. The
// prompt names the taxonomy's canonical categories so the model's guesses
// and the normalizer's resolver share one vocabulary.
type GeminiExtractor struct {
	client     *genai.Client
	model      *genai.GenerativeModel
	categories []string
}

// NewGeminiExtractor creates a Gemini-backed extractor. The taxonomy
// snapshot fixes the category vocabulary offered to the model.
func NewGeminiExtractor(ctx context.Context, apiKey, modelName string, tax taxonomy.Taxonomy) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)
	model.SetMaxOutputTokens(500)

	return &GeminiExtractor{
		client:     client,
		model:      model,
		categories: tax.Canonical(),
	}, nil
}

// Close releases the underlying API client.
func (g *GeminiExtractor) Close() error {
	return g.client.Close()
}

// Extract sends rawText to Gemini and parses the JSON candidate out of the
// response. Network errors, empty responses and unparsable payloads all
// surface as *ledgererror.ExtractionError.
func (g *GeminiExtractor) Extract(ctx context.Context, rawText string) (models.CandidateRecord, error) {
	prompt := g.buildPrompt(rawText)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return models.CandidateRecord{}, &ledgererror.ExtractionError{
			RawText: rawText,
			Err:     fmt.Errorf("gemini request failed: %w", err),
		}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return models.CandidateRecord{}, &ledgererror.ExtractionError{
			RawText: rawText,
			Err:     fmt.Errorf("gemini returned no content"),
		}
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return models.CandidateRecord{}, &ledgererror.ExtractionError{
			RawText: rawText,
			Err:     fmt.Errorf("gemini returned a non-text part"),
		}
	}

	candidate, err := parseCandidateJSON(string(text))
	if err != nil {
		return models.CandidateRecord{}, &ledgererror.ExtractionError{
			RawText: rawText,
			Err:     err,
		}
	}

	log.WithFields(logrus.Fields{
		"amount":   candidate.Amount,
		"category": candidate.Category,
		"type":     candidate.Type,
	}).Debug("Extracted candidate record")

	return candidate, nil
}

func (g *GeminiExtractor) buildPrompt(rawText string) string {
	return fmt.Sprintf(
		"Extract expense/income data from the following message. "+
			"Reply ONLY with a JSON object containing 'description' (string), "+
			"'category' (string, one of: %s), "+
			"'amount' (number), and 'type' (string, either 'expense' or 'income').\n\n"+
			"Message: %s",
		strings.Join(g.categories, ", "), rawText)
}

// candidateWire tolerates the model returning amount as either a JSON
// number or a string.
type candidateWire struct {
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Amount      interface{} `json:"amount"`
	Type        string      `json:"type"`
}

func parseCandidateJSON(payload string) (models.CandidateRecord, error) {
	payload = stripCodeFence(payload)

	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()

	var wire candidateWire
	if err := dec.Decode(&wire); err != nil {
		return models.CandidateRecord{}, fmt.Errorf("malformed candidate JSON: %w", err)
	}

	candidate := models.CandidateRecord{
		Description: wire.Description,
		Category:    wire.Category,
		Type:        wire.Type,
	}

	switch v := wire.Amount.(type) {
	case nil:
		// absent; the normalizer rejects it
	case string:
		candidate.Amount = v
	case json.Number:
		candidate.Amount = v.String()
	default:
		return models.CandidateRecord{}, fmt.Errorf("unexpected amount type %T in candidate JSON", v)
	}

	return candidate, nil
}

// stripCodeFence removes a markdown ```json fence if the model wrapped its
// reply in one.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
