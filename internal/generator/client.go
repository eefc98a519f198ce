// Package generator talks to the content-generation service that turns raw
// study material into flashcards and quiz scenarios. A deterministic fallback
// covers deployments without the service.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hsaleh/murajaa/internal/logger"
)

// GeneratedCard is one front/back pair produced from source text.
type GeneratedCard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// GeneratedScenario is a quiz produced from source text.
type GeneratedScenario struct {
	Title     string              `json:"title"`
	Questions []GeneratedQuestion `json:"questions"`
}

// GeneratedQuestion is one multiple-choice question in a scenario.
type GeneratedQuestion struct {
	Prompt             string   `json:"prompt"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a Client against the generation service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Default().WithPrefix("generator"),
	}
}

type cardsRequest struct {
	SourceText string `json:"source_text"`
	Count      int    `json:"count"`
}

type cardsResponse struct {
	Cards []GeneratedCard `json:"cards"`
}

func (c *Client) GenerateCards(ctx context.Context, sourceText string, count int) ([]GeneratedCard, error) {
	log := logger.FromContext(ctx).WithPrefix("generator").WithField("source_chars", len(sourceText))

	log.Debug("requesting %d cards", count)
	start := time.Now()

	var out cardsResponse
	if err := c.post(ctx, "/v1/cards", cardsRequest{SourceText: sourceText, Count: count}, &out); err != nil {
		log.Error("card generation failed: %v", err)
		return nil, err
	}

	log.Info("generated %d cards in %v", len(out.Cards), time.Since(start))
	return out.Cards, nil
}

type scenarioRequest struct {
	SourceText    string `json:"source_text"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"question_count"`
}

func (c *Client) GenerateScenario(ctx context.Context, sourceText string, difficulty string, questionCount int) (*GeneratedScenario, error) {
	log := logger.FromContext(ctx).WithPrefix("generator").WithField("difficulty", difficulty)

	log.Debug("requesting scenario with %d questions", questionCount)
	start := time.Now()

	var out GeneratedScenario
	if err := c.post(ctx, "/v1/scenarios", scenarioRequest{
		SourceText:    sourceText,
		Difficulty:    difficulty,
		QuestionCount: questionCount,
	}, &out); err != nil {
		log.Error("scenario generation failed: %v", err)
		return nil, err
	}

	log.Info("generated scenario %q with %d questions in %v", out.Title, len(out.Questions), time.Since(start))
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s status %d: %s", path, resp.StatusCode, string(msg))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
