// Package ollama implements llm.Provider over a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	apperrors "github.com/springymate/book-scanner/internal/errors"
	"github.com/springymate/book-scanner/internal/llm"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "llama3.2"

// Ollama is a provider for Ollama
type Ollama struct {
	baseURL string
	client  *http.Client
}

// New returns a new Ollama provider for the server at baseURL
// (e.g. http://localhost:11434).
func New(baseURL string, client *http.Client) *Ollama {
	if client == nil {
		client = &http.Client{}
	}
	return &Ollama{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

// Name returns the provider name.
func (o *Ollama) Name() string {
	return "ollama"
}

type generateRequest struct {
	Model   string         `json:"model"`
	System  string         `json:"system,omitempty"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Format  string         `json:"format,omitempty"`
	Options map[string]any `json:"options"`
}

// Generate sends the prompt to /api/generate without streaming.
func (o *Ollama) Generate(ctx context.Context, r llm.Request) (string, error) {
	if o.baseURL == "" {
		return "", fmt.Errorf("OLLAMA_URL not set: %w", llm.ErrNotConfigured)
	}

	model := r.Model
	if model == "" {
		model = DefaultModel
	}

	options := map[string]any{"temperature": r.Temperature}
	if r.MaxTokens > 0 {
		options["num_predict"] = r.MaxTokens
	}

	requestBody, err := json.Marshal(generateRequest{
		Model:   model,
		System:  r.System,
		Prompt:  r.Prompt,
		Stream:  false,
		Options: options,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", apperrors.NewAPIStatusError("Ollama", resp.StatusCode, string(body))
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	return response.Response, nil
}
