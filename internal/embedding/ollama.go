package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	apperrors "github.com/nimyab/word-aligner/internal/errors"
	"github.com/nimyab/word-aligner/internal/httpclient"
	"github.com/nimyab/word-aligner/internal/logging"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434/api"
	defaultOllamaModel   = "nomic-embed-text"

	// Embedding responses are a few hundred KB for a full batch;
	// anything past this cap means the wrong endpoint answered.
	maxOllamaResponseBytes = 32 << 20
)

// OllamaConfig configures the Ollama embedder.
type OllamaConfig struct {
	Model   string        // default: nomic-embed-text
	BaseURL string        // default: http://localhost:11434
	Timeout time.Duration // per-request timeout, default 60s
	Retry   apperrors.RetryConfig
	Logger  logging.Logger
}

// Ollama implements Embedder against a local Ollama server's
// /api/embed endpoint. Transient failures are retried with backoff
// and the transport is guarded by a circuit breaker.
type Ollama struct {
	model      string
	baseURL    string
	httpClient *http.Client
	retry      apperrors.RetryConfig
	logger     logging.Logger

	// Dimensionality is model-dependent and learned from the first
	// successful response.
	dims atomic.Int64
}

var _ Embedder = (*Ollama)(nil)

// NewOllama creates an Ollama embedder.
func NewOllama(cfg OllamaConfig) *Ollama {
	if cfg.Model == "" {
		cfg.Model = defaultOllamaModel
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	if !strings.HasSuffix(baseURL, "/api") {
		baseURL += "/api"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = apperrors.DefaultRetryConfig()
	}
	logger := logging.OrNop(cfg.Logger)
	cfg.Retry.Logger = logger

	return &Ollama{
		model:      cfg.Model,
		baseURL:    baseURL,
		httpClient: httpclient.NewWithCircuitBreaker(timeout, logger, "ollama-embed"),
		retry:      cfg.Retry,
		logger:     logger,
	}
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
	Error      string      `json:"error,omitempty"`
}

// EmbedBatch returns embeddings for the given texts in one request.
func (o *Ollama) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyBatch
	}

	payload, err := json.Marshal(ollamaEmbedRequest{Model: o.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	vecs, err := apperrors.RetryWithResult(ctx, o.retry, func(ctx context.Context) ([][]float32, error) {
		return o.callAPI(ctx, payload, len(texts))
	})
	if err != nil {
		return nil, err
	}

	if len(vecs) > 0 {
		o.dims.Store(int64(len(vecs[0])))
	}
	return vecs, nil
}

func (o *Ollama) callAPI(ctx context.Context, payload []byte, want int) ([][]float32, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/embed", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := httpclient.ReadBody(resp.Body, maxOllamaResponseBytes)
	if err != nil {
		return nil, fmt.Errorf("read embed response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apperrors.StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var decoded ollamaEmbedResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if decoded.Error != "" {
		return nil, fmt.Errorf("ollama error: %s", decoded.Error)
	}
	if len(decoded.Embeddings) != want {
		return nil, fmt.Errorf("ollama returned %d embeddings for %d inputs", len(decoded.Embeddings), want)
	}
	return decoded.Embeddings, nil
}

// Dimensions returns the dimensionality observed on the last call, or
// 0 before the first successful request.
func (o *Ollama) Dimensions() int {
	return int(o.dims.Load())
}

// Model returns the Ollama model name.
func (o *Ollama) Model() string {
	return o.model
}
