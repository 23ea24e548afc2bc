package narrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/admitcheck/pkg/domain"
)

// CallEvent records metadata about a single completion call.
type CallEvent struct {
	Model    string
	Latency  time.Duration
	Attempts int
	Success  bool
	Err      error
}

// Observer receives events about completion calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(CallEvent)

func (f ObserverFunc) OnCallComplete(event CallEvent) { f(event) }

type noopObserver struct{}

func (noopObserver) OnCallComplete(CallEvent) {}

const systemPrompt = "Du bist ein sachlicher, deutschsprachiger Studienberater der Hochschule Bielefeld (HSBI). " +
	"Antworte ausschließlich auf Deutsch."

const userPromptIntro = `Die Zulassungsentscheidung wurde bereits getroffen und ist verbindlich.
Formuliere eine kurze, freundliche Erläuterung (höchstens 120 Wörter) für die bewerbende Person.
Ändere die Entscheidung nicht, nenne keine eigene Entscheidung und füge keine neuen Kriterien hinzu.
Gib nur Fließtext ohne Überschrift zurück.

Entscheidung (JSON):
`

// LLM narrates decisions through an OpenAI-compatible chat completions API.
// The model only contributes prose; header and details come from the Decision.
type LLM struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
	template *Template
}

// LLMOption configures the LLM narrator.
type LLMOption func(*LLM)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) LLMOption {
	return func(l *LLM) {
		l.http = c
	}
}

// WithObserver registers a call observer.
func WithObserver(o Observer) LLMOption {
	return func(l *LLM) {
		l.observer = o
	}
}

// NewLLM creates the completion-backed narrator.
func NewLLM(cfg LLMConfig, opts ...LLMOption) *LLM {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultLLMConfig().Timeout
	}
	l := &LLM{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: noopObserver{},
		template: NewTemplate(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Narrate asks the model for an explanation and frames it with the
// structured verdict header and details.
func (l *LLM) Narrate(ctx context.Context, d *domain.Decision) (string, error) {
	prose, err := l.complete(ctx, d)
	if err != nil {
		return "", err
	}

	head, err := l.template.Header(d)
	if err != nil {
		return "", err
	}
	body, err := l.template.Details(d)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(head + "\n\n" + prose + "\n" + body), nil
}

func (l *LLM) complete(ctx context.Context, d *domain.Decision) (string, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()

	payload, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling decision: %w", err)
	}
	body := chatRequest{
		Model: l.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPromptIntro + string(payload)},
		},
		Temperature: l.cfg.Temperature,
	}

	var lastErr error
	attempts := 0
	for i := 0; i < 1+l.cfg.MaxRetries; i++ {
		attempts++
		text, err := l.doRequest(ctx, body)
		if err == nil {
			l.observer.OnCallComplete(CallEvent{Model: l.cfg.Model, Latency: time.Since(start), Attempts: attempts, Success: true})
			return text, nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout
		if ctx.Err() != nil {
			break
		}
	}

	switch {
	case ctx.Err() != nil:
		lastErr = ErrTimeout
	case errors.Is(lastErr, ErrEmptyCompletion):
	default:
		lastErr = fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
	}
	l.observer.OnCallComplete(CallEvent{Model: l.cfg.Model, Latency: time.Since(start), Attempts: attempts, Err: lastErr})
	return "", lastErr
}

func (l *LLM) doRequest(ctx context.Context, body chatRequest) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(l.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if l.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+l.cfg.APIKey)
	}

	httpResp, err := l.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion service returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
