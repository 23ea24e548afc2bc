package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/admitcheck/internal/logging"
	"github.com/aretw0/admitcheck/pkg/domain"
	"github.com/aretw0/admitcheck/pkg/journal"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultReportDays is the lookback window when /report has no days parameter.
const DefaultReportDays = 7

// Assistant is the conversational core served over HTTP.
type Assistant interface {
	Chat(ctx context.Context, sessionID, message string) (*domain.Reply, error)
	Report(ctx context.Context, days int) (journal.Report, error)
}

// ChatRequest is the body of POST /chat. user_id is accepted as an alias of
// session_id.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
}

// ChatResponse is the body returned by POST /chat. Options mirrors Choices.
type ChatResponse struct {
	Response string           `json:"response"`
	Choices  []string         `json:"choices"`
	Options  []string         `json:"options"`
	Progress int              `json:"progress"`
	Terminal bool             `json:"terminal"`
	Decision *domain.Decision `json:"decision,omitempty"`
}

// Server serves the assistant over HTTP.
type Server struct {
	Assistant    Assistant
	Streams      *StreamManager
	Metrics      http.Handler
	MaxInputSize int
	Logger       *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStreams enables GET /events. The manager's Hooks must be registered on
// the assistant for events to flow.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithMaxInputSize overrides the message size limit.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		s.MaxInputSize = n
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = l
	}
}

// NewHandler creates the HTTP handler for the assistant.
func NewHandler(a Assistant, opts ...Option) http.Handler {
	server := &Server{
		Assistant:    a,
		MaxInputSize: DefaultMaxInputSize,
		Logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.With(middleware.RequestSize(server.bodyLimit())).Post("/chat", server.Chat)
	r.Get("/report", server.GetReport)
	r.Get("/health", server.GetHealth)
	if server.Streams != nil {
		r.Get("/events", server.SubscribeEvents)
	}
	if server.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.Metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bodyLimit caps a /chat body: the escaped message plus the envelope.
func (s *Server) bodyLimit() int64 {
	limit := s.MaxInputSize
	if limit <= 0 {
		limit = DefaultMaxInputSize
	}
	return int64(limit)*6 + 1024
}

// Chat handles the POST /chat request.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var body ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			s.Logger.Warn("Chat: Request body too large", "limit", tooLarge.Limit)
			return
		}
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Chat: Invalid request body", "err", err)
		return
	}

	sessionID := strings.TrimSpace(body.SessionID)
	if sessionID == "" {
		sessionID = strings.TrimSpace(body.UserID)
	}
	if sessionID == "" {
		http.Error(w, "session_id or user_id is required", http.StatusBadRequest)
		return
	}

	message, err := SanitizeMessage(body.Message, s.MaxInputSize)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid message: %v", err), http.StatusBadRequest)
		s.Logger.Warn("Chat: Input rejected", "err", err, "size", len(body.Message))
		return
	}

	reply, err := s.Assistant.Chat(r.Context(), sessionID, message)
	if err != nil {
		http.Error(w, "Chat failed", http.StatusInternalServerError)
		s.Logger.Error("Chat failed", "session_id", sessionID, "err", err)
		return
	}

	writeJSON(w, s.Logger, ChatResponse{
		Response: reply.Text,
		Choices:  reply.Choices,
		Options:  reply.Choices,
		Progress: reply.Progress,
		Terminal: reply.Terminal,
		Decision: reply.Decision,
	})
}

// GetReport handles the GET /report request.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	days := DefaultReportDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}
		days = n
	}

	report, err := s.Assistant.Report(r.Context(), days)
	if err != nil {
		http.Error(w, "Report failed", http.StatusInternalServerError)
		s.Logger.Error("Report failed", "days", days, "err", err)
		return
	}
	writeJSON(w, s.Logger, report)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, map[string]string{"status": "ok"})
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()
	s.Logger.Info("SSE: Subscribing to session events", "session_id", sessionID)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("response encode failed", "err", err)
	}
}
