package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/admitcheck"
	"github.com/aretw0/admitcheck/internal/logging"
	httpAdapter "github.com/aretw0/admitcheck/pkg/adapters/http"
	"github.com/aretw0/admitcheck/pkg/catalog"
	"github.com/aretw0/admitcheck/pkg/domain"
	"github.com/aretw0/admitcheck/pkg/journal"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const catalogURI = "admitcheck://catalog"

// ChatResponse is the structured result of the chat tool.
type ChatResponse struct {
	Response string           `json:"response" jsonschema_description:"Next question or rendered decision"`
	Choices  []string         `json:"choices" jsonschema_description:"Allowed answers, null for free text and terminal replies"`
	Progress int              `json:"progress" jsonschema_description:"Interview progress in percent"`
	Terminal bool             `json:"terminal" jsonschema_description:"True once a decision was produced"`
	Decision *domain.Decision `json:"decision,omitempty" jsonschema_description:"Structured decision of a terminal reply"`
}

// Assistant is the conversational core exposed over MCP.
type Assistant interface {
	Chat(ctx context.Context, sessionID, message string) (*domain.Reply, error)
	Report(ctx context.Context, days int) (journal.Report, error)
	Catalog() *catalog.Catalog
}

// Server wraps the Assistant and exposes it as an MCP Server.
type Server struct {
	assistant Assistant
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(a Assistant, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		assistant: a,
		mcpServer: server.NewMCPServer("admitcheck-mcp", strings.TrimSpace(admitcheck.Version)),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: chat
	chatTool := mcp.NewTool("chat",
		mcp.WithDescription("Send one applicant message to the admission eligibility interview. The first message for a new session id starts the interview."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation identifier")),
		mcp.WithString("message", mcp.Required(), mcp.Description("Applicant answer or a control token such as 'start'")),
		mcp.WithOutputSchema[ChatResponse](),
	)
	s.mcpServer.AddTool(chatTool, mcp.NewStructuredToolHandler(s.handleChat))

	// TOOL: report
	reportTool := mcp.NewTool("report",
		mcp.WithDescription("Summarize interview usage over a lookback window."),
		mcp.WithNumber("days", mcp.Description("Lookback window in days (default 7)")),
		mcp.WithOutputSchema[journal.Report](),
	)
	s.mcpServer.AddTool(reportTool, mcp.NewStructuredToolHandler(s.handleReport))
}

func (s *Server) handleChat(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ChatResponse, error) {
	sessionID, _ := args["session_id"].(string)
	message, _ := args["message"].(string)

	clean, err := httpAdapter.SanitizeMessage(message, httpAdapter.DefaultMaxInputSize)
	if err != nil {
		s.logger.Warn("MCP Chat: Input rejected", "err", err, "size", len(message))
		return ChatResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	reply, err := s.assistant.Chat(ctx, sessionID, clean)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("chat failed: %w", err)
	}

	return ChatResponse{
		Response: reply.Text,
		Choices:  reply.Choices,
		Progress: reply.Progress,
		Terminal: reply.Terminal,
		Decision: reply.Decision,
	}, nil
}

func (s *Server) handleReport(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (journal.Report, error) {
	days := httpAdapter.DefaultReportDays
	if v, ok := args["days"].(float64); ok && v >= 1 {
		days = int(v)
	}

	report, err := s.assistant.Report(ctx, days)
	if err != nil {
		return journal.Report{}, fmt.Errorf("report failed: %w", err)
	}
	return report, nil
}

func (s *Server) registerResources() {
	// EXPOSE: admitcheck://catalog
	s.mcpServer.AddResource(mcp.NewResource(catalogURI, "Interview Question Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.assistant.Catalog().Questions())
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      catalogURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
