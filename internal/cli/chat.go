package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/admitcheck/internal/presentation/tui"
	httpAdapter "github.com/aretw0/admitcheck/pkg/adapters/http"
	"github.com/aretw0/admitcheck/pkg/domain"
	"github.com/google/uuid"
	"golang.org/x/term"
)

// Conversation is the part of the assistant a terminal session drives.
type Conversation interface {
	Start(ctx context.Context, sessionID string, prefill map[string]string) (*domain.Reply, error)
	Chat(ctx context.Context, sessionID, message string) (*domain.Reply, error)
}

// ChatOptions configures an interactive session.
type ChatOptions struct {
	SessionID string
	Prefill   map[string]string
	// JSON switches to JSON-Lines: one reply object per line out, one
	// message (JSON string or raw text) per line in.
	JSON     bool
	Input    io.Reader
	Output   io.Writer
	Renderer tui.Renderer
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// RunChat drives one applicant session until a decision is reached, the
// input ends, the applicant types "exit", or ctx is cancelled.
func RunChat(ctx context.Context, conv Conversation, opts ChatOptions) error {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Renderer == nil {
		opts.Renderer = tui.PlainRenderer
	}
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}

	lines := pump(opts.Input)

	reply, err := conv.Start(ctx, opts.SessionID, opts.Prefill)
	if err != nil {
		return err
	}

	for {
		if err := writeReply(opts, reply); err != nil {
			return err
		}
		if reply.Terminal {
			return nil
		}

		if !opts.JSON {
			fmt.Fprint(opts.Output, "> ")
		}

		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = l
		}

		msg := parseInput(line, opts.JSON)
		if isExit(msg) {
			return nil
		}
		msg = resolveChoice(msg, reply.Choices)

		msg, err = httpAdapter.SanitizeMessage(msg, httpAdapter.DefaultMaxInputSize)
		if err != nil {
			fmt.Fprintf(opts.Output, "Eingabe verworfen: %v\n", err)
			continue
		}

		reply, err = conv.Chat(ctx, opts.SessionID, msg)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

// pump reads lines in the background so a blocked read never holds up
// cancellation.
func pump(r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		reader := bufio.NewReader(r)
		for {
			text, err := reader.ReadString('\n')
			if text != "" {
				ch <- strings.TrimRight(text, "\r\n")
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}

func writeReply(opts ChatOptions, reply *domain.Reply) error {
	if opts.JSON {
		return json.NewEncoder(opts.Output).Encode(reply)
	}

	rendered, err := opts.Renderer(reply.Text)
	if err != nil {
		rendered = reply.Text
	}
	fmt.Fprintln(opts.Output, strings.TrimSpace(rendered))
	if !reply.Terminal {
		fmt.Fprint(opts.Output, tui.FormatChoices(reply.Choices))
		fmt.Fprintln(opts.Output, tui.ProgressBar(reply.Progress))
	}
	return nil
}

func parseInput(line string, jsonMode bool) string {
	line = strings.TrimSpace(line)
	if jsonMode {
		var s string
		if err := json.Unmarshal([]byte(line), &s); err == nil {
			return s
		}
	}
	return line
}

func isExit(msg string) bool {
	switch strings.ToLower(msg) {
	case "exit", "quit", "beenden":
		return true
	}
	return false
}

// resolveChoice maps a 1-based option number to the option itself.
func resolveChoice(msg string, choices []string) string {
	n, err := strconv.Atoi(msg)
	if err != nil || n < 1 || n > len(choices) {
		return msg
	}
	return choices[n-1]
}
