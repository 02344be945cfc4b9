// Package deepwiki is a minimal client for the DeepWiki MCP server.
package deepwiki

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// DefaultEndpoint is the public DeepWiki MCP endpoint.
	DefaultEndpoint = "https://mcp.deepwiki.com/mcp"

	clientName = "deepwiki-export"

	toolReadStructure = "read_wiki_structure"
	toolReadContents  = "read_wiki_contents"
)

// ErrToolFailed is returned when the server reports a tool-level error.
// Such results are final and never retried.
var ErrToolFailed = errors.New("tool call failed")

// Source supplies the raw wiki payloads for a repository.
type Source interface {
	// ReadWikiStructure returns the outline text for owner/repo.
	ReadWikiStructure(ctx context.Context, repo string) (string, error)

	// ReadWikiContents returns every page of owner/repo concatenated.
	ReadWikiContents(ctx context.Context, repo string) (string, error)
}

// Options configures a Client.
type Options struct {
	Endpoint      string
	Timeout       time.Duration // per tool call attempt
	Retries       int
	RetryDelay    time.Duration
	ClientVersion string
	Logger        *slog.Logger
	HTTPClient    *http.Client
}

// Client calls DeepWiki tools over the MCP streamable HTTP transport.
//
// The session is opened lazily and dropped after any failed attempt, so a
// retry always starts from a fresh handshake.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	retries    uint
	retryDelay time.Duration
	log        *slog.Logger
	mcp        *mcp.Client

	mu      sync.Mutex
	session *mcp.ClientSession
}

var _ Source = (*Client)(nil)

// NewClient creates a new client. Zero options fall back to defaults.
func NewClient(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Minute
	}
	if opts.Retries <= 0 {
		opts.Retries = 1
	}
	if opts.ClientVersion == "" {
		opts.ClientVersion = "dev"
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		endpoint:   opts.Endpoint,
		httpClient: httpClient,
		timeout:    opts.Timeout,
		retries:    uint(opts.Retries),
		retryDelay: opts.RetryDelay,
		log:        opts.Logger,
		mcp: mcp.NewClient(&mcp.Implementation{
			Name:    clientName,
			Version: opts.ClientVersion,
		}, nil),
	}
}

// ReadWikiStructure returns the outline text for owner/repo.
func (c *Client) ReadWikiStructure(ctx context.Context, repo string) (string, error) {
	return c.CallTool(ctx, toolReadStructure, map[string]any{"repoName": repo})
}

// ReadWikiContents returns every page of owner/repo concatenated.
func (c *Client) ReadWikiContents(ctx context.Context, repo string) (string, error) {
	return c.CallTool(ctx, toolReadContents, map[string]any{"repoName": repo})
}

// CallTool invokes a server tool and returns the concatenated text content.
//
// Transport failures, including a body cut off mid-stream and an expired
// session, are retried on a new session. Tool errors and cancellation of ctx
// are not.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	c.log.Debug("calling tool", "tool", name, "args", args)
	start := time.Now()

	var text string
	err := retry.Do(
		func() error {
			var err error
			text, err = c.attempt(ctx, name, args)
			switch {
			case err == nil:
				return nil
			case errors.Is(err, ErrToolFailed):
				return retry.Unrecoverable(err)
			case ctx.Err() != nil:
				return retry.Unrecoverable(err)
			}
			c.reset()
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.retries),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.log.Warn("retrying tool call", "tool", name, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("call %s: %w", name, err)
	}

	c.log.Debug("tool returned", "tool", name, "bytes", len(text), "elapsed", time.Since(start))
	return text, nil
}

// Close ends the current session, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}
	err := c.session.Close()
	c.session = nil
	return err
}

func (c *Client) attempt(ctx context.Context, name string, args map[string]any) (string, error) {
	// The session outlives this attempt, so it is opened on ctx rather than
	// on the attempt deadline.
	session, err := c.connect(ctx)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, part := range res.Content {
		if tc, ok := part.(*mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	text := sb.String()

	if res.IsError {
		return "", fmt.Errorf("%w: %s: %s", ErrToolFailed, name, strings.TrimSpace(text))
	}
	return text, nil
}

// connect returns the live session, performing the handshake if needed.
func (c *Client) connect(ctx context.Context) (*mcp.ClientSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return c.session, nil
	}

	transport := &mcp.StreamableClientTransport{
		Endpoint:   c.endpoint,
		HTTPClient: c.httpClient,
	}
	session, err := c.mcp.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", c.endpoint, err)
	}

	c.session = session
	c.log.Debug("session ready", "endpoint", c.endpoint, "session", session.ID())
	return session, nil
}

// reset drops the current session so the next attempt reconnects.
func (c *Client) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return
	}
	_ = c.session.Close()
	c.session = nil
}
