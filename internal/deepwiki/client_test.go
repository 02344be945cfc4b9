package deepwiki

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type repoArgs struct {
	RepoName string `json:"repoName"`
}

// wikiServer serves the two DeepWiki tools through the MCP SDK and counts
// the JSON-RPC methods it sees on the wire.
type wikiServer struct {
	structure string
	contents  string
	toolError string

	mu      sync.Mutex
	methods map[string]int
	repos   []string

	// intercept, when set, may take over a tools/call request before the
	// SDK handler sees it. It returns true if it wrote the response.
	intercept func(w http.ResponseWriter, r *http.Request, call int) bool
}

func (s *wikiServer) handler(jsonResponse bool) http.Handler {
	server := mcp.NewServer(&mcp.Implementation{Name: "deepwiki-test", Version: "v0.0.1"}, nil)
	mcp.AddTool(server, &mcp.Tool{Name: toolReadStructure}, s.tool(func() string { return s.structure }))
	mcp.AddTool(server, &mcp.Tool{Name: toolReadContents}, s.tool(func() string { return s.contents }))

	sdk := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: jsonResponse})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := s.record(r)
		if method == "tools/call" && s.intercept != nil {
			s.mu.Lock()
			call := s.methods[method]
			s.mu.Unlock()
			if s.intercept(w, r, call) {
				return
			}
		}
		sdk.ServeHTTP(w, r)
	})
}

func (s *wikiServer) tool(text func() string) mcp.ToolHandlerFor[repoArgs, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, args repoArgs) (*mcp.CallToolResult, any, error) {
		s.mu.Lock()
		s.repos = append(s.repos, args.RepoName)
		s.mu.Unlock()

		if s.toolError != "" {
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{&mcp.TextContent{Text: s.toolError}},
			}, nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text()}},
		}, nil, nil
	}
}

// record notes the JSON-RPC method of a POST and restores the body.
func (s *wikiServer) record(r *http.Request) string {
	if r.Method != http.MethodPost {
		return ""
	}
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	var msg struct {
		Method string `json:"method"`
	}
	_ = json.Unmarshal(body, &msg)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.methods == nil {
		s.methods = make(map[string]int)
	}
	s.methods[msg.Method]++
	return msg.Method
}

func (s *wikiServer) count(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.methods[method]
}

func newTestClient(t *testing.T, h http.Handler, retries int) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewClient(Options{
		Endpoint:   srv.URL,
		Timeout:    5 * time.Second,
		Retries:    retries,
		RetryDelay: time.Millisecond,
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClient_ReadsTools(t *testing.T) {
	for _, jsonResponse := range []bool{false, true} {
		t.Run(fmt.Sprintf("json=%v", jsonResponse), func(t *testing.T) {
			s := &wikiServer{
				structure: "- 1 Overview\n- 2 Usage",
				contents:  "# Page: Overview\n\nHello",
			}
			c := newTestClient(t, s.handler(jsonResponse), 3)
			ctx := context.Background()

			got, err := c.ReadWikiStructure(ctx, "owner/repo")
			if err != nil {
				t.Fatalf("ReadWikiStructure: %v", err)
			}
			if got != s.structure {
				t.Errorf("ReadWikiStructure() = %q, want %q", got, s.structure)
			}

			got, err = c.ReadWikiContents(ctx, "owner/repo")
			if err != nil {
				t.Fatalf("ReadWikiContents: %v", err)
			}
			if got != s.contents {
				t.Errorf("ReadWikiContents() = %q, want %q", got, s.contents)
			}

			if n := s.count("initialize"); n != 1 {
				t.Errorf("initialize sent %d times, want 1", n)
			}
			for _, repo := range s.repos {
				if repo != "owner/repo" {
					t.Errorf("repoName = %q, want %q", repo, "owner/repo")
				}
			}
		})
	}
}

func TestClient_ToolErrorIsNotRetried(t *testing.T) {
	s := &wikiServer{toolError: "Repository not found"}
	c := newTestClient(t, s.handler(false), 3)

	_, err := c.ReadWikiContents(context.Background(), "owner/missing")
	if !errors.Is(err, ErrToolFailed) {
		t.Fatalf("expected ErrToolFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "Repository not found") {
		t.Errorf("error should carry the tool text, got %v", err)
	}
	if n := s.count("tools/call"); n != 1 {
		t.Errorf("tools/call sent %d times, want 1", n)
	}
}

func TestClient_RetriesTruncatedBody(t *testing.T) {
	s := &wikiServer{contents: "# Page: Overview\n\nHello"}
	s.intercept = func(w http.ResponseWriter, r *http.Request, call int) bool {
		if call > 1 {
			return false
		}
		// Announce an event stream, send half an event, then drop the
		// connection.
		conn, buf, err := http.NewResponseController(w).Hijack()
		if err != nil {
			t.Errorf("hijack: %v", err)
			return false
		}
		defer conn.Close()
		partial := "event: message\ndata: {\"jsonrpc\":\"2.0\",\"id\":"
		fmt.Fprintf(buf, "HTTP/1.1 200 OK\r\nContent-Type: text/event-stream\r\nTransfer-Encoding: chunked\r\n\r\n")
		fmt.Fprintf(buf, "%x\r\n%s\r\n", len(partial), partial)
		_ = buf.Flush()
		return true
	}
	c := newTestClient(t, s.handler(false), 3)

	got, err := c.ReadWikiContents(context.Background(), "owner/repo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != s.contents {
		t.Errorf("ReadWikiContents() = %q, want %q", got, s.contents)
	}
	if n := s.count("tools/call"); n != 2 {
		t.Errorf("tools/call sent %d times, want 2", n)
	}
}

func TestClient_ReconnectsAfterSessionNotFound(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"session expired", http.StatusNotFound},
		{"server unavailable", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &wikiServer{structure: "- 1 Overview"}
			s.intercept = func(w http.ResponseWriter, r *http.Request, call int) bool {
				if call > 1 {
					return false
				}
				http.Error(w, http.StatusText(tt.status), tt.status)
				return true
			}
			c := newTestClient(t, s.handler(false), 3)

			got, err := c.ReadWikiStructure(context.Background(), "owner/repo")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != s.structure {
				t.Errorf("ReadWikiStructure() = %q, want %q", got, s.structure)
			}
			if n := s.count("initialize"); n != 2 {
				t.Errorf("initialize sent %d times, want 2", n)
			}
		})
	}
}

func TestClient_GivesUpAfterRetries(t *testing.T) {
	s := &wikiServer{}
	s.intercept = func(w http.ResponseWriter, r *http.Request, call int) bool {
		http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
		return true
	}
	c := newTestClient(t, s.handler(false), 3)

	if _, err := c.ReadWikiStructure(context.Background(), "owner/repo"); err == nil {
		t.Fatal("expected an error")
	}
	if n := s.count("tools/call"); n != 3 {
		t.Errorf("tools/call sent %d times, want 3", n)
	}
}

func TestClient_StopsOnCancel(t *testing.T) {
	s := &wikiServer{}
	ctx, cancel := context.WithCancel(context.Background())
	s.intercept = func(w http.ResponseWriter, r *http.Request, call int) bool {
		cancel()
		http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
		return true
	}
	c := newTestClient(t, s.handler(false), 5)

	_, err := c.ReadWikiStructure(ctx, "owner/repo")
	if err == nil {
		t.Fatal("expected an error")
	}
	if n := s.count("tools/call"); n != 1 {
		t.Errorf("tools/call sent %d times after cancel, want 1", n)
	}
}
