package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is where the meeting-assistant service listens by default.
const DefaultBaseURL = "http://localhost:5050"

// maxBodyBytes bounds every response read.
const maxBodyBytes = 32 << 20

// Config configures the service client.
type Config struct {
	BaseURL   string
	Token     string // optional, sent as Bearer
	Timeout   time.Duration
	UserAgent string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger attaches a logger for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l.With().Str("component", "assistant").Logger() }
}

// MediaFile is an audio file selected for upload.
type MediaFile struct {
	Path string
	Name string
}

// NewMediaFile builds a MediaFile from a path, naming it after its base name.
func NewMediaFile(path string) MediaFile {
	return MediaFile{Path: path, Name: filepath.Base(path)}
}

// Client talks to the meeting-assistant service over HTTP+JSON. It is safe
// for concurrent use.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	http      *http.Client
	log       zerolog.Logger
}

// NewClient creates a client for the given service.
func NewClient(cfg Config, opts ...Option) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "minutes"
	}
	c := &Client{
		baseURL:   base,
		token:     cfg.Token,
		userAgent: ua,
		http:      &http.Client{Timeout: timeout},
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service address.
func (c *Client) BaseURL() string { return c.baseURL }

// Transcribe uploads an audio file with a language hint as a multipart form.
func (c *Client) Transcribe(ctx context.Context, file MediaFile, lang Language) (*TranscriptionResult, error) {
	const op = "transcribe"

	f, err := os.Open(file.Path)
	if err != nil {
		return nil, Rejected(op, fmt.Sprintf("open %s: %v", file.Path, err))
	}
	defer f.Close()

	name := file.Name
	if name == "" {
		name = filepath.Base(file.Path)
	}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	// Stream the form so large recordings are not buffered in memory.
	errCh := make(chan error, 1)
	go func() {
		part, err := writer.CreateFormFile("file", name)
		if err != nil {
			errCh <- fmt.Errorf("create form file: %w", err)
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			errCh <- fmt.Errorf("copy audio data: %w", err)
			pw.CloseWithError(err)
			return
		}
		if err := writer.WriteField("language", string(lang.OrAuto())); err != nil {
			errCh <- fmt.Errorf("write language: %w", err)
			pw.CloseWithError(err)
			return
		}
		err = writer.Close()
		errCh <- err
		pw.CloseWithError(err)
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/api/transcribe", pr)
	if err != nil {
		pr.Close()
		return nil, transport(op, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	status, body, err := c.do(req, op)
	pr.Close()
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, statusError(op, status, body)
	}
	if writeErr := <-errCh; writeErr != nil {
		return nil, transport(op, fmt.Errorf("multipart write: %w", writeErr))
	}
	return DecodeTranscription(body)
}

// Summary fetches the summary and action items for a correlation token.
func (c *Client) Summary(ctx context.Context, token string) (*SummaryResult, error) {
	const op = "summary"
	if strings.TrimSpace(token) == "" {
		return nil, &Error{Kind: KindMissingCorrelation, Op: op, Message: "no transcript selected"}
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/api/summary?filename="+url.QueryEscape(token), nil)
	if err != nil {
		return nil, transport(op, err)
	}
	status, body, err := c.do(req, op)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, statusError(op, status, body)
	}
	return DecodeSummary(body)
}

// Search asks a natural-language question across all transcripts.
func (c *Client) Search(ctx context.Context, query string) (*SearchResult, error) {
	const op = "search"
	if strings.TrimSpace(query) == "" {
		return nil, Rejected(op, "query is empty")
	}

	var res SearchResult
	if err := c.postJSON(ctx, op, "/api/semantic-search", map[string]string{"query": query}, &res); err != nil {
		return nil, err
	}
	if res.Sources == nil {
		res.Sources = []string{}
	}
	return &res, nil
}

// GenerateVisuals triggers one round of visual generation.
func (c *Client) GenerateVisuals(ctx context.Context) ([]VisualArtifact, error) {
	const op = "visuals"

	req, err := c.newRequest(ctx, http.MethodPost, "/api/visual-summary", nil)
	if err != nil {
		return nil, transport(op, err)
	}
	_, body, err := c.do(req, op)
	if err != nil {
		return nil, err
	}
	// The service reports failures as an error body without visuals, which
	// DecodeVisuals already maps to a remote failure.
	return DecodeVisuals(body)
}

// SecondaryFiles lists transcripts in a secondary language awaiting translation.
func (c *Client) SecondaryFiles(ctx context.Context) ([]string, error) {
	const op = "secondary-files"
	var files []string
	if err := c.getJSON(ctx, op, "/api/georgian-files", &files); err != nil {
		return nil, err
	}
	if files == nil {
		files = []string{}
	}
	return files, nil
}

// TranslateSecondary starts translation of every secondary-language transcript.
func (c *Client) TranslateSecondary(ctx context.Context) (string, error) {
	const op = "translate-secondary"
	var res struct {
		Message string `json:"message"`
	}
	if err := c.postJSON(ctx, op, "/api/translate-georgian", nil, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// Translate translates a single secondary-language transcript.
func (c *Client) Translate(ctx context.Context, filename string) (*TranslateResult, error) {
	const op = "translate"
	if strings.TrimSpace(filename) == "" {
		return nil, Rejected(op, "filename is required")
	}
	var res TranslateResult
	if err := c.postJSON(ctx, op, "/api/translate", map[string]string{"filename": filename}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CalendarEvents fetches the list of dated meetings.
func (c *Client) CalendarEvents(ctx context.Context) ([]CalendarEvent, error) {
	const op = "calendar"
	var events []CalendarEvent
	if err := c.getJSON(ctx, op, "/data/calendar_events.json", &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []CalendarEvent{}
	}
	return events, nil
}

// Transcripts lists the transcripts stored by the service.
func (c *Client) Transcripts(ctx context.Context) (*TranscriptListing, error) {
	var res TranscriptListing
	if err := c.getJSON(ctx, "transcripts", "/api/transcripts", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Health queries the service health endpoint.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var res Health
	if err := c.getJSON(ctx, "health", "/health", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return transport(op, err)
	}
	return c.decodeInto(req, op, out)
}

func (c *Client) postJSON(ctx context.Context, op, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return transport(op, fmt.Errorf("marshal request: %w", err))
		}
		body = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return transport(op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.decodeInto(req, op, out)
}

func (c *Client) decodeInto(req *http.Request, op string, out any) error {
	status, body, err := c.do(req, op)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return statusError(op, status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		if msg := bodyErrorMessage(body); msg != "" {
			return &Error{Kind: KindRemote, Op: op, Message: msg, Status: status}
		}
		return malformed(op, "decode response", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do executes the request and reads the body. Network failures are
// returned as transport errors; status handling is left to the caller.
func (c *Client) do(req *http.Request, op string) (int, []byte, error) {
	start := time.Now()
	reqID := req.Header.Get("X-Request-ID")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("op", op).Str("request_id", reqID).Msg("request failed")
		if errors.Is(err, context.Canceled) {
			return 0, nil, err
		}
		return 0, nil, transport(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, transport(op, fmt.Errorf("read response body: %w", err))
	}

	c.log.Debug().
		Str("op", op).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request complete")
	return resp.StatusCode, body, nil
}

// statusError converts a non-2xx response into a remote failure, keeping the
// service's own message when it sent one.
func statusError(op string, status int, body []byte) error {
	if msg := bodyErrorMessage(body); msg != "" {
		return &Error{Kind: KindRemote, Op: op, Message: msg, Status: status}
	}
	return &Error{
		Kind:    KindRemote,
		Op:      op,
		Message: fmt.Sprintf("http %d: %s", status, truncate(body, 200)),
		Status:  status,
	}
}

func bodyErrorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	return strings.TrimSpace(eb.Error)
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
