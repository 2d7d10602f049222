package assistant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestService starts an httptest server routing the given handlers.
func newTestService(t *testing.T, routes map[string]http.HandlerFunc) *Client {
	t.Helper()

	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewClient(Config{BaseURL: srv.URL, Token: "secret"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "standup.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3fake-audio"), 0o644))
	return path
}

func TestTranscribeSendsMultipart(t *testing.T) {
	var gotLang, gotName, gotAuth, gotReqID string
	var gotData []byte

	c := newTestService(t, map[string]http.HandlerFunc{
		"POST /api/transcribe": func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotReqID = r.Header.Get("X-Request-ID")
			require.NoError(t, r.ParseMultipartForm(1<<20))
			gotLang = r.FormValue("language")
			f, hdr, err := r.FormFile("file")
			require.NoError(t, err)
			defer f.Close()
			gotName = hdr.Filename
			gotData, _ = io.ReadAll(f)

			writeJSON(w, http.StatusOK, map[string]any{
				"transcript":    []map[string]any{{"speaker": "Speaker A", "text": "Let's begin."}},
				"filename":      "abc123",
				"language":      "en",
				"word_count":    42,
				"speaker_count": 2,
			})
		},
	})

	res, err := c.Transcribe(context.Background(), NewMediaFile(writeAudio(t)), "ka")
	require.NoError(t, err)

	assert.Equal(t, "abc123", res.Filename)
	assert.Equal(t, "ka", gotLang)
	assert.Equal(t, "standup.mp3", gotName)
	assert.Equal(t, "ID3fake-audio", string(gotData))
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.NotEmpty(t, gotReqID)
}

func TestTranscribeDefaultsToAutoDetect(t *testing.T) {
	var gotLang string
	c := newTestService(t, map[string]http.HandlerFunc{
		"POST /api/transcribe": func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			gotLang = r.FormValue("language")
			writeJSON(w, http.StatusOK, map[string]any{"transcript": []any{}, "filename": "x"})
		},
	})

	_, err := c.Transcribe(context.Background(), NewMediaFile(writeAudio(t)), "")
	require.NoError(t, err)
	assert.Equal(t, "auto", gotLang)
}

func TestTranscribeRemoteError(t *testing.T) {
	c := newTestService(t, map[string]http.HandlerFunc{
		"POST /api/transcribe": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.Copy(io.Discard, r.Body)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unsupported file type: .txt"})
		},
	})

	_, err := c.Transcribe(context.Background(), NewMediaFile(writeAudio(t)), LanguageAuto)
	require.Error(t, err)
	msg, ok := RemoteMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "Unsupported file type: .txt", msg)
}

func TestTranscribeMissingFileIsRejected(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := c.Transcribe(context.Background(), NewMediaFile("/nonexistent/audio.wav"), LanguageAuto)
	assert.True(t, IsKind(err, KindInputRejected), "err = %v", err)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url})
	_, err := c.Search(context.Background(), "what happened?")
	assert.True(t, IsKind(err, KindTransport), "err = %v", err)
}

func TestSummaryQueryEscapesToken(t *testing.T) {
	var gotFilename string
	c := newTestService(t, map[string]http.HandlerFunc{
		"GET /api/summary": func(w http.ResponseWriter, r *http.Request) {
			gotFilename = r.URL.Query().Get("filename")
			writeJSON(w, http.StatusOK, map[string]any{"summary": "Done.", "action_items": []string{"Ship it"}})
		},
	})

	res, err := c.Summary(context.Background(), "meeting 1&2.json")
	require.NoError(t, err)
	assert.Equal(t, "meeting 1&2.json", gotFilename)
	assert.Equal(t, []string{"Ship it"}, res.ActionItems)
}

func TestSummaryWithoutToken(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := c.Summary(context.Background(), "  ")
	assert.True(t, IsKind(err, KindMissingCorrelation))
}

func TestSearch(t *testing.T) {
	var gotQuery string
	c := newTestService(t, map[string]http.HandlerFunc{
		"POST /api/semantic-search": func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Query string `json:"query"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			gotQuery = body.Query
			writeJSON(w, http.StatusOK, map[string]any{"answer": "Q3 budget approved."})
		},
	})

	res, err := c.Search(context.Background(), "What about Q3?")
	require.NoError(t, err)
	assert.Equal(t, "What about Q3?", gotQuery)
	assert.Equal(t, "Q3 budget approved.", res.Answer)
	assert.NotNil(t, res.Sources)
	assert.Empty(t, res.Sources)
}

func TestSearchRemoteError(t *testing.T) {
	c := newTestService(t, map[string]http.HandlerFunc{
		"POST /api/semantic-search": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Query must be at least 3 characters"})
		},
	})

	_, err := c.Search(context.Background(), "hi")
	msg, ok := RemoteMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "Query must be at least 3 characters", msg)
}

func TestGenerateVisualsServerError(t *testing.T) {
	c := newTestService(t, map[string]http.HandlerFunc{
		"POST /api/visual-summary": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "No visuals were generated successfully"})
		},
	})

	_, err := c.GenerateVisuals(context.Background())
	msg, ok := RemoteMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "No visuals were generated successfully", msg)
}

func TestSecondaryLanguageEndpoints(t *testing.T) {
	var translated string
	c := newTestService(t, map[string]http.HandlerFunc{
		"GET /api/georgian-files": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []string{"meeting_ge_1.json", "meeting_ge_2.json"})
		},
		"POST /api/translate-georgian": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"message": "Georgian files translated successfully"})
		},
		"POST /api/translate": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			translated = body["filename"]
			writeJSON(w, http.StatusOK, map[string]string{
				"status":              "success",
				"original_filename":   body["filename"],
				"translated_filename": "meeting_1.json",
			})
		},
	})

	files, err := c.SecondaryFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"meeting_ge_1.json", "meeting_ge_2.json"}, files)

	msg, err := c.TranslateSecondary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Georgian files translated successfully", msg)

	res, err := c.Translate(context.Background(), "meeting_ge_1.json")
	require.NoError(t, err)
	assert.Equal(t, "meeting_ge_1.json", translated)
	assert.Equal(t, "meeting_1.json", res.TranslatedFilename)

	_, err = c.Translate(context.Background(), "")
	assert.True(t, IsKind(err, KindInputRejected))
}

func TestCalendarEvents(t *testing.T) {
	c := newTestService(t, map[string]http.HandlerFunc{
		"GET /data/calendar_events.json": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]any{
				{"date": "2024-07-01", "title": "Sync", "emoji": "🔄"},
				{"id": 1, "date": "2024-07-02", "title": "Planning", "time": "10:00 AM"},
			})
		},
	})

	events, err := c.CalendarEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, CalendarEvent{Date: "2024-07-01", Title: "Sync", Emoji: "🔄"}, events[0])
	assert.Equal(t, "Planning", events[1].Title)
}

func TestHealthAndTranscripts(t *testing.T) {
	c := newTestService(t, map[string]http.HandlerFunc{
		"GET /health": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"status": "healthy", "features": []string{"transcription"}})
		},
		"GET /api/transcripts": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"transcripts": []map[string]any{{"filename": "a.json", "language": "English", "word_count": 10}},
				"total":       1,
			})
		},
	})

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)

	list, err := c.Transcripts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "a.json", list.Transcripts[0].Filename)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://example.test:5050/"})
	assert.Equal(t, "http://example.test:5050", c.BaseURL())

	c = NewClient(Config{})
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}
