// Package assistant provides the HTTP client and wire types for the remote
// meeting-assistant service (transcription, summaries, search, visuals,
// calendar and secondary-language translation).
package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TranscriptEntry is one utterance in conversational order.
type TranscriptEntry struct {
	Speaker string   `json:"speaker"`
	Text    string   `json:"text"`
	Start   *float64 `json:"start,omitempty"`
	End     *float64 `json:"end,omitempty"`
}

// TranscriptionResult is returned by the transcription endpoint. Filename is
// the correlation token every other view uses to fetch derived artifacts.
type TranscriptionResult struct {
	Transcript         []TranscriptEntry `json:"transcript"`
	OriginalTranscript []TranscriptEntry `json:"original_transcript,omitempty"`
	Filename           string            `json:"filename"`
	TranslatedFilename string            `json:"translated_filename,omitempty"`
	Language           string            `json:"language"`
	WordCount          int               `json:"word_count"`
	SpeakerCount       int               `json:"speaker_count"`
	AutoTranslated     bool              `json:"auto_translated,omitempty"`
	TranslationError   string            `json:"translation_error,omitempty"`
	Error              string            `json:"error,omitempty"`
}

// SummaryResult carries the summary and action items for one correlation token.
// HasActionItems is false when the service omitted action_items or sent
// something other than an array.
type SummaryResult struct {
	Summary        string   `json:"summary"`
	ActionItems    []string `json:"action_items"`
	HasActionItems bool     `json:"-"`
}

// SearchResult is the answer to a semantic search plus its ranked sources.
type SearchResult struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// VisualArtifact is one generated image.
type VisualArtifact struct {
	Kind        string `json:"kind,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Theme       string `json:"theme,omitempty"`
	ColorScheme string `json:"color_scheme,omitempty"`
}

// CalendarEvent is a dated meeting shown on the calendar.
type CalendarEvent struct {
	Date  string `json:"date"`
	Title string `json:"title"`
	Emoji string `json:"emoji,omitempty"`
}

// TranslateResult is returned when a single secondary-language transcript is translated.
type TranslateResult struct {
	Status             string `json:"status"`
	OriginalFilename   string `json:"original_filename"`
	TranslatedFilename string `json:"translated_filename"`
	Message            string `json:"message"`
}

// TranscriptInfo describes a stored transcript on the service.
type TranscriptInfo struct {
	Filename           string `json:"filename"`
	Language           string `json:"language"`
	IsGeorgian         bool   `json:"is_georgian"`
	HasTranslation     bool   `json:"has_translation"`
	TranslatedFilename string `json:"translated_filename,omitempty"`
	HasSummary         bool   `json:"has_summary"`
	CreatedAt          string `json:"created_at"`
	FileSize           int64  `json:"file_size"`
	WordCount          int    `json:"word_count"`
	SpeakerCount       int    `json:"speaker_count"`
}

// TranscriptListing is the response of the transcript listing endpoint.
type TranscriptListing struct {
	Transcripts   []TranscriptInfo `json:"transcripts"`
	Total         int              `json:"total"`
	GeorgianCount int              `json:"georgian_count"`
	EnglishCount  int              `json:"english_count"`
}

// Health is the service health report.
type Health struct {
	Status    string   `json:"status"`
	Timestamp string   `json:"timestamp"`
	Features  []string `json:"features"`
}

// errorBody is the shape of every service-reported failure.
type errorBody struct {
	Error string `json:"error"`
}

// DecodeTranscription validates a transcription response body. An error field
// wins over any transcript present; a missing or non-array transcript, or a
// missing filename, is a malformed payload.
func DecodeTranscription(body []byte) (*TranscriptionResult, error) {
	const op = "transcribe"

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, malformed(op, "response is not a JSON object", err)
	}

	var res TranscriptionResult
	if err := json.Unmarshal(body, &res); err != nil {
		if msg := errorMessage(raw); msg != "" {
			return nil, &Error{Kind: KindRemote, Op: op, Message: msg}
		}
		return nil, malformed(op, "decode transcription", err)
	}
	if strings.TrimSpace(res.Error) != "" {
		return nil, &Error{Kind: KindRemote, Op: op, Message: res.Error}
	}
	if !isArray(raw["transcript"]) {
		return nil, malformed(op, "transcript is missing or not a list", nil)
	}
	if strings.TrimSpace(res.Filename) == "" {
		return nil, malformed(op, "filename is missing", nil)
	}
	if res.Transcript == nil {
		res.Transcript = []TranscriptEntry{}
	}
	return &res, nil
}

// DecodeSummary parses a summary response. An empty summary is a remote
// failure; missing action items are reported through HasActionItems.
func DecodeSummary(body []byte) (*SummaryResult, error) {
	const op = "summary"

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, malformed(op, "response is not a JSON object", err)
	}

	var res SummaryResult
	if s, ok := raw["summary"]; ok {
		if err := json.Unmarshal(s, &res.Summary); err != nil {
			return nil, malformed(op, "summary is not a string", err)
		}
	}
	if strings.TrimSpace(res.Summary) == "" {
		msg := errorMessage(raw)
		if msg == "" {
			msg = "summary is empty"
		}
		return nil, &Error{Kind: KindRemote, Op: op, Message: msg}
	}

	if items := raw["action_items"]; isArray(items) {
		var parsed []string
		if err := json.Unmarshal(items, &parsed); err == nil {
			res.ActionItems = parsed
			res.HasActionItems = true
		}
	}
	if res.ActionItems == nil {
		res.ActionItems = []string{}
	}
	return &res, nil
}

// DecodeVisuals parses the visuals object, keeping the service's key order.
func DecodeVisuals(body []byte) ([]VisualArtifact, error) {
	const op = "visuals"

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, malformed(op, "response is not a JSON object", err)
	}
	visuals, ok := raw["visuals"]
	if !ok || bytes.Equal(bytes.TrimSpace(visuals), []byte("null")) {
		msg := errorMessage(raw)
		if msg == "" {
			msg = "no visuals generated"
		}
		return nil, &Error{Kind: KindRemote, Op: op, Message: msg}
	}

	dec := json.NewDecoder(bytes.NewReader(visuals))
	tok, err := dec.Token()
	if err != nil {
		return nil, malformed(op, "read visuals", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, malformed(op, "visuals is not an object", nil)
	}

	var out []VisualArtifact
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, malformed(op, "read visual key", err)
		}
		key, _ := keyTok.(string)

		var item struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			Theme       string `json:"theme"`
			ColorScheme string `json:"color_scheme"`
		}
		if err := dec.Decode(&item); err != nil {
			return nil, malformed(op, fmt.Sprintf("decode visual %q", key), err)
		}
		out = append(out, VisualArtifact{
			Kind:        key,
			Title:       item.Title,
			Description: item.Description,
			Image:       item.URL,
			Theme:       item.Theme,
			ColorScheme: item.ColorScheme,
		})
	}
	return out, nil
}

func errorMessage(raw map[string]json.RawMessage) string {
	v, ok := raw["error"]
	if !ok {
		return ""
	}
	var msg string
	if err := json.Unmarshal(v, &msg); err != nil {
		return ""
	}
	return strings.TrimSpace(msg)
}

func isArray(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && v[0] == '['
}
