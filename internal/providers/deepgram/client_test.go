package deepgram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func TestNewClientDefaults(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{}, zap.NewNop().Sugar())
	if c.cfg.APIBaseURL != "https://api.deepgram.com/v1" {
		t.Fatalf("unexpected base url: %q", c.cfg.APIBaseURL)
	}
	if c.cfg.Model != "nova-2" {
		t.Fatalf("unexpected model: %q", c.cfg.Model)
	}
	if c.cfg.SampleRate != 16000 || c.cfg.Channels != 1 {
		t.Fatalf("unexpected audio defaults: %d/%d", c.cfg.SampleRate, c.cfg.Channels)
	}
}

func TestTranscribeRequiresAPIKey(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{}, zap.NewNop().Sugar())
	_, err := c.Transcribe(context.Background(), []int16{1, 2, 3})
	if err == nil {
		t.Fatalf("expected missing key error")
	}
}

func TestTranscribeEmptyInputSkipsNetwork(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{APIKey: "k", APIBaseURL: "http://127.0.0.1:1"}, zap.NewNop().Sugar())
	text, err := c.Transcribe(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty transcript, got %q", text)
	}
}

func TestBuildListenURLDefaults(t *testing.T) {
	t.Parallel()

	u, err := buildListenURL(Config{APIBaseURL: "https://api.deepgram.com/v1", Model: "nova-2", SampleRate: 16000, Channels: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(u, "wss://api.deepgram.com/v1/listen") {
		t.Fatalf("unexpected ws url: %s", u)
	}
	if !strings.Contains(u, "encoding=linear16") {
		t.Fatalf("expected encoding in url: %s", u)
	}
	if !strings.Contains(u, "sample_rate=16000") {
		t.Fatalf("expected sample_rate in url: %s", u)
	}
	if !strings.Contains(u, "interim_results=false") {
		t.Fatalf("expected interim_results=false in url: %s", u)
	}
}

func TestBuildListenURLWithLanguageAndSmartFormat(t *testing.T) {
	t.Parallel()

	u, err := buildListenURL(Config{
		APIBaseURL:  "http://localhost:8080/v1",
		Model:       "m",
		Language:    "en-US",
		SmartFormat: true,
		SampleRate:  8000,
		Channels:    2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(u, "ws://localhost:8080/v1/listen") {
		t.Fatalf("unexpected ws url: %s", u)
	}
	if !strings.Contains(u, "language=en-US") {
		t.Fatalf("expected language in url: %s", u)
	}
	if !strings.Contains(u, "smart_format=true") {
		t.Fatalf("expected smart_format in url: %s", u)
	}
}

func TestBuildListenURLInvalidBase(t *testing.T) {
	t.Parallel()

	_, err := buildListenURL(Config{APIBaseURL: ":// bad"})
	if err == nil {
		t.Fatalf("expected invalid base url error")
	}
}

func TestSplitChunks(t *testing.T) {
	t.Parallel()

	chunks := splitChunks(make([]byte, 10), 4)
	if len(chunks) != 3 || len(chunks[0]) != 4 || len(chunks[2]) != 2 {
		t.Fatalf("unexpected split: %d chunks", len(chunks))
	}
	if chunks := splitChunks(nil, 4); len(chunks) != 0 {
		t.Fatalf("expected no chunks for empty input")
	}
}

func TestExtractTranscript(t *testing.T) {
	t.Parallel()

	r1 := listenResponse{}
	r1.Channel.Alternatives = append(r1.Channel.Alternatives, struct {
		Transcript string "json:\"transcript\""
	}{Transcript: " channel "})
	if got := extractTranscript(r1); got != "channel" {
		t.Fatalf("unexpected transcript from channel: %q", got)
	}

	if got := extractTranscript(listenResponse{}); got != "" {
		t.Fatalf("expected empty transcript, got %q", got)
	}
}

// fakeListen accepts one websocket session: it consumes binary audio frames
// until the CloseStream message, then replies with the configured payloads
// and closes the connection normally.
func fakeListen(t *testing.T, replies []string) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/listen") {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); !strings.HasPrefix(got, "Token ") {
			t.Errorf("missing auth header: %q", got)
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		for {
			kind, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if kind == websocket.TextMessage && strings.Contains(string(payload), "CloseStream") {
				break
			}
		}

		for _, reply := range replies {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
				return
			}
		}
		deadline := time.Now().Add(time.Second)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	}))
}

func TestTranscribeJoinsFinalResults(t *testing.T) {
	t.Parallel()

	server := fakeListen(t, []string{
		`{"is_final":true,"channel":{"alternatives":[{"transcript":"hello"}]}}`,
		`{"is_final":false,"channel":{"alternatives":[{"transcript":"ignored interim"}]}}`,
		`{"is_final":true,"channel":{"alternatives":[{"transcript":"world"}]}}`,
	})
	defer server.Close()

	c := NewClient(Config{APIKey: "k", APIBaseURL: server.URL}, zap.NewNop().Sugar())
	text, err := c.Transcribe(context.Background(), make([]int16, 20000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello world" {
		t.Fatalf("unexpected transcript: %q", text)
	}
}

func TestTranscribeSurfacesProviderError(t *testing.T) {
	t.Parallel()

	server := fakeListen(t, []string{`{"type":"Error","message":"bad model"}`})
	defer server.Close()

	c := NewClient(Config{APIKey: "k", APIBaseURL: server.URL}, zap.NewNop().Sugar())
	_, err := c.Transcribe(context.Background(), []int16{1, 2, 3})
	if err == nil || !strings.Contains(err.Error(), "bad model") {
		t.Fatalf("expected provider error, got %v", err)
	}
}
