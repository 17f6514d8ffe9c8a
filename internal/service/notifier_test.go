package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type webhookSink struct {
	mu     sync.Mutex
	texts  []string
	status int
}

func (s *webhookSink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	s.texts = append(s.texts, body.Text)
	status := s.status
	s.mu.Unlock()
	w.WriteHeader(status)
}

func (s *webhookSink) received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

func TestSlackNotifierPostsText(t *testing.T) {
	sink := &webhookSink{status: http.StatusOK}
	srv := httptest.NewServer(sink)
	defer srv.Close()

	core, logs := observer.New(zapcore.WarnLevel)
	n := NewSlackNotifier(srv.URL, zap.New(core))
	n.Notify(context.Background(), ":rotating_light: Recursos Hídricos")
	n.Close()

	assert.Equal(t, []string{":rotating_light: Recursos Hídricos"}, sink.received())
	assert.Zero(t, logs.Len())
}

func TestSlackNotifierLogsFailures(t *testing.T) {
	sink := &webhookSink{status: http.StatusInternalServerError}
	srv := httptest.NewServer(sink)
	defer srv.Close()

	core, logs := observer.New(zapcore.WarnLevel)
	n := NewSlackNotifier(srv.URL, zap.New(core))
	n.Notify(context.Background(), "feedback negativo")
	n.Close()

	require.Len(t, sink.received(), 1)
	require.Equal(t, 1, logs.FilterMessage("slack notify failed").Len())

	n.Notify(context.Background(), "after close")
	assert.Len(t, sink.received(), 1, "closed notifier drops notices")
}

func TestSlackNotifierDoesNotBlockCaller(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, testLogger())
	returned := make(chan struct{})
	go func() {
		n.Notify(context.Background(), "lento")
		close(returned)
	}()
	<-returned

	close(release)
	n.Close()
}

func TestNewNotifierWithoutWebhook(t *testing.T) {
	n := NewNotifier("", testLogger())
	n.Notify(context.Background(), "ignored")
	n.Close()
	assert.IsType(t, nopNotifier{}, n)
}
