package service

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

const (
	notifyTimeout   = 5 * time.Second
	notifyQueueSize = 64
)

// Notifier pushes operational notices (critical alerts, negative feedback) to staff
type Notifier interface {
	Notify(ctx context.Context, text string)
	Close()
}

// SlackNotifier posts to a Slack incoming webhook from a background worker,
// so a slow webhook never holds up the request that raised the notice.
// Failures are logged only.
type SlackNotifier struct {
	webhookURL string
	client     *http.Client
	logger     *zap.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan string
	done   chan struct{}
}

// NewNotifier returns a Slack notifier when a webhook is configured, a no-op otherwise
func NewNotifier(webhookURL string, logger *zap.Logger) Notifier {
	if webhookURL == "" {
		return nopNotifier{}
	}
	return NewSlackNotifier(webhookURL, logger)
}

// NewSlackNotifier starts the delivery worker; Close stops it
func NewSlackNotifier(webhookURL string, logger *zap.Logger) *SlackNotifier {
	n := &SlackNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: notifyTimeout},
		logger:     logger,
		queue:      make(chan string, notifyQueueSize),
		done:       make(chan struct{}),
	}
	go n.run()
	return n
}

// Notify queues text for delivery. It drops the notice when the queue is full.
func (n *SlackNotifier) Notify(ctx context.Context, text string) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return
	}
	select {
	case n.queue <- text:
	default:
		n.logger.Warn("slack notify queue full, notice dropped")
	}
}

// Close delivers what is already queued and stops the worker
func (n *SlackNotifier) Close() {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()

	<-n.done
	n.client.CloseIdleConnections()
}

func (n *SlackNotifier) run() {
	defer close(n.done)
	for text := range n.queue {
		n.post(text)
	}
}

func (n *SlackNotifier) post(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.client, &slack.WebhookMessage{Text: text}); err != nil {
		n.logger.Warn("slack notify failed", zap.Error(err))
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string) {}

func (nopNotifier) Close() {}
