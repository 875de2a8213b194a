package logger

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// fileHook appends plain lines to combined.log and, for errors, error.log
type fileHook struct {
	mu        sync.Mutex
	formatter *lineFormatter
	combined  *os.File
	errors    *os.File
}

func newFileHook(dir string) (*fileHook, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	combined, err := os.OpenFile(filepath.Join(dir, "combined.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	errs, err := os.OpenFile(filepath.Join(dir, "error.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		_ = combined.Close()
		return nil, err
	}
	return &fileHook{
		formatter: &lineFormatter{},
		combined:  combined,
		errors:    errs,
	}, nil
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.combined.Write(line); err != nil {
		return err
	}
	if level, _ := entryMeta(entry); level <= LevelError {
		if _, err := h.errors.Write(line); err != nil {
			return err
		}
	}
	return nil
}

func (h *fileHook) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	_ = h.combined.Close()
	_ = h.errors.Close()
}

type webhookMessage struct {
	url     string
	payload []byte
}

// webhookHook posts entries as Discord embeds from a single background
// worker. When the queue is full new entries are dropped.
type webhookHook struct {
	errorURL string
	logsURL  string
	client   *http.Client
	queue    chan webhookMessage
	done     chan struct{}

	mu     sync.RWMutex
	closed bool
}

const webhookQueueSize = 256

func newWebhookHook(errorURL, logsURL string) *webhookHook {
	h := &webhookHook{
		errorURL: errorURL,
		logsURL:  logsURL,
		client:   &http.Client{Timeout: 5 * time.Second},
		queue:    make(chan webhookMessage, webhookQueueSize),
		done:     make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *webhookHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *webhookHook) Fire(entry *logrus.Entry) error {
	level, prefix := entryMeta(entry)

	url := h.logsURL
	if level <= LevelError {
		url = h.errorURL
	}
	if url == "" {
		return nil
	}

	payload, err := json.Marshal(map[string]any{
		"embeds": []any{map[string]any{
			"title":       fmt.Sprintf("[%s] %s", level, prefix),
			"description": fmt.Sprintf("```%s```", entry.Message),
			"color":       level.DiscordColor(),
			"timestamp":   entry.Time.Format(time.RFC3339),
			"footer": map[string]string{
				"text": "💫 Developed by PancyStudio | VillagerBot",
			},
		}},
	})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil
	}
	select {
	case h.queue <- webhookMessage{url: url, payload: payload}:
	default:
	}
	return nil
}

func (h *webhookHook) run() {
	defer close(h.done)
	for msg := range h.queue {
		resp, err := h.client.Post(msg.url, "application/json", bytes.NewReader(msg.payload))
		if err != nil {
			continue
		}
		_ = resp.Body.Close()
	}
}

func (h *webhookHook) close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	close(h.queue)
	h.mu.Unlock()
	<-h.done
}
