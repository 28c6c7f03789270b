package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sensei/pkg/config"
)

// DownstreamNotifier posts decoded timetables to the calendar frontend.
type DownstreamNotifier struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewDownstreamNotifier constructs a notifier from config.
func NewDownstreamNotifier(cfg config.DownstreamConfig, logger *zap.Logger) *DownstreamNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DownstreamNotifier{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Post serialises the payload and delivers it downstream.
func (n *DownstreamNotifier) Post(ctx context.Context, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal downstream payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build downstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post downstream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("downstream returned status %d", resp.StatusCode)
	}
	n.logger.Info("timetable posted downstream", zap.String("url", n.url))
	return nil
}
