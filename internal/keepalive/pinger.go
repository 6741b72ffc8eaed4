// Package keepalive pings the bot's public URL so the hosting platform does
// not suspend it for inactivity.
package keepalive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultInterval = 14 * time.Minute
	requestTimeout  = 30 * time.Second
)

type Pinger struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   logrus.FieldLogger
}

func NewPinger(url string, interval time.Duration, logger logrus.FieldLogger) (*Pinger, error) {
	if url == "" {
		return nil, errors.New("WEBHOOK_URL is not set")
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Pinger{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: requestTimeout},
		logger:   logger.WithField("url", url),
	}, nil
}

// Ping issues one GET request and returns the response status code.
func (p *Pinger) Ping(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build ping request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ping failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// Run pings immediately and then once per interval until ctx is done.
func (p *Pinger) Run(ctx context.Context) {
	p.logger.WithField("interval", p.interval.String()).Info("Starting keep-alive")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.pingOnce(ctx)

		select {
		case <-ctx.Done():
			p.logger.Info("Keep-alive stopped")
			return
		case <-ticker.C:
		}
	}
}

func (p *Pinger) pingOnce(ctx context.Context) {
	status, err := p.Ping(ctx)
	switch {
	case err != nil:
		p.logger.WithError(err).Error("Ping failed")
	case status != http.StatusOK:
		p.logger.WithField("status", status).Warn("Ping returned unexpected status")
	default:
		p.logger.WithField("status", status).Info("Ping sent")
	}
}
