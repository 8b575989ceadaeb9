// Package reachability проверяет доступность URL перед сохранением алиаса.
package reachability

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTimeout = 5 * time.Second
	userAgent      = "alias-shortener-probe/1.0"
	maxDrainBytes  = 64 << 10
)

// Checker решает, можно ли сохранить ссылку на данный URL
type Checker interface {
	IsAcceptable(ctx context.Context, rawURL string) bool
}

type httpChecker struct {
	client *http.Client
	logger *zap.Logger
}

// NewHTTPChecker создаёт проверку через HEAD запрос с fallback на GET (при 405 и 501).
// Редиректы клиент проходит сам.
func NewHTTPChecker(timeout time.Duration, logger *zap.Logger) Checker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &httpChecker{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// IsAcceptable принимает любой итоговый статус 200-499.
// Сетевые ошибки не пробрасываются, а означают false.
func (c *httpChecker) IsAcceptable(ctx context.Context, rawURL string) bool {
	status, err := c.probe(ctx, http.MethodHead, rawURL)
	if err == nil && headUnsupported(status) {
		status, err = c.probe(ctx, http.MethodGet, rawURL)
	}
	if err != nil {
		c.logger.Debug("URL probe failed", zap.String("url", rawURL), zap.Error(err))
		return false
	}

	return status >= 200 && status < 500
}

func (c *httpChecker) probe(ctx context.Context, method, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	return resp.StatusCode, nil
}

// headUnsupported сервер не поддерживает HEAD
func headUnsupported(status int) bool {
	return status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented
}
