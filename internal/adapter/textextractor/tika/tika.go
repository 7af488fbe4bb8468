// Package tika provides Apache Tika integration for text extraction.
//
// It extracts text from presentation and PDF reports. Line structure is kept
// because identity labels such as "述职人：" are matched per line.
package tika

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/observability"
	"github.com/north-leaf-W/Work-report-agent-system/internal/config"
	"github.com/north-leaf-W/Work-report-agent-system/pkg/textx"
)

const defaultBaseURL = "http://localhost:9998"

// Client is a minimal Apache Tika HTTP client implementing domain.TextExtractor.
// It performs PUT /tika with Accept: text/plain to retrieve extracted text.
// See: https://tika.apache.org/server/ for API details.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      config.ExtractorRetryConfig
}

// New constructs a Tika client from cfg.
func New(cfg config.Config) *Client {
	u := strings.TrimRight(cfg.TikaURL, "/")
	if u == "" {
		u = defaultBaseURL
	}
	timeout := cfg.TikaTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		retry: cfg.GetExtractorRetryConfig(),
	}
}

// ExtractPath uploads the file at path to the Tika server and returns plain
// text. 5xx answers and transport errors are retried with exponential backoff.
func (c *Client) ExtractPath(ctx context.Context, fileName, path string) (string, error) {
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("op=tika.ExtractPath: %w", err)
	}
	lg := observability.LoggerFromContext(ctx).With(slog.String("component", "tika"), slog.String("file", fileName))

	var result string
	attempt := 0
	op := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/tika", bytes.NewReader(b))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "text/plain")
		if ct := contentTypeFromExt(filepath.Ext(fileName)); ct != "" {
			req.Header.Set("Content-Type", ct)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lg.Warn("tika request failed", slog.Int("attempt", attempt), slog.Any("error", err))
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode >= 500 {
			lg.Warn("tika server error", slog.Int("attempt", attempt), slog.Int("status", resp.StatusCode))
			return fmt.Errorf("tika status %d", resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("tika status %d", resp.StatusCode))
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		result = normalizeLines(string(body))
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.MaxElapsedTime = c.retry.MaxElapsedTime
	expo.InitialInterval = c.retry.InitialInterval
	expo.MaxInterval = c.retry.MaxInterval
	expo.Multiplier = c.retry.Multiplier

	start := time.Now()
	if err := backoff.Retry(op, backoff.WithContext(expo, ctx)); err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Err
		}
		return "", fmt.Errorf("op=tika.ExtractPath: %w", err)
	}
	lg.Info("tika extraction ok",
		slog.Int("attempts", attempt),
		slog.Duration("duration", time.Since(start)),
		slog.Int("chars", textx.RuneLen(result)))
	return result, nil
}

// Ping checks that the Tika server answers GET /tika.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tika", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tika status %d", resp.StatusCode)
	}
	return nil
}

// normalizeLines sanitizes control characters, collapses runs of spaces
// within each line and drops blank lines.
func normalizeLines(s string) string {
	s = textx.SanitizeText(s)
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := lines[:0]
	for _, l := range lines {
		l = strings.Join(strings.Fields(l), " ")
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func contentTypeFromExt(ext string) string {
	ext = strings.ToLower(ext)
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".pptx":
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case ".txt":
		return "text/plain"
	default:
		if ext != "" {
			return mime.TypeByExtension(ext)
		}
	}
	return ""
}
