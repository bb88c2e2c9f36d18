// Package cli implements the treesquares command-line interface.
//
// # Commands
//
//   - render: Draw one table as SVG, JSON, PDF or PNG
//   - batch: Render every job of a job file or macro workbook
//   - persons: Condense a Wikidata person export
//   - stats: Add Wikipedia pageviews and article sizes to a person sheet
//   - links: Count Wikipedia links between listed articles
//   - serve: Run the HTTP rendering service
//   - cache: Manage the response and document cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs pipeline, cache and HTTP events. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/treesquares/treesquares/pkg/observability"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the elapsed time of an operation.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Condensed 812 persons (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Debug Hooks
// =============================================================================

// debugHooks logs every observability event at debug level.
type debugHooks struct {
	logger *log.Logger
}

func registerDebugHooks(l *log.Logger) {
	h := debugHooks{logger: l.WithPrefix("hooks")}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h debugHooks) OnLayoutStart(_ context.Context, source string, rows int) {
	h.logger.Debug("layout start", "source", source, "rows", rows)
}

func (h debugHooks) OnLayoutComplete(_ context.Context, source string, cells int, d time.Duration, err error) {
	h.logger.Debug("layout done", "source", source, "cells", cells, "duration", d, "err", err)
}

func (h debugHooks) OnRenderStart(_ context.Context, source string, formats []string) {
	h.logger.Debug("render start", "source", source, "formats", formats)
}

func (h debugHooks) OnRenderComplete(_ context.Context, source string, formats []string, d time.Duration, err error) {
	h.logger.Debug("render done", "source", source, "formats", formats, "duration", d, "err", err)
}

func (h debugHooks) OnDiagnostic(_ context.Context, source, message string) {
	h.logger.Debug("diagnostic", "source", source, "msg", message)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h debugHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h debugHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h debugHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}
