package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depexplorer/pkg/observability"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg followed by the elapsed time, e.g. "Loaded 3 modules (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks reports library events to a logger at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.ParseHooks    = logHooks{}
	_ observability.AnalysisHooks = logHooks{}
	_ observability.CacheHooks    = logHooks{}
	_ observability.HTTPHooks     = logHooks{}
)

// installHooks routes every observability hook to logger.
func installHooks(logger *log.Logger) {
	h := logHooks{logger: logger.WithPrefix("hooks")}
	observability.SetParseHooks(h)
	observability.SetAnalysisHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnParseStart(_ context.Context, file string) {
	h.logger.Debug("parse start", "file", file)
}

func (h logHooks) OnParseComplete(_ context.Context, file string, dependencies int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("parse failed", "file", file, "duration", d, "err", err)
		return
	}
	h.logger.Debug("parse complete", "file", file, "dependencies", dependencies, "duration", d)
}

func (h logHooks) OnReport(_ context.Context, report, module string, found bool) {
	h.logger.Debug("report", "name", report, "module", module, "found", found)
}

func (h logHooks) OnAnalyzeStart(_ context.Context, rule, module string) {
	h.logger.Debug("analyze start", "rule", rule, "module", module)
}

func (h logHooks) OnAnalyzeComplete(_ context.Context, rule, module string, issues int, d time.Duration) {
	h.logger.Debug("analyze complete", "rule", rule, "module", module, "issues", issues, "duration", d)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}
