package scryfall

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// LoggingRoundTripper logs every outbound request and its outcome.
type LoggingRoundTripper struct {
	rt  http.RoundTripper
	log *zap.Logger
}

// NewLoggingRoundTripper wraps rt, or http.DefaultTransport when rt is nil.
func NewLoggingRoundTripper(rt http.RoundTripper, log *zap.Logger) *LoggingRoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &LoggingRoundTripper{rt: rt, log: log}
}

func (l *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	l.log.Debug("http request", zap.String("method", req.Method), zap.Stringer("url", req.URL))

	resp, err := l.rt.RoundTrip(req)
	if err != nil {
		l.log.Warn("http request failed",
			zap.String("method", req.Method),
			zap.Stringer("url", req.URL),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	l.log.Debug("http response",
		zap.String("status", resp.Status),
		zap.Stringer("url", req.URL),
		zap.Duration("elapsed", time.Since(start)))
	return resp, nil
}
