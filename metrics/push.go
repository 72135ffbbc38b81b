package metrics

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"
)

// A wrapper around zap.Logger to make it compatible with
// retryablehttp.LeveledLogger interface.
type retryableHTTPLogger struct {
	inner *zap.Logger
}

func (r retryableHTTPLogger) Error(format string, args ...any) {
	r.inner.Sugar().Errorw(format, args...)
}

func (r retryableHTTPLogger) Info(format string, args ...any) {
	r.inner.Sugar().Infow(format, args...)
}

func (r retryableHTTPLogger) Warn(format string, args ...any) {
	r.inner.Sugar().Warnw(format, args...)
}

func (r retryableHTTPLogger) Debug(format string, args ...any) {
	r.inner.Sugar().Debugw(format, args...)
}

// Push sends the default registry to a pushgateway at url once, retrying failed requests.
// Command line invocations are short lived, so they push instead of being scraped.
func Push(logger *zap.Logger, url, job, instance string) error {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 50 * time.Millisecond
	client.RetryWaitMax = time.Second
	client.Logger = retryableHTTPLogger{logger}

	err := push.New(url, job).
		Client(client.StandardClient()).
		Gatherer(prometheus.DefaultGatherer).
		Grouping("instance", instance).
		Push()
	if err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
