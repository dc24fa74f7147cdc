package xcron

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/omeyang/xboot/pkg/observability/xlog"
)

// cronLogger 将 robfig/cron 的内部日志转到 xlog。
// cron 的 Info 记录每次唤醒与调度，降为 Debug。
type cronLogger struct {
	logger xlog.Logger
}

var _ cron.Logger = cronLogger{}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(context.Background(), "cron: "+msg, kvAttrs(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	attrs := append(kvAttrs(keysAndValues), xlog.Err(err))
	l.logger.Error(context.Background(), "cron: "+msg, attrs...)
}

func kvAttrs(kv []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, slog.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return attrs
}
