package logger

import (
	"context"

	"github.com/ncobase/remind/ctxutil"
	"github.com/sirupsen/logrus"
)

// entryFromContext starts an entry carrying the request trace id and the
// build version.
func (l *Logger) entryFromContext(ctx context.Context) *logrus.Entry {
	fields := make(logrus.Fields, 2)
	if traceID := ctxutil.GetTraceID(ctx); traceID != "" {
		fields[ctxutil.TraceIDKey] = traceID
	}
	if l.version != "" {
		fields[VersionKey] = l.version
	}
	return l.WithFields(fields)
}
