package logging

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/trace"
)

// OTelHandler mirrors every record to the OpenTelemetry log pipeline after the wrapped
// handler has written it.
type OTelHandler struct {
	handler slog.Handler
	logger  log.Logger
	attrs   []slog.Attr
}

func NewOTelHandler(handler slog.Handler) *OTelHandler {
	return &OTelHandler{
		handler: handler,
		logger:  global.GetLoggerProvider().Logger("go-recruiter"),
	}
}

func (h *OTelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *OTelHandler) Handle(ctx context.Context, record slog.Record) error {
	if err := h.handler.Handle(ctx, record); err != nil {
		return err
	}

	logRecord := log.Record{}
	logRecord.SetTimestamp(record.Time)
	logRecord.SetBody(log.StringValue(record.Message))
	logRecord.SetSeverity(severity(record.Level))
	logRecord.SetSeverityText(record.Level.String())

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		spanCtx := span.SpanContext()
		logRecord.AddAttributes(
			log.String("trace_id", spanCtx.TraceID().String()),
			log.String("span_id", spanCtx.SpanID().String()),
		)
	}

	for _, attr := range h.attrs {
		logRecord.AddAttributes(convertAttr(attr))
	}
	record.Attrs(func(attr slog.Attr) bool {
		logRecord.AddAttributes(convertAttr(attr))
		return true
	})

	h.logger.Emit(ctx, logRecord)
	return nil
}

func (h *OTelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &OTelHandler{
		handler: h.handler.WithAttrs(attrs),
		logger:  h.logger,
		attrs:   append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *OTelHandler) WithGroup(name string) slog.Handler {
	return &OTelHandler{
		handler: h.handler.WithGroup(name),
		logger:  h.logger,
		attrs:   h.attrs,
	}
}

func severity(level slog.Level) log.Severity {
	switch {
	case level >= slog.LevelError:
		return log.SeverityError
	case level >= slog.LevelWarn:
		return log.SeverityWarn
	case level >= slog.LevelInfo:
		return log.SeverityInfo
	default:
		return log.SeverityDebug
	}
}

func convertAttr(attr slog.Attr) log.KeyValue {
	v := attr.Value.Resolve()
	switch v.Kind() {
	case slog.KindInt64:
		return log.Int64(attr.Key, v.Int64())
	case slog.KindUint64:
		return log.Int64(attr.Key, int64(v.Uint64()))
	case slog.KindFloat64:
		return log.Float64(attr.Key, v.Float64())
	case slog.KindBool:
		return log.Bool(attr.Key, v.Bool())
	default:
		return log.String(attr.Key, v.String())
	}
}
