package logging

import (
	"context"
	"encoding"
	"fmt"
	"io"
	"log/slog"

	"github.com/dpotapov/slogpfx"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

// NamespaceKey is the attribute rendered as a message prefix by the pretty handlers.
const NamespaceKey = "namespace"

// DefaultHandler creates a new slog handler writing to w with the specified parameters.
func DefaultHandler(w io.Writer, params Parameters) slog.Handler {
	return NewHandler(w, params.Type, params.Level)
}

// NewHandler creates a new slog handler based on the specified logger type and level.
// Errors logged with Error carry their stack trace when the level is debug.
func NewHandler(w io.Writer, loggerType LoggerType, level slog.Level) slog.Handler {
	var h slog.Handler
	switch loggerType {
	case LoggerText:
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	case LoggerJSON:
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case LoggerPretty:
		type fd interface{ Fd() uintptr }
		colorize := false
		if f, ok := w.(fd); ok {
			colorize = isatty.IsTerminal(f.Fd())
		}
		h = buildPrettyHandler(w, level, colorize)
	case LoggerPrettyNoColor:
		h = buildPrettyHandler(w, level, false)
	default:
		panic(fmt.Sprintf("unsupported logger type %d", loggerType))
	}
	return newTraceHandler(h, level <= slog.LevelDebug)
}

// Namespaced returns a logger whose records are prefixed with the component name.
func Namespaced(logger *slog.Logger, name string) *slog.Logger {
	return logger.With(slog.String(NamespaceKey, name))
}

func buildPrettyHandler(w io.Writer, level slog.Level, colorize bool) slog.Handler {
	tintHandler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !colorize,
	})
	formatter := slogpfx.DefaultPrefixFormatter
	if colorize {
		formatter = slogpfx.ColorizePrefix(formatter)
	}
	return slogpfx.NewHandler(tintHandler, &slogpfx.HandlerOptions{
		PrefixKeys:      []string{NamespaceKey},
		PrefixFormatter: formatter,
	})
}

type attrVisitorHandler struct {
	slog.Handler
	attrVisitor func(a slog.Attr) bool
}

func (h *attrVisitorHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.Handler.Enabled(ctx, r.Level) {
		return nil
	}
	if h.attrVisitor != nil {
		r.Attrs(h.attrVisitor)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *attrVisitorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &attrVisitorHandler{Handler: h.Handler.WithAttrs(attrs), attrVisitor: h.attrVisitor}
}

func (h *attrVisitorHandler) WithGroup(name string) slog.Handler {
	return &attrVisitorHandler{Handler: h.Handler.WithGroup(name), attrVisitor: h.attrVisitor}
}

// newTraceHandler switches stack traces of Error attributes on or off.
func newTraceHandler(h slog.Handler, trace bool) slog.Handler {
	return &attrVisitorHandler{
		Handler: h,
		attrVisitor: func(a slog.Attr) bool {
			if a.Key != errorKey || a.Value.Kind() != slog.KindLogValuer {
				return true
			}
			if elv, ok := a.Value.Any().(errorLogValuer); ok && elv.opts != nil {
				elv.opts.trace = trace
			}
			return true
		},
	}
}

type typenamePrinter struct{ v any }

func (t typenamePrinter) MarshalText() ([]byte, error) {
	return fmt.Appendf(nil, "%T", t.v), nil
}

// Type returns a slog.Attr that contains the type name of the value.
func Type(value any) slog.Attr {
	const key = "type"
	var m encoding.TextMarshaler = typenamePrinter{v: value}
	return slog.Any(key, m)
}

// Stream returns a slog.Attr describing a stream view by its String form.
func Stream(key string, view fmt.Stringer) slog.Attr {
	return slog.String(key, view.String())
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

type errorLogValuerOpts struct {
	trace bool
}

type errorLogValuer struct {
	err  error
	opts *errorLogValuerOpts
}

func (e errorLogValuer) LogValue() slog.Value {
	if e.err == nil {
		return slog.Value{}
	}
	const (
		msgKey   = "message"
		traceKey = "trace"
	)
	attrs := []slog.Attr{slog.String(msgKey, e.err.Error())}
	if e.opts != nil && e.opts.trace {
		var st stackTracer
		if errors.As(e.err, &st) {
			attrs = append(attrs, slog.String(traceKey, fmt.Sprintf("%+v", st.StackTrace())))
		}
	}
	return slog.GroupValue(attrs...)
}

const errorKey = "error"

// Error returns an "error" group attribute holding the message and, on debug handlers, the stack
// trace of the innermost pkg/errors frame. A nil error produces an empty attribute.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	var lv slog.LogValuer = errorLogValuer{
		err:  err,
		opts: new(errorLogValuerOpts),
	}
	return slog.Any(errorKey, lv)
}
