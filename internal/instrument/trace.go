package instrument

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"eventist/pkg/emitter"
)

// LogReporter logs every completed dispatch at debug level.
func LogReporter(l zerolog.Logger, next emitter.ReporterFunc) emitter.ReporterFunc {
	return func(event string, invoked int, args []any) {
		l.Debug().Str("event", event).Int("invoked", invoked).Int("args", len(args)).Msg("dispatch")
		if next != nil {
			next(event, invoked, args)
		}
	}
}

// TraceExecutor logs every handler call made through next at debug level.
func TraceExecutor(l zerolog.Logger, next emitter.Executor) emitter.Executor {
	if next == nil {
		next = emitter.Execute
	}
	return func(en emitter.Entry, args []any) (any, error) {
		start := time.Now()
		res, err := next(en, args)
		z := l.Debug().Str("event", en.Event).Bool("once", en.Once).Dur("dur", time.Since(start))
		if en.Owner != nil {
			z = z.Str("owner", fmt.Sprintf("%T", en.Owner))
		}
		if res != emitter.NoResult {
			z = z.Bool("answered", true)
		}
		if err != nil {
			z = z.Err(err)
		}
		z.Msg("handler")
		return res, err
	}
}
