// Package focuslog wraps github.com/rs/zerolog with the two observability
// surfaces the spec names explicitly: fan-out warnings (a single node with
// more than the configured threshold of rdeps or direct deps) and named,
// timed profiling regions ("focus.mark", "focus.sweep").
package focuslog

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a zerolog.Logger writing structured JSON lines with a
// timestamp to w at the given level, whatever kind of writer w is; it does
// not switch to a human-readable console form for terminals. Callers embedding focusgc in a larger
// service will typically pass their own zerolog.Logger via
// focus.WithLogger instead of constructing one here.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything, the default when a caller
// does not supply one.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// WarnFanout logs a single-node fan-out warning: key exceeded threshold
// observed rdeps or direct deps during mark. edgeKind is "rdep" or "dep".
func WarnFanout(log zerolog.Logger, edgeKind, key string, observed, threshold int) {
	log.Warn().
		Str("edge_kind", edgeKind).
		Str("key", key).
		Int("observed", observed).
		Int("threshold", threshold).
		Msg("focus: node exceeds fan-out warning threshold")
}

// Region starts a named, timed profiling region and returns a function that
// closes it. Call pattern:
//
//	done := focuslog.Region(log, "focus.mark")
//	defer done()
func Region(log zerolog.Logger, name string) func() {
	start := time.Now()
	log.Debug().Str("region", name).Msg("focus: region start")
	return func() {
		log.Info().
			Str("region", name).
			Dur("elapsed", time.Since(start)).
			Msg("focus: region complete")
	}
}
