package log

import (
	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/edago/pkg/errors"
)

// EnableZerologWarnings routes the library warning channel into the given
// zerolog logger. Warning types that implement zerolog.LogObjectMarshaler are
// embedded as structured fields.
func EnableZerologWarnings(logger zerolog.Logger) {
	errors.SetZerologWarnFunc(func(w error) {
		event := logger.Warn()
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			event = event.EmbedObject(m)
		}
		event.Msg(w.Error())
	})
}

// DisableZerologWarnings removes the zerolog warning sink, falling back to
// the plain warning handler.
func DisableZerologWarnings() {
	errors.SetZerologWarnFunc(nil)
}
