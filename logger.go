package instruments

import "github.com/rs/zerolog"

// Logger receives registry diagnostics. Implementations must be safe for concurrent use.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

func newNoopLogger() Logger {
	return noopLogger{}
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Warnf(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}

// NewZerologLogger adapts a zerolog.Logger to Logger.
func NewZerologLogger(l zerolog.Logger) Logger {
	return zerologLogger{l: l.With().Str("component", Namespace).Logger()}
}

type zerologLogger struct {
	l zerolog.Logger
}

func (z zerologLogger) Debugf(format string, args ...interface{}) { z.l.Debug().Msgf(format, args...) }
func (z zerologLogger) Infof(format string, args ...interface{})  { z.l.Info().Msgf(format, args...) }
func (z zerologLogger) Warnf(format string, args ...interface{})  { z.l.Warn().Msgf(format, args...) }
func (z zerologLogger) Errorf(format string, args ...interface{}) { z.l.Error().Msgf(format, args...) }
