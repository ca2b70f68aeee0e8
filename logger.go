package bloom

import (
	"log"
)

type Logger func(v ...interface{})

// StdLogger adapts a standard library logger; a nil argument falls back to
// log.Default.
func StdLogger(logger *log.Logger) Logger {
	if logger == nil {
		logger = log.Default()
	}
	return func(v ...interface{}) {
		logger.Println(v...)
	}
}

// NopLogger discards everything.
func NopLogger() Logger {
	return func(v ...interface{}) {}
}
