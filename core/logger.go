package core

// Logger reports application events to an external monitor and the local console.
// Implementations accept extra args in the form: error, map[string]interface{}, user record.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
