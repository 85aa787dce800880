package core

// Logger reports application events; the Error variants may forward to an
// external error tracker depending on the implementation.
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, err error, args ...interface{})
}
