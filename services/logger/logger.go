package logsvc

import (
	"log"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core"
)

// StdLogger writes to the standard library logger.
type StdLogger struct {
	std *log.Logger
}

var _ core.Logger = (*StdLogger)(nil)

func NewStdLogger(std *log.Logger) *StdLogger {
	return &StdLogger{std: std}
}

func (l StdLogger) Info(msg string, args ...interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l StdLogger) Error(msg string, err error, args ...interface{}) {
	l.std.Printf("%s: %+v\n", msg, err)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}
