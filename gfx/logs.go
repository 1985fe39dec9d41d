package gfx

import (
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
)

const logFlags = log.Ldate | log.Ltime | log.Lshortfile

//Logs groups the engine loggers by severity
type Logs struct {
	Info  *log.Logger
	Warn  *log.Logger
	Error *log.Logger

	closer io.Closer
}

//NewLogs writes every severity to w
func NewLogs(w io.Writer) *Logs {
	return &Logs{
		Info:  log.New(w, "INFO: ", logFlags),
		Warn:  log.New(w, "WARNING: ", logFlags),
		Error: log.New(w, "ERROR: ", logFlags),
	}
}

//OpenLogs appends to the named file, or writes to stderr when path is empty
func OpenLogs(path string) (*Logs, error) {
	if path == "" {
		return NewLogs(os.Stderr), nil
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return nil, errors.Wrap(err, "open log file")
	}
	logs := NewLogs(file)
	logs.closer = file
	return logs, nil
}

//Discard returns loggers that drop everything
func Discard() *Logs {
	return NewLogs(io.Discard)
}

func (l *Logs) Close() error {
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}
