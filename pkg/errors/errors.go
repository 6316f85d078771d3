// Error wrapper that records where it was created.
//
//	err := xe.Wrap(cause)
//
// The wrapped error carries the file, line and function name of the
// call site, so chained wraps read as a breadcrumb trail when the
// message is split on " <- ".
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

type CallerError struct {
	file     string
	line     int
	funcname string
	note     string
	err      error
}

func (e *CallerError) File() string {
	return e.file
}

func (e *CallerError) Line() int {
	return e.line
}

func (e *CallerError) Error() string {
	if e.note == "" {
		return fmt.Sprintf(`@ %s "%s" l%d <- %s`, e.funcname, e.file, e.line, e.err.Error())
	}
	return fmt.Sprintf(`@ %s "%s" l%d (%s) <- %s`, e.funcname, e.file, e.line, e.note, e.err.Error())
}

func (e *CallerError) Unwrap() error {
	return e.err
}

// New creates a new error with the caller's location.
func New(text string) error {
	return wrap("", errors.New(text), 1)
}

// Wrap marks err with the caller's location.
func Wrap(err error) error {
	return wrap("", err, 1)
}

// WrapWithNote is Wrap with an extra annotation.
func WrapWithNote(note string, err error) error {
	return wrap(note, err, 1)
}

func wrap(note string, err error, depth int) error {
	pc, file, line, ok := runtime.Caller(depth + 1)
	funcname := "(unknown func)"
	if !ok {
		file = "?"
		line = -1
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcname = fn.Name()
	}

	return &CallerError{
		funcname: funcname,
		file:     file,
		line:     line,
		note:     note,
		err:      err,
	}
}
