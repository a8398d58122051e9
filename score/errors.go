package score

import (
	"fmt"
	"strings"
)

// ScriptError is returned when a score can't be evaluated into a song.
type ScriptError struct {
	// Key is the offending field or builtin, if known.
	Key string

	// Pos is the script position, e.g. "song.star:12:5".
	Pos string

	Msg       string
	Backtrace string

	// Cause is the underlying error when a host function failed, e.g. a MalformedMidiError.
	Cause error
}

func (err ScriptError) Error() string {
	var sb strings.Builder
	sb.WriteString("score error")
	if err.Pos != "" {
		fmt.Fprintf(&sb, " at %s", err.Pos)
	}
	if err.Key != "" {
		fmt.Fprintf(&sb, " (%s)", err.Key)
	}
	fmt.Fprintf(&sb, ": %s", err.Msg)
	return sb.String()
}

func (err ScriptError) Unwrap() error {
	return err.Cause
}

func scriptErrorf(key, format string, args ...interface{}) ScriptError {
	return ScriptError{Key: key, Msg: fmt.Sprintf(format, args...)}
}
