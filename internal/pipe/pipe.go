// Package pipe detects pipeline execution so datasets can be piped in and
// transcripts piped out.
package pipe

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// StdinArg is the dataset argument that means "read standard input".
const StdinArg = "-"

// MaxInput caps how much is read from a pipe.
const MaxInput = 8 << 20

// ErrTooLarge is returned when piped input exceeds MaxInput.
var ErrTooLarge = errors.New("piped input too large")

// IsStdinPiped returns true if stdin is receiving piped input.
func IsStdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	// Check if stdin is a pipe or has data
	return (stat.Mode()&os.ModeCharDevice) == 0 || stat.Size() > 0
}

// IsStdoutPiped returns true if stdout is being piped to another process.
func IsStdoutPiped() bool {
	return !term.IsTerminal(int(os.Stdout.Fd()))
}

// IsTerminal reports whether w is a terminal. Writers that are not files
// never are.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ReadStdin reads all available data from stdin.
// Returns nil if stdin is not piped.
func ReadStdin() ([]byte, error) {
	if !IsStdinPiped() {
		return nil, nil
	}
	return ReadAll(os.Stdin)
}

// ReadAll reads r up to MaxInput bytes.
func ReadAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInput+1))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(data) > MaxInput {
		return nil, ErrTooLarge
	}
	return data, nil
}
