// Package typewriter paces reply output with a delay between writes.
// This is presentation only; a zero delay writes straight through.
package typewriter

import (
	"io"
	"strings"
	"time"
)

// Writer wraps an io.Writer and pauses between consecutive writes.
type Writer struct {
	out   io.Writer
	delay time.Duration
	wrote bool
}

func New(out io.Writer, delay time.Duration) *Writer {
	return &Writer{out: out, delay: delay}
}

// Write implements io.Writer, sleeping the configured delay before every
// write after the first.
func (w *Writer) Write(p []byte) (int, error) {
	if w.wrote && w.delay > 0 {
		time.Sleep(w.delay)
	}
	w.wrote = true
	return w.out.Write(p)
}

// Play renders s in word-sized chunks followed by a newline, pausing between
// chunks. Whitespace is preserved exactly.
func (w *Writer) Play(s string) error {
	for _, chunk := range chunks(s) {
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w.out, "\n")
	return err
}

// chunks splits s after each space so rejoining the chunks reproduces s.
func chunks(s string) []string {
	if s == "" {
		return nil
	}
	return strings.SplitAfter(s, " ")
}
