package kfmt

import "io"

// PrefixWriter wraps an io.Writer and injects a prefix at the beginning of
// every line. The boot pipeline uses it to tag diagnostics with the stage
// that emitted them.
type PrefixWriter struct {
	// Sink receives all writes.
	Sink io.Writer

	// Prefix is injected at the start of each line.
	Prefix []byte

	midLine bool
}

// Write sends p to the underlying sink, emitting the configured prefix at
// each line start. The returned byte count excludes injected prefixes.
func (w *PrefixWriter) Write(p []byte) (int, error) {
	var written, start int

	for i := 0; i < len(p); i++ {
		if !w.midLine {
			if _, err := w.Sink.Write(w.Prefix); err != nil {
				return written, err
			}
			w.midLine = true
		}

		if p[i] != '\n' {
			continue
		}

		n, err := w.Sink.Write(p[start : i+1])
		written += n
		if err != nil {
			return written, err
		}
		w.midLine = false
		start = i + 1
	}

	if start < len(p) {
		n, err := w.Sink.Write(p[start:])
		written += n
		if err != nil {
			return written, err
		}
	}

	return written, nil
}
