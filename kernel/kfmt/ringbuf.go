package kfmt

import "io"

// ringBufferSize defines the size of the buffer that captures early Printf
// output before a sink is attached. It must be a power of 2.
const ringBufferSize = 4096

// ringBuffer captures boot diagnostics emitted before the firmware console
// or a device driver has been attached as the output sink. Once the buffer
// fills up, new writes overwrite the oldest data.
type ringBuffer struct {
	buffer         [ringBufferSize]byte
	rIndex, wIndex int
	full           bool
}

// Write appends p to the ring buffer, evicting the oldest bytes on overflow.
func (rb *ringBuffer) Write(p []byte) (int, error) {
	for _, b := range p {
		rb.buffer[rb.wIndex] = b
		rb.wIndex = (rb.wIndex + 1) & (ringBufferSize - 1)
		if rb.full {
			rb.rIndex = rb.wIndex
		}
		if rb.rIndex == rb.wIndex {
			rb.full = true
		}
	}

	return len(p), nil
}

// Read copies up to len(p) buffered bytes into p and returns io.EOF once the
// buffer has been drained.
func (rb *ringBuffer) Read(p []byte) (int, error) {
	if rb.rIndex == rb.wIndex && !rb.full {
		return 0, io.EOF
	}

	var n int
	for n < len(p) {
		p[n] = rb.buffer[rb.rIndex]
		rb.rIndex = (rb.rIndex + 1) & (ringBufferSize - 1)
		rb.full = false
		n++
		if rb.rIndex == rb.wIndex {
			break
		}
	}

	return n, nil
}
