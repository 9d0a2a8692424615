package vos

import (
	"io"
	"os"
)

// Stdio bundles the three standard streams of one command. Redirection
// derives a new Stdio value instead of mutating process-wide descriptors,
// so the caller's streams are untouched once the command returns.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStdio returns the process's own standard streams.
func StdStdio() Stdio {
	return Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// NullStdio discards all output and yields EOF on input.
func NullStdio() Stdio {
	return Stdio{In: eofReader{}, Out: io.Discard, Err: io.Discard}
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) {
	return 0, io.EOF
}
