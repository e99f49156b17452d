package engine

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"syscall"
)

// maxLineSize caps a forwarded line. Longer lines, such as progress bars
// redrawn with carriage returns under a pty, are forwarded in pieces.
const maxLineSize = 1024 * 1024

// streamLines calls onLine for every line read from r until r is exhausted.
// Whatever cannot be read is drained so the writer never blocks.
func streamLines(r io.Reader, onLine func(string)) {
	reader := bufio.NewReaderSize(r, maxLineSize)

	for {
		line, _, err := reader.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, syscall.EIO) {
				slog.Debug("Engine output stream ended with error", "error", err)
			}
			break
		}
		onLine(string(line))
	}

	_, _ = io.Copy(io.Discard, r)
}
