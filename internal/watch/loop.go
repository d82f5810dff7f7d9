package watch

import (
	"context"
	"log/slog"
	"os"

	"github.com/marcus/roadmap/internal/roadmap"
)

// ChangeFunc handles one change of the watched file. It returns the bytes it
// wrote back to the file, or nil when it wrote nothing, even when it also
// returns an error.
type ChangeFunc func() ([]byte, error)

// Run calls onChange for every event until ctx is cancelled. Events caused
// by onChange's own write are recognised by content hash and skipped.
// Errors from onChange are logged and do not stop the loop.
func Run(ctx context.Context, events <-chan struct{}, path string, onChange ChangeFunc, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	var lastWritten uint64
	var haveWritten bool

	for {
		select {
		case <-ctx.Done():
			return nil

		case _, ok := <-events:
			if !ok {
				return nil
			}

			data, err := os.ReadFile(path)
			if err != nil {
				logger.Warn("read watched file", "path", path, "err", err)
				continue
			}
			if haveWritten && roadmap.ContentHash(data) == lastWritten {
				logger.Debug("skipping self-triggered change", "path", path)
				continue
			}

			written, err := onChange()
			if written != nil {
				lastWritten = roadmap.ContentHash(written)
				haveWritten = true
			}
			if err != nil {
				logger.Error("update after change", "path", path, "err", err)
			}
		}
	}
}
