package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/nxadm/tail"

	"github.com/bigscroll/bigscroll/internal/ansiext"
)

// Follow tails path and appends every new line to the list, calling
// onAppend with the new total after each append. It blocks until ctx is
// done or tailing fails, so callers run it in a goroutine.
func (l *List) Follow(ctx context.Context, path string, onAppend func(total int)) error {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		// The list already holds the current contents; only new lines matter.
		Location: &tail.SeekInfo{Whence: io.SeekEnd},
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to tail %s: %w", path, err)
	}
	defer t.Cleanup()

	for {
		select {
		case <-ctx.Done():
			if err := t.Stop(); err != nil {
				slog.Warn("Failed to stop tailing", "path", path, "error", err)
			}
			return ctx.Err()
		case line, ok := <-t.Lines:
			if !ok {
				return t.Err()
			}
			if line.Err != nil {
				slog.Warn("Tail error", "path", path, "error", line.Err)
				continue
			}
			l.Append(ansiext.Escape(line.Text))
			if onAppend != nil {
				onAppend(l.Len())
			}
		}
	}
}
