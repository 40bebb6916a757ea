package loader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jub0bs/corspolicy"
	"github.com/knadh/koanf/providers/file"
)

// Watch loads the file at path, publishes the resulting policy through h,
// and then recompiles and republishes it whenever the file changes,
// until ctx is done.
//
// The initial load must succeed; otherwise Watch returns an error and h is
// left unchanged. Subsequent reload failures are logged at ERROR level and
// leave the current policy in place; successful reloads are logged at
// INFO level.
func (l *Loader) Watch(ctx context.Context, path string, h *corspolicy.Holder) error {
	p, err := l.LoadFile(path)
	if err != nil {
		return err
	}
	h.Store(p)
	fp := file.Provider(path)
	err = fp.Watch(func(_ any, err error) {
		if err != nil {
			l.logger.Error("watch failed", slog.String("path", path), slog.Any("err", err))
			return
		}
		p, err := l.LoadFile(path)
		if err != nil {
			l.logger.Error("reload failed; keeping current policy",
				slog.String("path", path),
				slog.Any("err", err),
			)
			return
		}
		h.Store(p)
		l.logger.Info("policy reloaded",
			slog.String("path", path),
			slog.Int("transforms", len(p.Transforms())),
		)
	})
	if err != nil {
		return fmt.Errorf("corspolicy: failed to watch %s: %w", path, err)
	}
	go func() {
		<-ctx.Done()
		fp.Unwatch()
	}()
	return nil
}
