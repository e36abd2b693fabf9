package filewatch

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// UntilModifyContext derives a context from ctx that is canceled when any of
// the named files changes (written, created, removed, or renamed). The
// cancellation cause names the file and the operation.
//
// The returned func releases the watch without marking a file change.
func UntilModifyContext(ctx context.Context, paths ...string) (context.Context, func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			w.Close()
			return nil, nil, err
		}
	}

	cctx, cancel := context.WithCancelCause(ctx)
	go func() {
		defer w.Close()
		select {
		case <-cctx.Done():
		case ev, ok := <-w.Events:
			if ok {
				cancel(fmt.Errorf("%s changed (%s)", ev.Name, ev.Op))
			}
		}
	}()

	return cctx, func() { cancel(nil) }, nil
}
