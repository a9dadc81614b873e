package viewer

import (
	"context"

	"github.com/gdamore/tcell/v2"
)

// Run draws v on s and handles input until the user quits or ctx is done.
// s must already be initialized; Run does not finalize it.
func Run(ctx context.Context, s tcell.Screen, v *Viewer) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go s.ChannelEvents(events, quit)
	defer close(quit)

	v.Resize(s.Size())
	for {
		v.Draw(s)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				v.Resize(ev.Size())
				s.Sync()
			case *tcell.EventKey:
				v.HandleKey(ev)
			}
		}
		if v.Done() {
			return nil
		}
	}
}
