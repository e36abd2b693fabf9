package client

import (
	"context"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tasklane/tasklane/pkg/api/types/events"
)

// DefaultBackoff is the fixed delay between reconnect attempts.
const DefaultBackoff = 3 * time.Second

// Watcher keeps a local view of the board fresh by listening on the
// change broadcast channel.
//
// Events are treated as invalidation hints only: on any task event the
// watcher refetches the full task list and rebuilds the board, so a
// missed or duplicated event can never corrupt the view. The same full
// refetch runs after every (re)connect, which covers events missed
// while disconnected.
type Watcher struct {
	Client TasklaneClient

	// BaseUrl is the http(s) origin of the server.
	BaseUrl string

	// Token authenticates the websocket dial, via query parameter.
	Token string

	// Backoff between reconnect attempts. DefaultBackoff when zero.
	Backoff time.Duration

	// OnBoard is called with a fresh board after every refetch.
	OnBoard func(Board)

	// OnCommentEvent, when set, is called for each comment_created
	// event so the caller can refetch the open task's comments.
	OnCommentEvent func()
}

func (w *Watcher) backoff() time.Duration {
	if w.Backoff <= 0 {
		return DefaultBackoff
	}
	return w.Backoff
}

func (w *Watcher) eventsUrl() string {
	origin := strings.TrimSuffix(w.BaseUrl, "/")
	if strings.HasPrefix(origin, "https") {
		origin = "wss" + strings.TrimPrefix(origin, "https")
	} else {
		origin = "ws" + strings.TrimPrefix(origin, "http")
	}
	return origin + "/api/events?token=" + w.Token
}

// Watch runs until ctx is done, reconnecting with a fixed backoff
// whenever the channel drops.
func (w *Watcher) Watch(ctx context.Context) error {
	for {
		// watchOnce only returns on a broken channel; retry after backoff.
		w.watchOnce(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.backoff()):
		}
	}
}

func (w *Watcher) watchOnce(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.eventsUrl(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// the channel has no replay, so resync unconditionally.
	if err := w.refetch(ctx); err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		ev := events.Event{}
		if err := conn.ReadJSON(&ev); err != nil {
			return err
		}

		switch ev.Type {
		case events.TaskCreated, events.TaskUpdated, events.TaskDeleted:
			if err := w.refetch(ctx); err != nil {
				return err
			}
		case events.CommentCreated:
			if w.OnCommentEvent != nil {
				w.OnCommentEvent()
			}
		default:
			// unknown event type; future server, old client. ignore.
		}
	}
}

func (w *Watcher) refetch(ctx context.Context) error {
	tasks, err := w.Client.FindTasks(ctx, TaskQuery{})
	if err != nil {
		return err
	}
	if w.OnBoard != nil {
		w.OnBoard(NewBoard(tasks))
	}
	return nil
}
