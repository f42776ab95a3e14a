package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/playperu/scrumcluedo/internal/game"
)

const eventLeaderboard = "leaderboard"

// leaderboardFeed pushes fresh standings to SSE subscribers.
type leaderboardFeed struct {
	broker *Broker
	game   *game.Service
	logger *slog.Logger
}

// notify publishes the current standings. It is a no-op without
// subscribers.
func (f *leaderboardFeed) notify(ctx context.Context) {
	if f.broker.Subscribers() == 0 {
		return
	}
	teams, err := f.game.Leaderboard(ctx)
	if err != nil {
		f.logger.Warn("leaderboard update not published", "error", err)
		return
	}
	f.broker.Publish(LeaderboardEvent{Type: eventLeaderboard, Teams: teams})
}

func handleLeaderboardEvents(feed *leaderboardFeed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		ch := feed.broker.Subscribe()
		defer feed.broker.Unsubscribe(ch)

		teams, err := feed.game.Leaderboard(r.Context())
		if err != nil {
			writeServiceError(w, r, feed.logger, err)
			return
		}
		initial, _ := json.Marshal(LeaderboardEvent{Type: eventLeaderboard, Teams: teams})

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventLeaderboard, initial)
		flusher.Flush()

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-feed.broker.Done():
				return
			case data := <-ch:
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventLeaderboard, data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
