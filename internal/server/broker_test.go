package server

import (
	"encoding/json"
	"testing"

	"github.com/playperu/scrumcluedo/internal/cluedo"
)

func TestBrokerPublish(t *testing.T) {
	b := NewBroker()
	a, c := b.Subscribe(), b.Subscribe()
	if got := b.Subscribers(); got != 2 {
		t.Fatalf("subscribers = %d, want 2", got)
	}

	b.Publish(LeaderboardEvent{Type: eventLeaderboard, Teams: []cluedo.Standing{{ID: "t1", Name: "Scrum", TotalScore: 30}}})
	for _, ch := range []chan []byte{a, c} {
		var ev LeaderboardEvent
		if err := json.Unmarshal(<-ch, &ev); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if len(ev.Teams) != 1 || ev.Teams[0].TotalScore != 30 {
			t.Fatalf("event = %+v", ev)
		}
	}

	b.Unsubscribe(a)
	b.Publish(LeaderboardEvent{Type: eventLeaderboard})
	select {
	case <-a:
		t.Fatal("unsubscribed channel received an event")
	default:
	}
	<-c
}

func TestBrokerDropsForSlowSubscribers(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	for range cap(ch) + 5 {
		b.Publish(LeaderboardEvent{Type: eventLeaderboard})
	}
	if got := len(ch); got != cap(ch) {
		t.Fatalf("buffered = %d, want %d", got, cap(ch))
	}
}

func TestBrokerClose(t *testing.T) {
	b := NewBroker()
	select {
	case <-b.Done():
		t.Fatal("done before close")
	default:
	}

	b.Close()
	b.Close()
	select {
	case <-b.Done():
	default:
		t.Fatal("done not closed after close")
	}
}
