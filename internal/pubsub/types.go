package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType is the topic a change message is published on.
type EventType string

const (
	EventPlayersChanged    EventType = "players-changed"
	EventChallengesChanged EventType = "challenges-changed"
	EventMatchesChanged    EventType = "matches-changed"
)

// ChangeMessage tells other instances that a collection was written.
// Receivers refetch the collection rather than trusting the payload.
type ChangeMessage struct {
	Topic   EventType `msgpack:"topic"`
	Origin  string    `msgpack:"origin"`
	Version int64     `msgpack:"version"`
	IDs     []string  `msgpack:"ids"`
	At      int64     `msgpack:"at"`
}
