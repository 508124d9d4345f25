package pubsub

import "github.com/charmbracelet/log"

// noopClient is used when no GCP project is configured; a single instance has
// nobody to tell about its writes.
type noopClient struct{}

func NewNoop() PubSubClient {
	return noopClient{}
}

func (noopClient) SendMessage(topic EventType, data any) error {
	log.Debug("Change feed disabled, dropping message", "topic", topic)
	return nil
}

func (noopClient) ProcessMessage(data []byte, returnValue any) error {
	return Decode(data, returnValue)
}

func (noopClient) Close() error { return nil }
