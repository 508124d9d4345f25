package pubsub

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
)

// PushEnvelope is the JSON body Pub/Sub push subscriptions POST to an endpoint.
type PushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data       string            `json:"data"`
		Attributes map[string]string `json:"attributes"`
		MessageID  string            `json:"messageId"`
	} `json:"message"`
}

// DecodePush reads a push request body and returns the raw message data.
func DecodePush(r io.Reader) (PushEnvelope, []byte, error) {
	var env PushEnvelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return env, nil, fmt.Errorf("invalid push envelope: %w", err)
	}
	raw, err := base64.StdEncoding.DecodeString(env.Message.Data)
	if err != nil {
		return env, nil, fmt.Errorf("invalid base64 data: %w", err)
	}
	return env, raw, nil
}

// EncodePush builds a push envelope for msg. Used by tests and local tooling.
func EncodePush(subscription string, msg ChangeMessage) ([]byte, error) {
	data, err := Encode(msg)
	if err != nil {
		return nil, err
	}
	var env PushEnvelope
	env.Subscription = subscription
	env.Message.Data = base64.StdEncoding.EncodeToString(data)
	env.Message.Attributes = map[string]string{"topic": string(msg.Topic)}
	return json.Marshal(env)
}
