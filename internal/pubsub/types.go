package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
// Each event type is published to the topic of the same name.
type EventType string

const (
	EventMatchStarted      EventType = "match-started"
	EventMatchCompleted    EventType = "match-completed"
	EventMatchCancelled    EventType = "match-cancelled"
	EventStatisticRecorded EventType = "statistic-recorded"
)

// AttrEventType is the message attribute carrying the EventType.
const AttrEventType = "event_type"

// PushEnvelope is the body Pub/Sub push subscriptions POST to the service.
type PushEnvelope struct {
	Message struct {
		Data       []byte            `json:"data"`
		Attributes map[string]string `json:"attributes"`
		ID         string            `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}
