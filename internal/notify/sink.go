package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/warehouse-sim/warehouse-sim/sim"
)

// NoticeTopic carries every session notice.
const NoticeTopic = "warehouse.sim.notices"

// Envelope is the wire form of one notice.
type Envelope struct {
	UserID string     `json:"user_id,omitempty"`
	Mode   string     `json:"mode"`
	Notice sim.Notice `json:"notice"`
}

// NoticeSink publishes the notices of every applied command. It satisfies
// host.Sink.
type NoticeSink struct {
	Publisher Publisher
	Topic     string // defaults to NoticeTopic
}

func (n NoticeSink) topic() string {
	if n.Topic == "" {
		return NoticeTopic
	}
	return n.Topic
}

// Observe publishes res.Notices. Publish failures are logged, not returned;
// the session keeps running without the bus.
func (n NoticeSink) Observe(_ sim.Command, res sim.Result, s *sim.Session) {
	for _, notice := range res.Notices {
		msg, err := json.Marshal(Envelope{UserID: s.UserID, Mode: string(s.Mode), Notice: notice})
		if err != nil {
			logrus.Warnf("encoding notice %s: %v", notice.Kind, err)
			continue
		}
		if err := n.Publisher.Publish(context.Background(), n.topic(), msg); err != nil {
			logrus.Warnf("publishing notice %s: %v", notice.Kind, err)
		}
	}
}

// Decode parses a message published by NoticeSink.
func Decode(msg []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return env, fmt.Errorf("decoding notice: %w", err)
	}
	return env, nil
}
