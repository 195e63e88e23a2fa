package sync

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"github.com/smartcoop/coopsim/internal/model/messages"
	"github.com/smartcoop/coopsim/pkg/mqttbus"
)

// Broker topics. Event topics ride QoS 1 (see mqttbus.QoSFor), the
// periodic feeds QoS 0.
const (
	TopicSensor   = "coop/sensor"
	TopicActivity = "coop/event/activity"
	TopicState    = "coop/event/state"
	TopicHotspots = "coop/hotspots"
)

// MQTTSink publishes the same payloads the HTTP sink POSTs, onto broker
// topics. It feeds the persistence and event services.
type MQTTSink struct {
	pub mqttbus.IPublisher
}

func NewMQTTSink(pub mqttbus.IPublisher) *MQTTSink {
	return &MQTTSink{pub: pub}
}

func (s *MQTTSink) PushSnapshot(m messages.SensorSnapshot) { go s.publish(TopicSensor, m) }

func (s *MQTTSink) PushActivity(e messages.ActivityEvent) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	go s.publish(TopicActivity, e)
}

func (s *MQTTSink) PushSystemState(m messages.SystemState) { go s.publish(TopicState, m) }

func (s *MQTTSink) PushHotspots(h messages.HotspotScan) { go s.publish(TopicHotspots, h) }

func (s *MQTTSink) publish(topic string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("sync: marshal for %s failed: %v", topic, err)
		return
	}
	if err := s.pub.PublishTo(topic, mqttbus.QoSFor(topic), false, body); err != nil {
		log.Printf("sync: publish %s failed: %v", topic, err)
	}
}
