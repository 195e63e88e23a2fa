package mqttbus

import (
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IPublisher publishes payloads to the broker.
type IPublisher interface {
	Publish(payload []byte) error
	PublishTo(topic string, qos byte, retained bool, payload []byte) error
	Close()
}

// Publisher writes to one default topic over a shared client.
type Publisher struct {
	client mqtt.Client
	topic  string
}

func NewPublisher(client mqtt.Client, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

// Publish sends payload to the default topic at the topic's QoS.
func (p *Publisher) Publish(payload []byte) error {
	return p.PublishTo(p.topic, QoSFor(p.topic), false, payload)
}

// PublishTo sends payload to an explicit topic with explicit QoS.
func (p *Publisher) PublishTo(topic string, qos byte, retained bool, payload []byte) error {
	token := p.client.Publish(topic, qos, retained, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("publish to %s: %w", topic, token.Error())
	}
	return nil
}

// Close disconnects the underlying client.
func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
		log.Println("mqttbus: publisher disconnected")
	}
}
