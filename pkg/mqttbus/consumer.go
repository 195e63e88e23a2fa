package mqttbus

import (
	"context"
	"log"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Handler processes one message from a topic.
type Handler func(topic string, message mqtt.Message) error

// IConsumer subscribes to a topic and feeds messages of kind T to the
// handler. T documents the expected payload; decoding stays with the
// handler.
type IConsumer[T any] interface {
	ConsumeMessage(ctx context.Context)
	SetHandler(handler Handler)
}

// QoSFor selects the delivery guarantee by topic: event streams ride
// at-least-once, periodic snapshots can afford at-most-once.
func QoSFor(topic string) byte {
	t := strings.TrimSpace(topic)
	if strings.HasPrefix(t, "coop/event/") {
		return 1
	}
	return 0
}

// Consumer subscribes to a single topic on a shared client.
type Consumer struct {
	client  mqtt.Client
	topic   string
	handler Handler
}

func NewConsumer(client mqtt.Client, topic string, handler Handler) *Consumer {
	return &Consumer{client: client, topic: topic, handler: handler}
}

func (c *Consumer) SetHandler(handler Handler) { c.handler = handler }

// ConsumeMessage subscribes and blocks until ctx is cancelled, then
// unsubscribes.
func (c *Consumer) ConsumeMessage(ctx context.Context) {
	token := c.client.Subscribe(c.topic, QoSFor(c.topic), func(_ mqtt.Client, msg mqtt.Message) {
		if c.handler == nil {
			log.Printf("mqttbus: no handler for topic %s", c.topic)
			return
		}
		if err := c.handler(c.topic, msg); err != nil {
			log.Printf("mqttbus: handler error on %s: %v", c.topic, err)
		}
	})
	if token.Wait() && token.Error() != nil {
		log.Printf("mqttbus: subscribe %s failed: %v", c.topic, token.Error())
		return
	}
	log.Printf("mqttbus: subscribed to %s", c.topic)

	<-ctx.Done()

	unsub := c.client.Unsubscribe(c.topic)
	unsub.Wait()
}

// MultiConsumer subscribes the same handler to several topics.
type MultiConsumer struct {
	client  mqtt.Client
	topics  []string
	handler Handler
}

func NewMultiConsumer(client mqtt.Client, topics []string, handler Handler) *MultiConsumer {
	return &MultiConsumer{client: client, topics: topics, handler: handler}
}

func (m *MultiConsumer) SetHandler(handler Handler) { m.handler = handler }

func (m *MultiConsumer) ConsumeMessage(ctx context.Context) {
	for _, topic := range m.topics {
		topic := topic
		token := m.client.Subscribe(topic, QoSFor(topic), func(_ mqtt.Client, msg mqtt.Message) {
			if m.handler == nil {
				log.Printf("mqttbus: no handler for topic %s", topic)
				return
			}
			if err := m.handler(topic, msg); err != nil {
				log.Printf("mqttbus: handler error on %s: %v", topic, err)
			}
		})
		token.Wait()
		if token.Error() != nil {
			log.Printf("mqttbus: subscribe %s failed: %v", topic, token.Error())
		} else {
			log.Printf("mqttbus: subscribed to %s", topic)
		}
	}

	<-ctx.Done()

	for _, topic := range m.topics {
		m.client.Unsubscribe(topic)
	}
}
