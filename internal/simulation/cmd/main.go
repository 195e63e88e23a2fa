package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/smartcoop/coopsim/internal/services/sync"
	"github.com/smartcoop/coopsim/internal/simulation"
	"github.com/smartcoop/coopsim/pkg/mqttbus"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("coop-sim: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sinks sync.MultiSink
	if cfg.Dashboard.URL != "" {
		timeout := time.Duration(cfg.Dashboard.TimeoutMS) * time.Millisecond
		sinks = append(sinks, sync.NewHTTPSink(cfg.Dashboard.URL, timeout))
		log.Printf("coop-sim: pushing to dashboard at %s", cfg.Dashboard.URL)
	}
	if cfg.MQTT.Enabled {
		client, err := mqttbus.NewConn(ctx, cfg.mqttConfig())
		if err != nil {
			log.Fatalf("coop-sim: mqtt connection error: %v", err)
		}
		pub := mqttbus.NewPublisher(client, sync.TopicSensor)
		defer pub.Close()
		sinks = append(sinks, sync.NewMQTTSink(pub))
		log.Printf("coop-sim: publishing to broker at %s:%d", cfg.MQTT.Host, cfg.MQTT.Port)
	}

	sim := simulation.New(cfg.simConfig(), sinks)

	log.Printf("coop-sim: starting, %d agents, seed %d, tick %dms",
		cfg.Sim.AgentCount, cfg.Sim.Seed, cfg.Sim.TickIntervalMS)
	sim.Run(ctx)
	log.Printf("coop-sim: stopped")
}
