package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/smartcoop/coopsim/internal/services/event"
	"github.com/smartcoop/coopsim/pkg/dedup"
	"github.com/smartcoop/coopsim/pkg/mqttbus"
)

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	cfg := struct {
		Broker mqttbus.Config

		InfluxURL    string
		InfluxToken  string
		InfluxOrg    string
		InfluxBucket string

		Topics        []string
		BatchSize     int
		FlushInterval time.Duration

		HTTPPort       int
		ShutdownGrace  time.Duration
		ReadyMinErrAge time.Duration
	}{
		Broker: mqttbus.Config{
			Host:     envStr("MQTT_HOST", "localhost"),
			Port:     envInt("MQTT_PORT", 1883),
			User:     envStr("MQTT_USER", "guest"),
			Password: envStr("MQTT_PASSWORD", "guest"),
			ClientID: envStr("HOSTNAME", "event-service"),
		},

		InfluxURL:    envStr("INFLUX_URL", "http://localhost:8086"),
		InfluxToken:  os.Getenv("INFLUX_TOKEN"),
		InfluxOrg:    envStr("INFLUX_ORG", "smartcoop"),
		InfluxBucket: envStr("INFLUX_BUCKET", "events"),

		Topics: func() []string {
			raw := envStr("EVENT_SUB_TOPICS", "coop/event/#")
			parts := strings.Split(raw, ",")
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				if s := strings.TrimSpace(p); s != "" {
					out = append(out, s)
				}
			}
			return out
		}(),
		BatchSize:     envInt("WRITE_BATCH_SIZE", 10),
		FlushInterval: time.Duration(envInt("WRITE_FLUSH_INTERVAL_MS", 200)) * time.Millisecond,

		HTTPPort:       envInt("HTTP_PORT", 8081),
		ShutdownGrace:  5 * time.Second,
		ReadyMinErrAge: 2 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := influxdb2.DefaultOptions().
		SetBatchSize(uint(cfg.BatchSize)).
		SetFlushInterval(uint(cfg.FlushInterval.Milliseconds()))
	influx := influxdb2.NewClientWithOptions(cfg.InfluxURL, cfg.InfluxToken, opts)
	defer influx.Close()
	writeAPI := influx.WriteAPI(cfg.InfluxOrg, cfg.InfluxBucket)
	writer := event.NewWriter(writeAPI)

	client, err := mqttbus.NewConn(ctx, &cfg.Broker)
	if err != nil {
		log.Fatalf("event-svc: mqtt connection error: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", event.NewHealthHandler(client, influx, writer))
	mux.Handle("/readyz", event.NewReadyHandler(client, influx, writer, cfg.ReadyMinErrAge))
	mux.Handle("/events/recent", event.NewRecentHandler(influx, cfg.InfluxOrg, cfg.InfluxBucket))

	hs := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("event-svc: HTTP listening on :%d", cfg.HTTPPort)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("event-svc: http server error: %v", err)
		}
	}()

	h := event.NewMQTTHandler(func(evt event.CommonEvent) {
		writeAPI.WritePoint(event.EventToPoint(evt))
		writer.MarkIngest(evt.EventType)
	})

	// Event topics ride QoS 1, so redelivery is possible. Hash the
	// payload and skip exact repeats.
	d := dedup.New(10*time.Minute, 20000)
	consumer := mqttbus.NewMultiConsumer(client, cfg.Topics, func(topic string, m mqtt.Message) error {
		hh := sha256.Sum256(m.Payload())
		if !d.ShouldProcess(hex.EncodeToString(hh[:])) {
			return nil
		}
		return h.Handle(topic, m)
	})
	go consumer.ConsumeMessage(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Printf("event-svc: shutting down...")
	cancel()

	shCtx, shCancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer shCancel()
	_ = hs.Shutdown(shCtx)

	// let the async write buffer flush
	time.Sleep(cfg.FlushInterval + 100*time.Millisecond)
}
