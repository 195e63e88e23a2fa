package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/smartcoop/coopsim/internal/services/persistence"
	"github.com/smartcoop/coopsim/internal/services/sync"
	"github.com/smartcoop/coopsim/pkg/mqttbus"
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MQTT ---
	busCfg := &mqttbus.Config{
		Host:     env("MQTT_HOST", "localhost"),
		Port:     envInt("MQTT_PORT", 1883),
		User:     env("MQTT_USER", "guest"),
		Password: env("MQTT_PASS", "guest"),
		ClientID: env("MQTT_CLIENT_ID", "persistence-service"),
	}
	client, err := mqttbus.NewConn(ctx, busCfg)
	if err != nil {
		log.Fatalf("persistence: mqtt connect failed: %v", err)
	}
	consumer := mqttbus.NewConsumer(client, env("SENSOR_TOPIC", sync.TopicSensor), nil)

	// --- InfluxDB ---
	influxURL := env("INFLUX_URL", "http://localhost:8086")
	influxClient := influxdb2.NewClient(influxURL, env("INFLUX_TOKEN", ""))
	cfg := persistence.InfluxConfig{
		URL:         influxURL,
		Token:       env("INFLUX_TOKEN", ""),
		Org:         env("INFLUX_ORG", "coop"),
		Bucket:      env("INFLUX_BUCKET", "coop-env"),
		Measurement: env("MEASUREMENT", "coop_env"),
	}

	svc, err := persistence.NewService(consumer, influxClient, cfg)
	if err != nil {
		log.Fatalf("persistence: init failed: %v", err)
	}

	mux := persistence.NewHTTPMux(svc)

	port := env("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("persistence: HTTP listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("persistence: http server error: %v", err)
		}
	}()

	go svc.Start(ctx)

	<-ctx.Done()

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shCtx)
	log.Println("persistence: shutdown complete")
}
