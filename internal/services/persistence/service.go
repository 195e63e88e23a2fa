package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/smartcoop/coopsim/internal/model"
	"github.com/smartcoop/coopsim/pkg/mqttbus"
)

// InfluxConfig locates the bucket the snapshots are written to.
type InfluxConfig struct {
	URL         string
	Token       string
	Org         string
	Bucket      string
	Measurement string // default "coop_env"
}

// Service consumes environment snapshots from the broker, writes them
// to InfluxDB and keeps the latest in memory so /data/latest can answer
// even when Influx is unreachable.
type Service struct {
	consumer mqttbus.IConsumer[model.SensorSnapshot]
	influx   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	queryAPI api.QueryAPI
	cfg      InfluxConfig

	mu     sync.RWMutex
	latest model.SensorSnapshot
	have   bool
}

func NewService(consumer mqttbus.IConsumer[model.SensorSnapshot], influx influxdb2.Client, cfg InfluxConfig) (*Service, error) {
	if cfg.URL == "" || cfg.Org == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("influx config incomplete")
	}
	if cfg.Measurement == "" {
		cfg.Measurement = "coop_env"
	}
	return &Service{
		consumer: consumer,
		influx:   influx,
		writeAPI: influx.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		queryAPI: influx.QueryAPI(cfg.Org),
		cfg:      cfg,
	}, nil
}

// Start consumes until ctx is cancelled. A bad payload is logged and
// skipped; the stream must not stall on one message.
func (s *Service) Start(ctx context.Context) {
	s.consumer.SetHandler(func(topic string, msg mqtt.Message) error {
		var snap model.SensorSnapshot
		if err := json.Unmarshal(msg.Payload(), &snap); err != nil {
			log.Printf("persistence: invalid JSON on %s: %v", topic, err)
			return nil
		}

		s.mu.Lock()
		s.latest = snap
		s.have = true
		s.mu.Unlock()

		t := snap.Timestamp
		if t.IsZero() {
			t = time.Now()
		}
		point := influxdb2.NewPoint(s.cfg.Measurement,
			map[string]string{"source": "simulator"},
			map[string]interface{}{
				"temperature": snap.Temperature,
				"humidity":    snap.Humidity,
				"tank_level":  snap.TankLevel,
				"feed":        snap.Feed,
				"light":       snap.Light,
				"tick":        snap.Tick,
			}, t)

		if err := s.writeAPI.WritePoint(ctx, point); err != nil {
			log.Printf("persistence: write error: %v", err)
			return err
		}
		return nil
	})

	s.consumer.ConsumeMessage(ctx)
}

// Latest returns the cached snapshot, if any arrived yet.
func (s *Service) Latest() (model.SensorSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.have
}

// QueryLatestFromInflux reads the newest snapshot within the window.
func (s *Service) QueryLatestFromInflux(ctx context.Context, minutes int) (model.SensorSnapshot, error) {
	flux := fmt.Sprintf(`
from(bucket: %q)
  |> range(start: -%dm)
  |> filter(fn: (r) => r._measurement == %q)
  |> last()
  |> pivot(rowKey:["_time"], columnKey: ["_field"], valueColumn: "_value")
`, s.cfg.Bucket, minutes, s.cfg.Measurement)

	res, err := s.queryAPI.Query(ctx, flux)
	if err != nil {
		return model.SensorSnapshot{}, err
	}
	defer func() { _ = res.Close() }()

	var out model.SensorSnapshot
	found := false
	for res.Next() {
		rec := res.Record()
		out = model.SensorSnapshot{
			Temperature: toFloat(rec.ValueByKey("temperature")),
			Humidity:    toFloat(rec.ValueByKey("humidity")),
			TankLevel:   toFloat(rec.ValueByKey("tank_level")),
			Feed:        toFloat(rec.ValueByKey("feed")),
			Light:       toFloat(rec.ValueByKey("light")),
			Tick:        int64(toFloat(rec.ValueByKey("tick"))),
			Timestamp:   rec.Time(),
		}
		found = true
	}
	if res.Err() != nil {
		return model.SensorSnapshot{}, res.Err()
	}
	if !found {
		return model.SensorSnapshot{}, fmt.Errorf("no snapshot in the last %dm", minutes)
	}
	return out, nil
}

func toFloat(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	case int:
		return float64(x)
	}
	return 0
}
