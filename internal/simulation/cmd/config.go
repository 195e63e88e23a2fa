package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"

	"github.com/smartcoop/coopsim/internal/model/entities"
	"github.com/smartcoop/coopsim/internal/radar"
	"github.com/smartcoop/coopsim/internal/simulation"
	"github.com/smartcoop/coopsim/pkg/mqttbus"
)

// fileConfig is the YAML shape loaded by viper. Every key has a default
// so the binary runs without a config file at all.
type fileConfig struct {
	Sim struct {
		TickIntervalMS int   `mapstructure:"tick_interval_ms"`
		SnapshotEvery  int64 `mapstructure:"snapshot_every"`
		HotspotEvery   int64 `mapstructure:"hotspot_every"`
		AgentCount     int   `mapstructure:"agent_count"`
		Seed           int64 `mapstructure:"seed"`
	} `mapstructure:"sim"`

	Arena struct {
		Width     float64 `mapstructure:"width"`
		Height    float64 `mapstructure:"height"`
		FloorMinX float64 `mapstructure:"floor_min_x"`
		FloorMaxX float64 `mapstructure:"floor_max_x"`
		FloorMinY float64 `mapstructure:"floor_min_y"`
		FloorMaxY float64 `mapstructure:"floor_max_y"`
	} `mapstructure:"arena"`

	Radar struct {
		CellSize  float64 `mapstructure:"cell_size"`
		Threshold int     `mapstructure:"threshold"`
		Landmarks bool    `mapstructure:"landmarks"`
	} `mapstructure:"radar"`

	Dashboard struct {
		URL       string `mapstructure:"url"`
		TimeoutMS int    `mapstructure:"timeout_ms"`
	} `mapstructure:"dashboard"`

	MQTT struct {
		Enabled  bool   `mapstructure:"enabled"`
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		ClientID string `mapstructure:"client_id"`
	} `mapstructure:"mqtt"`
}

func loadConfig() (*fileConfig, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("configs")
	viper.AddConfigPath(".")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Printf("coop-sim: no config file, using defaults")
		} else {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg fileConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

func setDefaults() {
	def := simulation.DefaultConfig()

	viper.SetDefault("sim.tick_interval_ms", int(def.TickInterval.Milliseconds()))
	viper.SetDefault("sim.snapshot_every", def.SnapshotEvery)
	viper.SetDefault("sim.hotspot_every", def.HotspotEvery)
	viper.SetDefault("sim.agent_count", def.AgentCount)
	viper.SetDefault("sim.seed", def.Seed)

	viper.SetDefault("arena.width", def.Arena.Width)
	viper.SetDefault("arena.height", def.Arena.Height)
	viper.SetDefault("arena.floor_min_x", def.Arena.FloorMinX)
	viper.SetDefault("arena.floor_max_x", def.Arena.FloorMaxX)
	viper.SetDefault("arena.floor_min_y", def.Arena.FloorMinY)
	viper.SetDefault("arena.floor_max_y", def.Arena.FloorMaxY)

	viper.SetDefault("radar.cell_size", def.Radar.CellSize)
	viper.SetDefault("radar.threshold", def.Radar.Threshold)
	viper.SetDefault("radar.landmarks", def.Radar.Landmarks)

	viper.SetDefault("dashboard.url", "http://localhost:5000")
	viper.SetDefault("dashboard.timeout_ms", 1000)

	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.host", "localhost")
	viper.SetDefault("mqtt.port", 1883)
	viper.SetDefault("mqtt.user", "guest")
	viper.SetDefault("mqtt.password", "guest")
	viper.SetDefault("mqtt.client_id", "coop-sim")
}

func validate(cfg *fileConfig) error {
	if cfg.Sim.TickIntervalMS <= 0 {
		return fmt.Errorf("tick_interval_ms must be positive, got %d", cfg.Sim.TickIntervalMS)
	}
	if cfg.Sim.AgentCount <= 0 {
		return fmt.Errorf("agent_count must be positive, got %d", cfg.Sim.AgentCount)
	}
	if cfg.Arena.FloorMinX >= cfg.Arena.FloorMaxX || cfg.Arena.FloorMinY >= cfg.Arena.FloorMaxY {
		return errors.New("arena floor bounds are inverted")
	}
	if cfg.Radar.CellSize <= 0 {
		return fmt.Errorf("radar cell_size must be positive, got %v", cfg.Radar.CellSize)
	}
	if cfg.Dashboard.URL == "" && !cfg.MQTT.Enabled {
		return errors.New("no sink configured: set dashboard.url or enable mqtt")
	}
	return nil
}

func (c *fileConfig) simConfig() simulation.Config {
	return simulation.Config{
		TickInterval:  time.Duration(c.Sim.TickIntervalMS) * time.Millisecond,
		SnapshotEvery: c.Sim.SnapshotEvery,
		HotspotEvery:  c.Sim.HotspotEvery,
		AgentCount:    c.Sim.AgentCount,
		Seed:          c.Sim.Seed,
		Arena: entities.Arena{
			Width:     c.Arena.Width,
			Height:    c.Arena.Height,
			FloorMinX: c.Arena.FloorMinX,
			FloorMaxX: c.Arena.FloorMaxX,
			FloorMinY: c.Arena.FloorMinY,
			FloorMaxY: c.Arena.FloorMaxY,
		},
		Radar: radar.Config{
			CellSize:  c.Radar.CellSize,
			Threshold: c.Radar.Threshold,
			Landmarks: c.Radar.Landmarks,
		},
	}
}

func (c *fileConfig) mqttConfig() *mqttbus.Config {
	return &mqttbus.Config{
		Host:     c.MQTT.Host,
		Port:     c.MQTT.Port,
		User:     c.MQTT.User,
		Password: c.MQTT.Password,
		ClientID: c.MQTT.ClientID,
	}
}
