package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the fanctl YAML configuration. Everything has a workable
// default; the file is optional.
type Config struct {
	Serial SerialConfig `yaml:"serial"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
}

type SerialConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

type MQTTConfig struct {
	// Broker URL, e.g. "tcp://localhost:1883". Empty disables the bridge.
	Broker   string        `yaml:"broker"`
	Topic    string        `yaml:"topic"`
	ClientID string        `yaml:"client_id"`
	Interval time.Duration `yaml:"interval"`
}

func defaultConfig() *Config {
	return &Config{
		Serial: SerialConfig{
			Device: "/dev/ttyACM0",
			Baud:   115200,
		},
		MQTT: MQTTConfig{
			Topic:    "fancontrol/status",
			ClientID: "fanctl",
			Interval: 10 * time.Second,
		},
	}
}

// LoadConfig reads the YAML file at path, filling gaps with defaults. A
// missing file is not an error unless the path was set explicitly.
func LoadConfig(path string, explicit bool) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Serial.Device == "" {
		cfg.Serial.Device = "/dev/ttyACM0"
	}
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = 115200
	}
	if cfg.MQTT.Topic == "" {
		cfg.MQTT.Topic = "fancontrol/status"
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "fanctl"
	}
	if cfg.MQTT.Interval <= 0 {
		cfg.MQTT.Interval = 10 * time.Second
	}
	return cfg, nil
}
