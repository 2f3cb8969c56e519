package main

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"triacfan/host/link"
)

// statusPublisher pushes periodic device status to an MQTT broker
type statusPublisher struct {
	client paho.Client
	topic  string
}

// statusMessage is the published JSON shape
type statusMessage struct {
	PowerOn       bool    `json:"power_on"`
	FanOn         bool    `json:"fan_on"`
	Level         uint8   `json:"level"`
	MinPercent    uint8   `json:"min_percent"`
	DelayUS       uint32  `json:"delay_us"`
	LineFreqHz    float64 `json:"line_freq_hz"`
	TotalFires    uint32  `json:"total_fires"`
	WatchdogPhase string  `json:"watchdog_phase"`
	LightOn       bool    `json:"light_on"`
	SocketOn      bool    `json:"socket_on"`
}

func newStatusPublisher(cfg MQTTConfig) (*statusPublisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &statusPublisher{client: client, topic: cfg.Topic}, nil
}

// Publish sends one status sample. QoS 0, retained so late subscribers see
// the last known state.
func (p *statusPublisher) Publish(status *link.Status) error {
	msg := statusMessage{
		PowerOn:       status.PowerOn,
		FanOn:         status.FanOn,
		Level:         status.Level,
		MinPercent:    status.MinPercent,
		DelayUS:       status.DelayUS,
		LineFreqHz:    status.LineFrequencyHz(),
		TotalFires:    status.TotalFires,
		WatchdogPhase: status.WatchdogPhaseName(),
		LightOn:       status.LightOn,
		SocketOn:      status.SocketOn,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}

	token := p.client.Publish(p.topic, 0, true, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

func (p *statusPublisher) Close() {
	p.client.Disconnect(1000)
}

// runBridge polls the device and republishes until stop is closed
func runBridge(client *link.Client, pub *statusPublisher, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			status, err := client.Status()
			if err != nil {
				continue
			}
			pub.Publish(status)
		case <-stop:
			return
		}
	}
}
