package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if cfg.Receiver.Mode != "ublox" || cfg.Receiver.Rate != 1 {
		t.Fatalf("unexpected defaults: %+v", cfg.Receiver)
	}
	if !cfg.Serial.Enable || len(cfg.Serial.BaudRates) == 0 {
		t.Fatalf("serial defaults missing: %+v", cfg.Serial)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
receiver:
  mode: mediatek
  rate: 5
  baud: 57600
serial:
  enable: true
  port: /dev/ttyUSB0
  baud_rates: [9600]
mqtt:
  enable: true
  broker: tcp://broker:1883
  topic: gnss/test
debug: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Receiver.Mode != "mediatek" || cfg.Receiver.Rate != 5 || cfg.Receiver.Baud != 57600 {
		t.Fatalf("receiver config: %+v", cfg.Receiver)
	}
	if cfg.Serial.Port != "/dev/ttyUSB0" || len(cfg.Serial.BaudRates) != 1 {
		t.Fatalf("serial config: %+v", cfg.Serial)
	}
	if !cfg.MQTT.Enable || cfg.MQTT.Topic != "gnss/test" {
		t.Fatalf("mqtt config: %+v", cfg.MQTT)
	}
	if !cfg.Debug {
		t.Fatalf("debug flag not loaded")
	}
}

func TestLoadConfigRejectsUnknownMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("receiver:\n  mode: sirf\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("unknown mode accepted")
	}
}
