/*
	Copyright (c) 2015-2016 Christopher Young
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	config.go: daemon configuration, loaded from a YAML file.
*/

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Receiver ReceiverConfig `yaml:"receiver"`
	Serial   SerialConfig   `yaml:"serial"`
	Network  NetworkConfig  `yaml:"network"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Web      WebConfig      `yaml:"web"`
	Debug    bool           `yaml:"debug"`
}

type ReceiverConfig struct {
	Mode string `yaml:"mode"` // nmea, mediatek or ublox
	Rate uint   `yaml:"rate"` // fixes per second: 1, 5 or 10
	Baud uint   `yaml:"baud"` // target line rate for the baud handshake
}

type SerialConfig struct {
	Enable    bool   `yaml:"enable"`
	Port      string `yaml:"port"`
	BaudRates []int  `yaml:"baud_rates"` // detection candidates, tried in order
}

type NetworkConfig struct {
	Enable bool `yaml:"enable"`
	Port   int  `yaml:"port"`
}

type MQTTConfig struct {
	Enable   bool   `yaml:"enable"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"` // fixes go to <topic>/location, constellations to <topic>/satellites
}

type WebConfig struct {
	Enable bool   `yaml:"enable"`
	Listen string `yaml:"listen"`
}

func DefaultConfig() Config {
	return Config{
		Receiver: ReceiverConfig{Mode: "ublox", Rate: 1, Baud: 115200},
		Serial: SerialConfig{
			Enable:    true,
			Port:      "/dev/ttyAMA0",
			BaudRates: []int{115200, 9600, 38400},
		},
		Network: NetworkConfig{Port: 30011},
		MQTT: MQTTConfig{
			Broker:   "tcp://localhost:1883",
			ClientID: "gnss-receiver",
			Topic:    "gnss",
		},
		Web: WebConfig{Enable: true, Listen: ":8080"},
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Receiver.Mode != "nmea" && cfg.Receiver.Mode != "mediatek" && cfg.Receiver.Mode != "ublox" {
		return cfg, fmt.Errorf("unknown receiver mode %q", cfg.Receiver.Mode)
	}
	return cfg, nil
}
