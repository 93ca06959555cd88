/*
	Copyright (c) 2015-2016 Christopher Young
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	main.go: the receiver daemon. Wires a transport into the protocol
	session and fans fused fixes out to MQTT, websocket and the logs.
*/

package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/b3nn0/gnss-receiver/gnss"
	"github.com/b3nn0/gnss-receiver/gps"
	humanize "github.com/dustin/go-humanize"
)

func receiverMode(mode string) gnss.Mode {
	switch mode {
	case "mediatek":
		return gnss.ModeMediatek
	case "ublox":
		return gnss.ModeUblox
	default:
		return gnss.ModeNMEA
	}
}

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	manager := NewManager()
	stop := make(chan struct{})

	var broadcaster *SituationBroadcaster
	if cfg.Web.Enable {
		broadcaster = NewSituationBroadcaster()
	}

	var publisher *MQTTPublisher
	if cfg.MQTT.Enable {
		publisher, err = NewMQTTPublisher(cfg.MQTT)
		if err != nil {
			log.Fatalf("mqtt: %v", err)
		}
		defer publisher.Close()
	}

	manager.onLocation = func(s Situation) {
		if publisher != nil {
			publisher.PublishLocation(s)
		}
		if broadcaster != nil {
			broadcaster.Broadcast(s)
		}
	}
	manager.onSatellites = func(s Situation) {
		if publisher != nil {
			publisher.PublishSatellites(s)
		}
		if broadcaster != nil {
			broadcaster.Broadcast(s)
		}
	}

	mode := receiverMode(cfg.Receiver.Mode)

	switch {
	case cfg.Serial.Enable:
		device := gps.NewSerialDevice("serial", cfg.Serial.Port, cfg.Serial.BaudRates, cfg.Debug)
		if err := device.Open(); err != nil {
			log.Fatalf("serial: %v", err)
		}
		manager.Attach(mode, cfg.Receiver.Rate, cfg.Receiver.Baud, device)

		// The baud handshake may have moved the receiver off the
		// detected rate; settle, then re-detect before the table replay
		// carries on.
		if mode != gnss.ModeNMEA && uint(device.Baud()) != cfg.Receiver.Baud {
			time.Sleep(250 * time.Millisecond)
			if err := device.Reopen(); err != nil {
				log.Fatalf("serial: %v", err)
			}
		}

		go device.Run(manager.Feed("serial", cfg.Debug))
		defer device.Stop()

	case cfg.Network.Enable:
		device := gps.NewNetworkDevice(cfg.Network.Port)
		manager.Attach(mode, cfg.Receiver.Rate, cfg.Receiver.Baud, device)
		device.Run(manager.Feed("network", cfg.Debug))
		defer device.Stop()

	default:
		log.Fatalf("no transport enabled")
	}

	go manager.RunWatchdog(stop)

	if cfg.Web.Enable {
		go func() {
			if err := RunWeb(cfg.Web.Listen, manager, broadcaster); err != nil {
				log.Printf("web: %v", err)
			}
		}()
	}

	go statusLogger(manager, stop)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	close(stop)
	log.Printf("shutting down")
}

// statusLogger prints a one-line health summary every 30 seconds.
func statusLogger(m *Manager, stop <-chan struct{}) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			for _, status := range m.DeviceStatuses() {
				situation := m.Situation()
				log.Printf("GPS: %s rx=%s lines=%d crcErrors=%d fix=%v sats=%d",
					status.Name,
					humanize.Bytes(status.BytesReceived),
					status.LinesTapped,
					status.CRCErrors,
					m.HasFix(),
					situation.Satellites.Count)
			}
		}
	}
}
