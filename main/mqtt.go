/*
	Copyright (c) 2015-2016 Christopher Young
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	mqtt.go: publishes fused fixes and constellation snapshots as JSON.
*/

package main

import (
	"encoding/json"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

func NewMQTTPublisher(cfg MQTTConfig) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	log.Printf("connected to MQTT broker at %s", cfg.Broker)

	return &MQTTPublisher{client: client, topic: cfg.Topic}, nil
}

func (p *MQTTPublisher) publish(subtopic string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("mqtt: marshal error: %v", err)
		return
	}
	// Fire and forget at QoS 0; the next epoch supersedes this one anyway.
	p.client.Publish(p.topic+"/"+subtopic, 0, false, payload)
}

func (p *MQTTPublisher) PublishLocation(s Situation) {
	p.publish("location", s.Location)
}

func (p *MQTTPublisher) PublishSatellites(s Situation) {
	p.publish("satellites", s.Satellites)
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
