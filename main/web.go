/*
	Copyright (c) 2015-2016 Christopher Young
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	web.go: HTTP surface. A JSON snapshot endpoint, a websocket stream of
	fused fixes and the Prometheus metrics.
*/

package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	bytesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gnss_bytes_received_total",
		Help: "Raw bytes received from the GNSS receiver.",
	})
	locationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gnss_locations_total",
		Help: "Fused location epochs emitted.",
	})
	satellitesInView = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gnss_satellites_in_view",
		Help: "Satellites in the most recent constellation snapshot.",
	})
	crcErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gnss_nmea_crc_errors_total",
		Help: "Tapped NMEA lines that failed their checksum.",
	})
	sentencesTapped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gnss_nmea_sentences_tapped_total",
		Help: "Passthrough NMEA sentences seen by the line tap.",
	})
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SituationBroadcaster pushes every new Situation to the connected
// websocket clients.
type SituationBroadcaster struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewSituationBroadcaster() *SituationBroadcaster {
	return &SituationBroadcaster{clients: make(map[*websocket.Conn]struct{})}
}

func (b *SituationBroadcaster) Broadcast(s Situation) {
	payload, err := json.Marshal(s)
	if err != nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(b.clients, conn)
		}
	}
}

func (b *SituationBroadcaster) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}

	b.mu.Lock()
	b.clients[conn] = struct{}{}
	b.mu.Unlock()

	// Drain (and discard) client messages so pings are answered and a
	// closed peer is noticed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				b.mu.Lock()
				delete(b.clients, conn)
				b.mu.Unlock()
				conn.Close()
				return
			}
		}
	}()
}

// RunWeb serves the snapshot API, the websocket stream and the metrics.
func RunWeb(listen string, m *Manager, b *SituationBroadcaster) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/situation", func(w http.ResponseWriter, r *http.Request) {
		if !m.HasFix() {
			http.Error(w, "no fix yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(m.Situation()); err != nil {
			log.Printf("json encode error: %v", err)
		}
	})

	mux.HandleFunc("/api/devices", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(m.DeviceStatuses()); err != nil {
			log.Printf("json encode error: %v", err)
		}
	})

	mux.HandleFunc("/situation", b.handle)
	mux.Handle("/metrics", promhttp.Handler())

	log.Printf("web server listening on %s", listen)
	return http.ListenAndServe(listen, mux)
}
