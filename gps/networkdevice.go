/*
	Copyright (c) 2015-2016 Christopher Young,
	Copyright (c) 2022 Refactored R. van Twisk
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	networkdevice.go: TCP byte source. Lets a wireless receiver or a test
	rig stream raw protocol bytes into the session; one connection at a
	time drives the sink.
*/

package gps

import (
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/b3nn0/gnss-receiver/common"
)

type NetworkDevice struct {
	port int
	eh   *common.ExitHelper

	mu     sync.Mutex
	active net.Conn
}

func NewNetworkDevice(port int) *NetworkDevice {
	return &NetworkDevice{
		port: port,
		eh:   common.NewExitHelper(),
	}
}

/* Server that can be used to feed receiver data to, e.g. to connect a receiver wirelessly */
func (n *NetworkDevice) listener(sink ByteSink) {
	n.eh.Add()
	defer n.eh.Done()
	log.Printf("Listening for network GNSS device on port :%d\n", n.port)
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", n.port))

	if err != nil {
		log.Printf(err.Error())
		return
	}

	go func() {
		<-n.eh.C
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if n.eh.IsExit() {
			return
		}
		if err != nil {
			log.Printf(err.Error())
			continue
		}
		go n.handleConnection(conn, sink)
	}
}

func (n *NetworkDevice) handleConnection(c net.Conn, sink ByteSink) {
	n.eh.Add()
	defer n.eh.Done()
	log.Printf("Connecting network GNSS device: %s\n", c.RemoteAddr().String())

	n.mu.Lock()
	if n.active != nil {
		// One byte stream at a time; a second framer-level source would
		// interleave mid-frame.
		n.mu.Unlock()
		log.Printf("Rejecting second network GNSS device: %s\n", c.RemoteAddr().String())
		c.Close()
		return
	}
	n.active = c
	n.mu.Unlock()

	go func() {
		<-n.eh.C
		c.Close()
	}()

	buffer := make([]byte, 2048)
	for {
		count, err := c.Read(buffer)
		if err != nil {
			break
		}
		if count > 0 {
			sink(buffer[:count])
		}
	}

	n.mu.Lock()
	n.active = nil
	n.mu.Unlock()
	log.Printf("Disconnecting network GNSS device: %s\n", c.RemoteAddr().String())
}

// Send implements the session's send primitive over the active
// connection. Frames sent while no receiver is connected are dropped.
func (n *NetworkDevice) Send(data []byte, done func()) {
	n.mu.Lock()
	c := n.active
	n.mu.Unlock()

	if c != nil {
		c.Write(data)
	}
	if done != nil {
		done()
	}
}

func (n *NetworkDevice) Stop() {
	n.eh.Exit()
}

func (n *NetworkDevice) Run(sink ByteSink) {
	go n.listener(sink)
}
