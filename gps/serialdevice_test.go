package gps

import "testing"

func TestSplitLines(t *testing.T) {
	data := []byte("garbage$GPRMC,123519,A*00\r\n$GPGGA,1,2*33\r\npartial$GPGSA")
	lines := splitLines(data)
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %v", len(lines), lines)
	}
	if lines[0] != "$GPRMC,123519,A*00" || lines[1] != "$GPGGA,1,2*33" {
		t.Fatalf("unexpected lines: %v", lines)
	}
}

func TestSerialSendQueueFull(t *testing.T) {
	d := NewSerialDevice("test", "/dev/null", nil, false)

	completions := 0
	for i := 0; i < cap(d.txCh)+1; i++ {
		d.Send([]byte("x"), func() { completions++ })
	}

	// Without a writer draining the queue, the overflow frame must
	// still complete so the session does not wedge on its busy flag.
	if completions != 1 {
		t.Fatalf("got %d overflow completions, want 1", completions)
	}
}

func TestNetworkSendWithoutConnection(t *testing.T) {
	n := NewNetworkDevice(0)

	completed := false
	n.Send([]byte("frame"), func() { completed = true })
	if !completed {
		t.Fatalf("send completion not signalled without a connection")
	}
}
