package frame

import (
	"bytes"
	"errors"
	"testing"
)

// TestEncodePing pins the exact wire bytes for a PING so the framing
// can never drift without a test noticing. Checksum computed by hand:
// CRC-8 poly 0x31 over 07 50 00 is 0x04.
func TestEncodePing(t *testing.T) {
	got := Encode(Frame{Seq: 7, Cmd: CmdPing})
	want := []byte{0x02, 0x07, 0x50, 0x00, 0x04, 0x03}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode(PING seq=7): got % x, want % x", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		f    Frame
	}{
		{"ping", Frame{Seq: 0, Cmd: CmdPing}},
		{"update", Frame{Seq: 42, Cmd: CmdUpdate, Payload: []byte{0, 50, 100, 1, 2, 3, 0, 0, 1, 1}}},
		{"ack with payload", Frame{Seq: 255, Cmd: CmdAck, Payload: bytes.Repeat([]byte{0xAA}, MaxPayload)}},
		{"nack", Frame{Seq: 1, Cmd: CmdNack}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(Encode(tc.f))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got.Seq != tc.f.Seq || got.Cmd != tc.f.Cmd {
				t.Errorf("header: got seq=%d cmd=%#x, want seq=%d cmd=%#x", got.Seq, got.Cmd, tc.f.Seq, tc.f.Cmd)
			}
			if !bytes.Equal(got.Payload, tc.f.Payload) {
				t.Errorf("payload: got % x, want % x", got.Payload, tc.f.Payload)
			}
		})
	}
}

// TestSingleByteCorruption flips every byte of a PING frame to every
// other value: no corruption may ever decode as a valid frame. The
// exhaustive sweep is only meaningful on the shortest frame, where a
// corrupted mid-frame byte cannot masquerade as a new frame start
// with enough trailing bytes to complete.
func TestSingleByteCorruption(t *testing.T) {
	good := Encode(Frame{Seq: 7, Cmd: CmdPing})
	for i := range good {
		for v := 0; v < 256; v++ {
			if byte(v) == good[i] {
				continue
			}
			bad := append([]byte(nil), good...)
			bad[i] = byte(v)

			var d Decoder
			for _, b := range bad {
				if f, ok, _ := d.Feed(b); ok {
					t.Fatalf("byte %d corrupted to %#02x decoded as frame %+v", i, v, f)
				}
			}
		}
	}
}

// TestPayloadBitFlips flips single bits across the checksummed region
// of a full-size UPDATE frame.
func TestPayloadBitFlips(t *testing.T) {
	good := Encode(Frame{Seq: 9, Cmd: CmdUpdate, Payload: []byte{5, 10, 15, 1, 2, 3, 1, 0, 1, 0}})
	// seq..crc inclusive; STX and ETX corruption is covered elsewhere.
	for i := 1; i < len(good)-1; i++ {
		for bit := 0; bit < 8; bit++ {
			bad := append([]byte(nil), good...)
			bad[i] ^= 1 << bit

			if f, err := Decode(bad); err == nil {
				t.Fatalf("bit %d of byte %d flipped but frame decoded: %+v", bit, i, f)
			}
		}
	}
}

func TestDecoderResyncAfterGarbage(t *testing.T) {
	good := Encode(Frame{Seq: 3, Cmd: CmdAck, Payload: []byte{1, 2, 3}})
	stream := append([]byte{0xFF, 0x00, 0x02, 0x99}, good...) // noise, then a false start

	var d Decoder
	var decoded []Frame
	for _, b := range stream {
		f, ok, err := d.Feed(b)
		if err != nil {
			continue // resync is the expected path through the noise
		}
		if ok {
			decoded = append(decoded, f)
		}
	}
	if len(decoded) != 1 {
		t.Fatalf("decoded %d frames from noisy stream, want 1", len(decoded))
	}
	if decoded[0].Seq != 3 || decoded[0].Cmd != CmdAck {
		t.Errorf("got seq=%d cmd=%#x, want seq=3 cmd=%#x", decoded[0].Seq, decoded[0].Cmd, CmdAck)
	}
	if !bytes.Equal(decoded[0].Payload, []byte{1, 2, 3}) {
		t.Errorf("payload: got % x, want 01 02 03", decoded[0].Payload)
	}
}

func TestDecoderOversizedLength(t *testing.T) {
	var d Decoder
	var sawErr bool
	for _, b := range []byte{STX, 0x01, CmdUpdate, MaxPayload + 1} {
		if _, _, err := d.Feed(b); err != nil {
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("got %v, want ErrCorrupt", err)
			}
			sawErr = true
		}
	}
	if !sawErr {
		t.Fatal("oversized length accepted")
	}

	// The decoder must be usable again immediately.
	good := Encode(Frame{Seq: 1, Cmd: CmdPing})
	var ok bool
	for _, b := range good {
		if _, done, err := d.Feed(b); err != nil {
			t.Fatalf("Feed after resync: %v", err)
		} else if done {
			ok = true
		}
	}
	if !ok {
		t.Fatal("no frame decoded after length error resync")
	}
}

func TestEncodeOversizedPayloadPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Encode accepted an oversized payload")
		}
	}()
	Encode(Frame{Cmd: CmdUpdate, Payload: make([]byte, MaxPayload+1)})
}

func TestChecksumVectors(t *testing.T) {
	cases := []struct {
		data []byte
		want byte
	}{
		{[]byte{}, 0x00},
		{[]byte{0x07, 0x50, 0x00}, 0x04},
		{[]byte{0x00}, 0x00},
		{[]byte{0xFF}, 0xAC},
	}
	for _, tc := range cases {
		if got := Checksum(tc.data); got != tc.want {
			t.Errorf("Checksum(% x): got %#02x, want %#02x", tc.data, got, tc.want)
		}
	}
}
