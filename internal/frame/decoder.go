package frame

// Decoder reassembles frames from a byte stream that may insert, drop,
// or garble bytes. It is push-based: feed it bytes as they arrive and
// it yields at most one frame per byte. Garbage before STX is consumed
// silently; any structural or checksum failure abandons the current
// frame and returns to hunting for STX.
type Decoder struct {
	state   decodeState
	seq     uint8
	cmd     byte
	length  int
	payload []byte
	crc     byte
}

type decodeState int

const (
	waitSTX decodeState = iota
	readSeq
	readCmd
	readLen
	readPayload
	readCRC
	waitETX
)

// Feed consumes a single byte. It returns (frame, true, nil) when the
// byte completes a valid frame, (_, false, ErrCorrupt) when it
// completes an invalid one, and (_, false, nil) otherwise.
func (d *Decoder) Feed(b byte) (Frame, bool, error) {
	switch d.state {
	case waitSTX:
		if b == STX {
			d.state = readSeq
		}
	case readSeq:
		d.seq = b
		d.state = readCmd
	case readCmd:
		d.cmd = b
		d.state = readLen
	case readLen:
		if int(b) > MaxPayload {
			// Implausible length: treat the whole thing as garbage.
			d.state = waitSTX
			return Frame{}, false, ErrCorrupt
		}
		d.length = int(b)
		d.payload = d.payload[:0]
		if d.length == 0 {
			d.state = readCRC
		} else {
			d.state = readPayload
		}
	case readPayload:
		d.payload = append(d.payload, b)
		if len(d.payload) == d.length {
			d.state = readCRC
		}
	case readCRC:
		d.crc = b
		d.state = waitETX
	case waitETX:
		d.state = waitSTX
		if b != ETX {
			return Frame{}, false, ErrCorrupt
		}
		sum := make([]byte, 0, d.length+3)
		sum = append(sum, d.seq, d.cmd, byte(d.length))
		sum = append(sum, d.payload...)
		if Checksum(sum) != d.crc {
			return Frame{}, false, ErrCorrupt
		}
		f := Frame{Seq: d.seq, Cmd: d.cmd, Payload: append([]byte(nil), d.payload...)}
		return f, true, nil
	}
	return Frame{}, false, nil
}

// Reset abandons any partially decoded frame.
func (d *Decoder) Reset() {
	d.state = waitSTX
	d.payload = d.payload[:0]
}

// Decode runs the whole of data through a fresh decoder and returns
// the first complete frame. It is a convenience for tests and for
// callers that already hold one full message.
func Decode(data []byte) (Frame, error) {
	var d Decoder
	for _, b := range data {
		f, ok, err := d.Feed(b)
		if err != nil {
			return Frame{}, err
		}
		if ok {
			return f, nil
		}
	}
	return Frame{}, ErrCorrupt
}
