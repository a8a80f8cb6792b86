// Package frame implements the binary wire format used to talk to the
// remote actuator and visualizer nodes. One message on the wire is
//
//	STX | SEQ | CMD | LEN | PAYLOAD... | CRC8 | ETX
//
// with the CRC computed over SEQ through the last payload byte. The
// format is deliberately tiny: the panel exchanges one command and one
// response per node per sync cycle, nothing more.
package frame

import (
	"errors"
	"fmt"
)

// Delimiters and message types.
const (
	STX byte = 0x02
	ETX byte = 0x03

	CmdPing   byte = 0x50
	CmdUpdate byte = 0x55
	CmdAck    byte = 0x06
	CmdNack   byte = 0x15
)

// MaxPayload bounds the declared payload length. Anything larger is
// treated as line garbage and the decoder resynchronizes.
const MaxPayload = 32

// ErrCorrupt is returned when a complete-looking message fails its
// checksum or structural checks. The frame is discarded whole; a
// partially trusted frame is never returned.
var ErrCorrupt = errors.New("frame: corrupt")

// Frame is one logical wire message.
type Frame struct {
	Seq     uint8
	Cmd     byte
	Payload []byte
}

// Encode serializes f, computing the checksum. It panics if the
// payload exceeds MaxPayload, which is always a programming error.
func Encode(f Frame) []byte {
	if len(f.Payload) > MaxPayload {
		panic(fmt.Sprintf("frame: payload %d exceeds max %d", len(f.Payload), MaxPayload))
	}
	buf := make([]byte, 0, len(f.Payload)+6)
	buf = append(buf, STX, f.Seq, f.Cmd, byte(len(f.Payload)))
	buf = append(buf, f.Payload...)
	buf = append(buf, Checksum(buf[1:]), ETX)
	return buf
}
