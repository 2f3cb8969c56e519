package protocol

import "errors"

// Frame layout:
//
//	[len] [seq] [msgid VLQ] [payload ...] [crc16 hi] [crc16 lo] [sync]
//
// len counts the whole frame including the trailer. The CRC covers everything
// before the trailer. A fixed sync byte terminates each frame so a receiver
// that loses its place can hunt for the next boundary.
const (
	FrameHeaderSize  = 2
	FrameTrailerSize = 3
	FrameLengthMin   = FrameHeaderSize + FrameTrailerSize
	FrameLengthMax   = 64
	FramePosLen      = 0
	FramePosSeq      = 1
	FrameSync        = 0x7E
	FrameDest        = 0x10
	FrameSeqMask     = 0x0F
)

var (
	ErrFrameTooLarge = errors.New("frame payload too large")
	ErrBadFrame      = errors.New("malformed frame")
)

// FrameHandler processes one decoded frame. The data slice holds the payload
// after the message ID; handlers decode their own arguments from it.
type FrameHandler func(seq uint8, msgID uint16, data *[]byte) error

// EncodeFrame appends a complete frame carrying msgID and payload to out.
func EncodeFrame(out OutputBuffer, seq uint8, msgID uint16, payload []byte) error {
	start := out.CurPosition()

	// Length placeholder, fixed up once the body is written
	out.Output([]byte{0, FrameDest | (seq & FrameSeqMask)})
	EncodeVLQUint(out, uint32(msgID))
	if len(payload) > 0 {
		out.Output(payload)
	}

	body := out.DataSince(start)
	total := len(body) + FrameTrailerSize
	if total > FrameLengthMax {
		return ErrFrameTooLarge
	}
	out.Update(start+FramePosLen, byte(total))

	// Recompute over the patched length byte
	body = out.DataSince(start)
	crc := CRC16(body)
	out.Output([]byte{byte(crc >> 8), byte(crc & 0xFF), FrameSync})
	return nil
}

// Parser incrementally extracts frames from a byte stream. Garbage between
// frames is skipped by hunting for the sync byte; CRC or length violations
// drop synchronization until the next sync byte.
type Parser struct {
	synchronized bool
	handler      FrameHandler

	// counters for diagnostics
	Frames    uint32
	Errors    uint32
	Discarded uint32
}

// NewParser creates a Parser delivering frames to handler.
func NewParser(handler FrameHandler) *Parser {
	return &Parser{
		synchronized: true,
		handler:      handler,
	}
}

// Receive consumes as much buffered input as possible, invoking the handler
// for each complete valid frame.
func (p *Parser) Receive(input InputBuffer) {
	for {
		data := input.Data()
		if len(data) == 0 {
			return
		}

		if !p.synchronized {
			syncPos := -1
			for i, b := range data {
				if b == FrameSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				p.Discarded += uint32(len(data))
				input.Pop(len(data))
				return
			}
			p.Discarded += uint32(syncPos)
			input.Pop(syncPos + 1)
			p.synchronized = true
			continue
		}

		// Skip leading sync bytes between frames
		if data[0] == FrameSync {
			input.Pop(1)
			continue
		}

		if len(data) < FrameLengthMin {
			return // wait for more
		}

		frameLen := int(data[FramePosLen])
		if frameLen < FrameLengthMin || frameLen > FrameLengthMax {
			p.synchronized = false
			p.Errors++
			continue
		}

		if data[FramePosSeq]&^FrameSeqMask != FrameDest {
			p.synchronized = false
			p.Errors++
			continue
		}

		if len(data) < frameLen {
			return // wait for the rest of the frame
		}

		frame := data[:frameLen]
		if frame[frameLen-1] != FrameSync {
			p.synchronized = false
			p.Errors++
			continue
		}

		body := frame[:frameLen-FrameTrailerSize]
		wantCRC := uint16(frame[frameLen-3])<<8 | uint16(frame[frameLen-2])
		if CRC16(body) != wantCRC {
			p.synchronized = false
			p.Errors++
			continue
		}

		seq := frame[FramePosSeq] & FrameSeqMask
		payload := body[FrameHeaderSize:]
		msgID, err := DecodeVLQUint(&payload)
		if err != nil {
			p.Errors++
			input.Pop(frameLen)
			continue
		}

		p.Frames++
		if p.handler != nil {
			if err := p.handler(seq, uint16(msgID), &payload); err != nil {
				p.Errors++
			}
		}
		input.Pop(frameLen)
	}
}

// Synchronized reports whether the parser currently trusts its framing.
func (p *Parser) Synchronized() bool {
	return p.synchronized
}
