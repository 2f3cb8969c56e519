package protocol

import (
	"testing"
)

func encodeTestFrame(t *testing.T, seq uint8, msgID uint16, payload []byte) []byte {
	t.Helper()
	out := NewScratchOutput()
	if err := EncodeFrame(out, seq, msgID, payload); err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}
	return out.Result()
}

func TestFrameRoundTrip(t *testing.T) {
	var gotSeq uint8
	var gotID uint16
	var gotPayload []byte

	parser := NewParser(func(seq uint8, msgID uint16, data *[]byte) error {
		gotSeq = seq
		gotID = msgID
		gotPayload = append([]byte(nil), (*data)...)
		return nil
	})

	payload := NewScratchOutput()
	EncodeVLQUint(payload, 7)
	frame := encodeTestFrame(t, 3, CmdSetFanLevel, payload.Result())

	parser.Receive(NewSliceInput(frame))

	if parser.Frames != 1 {
		t.Fatalf("expected 1 frame, got %d", parser.Frames)
	}
	if gotSeq != 3 {
		t.Errorf("expected seq 3, got %d", gotSeq)
	}
	if gotID != CmdSetFanLevel {
		t.Errorf("expected msg %d, got %d", CmdSetFanLevel, gotID)
	}
	data := gotPayload
	level, err := DecodeVLQUint(&data)
	if err != nil || level != 7 {
		t.Errorf("payload decode: level=%d err=%v", level, err)
	}
}

func TestFrameSplitDelivery(t *testing.T) {
	frames := 0
	parser := NewParser(func(seq uint8, msgID uint16, data *[]byte) error {
		frames++
		return nil
	})

	frame := encodeTestFrame(t, 0, CmdFanStatus, nil)
	fifo := NewFifoBuffer(128)

	// Deliver one byte at a time; the parser must wait for the full frame
	for i, b := range frame {
		fifo.Write([]byte{b})
		parser.Receive(fifo)
		if i < len(frame)-1 && frames != 0 {
			t.Fatalf("frame delivered early at byte %d", i)
		}
	}
	if frames != 1 {
		t.Fatalf("expected 1 frame after full delivery, got %d", frames)
	}
}

func TestFrameCorruptCRCResync(t *testing.T) {
	frames := 0
	parser := NewParser(func(seq uint8, msgID uint16, data *[]byte) error {
		frames++
		return nil
	})

	bad := encodeTestFrame(t, 1, CmdFanStatus, nil)
	bad[2] ^= 0xFF // corrupt the body, CRC no longer matches
	good := encodeTestFrame(t, 2, CmdGetUptime, nil)

	fifo := NewFifoBuffer(128)
	fifo.Write(bad)
	fifo.Write(good)
	parser.Receive(fifo)

	if frames != 1 {
		t.Errorf("expected only the good frame, got %d", frames)
	}
	if parser.Errors == 0 {
		t.Error("expected an error count for the corrupt frame")
	}
	if !parser.Synchronized() {
		t.Error("parser should have resynchronized on the good frame")
	}
}

func TestFrameGarbagePrefix(t *testing.T) {
	frames := 0
	parser := NewParser(func(seq uint8, msgID uint16, data *[]byte) error {
		frames++
		return nil
	})

	fifo := NewFifoBuffer(128)
	// Oversized length byte forces a desync so the garbage gets hunted past
	fifo.Write([]byte{0xFF, 0x55, 0xAA, FrameSync})
	fifo.Write(encodeTestFrame(t, 0, CmdFanStatus, nil))
	parser.Receive(fifo)

	if frames != 1 {
		t.Errorf("expected 1 frame after garbage, got %d", frames)
	}
}

func TestFrameOversizedPayload(t *testing.T) {
	out := NewScratchOutput()
	big := make([]byte, FrameLengthMax)
	if err := EncodeFrame(out, 0, CmdFanStatus, big); err != ErrFrameTooLarge {
		t.Errorf("expected ErrFrameTooLarge, got %v", err)
	}
}
