// Package link implements the host side of the fan controller's framed
// serial protocol: sequenced command frames out, matched response frames
// back.
package link

import (
	"fmt"
	"sync"
	"time"

	"triacfan/host/serial"
	"triacfan/protocol"
)

// Frame is one decoded response frame from the device
type Frame struct {
	Seq     uint8
	MsgID   uint16
	Payload []byte
}

// Client drives the framed protocol over a serial port. A background reader
// parses incoming bytes; Call matches responses to requests by the echoed
// sequence number.
type Client struct {
	port serial.Port

	mu  sync.Mutex
	seq uint8

	frames chan Frame
	done   chan struct{}
	closed bool
}

// Dial opens the device and returns a connected client
func Dial(device string) (*Client, error) {
	port, err := serial.Open(serial.DefaultConfig(device))
	if err != nil {
		return nil, err
	}
	return NewClient(port), nil
}

// NewClient wraps an already-open port
func NewClient(port serial.Port) *Client {
	c := &Client{
		port:   port,
		frames: make(chan Frame, 16),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Close stops the reader and closes the port
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	close(c.done)
	return c.port.Close()
}

func (c *Client) readLoop() {
	fifo := protocol.NewFifoBuffer(512)
	parser := protocol.NewParser(func(seq uint8, msgID uint16, data *[]byte) error {
		frame := Frame{
			Seq:     seq,
			MsgID:   msgID,
			Payload: append([]byte(nil), (*data)...),
		}
		select {
		case c.frames <- frame:
		default:
			// Receiver not keeping up; drop the oldest
			select {
			case <-c.frames:
			default:
			}
			c.frames <- frame
		}
		return nil
	})

	buf := make([]byte, 256)
	for {
		select {
		case <-c.done:
			return
		default:
		}

		n, err := c.port.Read(buf)
		if err != nil {
			// Timeouts surface as errors on some platforms; keep polling
			// until Close
			select {
			case <-c.done:
				return
			default:
				continue
			}
		}
		if n == 0 {
			continue
		}
		fifo.Write(buf[:n])

		data := fifo.Data()
		in := protocol.NewSliceInput(data)
		parser.Receive(in)
		if consumed := len(data) - in.Available(); consumed > 0 {
			fifo.Pop(consumed)
		}
	}
}

func (c *Client) nextSeq() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = (c.seq + 1) & protocol.FrameSeqMask
	return c.seq
}

// Send transmits one command frame without waiting for a response
func (c *Client) Send(msgID uint16, encode func(protocol.OutputBuffer)) (uint8, error) {
	seq := c.nextSeq()
	out := protocol.NewScratchOutput()
	payload := protocol.NewScratchOutput()
	if encode != nil {
		encode(payload)
	}
	if err := protocol.EncodeFrame(out, seq, msgID, payload.Result()); err != nil {
		return 0, fmt.Errorf("encode command %d: %w", msgID, err)
	}
	if _, err := c.port.Write(out.Result()); err != nil {
		return 0, fmt.Errorf("write command %d: %w", msgID, err)
	}
	return seq, nil
}

// Call sends a command and waits for the response echoing its sequence
// number. Stale frames from earlier requests are discarded.
func (c *Client) Call(msgID uint16, encode func(protocol.OutputBuffer), timeout time.Duration) (Frame, error) {
	// Drop any stale buffered responses
	for {
		select {
		case <-c.frames:
			continue
		default:
		}
		break
	}

	seq, err := c.Send(msgID, encode)
	if err != nil {
		return Frame{}, err
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		select {
		case frame := <-c.frames:
			if frame.Seq != seq {
				continue
			}
			if frame.MsgID == protocol.RspError {
				return frame, decodeError(frame.Payload)
			}
			return frame, nil
		case <-deadline.C:
			return Frame{}, fmt.Errorf("command %d: response timeout after %v", msgID, timeout)
		case <-c.done:
			return Frame{}, fmt.Errorf("link closed")
		}
	}
}

func decodeError(payload []byte) error {
	code, err := protocol.DecodeVLQUint(&payload)
	if err != nil {
		return fmt.Errorf("device error (undecodable code)")
	}
	switch code {
	case 1:
		return fmt.Errorf("device error: bad argument")
	case 2:
		return fmt.Errorf("device error: unknown command")
	default:
		return fmt.Errorf("device error: code %d", code)
	}
}
