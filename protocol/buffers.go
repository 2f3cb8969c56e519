package protocol

// Buffering between the byte transport and the frame codec. The firmware
// side cannot allocate per frame, so encoded output lands in a fixed
// scratch region and received bytes drain through a preallocated ring.

// InputBuffer is the parser's view of buffered receive data.
type InputBuffer interface {
	// Data returns everything currently buffered, in order
	Data() []byte

	// Available returns the buffered byte count
	Available() int

	// Pop discards n bytes from the front
	Pop(n int)
}

// OutputBuffer collects encoded frame bytes. CurPosition and Update exist
// for the length byte, which is only known once the frame body is written.
type OutputBuffer interface {
	Output(data []byte)
	CurPosition() int
	Update(pos int, val byte)
	DataSince(pos int) []byte
}

// SliceInput adapts a byte slice to InputBuffer. Pop narrows the slice, so
// Available after parsing tells the caller how much was left unconsumed.
type SliceInput struct {
	data []byte
}

// NewSliceInput wraps data without copying it
func NewSliceInput(data []byte) *SliceInput {
	return &SliceInput{data: data}
}

func (s *SliceInput) Data() []byte {
	return s.data
}

func (s *SliceInput) Available() int {
	return len(s.data)
}

func (s *SliceInput) Pop(n int) {
	if n > len(s.data) {
		n = len(s.data)
	}
	s.data = s.data[n:]
}

// scratchSize holds several frames at the 64-byte frame limit
const scratchSize = 256

// ScratchOutput is a fixed-capacity OutputBuffer. Writes past the capacity
// are truncated; the frame encoder's length limit keeps honest callers well
// inside it.
type ScratchOutput struct {
	buf [scratchSize]byte
	pos int
}

// NewScratchOutput returns an empty scratch buffer
func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{}
}

func (s *ScratchOutput) Output(data []byte) {
	s.pos += copy(s.buf[s.pos:], data)
}

func (s *ScratchOutput) CurPosition() int {
	return s.pos
}

func (s *ScratchOutput) Update(pos int, val byte) {
	if pos < len(s.buf) {
		s.buf[pos] = val
	}
}

func (s *ScratchOutput) DataSince(pos int) []byte {
	if pos > s.pos {
		return nil
	}
	return s.buf[pos:s.pos]
}

// Result returns everything written since the last Reset
func (s *ScratchOutput) Result() []byte {
	return s.buf[:s.pos]
}

// Reset discards the buffered output
func (s *ScratchOutput) Reset() {
	s.pos = 0
}

// FifoBuffer queues raw received bytes between the transport reader and the
// frame parser. Start index plus count, so the full capacity is usable.
type FifoBuffer struct {
	buf   []byte
	start int
	count int
}

// NewFifoBuffer allocates a ring of the given capacity
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{buf: make([]byte, capacity)}
}

// Write appends as much of data as fits, returning the accepted count
func (f *FifoBuffer) Write(data []byte) int {
	free := len(f.buf) - f.count
	if len(data) > free {
		data = data[:free]
	}
	end := (f.start + f.count) % len(f.buf)
	n := copy(f.buf[end:], data)
	copy(f.buf, data[n:])
	f.count += len(data)
	return len(data)
}

// Available returns the buffered byte count
func (f *FifoBuffer) Available() int {
	return f.count
}

// Data returns the buffered bytes in arrival order. A wrapped ring is
// copied out so the parser always sees one contiguous run.
func (f *FifoBuffer) Data() []byte {
	end := f.start + f.count
	if end <= len(f.buf) {
		return f.buf[f.start:end]
	}
	out := make([]byte, f.count)
	n := copy(out, f.buf[f.start:])
	copy(out[n:], f.buf[:end-len(f.buf)])
	return out
}

// Pop discards up to n bytes from the front
func (f *FifoBuffer) Pop(n int) {
	if n > f.count {
		n = f.count
	}
	f.start = (f.start + n) % len(f.buf)
	f.count -= n
}

// Reset empties the ring
func (f *FifoBuffer) Reset() {
	f.start = 0
	f.count = 0
}
