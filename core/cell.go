package core

// Interrupt-shared cells. Every value touched from both an interrupt context
// and the main loop lives in one of these; the accessors are the only way in,
// so the critical-section discipline cannot be bypassed by a later edit.
// Each operation masks interrupts for the duration of a single copy and
// unconditionally restores the prior state.

// SharedU32 is a 32-bit value shared across the interrupt boundary.
type SharedU32 struct {
	v uint32
}

// Get returns the current value
func (c *SharedU32) Get() uint32 {
	state := disableInterrupts()
	v := c.v
	restoreInterrupts(state)
	return v
}

// Set stores a new value
func (c *SharedU32) Set(v uint32) {
	state := disableInterrupts()
	c.v = v
	restoreInterrupts(state)
}

// Add increments the value by delta and returns the result
func (c *SharedU32) Add(delta uint32) uint32 {
	state := disableInterrupts()
	c.v += delta
	v := c.v
	restoreInterrupts(state)
	return v
}

// CompareAndUpdate stores next only if the cell still holds old.
// Reports whether the store happened.
func (c *SharedU32) CompareAndUpdate(old, next uint32) bool {
	state := disableInterrupts()
	ok := c.v == old
	if ok {
		c.v = next
	}
	restoreInterrupts(state)
	return ok
}

// SharedBool is a boolean shared across the interrupt boundary.
type SharedBool struct {
	v bool
}

// Get returns the current value
func (c *SharedBool) Get() bool {
	state := disableInterrupts()
	v := c.v
	restoreInterrupts(state)
	return v
}

// Set stores a new value
func (c *SharedBool) Set(v bool) {
	state := disableInterrupts()
	c.v = v
	restoreInterrupts(state)
}

// CompareAndUpdate stores next only if the cell still holds old.
func (c *SharedBool) CompareAndUpdate(old, next bool) bool {
	state := disableInterrupts()
	ok := c.v == old
	if ok {
		c.v = next
	}
	restoreInterrupts(state)
	return ok
}

// SharedU8 is a byte-sized value shared across the interrupt boundary.
// Single bytes are atomic on the target hardware, but routing them through
// the same accessors keeps the discipline uniform.
type SharedU8 struct {
	v uint8
}

// Get returns the current value
func (c *SharedU8) Get() uint8 {
	state := disableInterrupts()
	v := c.v
	restoreInterrupts(state)
	return v
}

// Set stores a new value
func (c *SharedU8) Set(v uint8) {
	state := disableInterrupts()
	c.v = v
	restoreInterrupts(state)
}
