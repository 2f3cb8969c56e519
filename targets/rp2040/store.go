//go:build rp2040

package main

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/at24cx"

	"triacfan/core"
)

// eepromWriteCycleMS is the AT24C32 self-timed write cycle.
const eepromWriteCycleMS = 5

// eepromStore persists settings bytes in an AT24C32 on I2C0. Writes happen
// from the main loop only, so the post-write delay never blocks an interrupt.
type eepromStore struct {
	dev at24cx.Device
}

func (s *eepromStore) ReadByte(key uint8) (byte, error) {
	return s.dev.ReadByte(uint16(key))
}

func (s *eepromStore) WriteByteIfChanged(key uint8, value byte) error {
	current, err := s.dev.ReadByte(uint16(key))
	if err == nil && current == value {
		return nil
	}
	if err := s.dev.WriteByte(uint16(key), value); err != nil {
		return err
	}
	time.Sleep(eepromWriteCycleMS * time.Millisecond)
	return nil
}

// ramStore is the fallback when the EEPROM bus fails to come up. Settings
// revert to defaults on every boot but the fan still runs.
type ramStore struct {
	data [8]byte
}

func newRAMStore() *ramStore {
	s := &ramStore{}
	for i := range s.data {
		s.data[i] = 0xFF
	}
	return s
}

func (s *ramStore) ReadByte(key uint8) (byte, error) {
	if int(key) >= len(s.data) {
		return 0xFF, nil
	}
	return s.data[key], nil
}

func (s *ramStore) WriteByteIfChanged(key uint8, value byte) error {
	if int(key) < len(s.data) {
		s.data[key] = value
	}
	return nil
}

func initStore() core.ByteStore {
	err := machine.I2C0.Configure(machine.I2CConfig{
		SDA:       pinI2CSDA,
		SCL:       pinI2CSCL,
		Frequency: 400 * machine.KHz,
	})
	if err != nil {
		return newRAMStore()
	}
	dev := at24cx.New(machine.I2C0)
	dev.Configure(at24cx.Config{})

	// Probe the device; fall back to RAM if it does not answer
	store := &eepromStore{dev: dev}
	if _, err := store.ReadByte(core.KeyPowerState); err != nil {
		return newRAMStore()
	}
	return store
}
