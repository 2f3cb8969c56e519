package protocol

import "testing"

func TestCRC16KnownValues(t *testing.T) {
	testCases := []struct {
		data     []byte
		expected uint16
	}{
		{[]byte{}, 0xFFFF},
	}

	for i, tc := range testCases {
		result := CRC16(tc.data)
		if result != tc.expected {
			t.Errorf("Test case %d: CRC16(%v) = 0x%04X, expected 0x%04X", i, tc.data, result, tc.expected)
		}
	}
}

func TestCRC16Consistency(t *testing.T) {
	data := []byte{0x07, FrameDest, 0x02, 0x05}
	a := CRC16(data)
	b := CRC16(data)
	if a != b {
		t.Errorf("CRC16 not deterministic: 0x%04X vs 0x%04X", a, b)
	}
}

func TestCRC16Sensitivity(t *testing.T) {
	data := []byte{0x07, FrameDest, 0x02, 0x05}
	base := CRC16(data)

	for i := range data {
		mutated := append([]byte(nil), data...)
		mutated[i] ^= 0x01
		if CRC16(mutated) == base {
			t.Errorf("single-bit flip at byte %d not detected", i)
		}
	}
}
