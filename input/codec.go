package input

import (
	"errors"
	"math"
)

// Size is the wire width of one Input
// Layout is fixed for a session; recorded inputs are replayed against it
const Size = 3

// Input is one player's control intent for one frame
// [0] button bitfield, [1] signed X axis, [2] signed Y axis (int8 stored as byte)
type Input [Size]byte

// Button bits of Input[0]
const (
	ButtonUp uint8 = 1 << iota
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonFire

	buttonMask = ButtonUp | ButtonDown | ButtonLeft | ButtonRight | ButtonFire
)

// AxisResolution is the quantization step count of one axis half
const AxisResolution = 100

// axisThreshold is the deflection that counts as a digital press
const axisThreshold = AxisResolution / 2

var ErrInputSize = errors.New("input: wrong encoded size")

// DeviceState is the raw local device snapshot, before quantization
type DeviceState struct {
	Up, Down, Left, Right bool
	Fire                  bool

	// Analog axes in [-1, 1]; out of range values are clamped, NaN reads as centered
	AxisX, AxisY float32
}

// Encode quantizes device state into an Input
// Total for every DeviceState, including NaN and infinite axes
func Encode(d DeviceState) Input {
	var in Input
	if d.Up {
		in[0] |= ButtonUp
	}
	if d.Down {
		in[0] |= ButtonDown
	}
	if d.Left {
		in[0] |= ButtonLeft
	}
	if d.Right {
		in[0] |= ButtonRight
	}
	if d.Fire {
		in[0] |= ButtonFire
	}
	in[1] = quantizeAxis(d.AxisX)
	in[2] = quantizeAxis(d.AxisY)
	return in
}

// quantizeAxis maps [-1, 1] to an int8 in [-100, 100]
func quantizeAxis(v float32) byte {
	f := float64(v)
	if math.IsNaN(f) {
		return 0
	}
	if f > 1 {
		f = 1
	} else if f < -1 {
		f = -1
	}
	return byte(int8(math.Round(f * AxisResolution)))
}

// Buttons returns the known button bits, reserved bits masked off
func (in Input) Buttons() uint8 {
	return in[0] & buttonMask
}

// Pressed reports whether every bit of b is set
func (in Input) Pressed(b uint8) bool {
	return in.Buttons()&b == b
}

// AxisX returns the quantized X axis clamped to [-100, 100]
func (in Input) AxisX() int8 {
	return clampAxis(int8(in[1]))
}

// AxisY returns the quantized Y axis clamped to [-100, 100]
func (in Input) AxisY() int8 {
	return clampAxis(int8(in[2]))
}

func clampAxis(v int8) int8 {
	if v > AxisResolution {
		return AxisResolution
	}
	if v < -AxisResolution {
		return -AxisResolution
	}
	return v
}

// Fire reports the fire button
func (in Input) Fire() bool {
	return in[0]&ButtonFire != 0
}

// Thrust reports forward thrust: up held or stick pushed forward past half
func (in Input) Thrust() bool {
	if in[0]&ButtonUp != 0 {
		return true
	}
	return in.AxisY() >= axisThreshold
}

// Reverse reports reverse thrust: down held or stick pulled back past half
func (in Input) Reverse() bool {
	if in[0]&ButtonDown != 0 {
		return true
	}
	return in.AxisY() <= -axisThreshold
}

// Turn returns the turn intent in [-1, 1], positive is counter-clockwise
// Digital buttons win over the stick; left and right together cancel
func (in Input) Turn() float32 {
	left := in[0]&ButtonLeft != 0
	right := in[0]&ButtonRight != 0
	switch {
	case left && right:
		return 0
	case left:
		return 1
	case right:
		return -1
	}
	return -float32(in.AxisX()) / AxisResolution
}

// IsNeutral reports no buttons and centered axes
func (in Input) IsNeutral() bool {
	return in.Buttons() == 0 && in.AxisX() == 0 && in.AxisY() == 0
}

// MarshalBinary implements encoding.BinaryMarshaler
func (in Input) MarshalBinary() ([]byte, error) {
	b := make([]byte, Size)
	copy(b, in[:])
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler
func (in *Input) UnmarshalBinary(data []byte) error {
	if len(data) != Size {
		return ErrInputSize
	}
	copy(in[:], data)
	return nil
}
