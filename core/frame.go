package core

// Frame identifies one logical simulation step, global across peers
type Frame int32

// NullFrame marks "no frame", e.g. before the first confirmation
const NullFrame Frame = -1

// IsNull reports whether f is the null frame
func (f Frame) IsNull() bool {
	return f < 0
}
