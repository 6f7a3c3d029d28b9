package rollback

import (
	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/input"
)

// InputSource is what a session offers the frame driver
type InputSource interface {
	// ConfirmedInput returns the authoritative input of handle for frame, if it has arrived
	ConfirmedInput(frame core.Frame, handle core.PlayerHandle) (input.Input, bool)

	// PollRollback returns the earliest frame whose prediction was proven wrong since the last poll
	PollRollback() (core.Frame, bool)

	// RemoteChecksum returns the checksum a peer reported for frame
	RemoteChecksum(frame core.Frame, peer core.PlayerHandle) (uint64, bool)
}
