package rollback

import (
	"errors"
	"fmt"

	"github.com/clinuxrulz/flying-shooter/core"
)

var (
	// ErrMaxRollback rejects a rollback depth the history rings cannot hold
	ErrMaxRollback = errors.New("max rollback out of range")

	// ErrPredictionThreshold is transient: advancing would evict a snapshot still needed for rollback
	// Retry once more inputs are confirmed
	ErrPredictionThreshold = errors.New("prediction threshold reached")

	// Defect causes; always surfaced wrapped in *DefectError
	ErrFrameOrder       = errors.New("frame advanced out of order")
	ErrSnapshotMissing  = errors.New("snapshot missing or outside rollback window")
	ErrCorrectionLength = errors.New("corrected input count does not cover rollback span")

	// ErrAborted is returned by every call after a defect
	ErrAborted = errors.New("scheduler aborted after defect")
)

// DefectError is a fatal programming or determinism defect
// The session cannot continue; the host should abort the match
type DefectError struct {
	Op    string
	Frame core.Frame
	Err   error
}

func (e *DefectError) Error() string {
	return fmt.Sprintf("rollback defect in %s at frame %d: %v", e.Op, e.Frame, e.Err)
}

func (e *DefectError) Unwrap() error {
	return e.Err
}

// IsDefect reports whether err carries a DefectError
func IsDefect(err error) bool {
	var d *DefectError
	return errors.As(err, &d)
}
