package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/engine"
	"github.com/clinuxrulz/flying-shooter/input"
	"github.com/clinuxrulz/flying-shooter/rollback"
)

// DesyncReport is the msgpack record written for a checksum mismatch
// State holds the snapshot of Frame when still retained, otherwise the live state at StateFrame
type DesyncReport struct {
	Frame      core.Frame        `msgpack:"frame"`
	Peer       core.PlayerHandle `msgpack:"peer"`
	Local      uint64            `msgpack:"local"`
	Remote     uint64            `msgpack:"remote"`
	HasRemote  bool              `msgpack:"has_remote"`
	Inputs     []input.Input     `msgpack:"inputs"` // Confirmed inputs of Frame-1, by handle
	Confirmed  []bool            `msgpack:"confirmed"`
	StateFrame core.Frame        `msgpack:"state_frame"`
	State      []byte            `msgpack:"state"`
}

// DumpName returns the file name of the report for frame
func DumpName(frame core.Frame) string {
	return fmt.Sprintf("desync-%d.msgpack", frame)
}

// buildDesyncReport gathers the local view of a mismatch at frame against peer
// Must run on the goroutine that owns src
func buildDesyncReport(sched *rollback.Scheduler, src rollback.InputSource, numPlayers int,
	frame core.Frame, peer core.PlayerHandle) (*DesyncReport, error) {

	rep := &DesyncReport{
		Frame:     frame,
		Peer:      peer,
		Inputs:    make([]input.Input, numPlayers),
		Confirmed: make([]bool, numPlayers),
	}
	rep.Local, _ = sched.LocalChecksum(frame)
	rep.Remote, rep.HasRemote = src.RemoteChecksum(frame, peer)

	// The checksum of frame covers the inputs applied before it
	for h := range rep.Inputs {
		rep.Inputs[h], rep.Confirmed[h] = src.ConfirmedInput(frame-1, core.PlayerHandle(h))
	}

	snap, ok := sched.Snapshot(frame)
	if !ok {
		snap = sched.Capture()
	}
	state, err := sched.EncodeSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("desync dump: %w", err)
	}
	rep.StateFrame = snap.Frame
	rep.State = state
	return rep, nil
}

// WriteDesyncReport stores rep under dir and returns the file path
func WriteDesyncReport(dir string, rep *DesyncReport) (string, error) {
	data, err := msgpack.Marshal(rep)
	if err != nil {
		return "", fmt.Errorf("desync dump: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("desync dump: %w", err)
	}
	path := filepath.Join(dir, DumpName(rep.Frame))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("desync dump: %w", err)
	}
	return path, nil
}

// ReadDesyncReport loads a report written by WriteDesyncReport
func ReadDesyncReport(path string) (*DesyncReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rep DesyncReport
	if err := msgpack.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("desync dump %s: %w", path, err)
	}
	return &rep, nil
}

// RestoreState decodes the report's state into a fresh game world and recomputes its checksum
func (rep *DesyncReport) RestoreState() (*engine.World, uint64, error) {
	reg := engine.NewGameRegistry()
	snap, err := engine.DecodeSnapshot(reg, rep.State)
	if err != nil {
		return nil, 0, err
	}
	w := engine.NewGameWorld(len(rep.Inputs))
	if err := reg.Load(w, snap); err != nil {
		return nil, 0, err
	}
	sum, err := reg.Checksum(w)
	if err != nil {
		return w, 0, err
	}
	return w, sum, nil
}
