package session

import (
	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/event"
	"github.com/clinuxrulz/flying-shooter/parameter"
)

// checksumWindow bounds how long a checksum waits for its counterpart
const checksumWindow = parameter.HistoryLength

type sumRecord struct {
	frame core.Frame
	sum   uint64
	valid bool
}

type sumRing [checksumWindow]sumRecord

func (r *sumRing) put(frame core.Frame, sum uint64) {
	r[int(frame)%checksumWindow] = sumRecord{frame: frame, sum: sum, valid: true}
}

func (r *sumRing) get(frame core.Frame) (uint64, bool) {
	if frame < 0 {
		return 0, false
	}
	rec := r[int(frame)%checksumWindow]
	if !rec.valid || rec.frame != frame {
		return 0, false
	}
	return rec.sum, true
}

// checksumBook pairs local checksums with the ones reported by peers
// Each pair is compared once, whichever side arrives second
type checksumBook struct {
	local  sumRing
	peers  []core.PlayerHandle
	remote map[core.PlayerHandle]*sumRing
}

func newChecksumBook(peers []core.PlayerHandle) *checksumBook {
	b := &checksumBook{
		peers:  peers,
		remote: make(map[core.PlayerHandle]*sumRing, len(peers)),
	}
	for _, h := range peers {
		b.remote[h] = &sumRing{}
	}
	return b
}

// addLocal records the local checksum of frame and returns mismatches with known peer sums
func (b *checksumBook) addLocal(frame core.Frame, sum uint64) []event.DesyncPayload {
	b.local.put(frame, sum)
	var out []event.DesyncPayload
	for _, h := range b.peers {
		if remote, ok := b.remote[h].get(frame); ok && remote != sum {
			out = append(out, event.DesyncPayload{Frame: frame, Local: sum, Remote: remote, Peer: h})
		}
	}
	return out
}

// addRemote records a peer checksum and returns a mismatch if the local sum is known
// The first report of a frame wins
func (b *checksumBook) addRemote(peer core.PlayerHandle, frame core.Frame, sum uint64) *event.DesyncPayload {
	ring, ok := b.remote[peer]
	if !ok {
		return nil
	}
	if _, seen := ring.get(frame); seen {
		return nil
	}
	ring.put(frame, sum)
	if local, ok := b.local.get(frame); ok && local != sum {
		return &event.DesyncPayload{Frame: frame, Local: local, Remote: sum, Peer: peer}
	}
	return nil
}

func (b *checksumBook) remoteSum(frame core.Frame, peer core.PlayerHandle) (uint64, bool) {
	ring, ok := b.remote[peer]
	if !ok {
		return 0, false
	}
	return ring.get(frame)
}
