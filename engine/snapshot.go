package engine

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/clinuxrulz/flying-shooter/core"
)

// Snapshot is an immutable duplicate of the rollback state at the start of Frame
type Snapshot struct {
	Frame core.Frame

	// Checksum is set when the frame was sampled for desync detection
	Checksum    uint64
	HasChecksum bool

	nextEntity core.Entity
	stores     []any
	resources  []any
}

// snapshotWire is the msgpack layout; payloads are keyed by registered name
type snapshotWire struct {
	Frame       core.Frame                    `msgpack:"frame"`
	Checksum    uint64                        `msgpack:"checksum"`
	HasChecksum bool                          `msgpack:"has_checksum"`
	NextEntity  core.Entity                   `msgpack:"next_entity"`
	Stores      map[string]msgpack.RawMessage `msgpack:"stores"`
	Resources   map[string]msgpack.RawMessage `msgpack:"resources"`
}

// EncodeSnapshot serializes s for diagnostics and desync dumps
func EncodeSnapshot(r *Registry, s *Snapshot) ([]byte, error) {
	if len(s.stores) != len(r.stores) || len(s.resources) != len(r.resources) {
		return nil, ErrSnapshotLayout
	}
	wire := snapshotWire{
		Frame:       s.Frame,
		Checksum:    s.Checksum,
		HasChecksum: s.HasChecksum,
		NextEntity:  s.nextEntity,
		Stores:      make(map[string]msgpack.RawMessage, len(r.stores)),
		Resources:   make(map[string]msgpack.RawMessage, len(r.resources)),
	}
	for i, e := range r.stores {
		b, err := e.encode(s.stores[i])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", e.name, err)
		}
		wire.Stores[e.name] = b
	}
	for i, e := range r.resources {
		b, err := e.encode(s.resources[i])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", e.name, err)
		}
		wire.Resources[e.name] = b
	}
	return msgpack.Marshal(&wire)
}

// DecodeSnapshot parses data produced by EncodeSnapshot with an equivalent registry
func DecodeSnapshot(r *Registry, data []byte) (*Snapshot, error) {
	var wire snapshotWire
	if err := msgpack.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	s := &Snapshot{
		Frame:       wire.Frame,
		Checksum:    wire.Checksum,
		HasChecksum: wire.HasChecksum,
		nextEntity:  wire.NextEntity,
		stores:      make([]any, len(r.stores)),
		resources:   make([]any, len(r.resources)),
	}
	for i, e := range r.stores {
		b, ok := wire.Stores[e.name]
		if !ok {
			return nil, fmt.Errorf("decode snapshot: store %s: %w", e.name, ErrSnapshotLayout)
		}
		v, err := e.decode(b)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", e.name, err)
		}
		s.stores[i] = v
	}
	for i, e := range r.resources {
		b, ok := wire.Resources[e.name]
		if !ok {
			return nil, fmt.Errorf("decode snapshot: resource %s: %w", e.name, ErrSnapshotLayout)
		}
		v, err := e.decode(b)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", e.name, err)
		}
		s.resources[i] = v
	}
	return s, nil
}
