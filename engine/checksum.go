package engine

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/clinuxrulz/flying-shooter/parameter"
)

// ErrNonFinite reports a NaN or infinite value in checksummed state
var ErrNonFinite = errors.New("non-finite value in checksummed state")

// Digest accumulates checksum input with a fixed seed shared by every peer
// Multi-byte values are written little-endian
type Digest struct {
	h   *xxhash.Digest
	buf [8]byte
}

func newDigest() *Digest {
	return &Digest{h: xxhash.NewWithSeed(parameter.ChecksumSeed)}
}

// WriteUint64 feeds v
func (d *Digest) WriteUint64(v uint64) {
	binary.LittleEndian.PutUint64(d.buf[:], v)
	d.h.Write(d.buf[:8])
}

// WriteUint32 feeds v
func (d *Digest) WriteUint32(v uint32) {
	binary.LittleEndian.PutUint32(d.buf[:4], v)
	d.h.Write(d.buf[:4])
}

// WriteBool feeds v as one byte
func (d *Digest) WriteBool(v bool) {
	d.buf[0] = 0
	if v {
		d.buf[0] = 1
	}
	d.h.Write(d.buf[:1])
}

// WriteFloat32 feeds the bit pattern of v
// Fails on NaN or infinity; field names the value in the error
func (d *Digest) WriteFloat32(field string, v float32) error {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: %s=%v", ErrNonFinite, field, v)
	}
	d.WriteUint32(math.Float32bits(v))
	return nil
}

// WriteVec2 feeds both components of v
func (d *Digest) WriteVec2(field string, v mgl32.Vec2) error {
	if err := d.WriteFloat32(field+".x", v[0]); err != nil {
		return err
	}
	return d.WriteFloat32(field+".y", v[1])
}

// Sum64 returns the digest value
func (d *Digest) Sum64() uint64 {
	return d.h.Sum64()
}

// Checksum digests the participating state of w
// Walk: entity counter, stores in registration order with entities ascending, then resources
func (r *Registry) Checksum(w *World) (uint64, error) {
	d := newDigest()
	d.WriteUint64(uint64(w.nextEntityID))
	for _, e := range r.stores {
		if e.hash == nil {
			continue
		}
		if err := e.hash(w, d); err != nil {
			return 0, fmt.Errorf("checksum: %w", err)
		}
	}
	for _, e := range r.resources {
		if e.hash == nil {
			continue
		}
		if err := e.hash(w, d); err != nil {
			return 0, fmt.Errorf("checksum: %w", err)
		}
	}
	return d.Sum64(), nil
}
