package network

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/input"
)

// RosterPayload tells a room member its handle once the room is full
type RosterPayload struct {
	Handle  core.PlayerHandle `msgpack:"h"`
	Players uint8             `msgpack:"n"`
	Room    string            `msgpack:"r"`
}

// InputPayload carries consecutive confirmed inputs of one player starting at Start
type InputPayload struct {
	Handle core.PlayerHandle `msgpack:"h"`
	Start  core.Frame        `msgpack:"f"`
	Inputs []input.Input     `msgpack:"i"`
}

// ChecksumPayload carries the sender's checksum of a confirmed frame
type ChecksumPayload struct {
	Handle core.PlayerHandle `msgpack:"h"`
	Frame  core.Frame        `msgpack:"f"`
	Sum    uint64            `msgpack:"s"`
}

// HandlePayload names a player; used by heartbeats and relay disconnect notices
type HandlePayload struct {
	Handle core.PlayerHandle `msgpack:"h"`
}

// Pack encodes v with msgpack into a message of type t
func Pack(t MessageType, v any) (*Message, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("network: pack %s: %w", t, err)
	}
	if len(data) > MaxPayloadSize {
		return nil, fmt.Errorf("network: pack %s: %w", t, ErrPayloadTooLarge)
	}
	return NewMessage(t, data), nil
}

// Unpack decodes the payload of m into v
func Unpack(m *Message, v any) error {
	if err := msgpack.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("network: unpack %s: %w", m.Type, err)
	}
	return nil
}
