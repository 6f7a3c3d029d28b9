package network

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// MessageType identifies the semantic meaning of a message
type MessageType uint8

const (
	// Control messages
	MsgHeartbeat  MessageType = 0x01 // Peer liveness while no input flows
	MsgDisconnect MessageType = 0x03 // Relay: a room member left

	// Session messages
	MsgInput    MessageType = 0x10 // Confirmed local inputs of one player
	MsgChecksum MessageType = 0x11 // Checksum of a confirmed frame

	// Coordination
	MsgRoster MessageType = 0x20 // Relay assigns handles once the room is full
)

// HeaderSize is the fixed header preceding every payload
// [Type:1][Flags:1][Seq:4][Ack:4][Len:2]
const HeaderSize = 12

// MaxPayloadSize is bounded by the 16-bit length field
const MaxPayloadSize = 65535

// Header flags
const (
	FlagNone  uint8 = 0x00
	FlagRelay uint8 = 0x01 // Forwarded by the relay rather than sent by a room member
)

var (
	ErrPayloadTooLarge = errors.New("payload exceeds maximum size")
	ErrTrailingBytes   = errors.New("trailing bytes after message")
)

func (t MessageType) String() string {
	switch t {
	case MsgHeartbeat:
		return "heartbeat"
	case MsgDisconnect:
		return "disconnect"
	case MsgInput:
		return "input"
	case MsgChecksum:
		return "checksum"
	case MsgRoster:
		return "roster"
	default:
		return "unknown"
	}
}

// Message represents a framed network message
type Message struct {
	Type    MessageType
	Flags   uint8
	Seq     uint32 // Sender's sequence number on this link
	Ack     uint32 // Last received sequence from the other end
	Payload []byte
}

// Encode writes the header followed by the payload
func (m *Message) Encode(w io.Writer) error {
	payloadLen := len(m.Payload)
	if payloadLen > MaxPayloadSize {
		return ErrPayloadTooLarge
	}

	header := make([]byte, HeaderSize)
	header[0] = byte(m.Type)
	header[1] = m.Flags
	binary.BigEndian.PutUint32(header[2:6], m.Seq)
	binary.BigEndian.PutUint32(header[6:10], m.Ack)
	binary.BigEndian.PutUint16(header[10:12], uint16(payloadLen))

	if _, err := w.Write(header); err != nil {
		return err
	}

	if payloadLen > 0 {
		if _, err := w.Write(m.Payload); err != nil {
			return err
		}
	}

	return nil
}

// Decode reads a message from a reader
func Decode(r io.Reader) (*Message, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	payloadLen := binary.BigEndian.Uint16(header[10:12])

	m := &Message{
		Type:  MessageType(header[0]),
		Flags: header[1],
		Seq:   binary.BigEndian.Uint32(header[2:6]),
		Ack:   binary.BigEndian.Uint32(header[6:10]),
	}

	if payloadLen > 0 {
		m.Payload = make([]byte, payloadLen)
		if _, err := io.ReadFull(r, m.Payload); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// MarshalBinary returns the framed message as one websocket frame body
func (m *Message) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(m.Payload))
	if err := m.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Parse decodes exactly one message from a websocket frame body
func Parse(data []byte) (*Message, error) {
	r := bytes.NewReader(data)
	m, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, ErrTrailingBytes
	}
	return m, nil
}

// NewMessage creates a message with the given type and payload
func NewMessage(t MessageType, payload []byte) *Message {
	return &Message{
		Type:    t,
		Flags:   FlagNone,
		Payload: payload,
	}
}
