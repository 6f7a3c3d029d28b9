package network

import (
	"bytes"
	"errors"
	"testing"

	"github.com/clinuxrulz/flying-shooter/input"
)

func TestHeaderLayout(t *testing.T) {
	m := &Message{Type: MsgInput, Flags: FlagRelay, Seq: 0x01020304, Ack: 0x0a0b0c0d, Payload: []byte{0xff}}
	data, err := m.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}

	want := []byte{0x10, 0x01, 1, 2, 3, 4, 0x0a, 0x0b, 0x0c, 0x0d, 0, 1, 0xff}
	if !bytes.Equal(data, want) {
		t.Errorf("Expected %x, got %x", want, data)
	}
}

func TestParseRoundTrip(t *testing.T) {
	m := &Message{Type: MsgChecksum, Seq: 7, Ack: 3, Payload: []byte("abc")}
	data, err := m.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}

	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got.Type != m.Type || got.Seq != m.Seq || got.Ack != m.Ack || string(got.Payload) != "abc" {
		t.Errorf("Expected %+v, got %+v", m, got)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	ok, _ := NewMessage(MsgHeartbeat, []byte{1, 2}).MarshalBinary()

	tests := []struct {
		name string
		data []byte
	}{
		{"short_header", ok[:HeaderSize-1]},
		{"short_payload", ok[:len(ok)-1]},
		{"trailing", append(append([]byte{}, ok...), 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.data); err == nil {
				t.Errorf("Expected error for %x", tt.data)
			}
		})
	}
}

func TestEncodeRejectsOversizedPayload(t *testing.T) {
	m := NewMessage(MsgInput, make([]byte, MaxPayloadSize+1))
	if _, err := m.MarshalBinary(); !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("Expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestInputPayloadPack(t *testing.T) {
	sent := InputPayload{
		Handle: 1,
		Start:  42,
		Inputs: []input.Input{{input.ButtonFire, 0, 0}, {0, 0x9c, 0x64}},
	}
	msg, err := Pack(MsgInput, &sent)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	var got InputPayload
	if err := Unpack(msg, &got); err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}
	if got.Handle != sent.Handle || got.Start != sent.Start || len(got.Inputs) != 2 {
		t.Fatalf("Expected %+v, got %+v", sent, got)
	}
	for i := range sent.Inputs {
		if got.Inputs[i] != sent.Inputs[i] {
			t.Errorf("Input %d: expected %v, got %v", i, sent.Inputs[i], got.Inputs[i])
		}
	}
}

func TestUnpackWrongShape(t *testing.T) {
	msg := NewMessage(MsgChecksum, []byte{0xc1})
	var p ChecksumPayload
	if err := Unpack(msg, &p); err == nil {
		t.Error("Expected error for invalid msgpack")
	}
}
