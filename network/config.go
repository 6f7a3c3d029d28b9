package network

import (
	"time"

	"github.com/clinuxrulz/flying-shooter/parameter"
)

// Config holds network configuration shared by the client transport and the relay
type Config struct {
	// URL of the relay room, e.g. ws://host:3536/flying_shooter?next=2 (client only)
	URL string

	// Timing
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration // Silence after which a link is dropped; extended by pongs
	WriteTimeout   time.Duration
	PingInterval   time.Duration

	// Limits
	MaxMessageSize int64
	MaxRoomSize    int

	// Buffer sizes
	ReadBufferSize  int
	WriteBufferSize int
	SendQueueSize   int
	RecvQueueSize   int
}

// DefaultConfig returns defaults for a link to the relay
func DefaultConfig() *Config {
	return &Config{
		URL:             parameter.DefaultRoomURL,
		ConnectTimeout:  5 * time.Second,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    5 * time.Second,
		PingInterval:    10 * time.Second,
		MaxMessageSize:  HeaderSize + MaxPayloadSize,
		MaxRoomSize:     parameter.MaxPlayers,
		ReadBufferSize:  16 * 1024,
		WriteBufferSize: 16 * 1024,
		SendQueueSize:   256,
		RecvQueueSize:   256,
	}
}

// ClientConfig returns the defaults pointed at url
func ClientConfig(url string) *Config {
	cfg := DefaultConfig()
	cfg.URL = url
	return cfg
}
