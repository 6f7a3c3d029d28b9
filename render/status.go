package render

import (
	"fmt"
	"sync"
	"time"

	"github.com/clinuxrulz/flying-shooter/event"
	"github.com/clinuxrulz/flying-shooter/parameter"
)

// Severity selects the status line color
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityError
)

// StatusLine holds the latest session message until it times out
// Sticky messages (desync) stay until replaced
type StatusLine struct {
	mu       sync.Mutex
	text     string
	severity Severity
	expires  time.Time
	sticky   bool
}

// Set replaces the message
func (s *StatusLine) Set(text string, sev Severity, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.severity = sev
	s.expires = now.Add(parameter.StatusMessageTimeout)
	s.sticky = sev == SeverityError
}

// Current returns the message still showing at now
func (s *StatusLine) Current(now time.Time) (string, Severity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.text == "" || (!s.sticky && now.After(s.expires)) {
		return "", SeverityInfo
	}
	return s.text, s.severity
}

// HandleEvent shows session events; match events are ignored
func (s *StatusLine) HandleEvent(ev event.GameEvent, now time.Time) {
	if text, sev, ok := Describe(ev); ok {
		s.Set(text, sev, now)
	}
}

// Describe returns the status text of a session event
func Describe(ev event.GameEvent) (string, Severity, bool) {
	switch ev.Type {
	case event.EventSynchronizing:
		if p, ok := ev.Payload.(*event.PeerPayload); ok && p.Addr != "" {
			return fmt.Sprintf("joined %s, waiting for players", p.Addr), SeverityInfo, true
		}
		return "synchronizing", SeverityInfo, true
	case event.EventSynchronized:
		return "synchronized", SeverityInfo, true
	case event.EventNetworkInterrupted:
		return fmt.Sprintf("network interrupted%s", peerSuffix(ev.Payload)), SeverityWarn, true
	case event.EventNetworkResumed:
		return fmt.Sprintf("network resumed%s", peerSuffix(ev.Payload)), SeverityInfo, true
	case event.EventPeerDisconnected:
		return fmt.Sprintf("disconnected%s", peerSuffix(ev.Payload)), SeverityWarn, true
	case event.EventDesyncDetected:
		if d, ok := ev.Payload.(*event.DesyncPayload); ok {
			return d.String(), SeverityError, true
		}
		return "desync detected", SeverityError, true
	}
	return "", SeverityInfo, false
}

func peerSuffix(payload any) string {
	if p, ok := payload.(*event.PeerPayload); ok {
		return fmt.Sprintf(": player %d", p.Handle+1)
	}
	return ""
}
