package status

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

// Metric keys published by the rollback scheduler and session
const (
	KeyFramesAdvanced   = "rollback.frames"
	KeyRollbacks        = "rollback.count"
	KeyResimulated      = "rollback.resimulated"
	KeyMaxDepth         = "rollback.max_depth"
	KeyThresholdStalls  = "rollback.stalls"
	KeyDesyncs          = "session.desyncs"
	KeyConfirmedFrame   = "session.confirmed"
	KeyPeersConnected   = "session.peers"
	KeyPredictionFrames = "session.prediction"
	KeyChecksumFrame    = "checksum.frame"
	KeyMessagesSent     = "net.sent"
	KeyMessagesReceived = "net.received"
	KeyFrameAdvantage   = "session.frame_advantage"
)

// Registry is the central metrics facade
// Producers cache pointers once; hot paths write atomics directly
type Registry struct {
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count()
}

// SetMax raises the metric at key to v if v is larger
func (r *Registry) SetMax(key string, v int64) {
	m := r.Ints.Get(key)
	for {
		cur := m.Load()
		if v <= cur || m.CompareAndSwap(cur, v) {
			return
		}
	}
}

// Summary formats every metric as sorted key=value pairs for logging
func (r *Registry) Summary() string {
	var parts []string
	r.Ints.Range(func(key string, v *atomic.Int64) {
		parts = append(parts, fmt.Sprintf("%s=%d", key, v.Load()))
	})
	r.Floats.Range(func(key string, v *AtomicFloat) {
		parts = append(parts, fmt.Sprintf("%s=%.2f", key, v.Get()))
	})
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
