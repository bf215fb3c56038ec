// Package performance provides performance tracking and monitoring
// capabilities for Engajamento operations.
package performance

import (
	"fmt"
	"sync"
	"time"
)

// Tracker manages performance markers and provides metrics aggregation
type Tracker struct {
	markers map[string]*Marker // Active and completed markers by unique ID
	order   []string           // Insertion order for pruning
	config  *TrackerConfig
	mu      sync.RWMutex
	started time.Time
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers            int           `json:"maxMarkers"`            // Maximum number of markers to retain
	SlowResponseThreshold time.Duration `json:"slowResponseThreshold"` // Threshold for slow operation stats
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers:            10000,
		SlowResponseThreshold: 500 * time.Millisecond,
	}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}

	return &Tracker{
		markers: make(map[string]*Marker),
		config:  config,
		started: time.Now(),
	}
}

// StartOperation creates and tracks a new performance marker for an operation
func (t *Tracker) StartOperation(operation string) *Marker {
	marker := &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true, // Assume success until proven otherwise
	}

	markerID := fmt.Sprintf("%s_%d", operation, time.Now().UnixNano())

	t.mu.Lock()
	t.markers[markerID] = marker
	t.order = append(t.order, markerID)
	if len(t.order) > t.config.MaxMarkers {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.markers, oldest)
	}
	t.mu.Unlock()

	return marker
}

// Stats summarises completed markers for dashboard/debug surfaces.
type Stats struct {
	Uptime          time.Duration `json:"uptime"`
	TotalOperations int           `json:"totalOperations"`
	FailedCount     int           `json:"failedCount"`
	SlowCount       int           `json:"slowCount"`
	AverageDuration time.Duration `json:"averageDuration"`
}

// GetStats aggregates all completed markers into a Stats snapshot.
func (t *Tracker) GetStats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := Stats{Uptime: time.Since(t.started)}
	var total time.Duration
	for _, marker := range t.markers {
		if !marker.Completed {
			continue
		}
		stats.TotalOperations++
		total += marker.Duration
		if !marker.Success {
			stats.FailedCount++
		}
		if marker.Duration > t.config.SlowResponseThreshold {
			stats.SlowCount++
		}
	}
	if stats.TotalOperations > 0 {
		stats.AverageDuration = total / time.Duration(stats.TotalOperations)
	}
	return stats
}
