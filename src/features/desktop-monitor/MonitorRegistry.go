/**
 * Monitor registry - live enumeration and index bookkeeping across hot-plug
 */

package desktopmonitor

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/ln64-git/edgelight/src/utility"
)

// Registry re-enumerates displays on every call. Nothing is cached between calls, so a
// monitor plugged in or removed is seen by the next operation.
type Registry struct {
	enumerator Enumerator
	logger     *utility.Logger
}

// NewRegistry creates a registry over the given enumerator
func NewRegistry(enumerator Enumerator, logger *utility.Logger) *Registry {
	if logger == nil {
		logger = utility.GetLogger()
	}
	return &Registry{enumerator: enumerator, logger: logger}
}

// Enumerate queries the platform for the current display list.
func (r *Registry) Enumerate(ctx context.Context) (Snapshot, error) {
	snapshot, err := r.enumerator.Enumerate(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate displays: %w", err)
	}
	if len(snapshot) == 0 {
		return nil, ErrNoDisplays
	}
	r.logger.Debug("Enumerated %d display(s)", len(snapshot))
	return snapshot, nil
}

// PrimaryIndex returns the index flagged primary, or 0 when none is.
func (s Snapshot) PrimaryIndex() int {
	for i, m := range s {
		if m.Primary {
			return i
		}
	}
	return 0
}

// Valid reports whether index addresses a monitor in s.
func (s Snapshot) Valid(index int) bool {
	return index >= 0 && index < len(s)
}

// MonitorContaining returns the first monitor whose bounds contain p. When no monitor
// does, current is returned unchanged.
func (s Snapshot) MonitorContaining(p image.Point, current int) int {
	for i, m := range s {
		if p.In(m.Bounds) {
			return i
		}
	}
	return current
}

// MonitorContainingScaled is MonitorContaining for a point in logical units. The point
// is converted to physical pixels with each candidate's own scale before testing it.
func (s Snapshot) MonitorContainingScaled(x, y float64, scale func(Monitor) float64, current int) int {
	for i, m := range s {
		f := scale(m)
		if f <= 0 {
			f = 1
		}
		if image.Pt(int(math.Floor(x*f)), int(math.Floor(y*f))).In(m.Bounds) {
			return i
		}
	}
	return current
}

// CycleNext returns the monitor after current. With one monitor or none it is a no-op.
// A stale current index (monitor removed) first falls back to the primary display and
// then advances.
func (s Snapshot) CycleNext(current int) int {
	if len(s) <= 1 {
		return current
	}
	if !s.Valid(current) {
		current = s.PrimaryIndex()
	}
	return (current + 1) % len(s)
}

// Equal reports whether two snapshots describe the same topology.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}
