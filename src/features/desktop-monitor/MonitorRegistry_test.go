package desktopmonitor

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/ln64-git/edgelight/src/utility"
)

type countingEnumerator struct {
	calls     int
	snapshots []Snapshot
	err       error
}

func (ce *countingEnumerator) Enumerate(context.Context) (Snapshot, error) {
	ce.calls++
	if ce.err != nil {
		return nil, ce.err
	}
	i := min(ce.calls-1, len(ce.snapshots)-1)
	return ce.snapshots[i], nil
}

func threeMonitors() Snapshot {
	return Snapshot{
		{Name: "left", Bounds: image.Rect(-1920, 0, 0, 1080)},
		{Name: "main", Bounds: image.Rect(0, 0, 2560, 1440), Primary: true},
		{Name: "right", Bounds: image.Rect(2560, 0, 4480, 1080)},
	}
}

func quietLogger() *utility.Logger {
	return utility.NewLogger("journal", utility.ERROR)
}

func TestPrimaryIndex(t *testing.T) {
	if got := threeMonitors().PrimaryIndex(); got != 1 {
		t.Fatalf("PrimaryIndex = %d, want 1", got)
	}
	none := Snapshot{{Name: "a"}, {Name: "b"}}
	if got := none.PrimaryIndex(); got != 0 {
		t.Fatalf("PrimaryIndex with no primary = %d, want 0", got)
	}
	if got := Snapshot(nil).PrimaryIndex(); got != 0 {
		t.Fatalf("PrimaryIndex of empty snapshot = %d, want 0", got)
	}
}

func TestCycleNext(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
		current  int
		want     int
	}{
		{"wraps to first", threeMonitors(), 2, 0},
		{"advances", threeMonitors(), 0, 1},
		{"single monitor is a no-op", Snapshot{{Primary: true}}, 0, 0},
		{"single monitor keeps stale index", Snapshot{{Primary: true}}, 4, 4},
		{"empty is a no-op", nil, 3, 3},
		{"stale index resets to primary then advances", Snapshot{{}, {Primary: true}}, 5, 0},
		{"stale index with primary first", Snapshot{{Primary: true}, {}}, 5, 1},
		{"negative index treated as stale", threeMonitors(), -1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snapshot.CycleNext(tt.current); got != tt.want {
				t.Fatalf("CycleNext(%d) = %d, want %d", tt.current, got, tt.want)
			}
		})
	}
}

func TestMonitorContaining(t *testing.T) {
	two := Snapshot{
		{Bounds: image.Rect(0, 0, 1920, 1080), Primary: true},
		{Bounds: image.Rect(1920, 0, 3840, 1080)},
	}

	if got := two.MonitorContaining(image.Pt(2500, 500), 0); got != 1 {
		t.Fatalf("point inside monitor 1 resolved to %d", got)
	}
	if got := two.MonitorContaining(image.Pt(100, 100), 1); got != 0 {
		t.Fatalf("point inside monitor 0 resolved to %d", got)
	}
	if got := two.MonitorContaining(image.Pt(5000, 5000), 1); got != 1 {
		t.Fatalf("point off-screen should keep current index, got %d", got)
	}
	if got := two.MonitorContaining(image.Pt(-10, 20), 0); got != 0 {
		t.Fatalf("point off-screen should keep current index, got %d", got)
	}
}

func TestMonitorContainingScaled(t *testing.T) {
	mixed := Snapshot{
		{Bounds: image.Rect(0, 0, 3840, 2160), ScaleFactor: 2, Primary: true},
		{Bounds: image.Rect(3840, 0, 5760, 1080), ScaleFactor: 1},
	}
	scale := func(m Monitor) float64 { return m.ScaleFactor }

	// logical 1000 is physical 2000 on the scaled monitor
	if got := mixed.MonitorContainingScaled(1000, 500, scale, 1); got != 0 {
		t.Fatalf("point on the scaled monitor resolved to %d", got)
	}
	// logical 4000 only lands on the unscaled monitor
	if got := mixed.MonitorContainingScaled(4000, 500, scale, 0); got != 1 {
		t.Fatalf("point on the unscaled monitor resolved to %d", got)
	}
	if got := mixed.MonitorContainingScaled(-50, 0, func(Monitor) float64 { return 0 }, 1); got != 1 {
		t.Fatalf("off-screen point should keep current index, got %d", got)
	}
}

func TestRegistryEnumeratesEveryCall(t *testing.T) {
	ce := &countingEnumerator{snapshots: []Snapshot{threeMonitors(), threeMonitors()[:1]}}
	r := NewRegistry(ce, quietLogger())

	first, err := r.Enumerate(context.Background())
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	second, err := r.Enumerate(context.Background())
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}

	if ce.calls != 2 {
		t.Fatalf("expected 2 platform queries, got %d", ce.calls)
	}
	if len(first) != 3 || len(second) != 1 {
		t.Fatalf("registry should reflect the unplugged monitor: %d then %d", len(first), len(second))
	}
}

func TestRegistryReportsErrors(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry(&countingEnumerator{err: boom}, quietLogger())
	if _, err := r.Enumerate(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped enumerator error, got %v", err)
	}

	r = NewRegistry(&countingEnumerator{snapshots: []Snapshot{{}}}, quietLogger())
	if _, err := r.Enumerate(context.Background()); !errors.Is(err, ErrNoDisplays) {
		t.Fatalf("expected ErrNoDisplays, got %v", err)
	}
}

func TestSnapshotEqual(t *testing.T) {
	a := threeMonitors()
	b := threeMonitors()
	if !a.Equal(b) {
		t.Fatalf("identical snapshots should be equal")
	}
	b[2].WorkArea = image.Rect(2560, 0, 4480, 1040)
	if a.Equal(b) {
		t.Fatalf("work area change should be detected")
	}
	if a.Equal(a[:2]) {
		t.Fatalf("length change should be detected")
	}
}
