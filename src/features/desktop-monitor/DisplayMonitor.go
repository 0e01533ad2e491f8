/**
 * Display monitor - Hyprland display enumeration through hyprctl
 */

package desktopmonitor

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"strings"
	"time"

	"github.com/ln64-git/edgelight/src/utility"
)

// hyprMonitor mirrors the fields of `hyprctl monitors -j` that placement needs.
type hyprMonitor struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	RefreshRate float64 `json:"refreshRate"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Scale       float64 `json:"scale"`
	Transform   int     `json:"transform"`
	Focused     bool    `json:"focused"`
	// Reserved is left, top, right, bottom space claimed by bars and layer surfaces.
	Reserved [4]int `json:"reserved"`
}

// DisplayMonitor enumerates displays from a running Hyprland compositor
type DisplayMonitor struct {
	logger *utility.Logger
	shell  *utility.Shell
}

// NewDisplayMonitor creates a Hyprland enumerator
func NewDisplayMonitor(logger *utility.Logger) *DisplayMonitor {
	if logger == nil {
		logger = utility.GetLogger()
	}
	return &DisplayMonitor{
		logger: logger,
		shell:  utility.NewShell(logger),
	}
}

// IsAvailable checks if Hyprland is available
func (dm *DisplayMonitor) IsAvailable() bool {
	return os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != ""
}

// Enumerate runs hyprctl and converts its monitor list.
func (dm *DisplayMonitor) Enumerate(ctx context.Context) (Snapshot, error) {
	if !dm.IsAvailable() {
		return nil, fmt.Errorf("hyprland is not running")
	}

	result, err := dm.shell.Run(ctx, &utility.ExecOptions{Timeout: 2 * time.Second}, "hyprctl", "monitors", "-j")
	if err != nil {
		return nil, fmt.Errorf("hyprctl monitors: %w", err)
	}
	if result.ExitCode != 0 {
		return nil, fmt.Errorf("hyprctl monitors exited with %d: %s", result.ExitCode, result.Stderr)
	}

	return parseHyprMonitors([]byte(result.Stdout))
}

// parseHyprMonitors converts hyprctl JSON. Hyprland lays monitors out in logical
// coordinates, so bounds are divided by the scale and ScaleFactor is reported as 1.
func parseHyprMonitors(data []byte) (Snapshot, error) {
	var monitors []hyprMonitor
	if err := json.Unmarshal(data, &monitors); err != nil {
		return nil, fmt.Errorf("parse monitors JSON: %w", err)
	}

	snapshot := make(Snapshot, 0, len(monitors))
	for _, hm := range monitors {
		scale := hm.Scale
		if scale <= 0 {
			scale = 1
		}
		w, h := hm.Width, hm.Height
		if hm.Transform%2 == 1 {
			w, h = h, w
		}
		bounds := image.Rect(hm.X, hm.Y, hm.X+int(float64(w)/scale), hm.Y+int(float64(h)/scale))
		work := image.Rect(
			bounds.Min.X+hm.Reserved[0],
			bounds.Min.Y+hm.Reserved[1],
			bounds.Max.X-hm.Reserved[2],
			bounds.Max.Y-hm.Reserved[3],
		)
		if work.Empty() {
			work = bounds
		}
		snapshot = append(snapshot, Monitor{
			Name:        hm.Name,
			Bounds:      bounds,
			WorkArea:    work,
			Primary:     bounds.Min == image.Point{},
			ScaleFactor: 1,
		})
	}
	return snapshot, nil
}

// FormatMonitorInfo formats monitor info for display
func FormatMonitorInfo(snapshot Snapshot, current int) string {
	if len(snapshot) == 0 {
		return "Display Information:\n  No monitors detected"
	}

	lines := []string{"Display Information:"}
	for i, m := range snapshot {
		marker := " "
		if i == current {
			marker = "*"
		}
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf(" %s [%d] %s:", marker, i, m.Name))
		lines = append(lines, fmt.Sprintf("    Bounds: %dx%d at %d,%d", m.Bounds.Dx(), m.Bounds.Dy(), m.Bounds.Min.X, m.Bounds.Min.Y))
		lines = append(lines, fmt.Sprintf("    Work area: %dx%d at %d,%d", m.WorkArea.Dx(), m.WorkArea.Dy(), m.WorkArea.Min.X, m.WorkArea.Min.Y))
		if m.ScaleFactor > 0 {
			lines = append(lines, fmt.Sprintf("    Scale: %.2f", m.ScaleFactor))
		}
		lines = append(lines, fmt.Sprintf("    Primary: %s", boolToYesNo(m.Primary)))
	}

	return strings.Join(lines, "\n")
}

// FormatMonitorSummary formats a summary of monitors
func FormatMonitorSummary(snapshot Snapshot) string {
	if len(snapshot) == 0 {
		return "No monitors"
	}

	var summaries []string
	for _, m := range snapshot {
		primary := ""
		if m.Primary {
			primary = " primary"
		}
		summaries = append(summaries, fmt.Sprintf("%s (%dx%d%s)", m.Name, m.Bounds.Dx(), m.Bounds.Dy(), primary))
	}

	return strings.Join(summaries, ", ")
}

func boolToYesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
