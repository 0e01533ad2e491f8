/**
 * Desktop integration - picks the display enumeration backend for the running desktop
 */

package desktopmonitor

import (
	"context"
	"fmt"
	"os"

	"github.com/ln64-git/edgelight/src/utility"
)

// CompositorType represents compositor types. Only Hyprland has a dedicated display
// backend; everything else enumerates through the screenshot library.
type CompositorType string

const (
	CompositorTypeHyprland CompositorType = "hyprland"
	CompositorTypeUnknown  CompositorType = "unknown"
)

// DetectCompositor detects the compositor type
func DetectCompositor() CompositorType {
	if os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" {
		return CompositorTypeHyprland
	}
	return CompositorTypeUnknown
}

// NewEnumerator returns the enumerator for backend. BackendAuto prefers hyprctl when
// Hyprland is running, falling back to the screenshot library if it fails.
func NewEnumerator(backend Backend, logger *utility.Logger) (Enumerator, error) {
	if logger == nil {
		logger = utility.GetLogger()
	}

	switch backend {
	case BackendScreenshot:
		return NewScreenEnumerator(), nil
	case BackendHyprland:
		return NewDisplayMonitor(logger), nil
	case BackendAuto, "":
		if DetectCompositor() == CompositorTypeHyprland {
			return &fallbackEnumerator{
				primary:  NewDisplayMonitor(logger),
				fallback: NewScreenEnumerator(),
				logger:   logger,
			}, nil
		}
		return NewScreenEnumerator(), nil
	default:
		return nil, fmt.Errorf("unknown display backend: %s", backend)
	}
}

type fallbackEnumerator struct {
	primary  Enumerator
	fallback Enumerator
	logger   *utility.Logger
}

func (fe *fallbackEnumerator) Enumerate(ctx context.Context) (Snapshot, error) {
	snapshot, err := fe.primary.Enumerate(ctx)
	if err == nil && len(snapshot) > 0 {
		return snapshot, nil
	}
	fe.logger.Debug("Primary display backend failed (%v), using fallback", err)
	return fe.fallback.Enumerate(ctx)
}
