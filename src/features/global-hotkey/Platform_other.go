//go:build !windows && !darwin && !linux

package globalhotkey

import (
	"fmt"
	"runtime"

	"github.com/ln64-git/edgelight/src/features/hotkey"
)

// Platform refuses every binding; this OS has no global hotkey backend.
type Platform struct{}

func New(func(id int)) *Platform {
	return &Platform{}
}

func (*Platform) Register(b hotkey.Binding) error {
	return fmt.Errorf("register %s: global hotkeys are not supported on %s", b, runtime.GOOS)
}

func (*Platform) Unregister(hotkey.Binding) error {
	return hotkey.ErrNotRegistered
}
