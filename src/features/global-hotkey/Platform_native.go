//go:build windows || darwin

/**
 * Global hotkeys on Windows and macOS through golang.design/x/hotkey
 */

package globalhotkey

import (
	"fmt"
	"sync"

	syshotkey "golang.design/x/hotkey"

	"github.com/ln64-git/edgelight/src/features/hotkey"
)

type nativeKey struct {
	hk   *syshotkey.Hotkey
	done chan struct{}
}

// Platform registers hotkeys with the operating system. Key presses arrive on a
// library goroutine and are forwarded to fire, which must hand them to the event thread.
type Platform struct {
	fire func(id int)
	mu   sync.Mutex
	keys map[int]*nativeKey
}

// New creates a platform that reports fired binding ids to fire
func New(fire func(id int)) *Platform {
	return &Platform{
		fire: fire,
		keys: make(map[int]*nativeKey),
	}
}

// Register claims the combination system-wide.
func (p *Platform) Register(b hotkey.Binding) error {
	key, ok := nativeKeys[b.Key]
	if !ok {
		return fmt.Errorf("no system key for %s", b.Key)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.keys[b.ID]; exists {
		return nil
	}

	hk := syshotkey.New(nativeModifiers(b.Modifiers), key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("register %s: %w", b, err)
	}

	nk := &nativeKey{hk: hk, done: make(chan struct{})}
	p.keys[b.ID] = nk

	keydown := hk.Keydown()
	go func(id int) {
		for {
			select {
			case <-nk.done:
				return
			case _, ok := <-keydown:
				if !ok {
					return
				}
				p.fire(id)
			}
		}
	}(b.ID)
	return nil
}

// Unregister releases the combination. Releasing an unknown binding returns
// hotkey.ErrNotRegistered and touches nothing.
func (p *Platform) Unregister(b hotkey.Binding) error {
	p.mu.Lock()
	nk, ok := p.keys[b.ID]
	delete(p.keys, b.ID)
	p.mu.Unlock()

	if !ok {
		return hotkey.ErrNotRegistered
	}
	close(nk.done)
	if err := nk.hk.Unregister(); err != nil {
		return fmt.Errorf("unregister %s: %w", b, err)
	}
	return nil
}

func nativeModifiers(m hotkey.Modifier) []syshotkey.Modifier {
	var mods []syshotkey.Modifier
	if m&hotkey.ModCtrl != 0 {
		mods = append(mods, syshotkey.ModCtrl)
	}
	if m&hotkey.ModShift != 0 {
		mods = append(mods, syshotkey.ModShift)
	}
	return mods
}

var nativeKeys = map[hotkey.Key]syshotkey.Key{
	hotkey.KeyL:         syshotkey.KeyL,
	hotkey.KeyArrowUp:   syshotkey.KeyUp,
	hotkey.KeyArrowDown: syshotkey.KeyDown,
}
