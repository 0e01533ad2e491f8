//go:build linux

/**
 * Global hotkeys on Linux - key grabs on the X11 root window through jezek/xgb
 */

package globalhotkey

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/ln64-git/edgelight/src/features/hotkey"
)

// Keysyms from X11/keysymdef.h.
const (
	keysymL    xproto.Keysym = 0x006c
	keysymUp   xproto.Keysym = 0xff52
	keysymDown xproto.Keysym = 0xff54
)

var x11Keysyms = map[hotkey.Key]xproto.Keysym{
	hotkey.KeyL:         keysymL,
	hotkey.KeyArrowUp:   keysymUp,
	hotkey.KeyArrowDown: keysymDown,
}

// lockVariants are grabbed alongside each combination so Caps Lock and Num Lock do not
// swallow it.
var lockVariants = []uint16{0, xproto.ModMaskLock, xproto.ModMask2, xproto.ModMaskLock | xproto.ModMask2}

// significantMods are the modifier bits a key press is matched on.
const significantMods = xproto.ModMaskShift | xproto.ModMaskControl | xproto.ModMask1 | xproto.ModMask4

type grab struct {
	keycode xproto.Keycode
	mods    uint16
}

// Platform grabs hotkeys on the X server named by $DISPLAY. The connection opens on the
// first Register, so without a reachable server every Register fails with an error and
// nothing panics. Key presses arrive on a reader goroutine and are forwarded to fire,
// which must hand them to the event thread.
type Platform struct {
	fire func(id int)

	mu      sync.Mutex
	conn    *xgb.Conn
	root    xproto.Window
	keymap  *xproto.GetKeyboardMappingReply
	minCode xproto.Keycode
	grabs   map[int]grab
}

// New creates a platform that reports fired binding ids to fire
func New(fire func(id int)) *Platform {
	return &Platform{fire: fire, grabs: make(map[int]grab)}
}

// Register grabs the combination on the root window.
func (p *Platform) Register(b hotkey.Binding) error {
	sym, ok := x11Keysyms[b.Key]
	if !ok {
		return fmt.Errorf("no system key for %s", b.Key)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.grabs[b.ID]; exists {
		return nil
	}
	if err := p.connect(); err != nil {
		return fmt.Errorf("register %s: %w", b, err)
	}

	code, ok := keycodeFor(p.keymap.Keysyms, p.keymap.KeysymsPerKeycode, p.minCode, sym)
	if !ok {
		return fmt.Errorf("register %s: no keycode for keysym %#x", b, uint32(sym))
	}
	mods := x11Modifiers(b.Modifiers)
	for _, extra := range lockVariants {
		err := xproto.GrabKeyChecked(p.conn, true, p.root, mods|extra, code,
			xproto.GrabModeAsync, xproto.GrabModeAsync).Check()
		if err != nil {
			_ = p.ungrab(code, mods)
			return fmt.Errorf("register %s: %w", b, err)
		}
	}
	p.grabs[b.ID] = grab{keycode: code, mods: mods}
	return nil
}

// Unregister releases the combination. Releasing an unknown binding returns
// hotkey.ErrNotRegistered and touches nothing. The connection closes with the last grab.
func (p *Platform) Unregister(b hotkey.Binding) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	g, ok := p.grabs[b.ID]
	if !ok {
		return hotkey.ErrNotRegistered
	}
	delete(p.grabs, b.ID)
	err := p.ungrab(g.keycode, g.mods)
	if len(p.grabs) == 0 && p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
	if err != nil {
		return fmt.Errorf("unregister %s: %w", b, err)
	}
	return nil
}

func (p *Platform) connect() error {
	if p.conn != nil {
		return nil
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("connect to X server: %w", err)
	}
	setup := xproto.Setup(conn)
	count := byte(setup.MaxKeycode - setup.MinKeycode + 1)
	keymap, err := xproto.GetKeyboardMapping(conn, setup.MinKeycode, count).Reply()
	if err != nil {
		conn.Close()
		return fmt.Errorf("read keyboard mapping: %w", err)
	}

	p.conn = conn
	p.root = setup.DefaultScreen(conn).Root
	p.keymap = keymap
	p.minCode = setup.MinKeycode
	go p.listen(conn)
	return nil
}

func (p *Platform) listen(conn *xgb.Conn) {
	for {
		ev, xerr := conn.WaitForEvent()
		if ev == nil && xerr == nil {
			return
		}
		press, ok := ev.(xproto.KeyPressEvent)
		if !ok {
			continue
		}
		if id, ok := p.match(press.Detail, press.State); ok {
			p.fire(id)
		}
	}
}

func (p *Platform) match(code xproto.Keycode, state uint16) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	mods := state & significantMods
	for id, g := range p.grabs {
		if g.keycode == code && g.mods == mods {
			return id, true
		}
	}
	return 0, false
}

func (p *Platform) ungrab(code xproto.Keycode, mods uint16) error {
	var errs []error
	for _, extra := range lockVariants {
		if err := xproto.UngrabKeyChecked(p.conn, code, p.root, mods|extra).Check(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// keycodeFor finds the first keycode whose mapping lists sym.
func keycodeFor(keysyms []xproto.Keysym, perKeycode byte, minCode xproto.Keycode, sym xproto.Keysym) (xproto.Keycode, bool) {
	if perKeycode == 0 {
		return 0, false
	}
	for i, s := range keysyms {
		if s == sym {
			return minCode + xproto.Keycode(i/int(perKeycode)), true
		}
	}
	return 0, false
}

func x11Modifiers(m hotkey.Modifier) uint16 {
	var mods uint16
	if m&hotkey.ModCtrl != 0 {
		mods |= xproto.ModMaskControl
	}
	if m&hotkey.ModShift != 0 {
		mods |= xproto.ModMaskShift
	}
	return mods
}
