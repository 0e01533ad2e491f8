package hotkey

import (
	"errors"
	"strings"
	"testing"

	"github.com/ln64-git/edgelight/src/utility"
)

// fakePlatform mimics an OS hotkey table: a combination can only be held once and
// releasing an unknown one is an error.
type fakePlatform struct {
	claimed      map[int]bool
	taken        map[Key]bool
	unregistered []int
}

func newFakePlatform(taken ...Key) *fakePlatform {
	fp := &fakePlatform{claimed: map[int]bool{}, taken: map[Key]bool{}}
	for _, k := range taken {
		fp.taken[k] = true
	}
	return fp
}

func (fp *fakePlatform) Register(b Binding) error {
	if fp.taken[b.Key] {
		return errors.New("already claimed by another process")
	}
	fp.claimed[b.ID] = true
	return nil
}

func (fp *fakePlatform) Unregister(b Binding) error {
	fp.unregistered = append(fp.unregistered, b.ID)
	if !fp.claimed[b.ID] {
		return ErrNotRegistered
	}
	delete(fp.claimed, b.ID)
	return nil
}

type recorder struct {
	calls []string
}

func (r *recorder) ToggleLight()        { r.calls = append(r.calls, "toggle") }
func (r *recorder) IncreaseBrightness() { r.calls = append(r.calls, "up") }
func (r *recorder) DecreaseBrightness() { r.calls = append(r.calls, "down") }

func quietLogger() *utility.Logger {
	return utility.NewLogger("journal", utility.ERROR)
}

func TestDefaultBindings(t *testing.T) {
	bindings := DefaultBindings()
	if len(bindings) != 3 {
		t.Fatalf("expected 3 bindings, got %d", len(bindings))
	}
	want := []string{"Ctrl+Shift+L", "Ctrl+Shift+Up", "Ctrl+Shift+Down"}
	for i, b := range bindings {
		if b.String() != want[i] {
			t.Errorf("binding %d = %s, want %s", i, b, want[i])
		}
	}
}

func TestRegisterAndDispatch(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(newFakePlatform(), rec, quietLogger())

	for _, r := range d.Register() {
		if r.Err != nil {
			t.Fatalf("register %s: %v", r.Binding, r.Err)
		}
		if d.StateOf(r.Binding.ID) != Registered {
			t.Fatalf("binding %d should be registered", r.Binding.ID)
		}
	}

	for _, id := range []int{1, 2, 3, 2} {
		if !d.Dispatch(id) {
			t.Fatalf("dispatch %d failed", id)
		}
	}
	if got := strings.Join(rec.calls, ","); got != "toggle,up,down,up" {
		t.Fatalf("calls = %s", got)
	}
	if d.Dispatch(42) {
		t.Fatalf("unknown id should not dispatch")
	}
}

func TestPartialRegistration(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(newFakePlatform(KeyArrowUp), rec, quietLogger())

	results := d.Register()
	if len(results) != 3 {
		t.Fatalf("every binding should report a result, got %d", len(results))
	}
	if results[1].Err == nil {
		t.Fatalf("Ctrl+Shift+Up should have failed")
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Fatalf("other bindings should still register: %v %v", results[0].Err, results[2].Err)
	}

	if d.Dispatch(2) {
		t.Fatalf("failed binding must not dispatch")
	}
	if !d.Dispatch(3) {
		t.Fatalf("registered binding should dispatch")
	}
}

func TestUnregisterAttemptsAllAndIsIdempotent(t *testing.T) {
	fp := newFakePlatform(KeyL)
	d := NewDispatcher(fp, &recorder{}, quietLogger())
	d.Register()

	if err := d.Unregister(); err != nil {
		t.Fatalf("first unregister: %v", err)
	}
	if len(fp.unregistered) != 3 {
		t.Fatalf("all three bindings should be attempted, got %v", fp.unregistered)
	}
	if err := d.Unregister(); err != nil {
		t.Fatalf("second unregister: %v", err)
	}
	if len(fp.unregistered) != 3 {
		t.Fatalf("second unregister must not touch the platform again, got %v", fp.unregistered)
	}
	for _, b := range d.Bindings() {
		if d.StateOf(b.ID) != Unregistered {
			t.Fatalf("binding %d still registered", b.ID)
		}
	}
	if d.Dispatch(1) || d.Dispatch(3) {
		t.Fatalf("nothing should dispatch after shutdown")
	}
}

func TestUnregisterWithoutRegister(t *testing.T) {
	fp := newFakePlatform()
	d := NewDispatcher(fp, &recorder{}, quietLogger())
	if err := d.Unregister(); err != nil {
		t.Fatalf("unregister before register should not fail: %v", err)
	}
	if len(fp.unregistered) != 3 {
		t.Fatalf("unregister should still be attempted for every binding")
	}
}

func TestHelp(t *testing.T) {
	help := Help(DefaultBindings())
	for _, want := range []string{"Toggle Light", "Ctrl+Shift+L", "Brightness Down", "Ctrl+Shift+Down"} {
		if !strings.Contains(help, want) {
			t.Fatalf("help missing %q:\n%s", want, help)
		}
	}
}
