//go:build windows

package desktopmonitor

import (
	"image"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

var (
	user32              = windows.NewLazySystemDLL("user32.dll")
	procMonitorFromRect = user32.NewProc("MonitorFromRect")
)

// platformMonitorInfo asks user32 for the work area and primary flag of the monitor
// covering bounds.
func platformMonitorInfo(bounds image.Rectangle) (image.Rectangle, bool, bool) {
	rc := win.RECT{
		Left:   int32(bounds.Min.X),
		Top:    int32(bounds.Min.Y),
		Right:  int32(bounds.Max.X),
		Bottom: int32(bounds.Max.Y),
	}
	h, _, _ := procMonitorFromRect.Call(uintptr(unsafe.Pointer(&rc)), uintptr(win.MONITOR_DEFAULTTONULL))
	if h == 0 {
		return image.Rectangle{}, false, false
	}

	var mi win.MONITORINFO
	mi.CbSize = uint32(unsafe.Sizeof(mi))
	if !win.GetMonitorInfo(win.HMONITOR(h), &mi) {
		return image.Rectangle{}, false, false
	}

	work := image.Rect(int(mi.RcWork.Left), int(mi.RcWork.Top), int(mi.RcWork.Right), int(mi.RcWork.Bottom))
	return work, mi.DwFlags&win.MONITORINFOF_PRIMARY != 0, true
}
