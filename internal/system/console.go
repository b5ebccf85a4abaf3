// Package system talks to the Linux console: VT graphics mode, the cursor,
// and raw key events.
package system

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// KD console modes from linux/kd.h
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A // KDSETMODE ioctl
)

// Active VT first, then the console device.
var vtPaths = []string{"/dev/tty", "/dev/tty0"}

type Logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

func setKDMode(mode int, name string) error {
	var lastErr error
	for _, p := range vtPaths {
		fd, err := unix.Open(p, unix.O_RDONLY, 0)
		if err != nil {
			lastErr = fmt.Errorf("open %s: %w", p, err)
			continue
		}
		err = unix.IoctlSetInt(fd, kdSetMode, mode)
		_ = unix.Close(fd)
		if err != nil {
			lastErr = fmt.Errorf("%s on %s: %w", name, p, err)
			continue
		}
		return nil
	}
	if lastErr != nil {
		return lastErr
	}
	return fmt.Errorf("%s failed: unknown error", name)
}

// SetGraphicsMode stops the kernel from drawing the console over the face.
func SetGraphicsMode() error { return setKDMode(kdGraphics, "KD_GRAPHICS") }

func RestoreTextMode() error { return setKDMode(kdText, "KD_TEXT") }

func HideCursor() error { return writeVT("\x1b[?25l") }
func ShowCursor() error { return writeVT("\x1b[?25h") }

func writeVT(s string) error {
	var lastErr error
	for _, p := range vtPaths {
		f, err := os.OpenFile(p, os.O_WRONLY, 0)
		if err != nil {
			lastErr = err
			continue
		}
		_, err = f.WriteString(s)
		_ = f.Close()
		if err == nil {
			return nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return fmt.Errorf("write VT failed: %w", lastErr)
	}
	return fmt.Errorf("write VT failed: unknown error")
}

// Console switches the VT for the lifetime of the face and logs each step.
type Console struct {
	Logger Logger
}

func (c Console) logResult(err error, ok, failed string) {
	if c.Logger == nil {
		return
	}
	if err != nil {
		c.Logger.Errorf("tty", "%s: %v", failed, err)
		return
	}
	c.Logger.Infof("tty", "%s", ok)
}

// Acquire puts the VT in graphics mode and hides the cursor. Failures are
// logged and otherwise ignored; the face still draws on the framebuffer.
func (c Console) Acquire() {
	c.logResult(SetGraphicsMode(), "KD_GRAPHICS set", "KD_GRAPHICS failed")
	c.logResult(HideCursor(), "cursor hidden", "hide cursor failed")
}

func (c Console) Release() {
	c.logResult(ShowCursor(), "cursor shown", "show cursor failed")
	c.logResult(RestoreTextMode(), "KD_TEXT set", "KD_TEXT failed")
}
