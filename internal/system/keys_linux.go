//go:build linux

package system

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// WatchKeys reads every /dev/input/event* device and calls onKey for each
// key press until ctx is done. onKey runs on a reader goroutine.
//
// It is best-effort: if no input devices are available, it logs and returns.
func WatchKeys(ctx context.Context, logger Logger, onKey func(code uint16)) {
	if onKey == nil {
		return
	}
	tvSize, eventSize := eventLayout()

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if logger != nil {
			logger.Infof("input", "no evdev devices found")
		}
		return
	}

	for _, path := range paths {
		p := path
		go func() {
			fd, err := unix.Open(p, unix.O_RDONLY|unix.O_NONBLOCK, 0)
			if err != nil {
				return
			}
			f := os.NewFile(uintptr(fd), p)
			defer func() {
				_ = f.Close()
			}()

			buf := make([]byte, 64*eventSize)
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
				if _, err := unix.Poll(pollFds, 250); err != nil {
					if err == unix.EINTR {
						continue
					}
					// Device might have gone away.
					return
				}
				if pollFds[0].Revents&unix.POLLIN == 0 {
					continue
				}

				n, err := unix.Read(fd, buf)
				if err != nil {
					if err == unix.EAGAIN || err == unix.EINTR {
						continue
					}
					return
				}
				for _, code := range KeyPresses(buf[:n], tvSize, eventSize) {
					onKey(code)
				}
			}
		}()
	}
}
