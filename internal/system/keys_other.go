//go:build !linux

package system

import "context"

func WatchKeys(ctx context.Context, logger Logger, onKey func(code uint16)) {
	if logger != nil {
		logger.Infof("input", "evdev input is only available on linux")
	}
}
