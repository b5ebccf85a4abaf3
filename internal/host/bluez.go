package host

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	bluezBusName         = "org.bluez"
	bluezDeviceInterface = "org.bluez.Device1"
	objectManager        = "org.freedesktop.DBus.ObjectManager"
	propertiesInterface  = "org.freedesktop.DBus.Properties"
)

type managedObjects = map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// BluezConnection reports whether any BlueZ device is connected.
type BluezConnection struct {
	Conn   *dbus.Conn
	Loop   *Loop
	Logger Logger

	mu        sync.Mutex
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	connected map[dbus.ObjectPath]bool
}

func NewBluezConnection(conn *dbus.Conn, loop *Loop) *BluezConnection {
	return &BluezConnection{Conn: conn, Loop: loop, Logger: noopLogger{}}
}

// AnyConnected reports whether any org.bluez.Device1 in objs is connected.
func AnyConnected(objs managedObjects) bool {
	for _, ifaces := range objs {
		if deviceConnected(ifaces[bluezDeviceInterface]) {
			return true
		}
	}
	return false
}

func deviceConnected(props map[string]dbus.Variant) bool {
	if props == nil {
		return false
	}
	v, ok := props["Connected"]
	if !ok {
		return false
	}
	connected, _ := v.Value().(bool)
	return connected
}

func (b *BluezConnection) fetch(ctx context.Context) (map[dbus.ObjectPath]bool, error) {
	var objs managedObjects
	obj := b.Conn.Object(bluezBusName, "/")
	if err := obj.CallWithContext(ctx, objectManager+".GetManagedObjects", 0).Store(&objs); err != nil {
		return nil, fmt.Errorf("bluez GetManagedObjects: %w", err)
	}
	devices := make(map[dbus.ObjectPath]bool)
	for path, ifaces := range objs {
		if props, ok := ifaces[bluezDeviceInterface]; ok {
			devices[path] = deviceConnected(props)
		}
	}
	return devices, nil
}

// Peek queries BlueZ. When the bus is unreachable the face shows the
// disconnected glyph.
func (b *BluezConnection) Peek() bool {
	if b.Conn == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	devices, err := b.fetch(ctx)
	if err != nil {
		b.logger().Errorf("bluez", "peek: %v", err)
		return false
	}
	b.mu.Lock()
	b.connected = devices
	b.mu.Unlock()
	return anyTrue(devices)
}

func (b *BluezConnection) Subscribe(fn func(bool)) {
	b.Unsubscribe()
	if b.Conn == nil {
		return
	}
	matches := [][]dbus.MatchOption{
		{dbus.WithMatchSender(bluezBusName), dbus.WithMatchInterface(propertiesInterface), dbus.WithMatchMember("PropertiesChanged")},
		{dbus.WithMatchSender(bluezBusName), dbus.WithMatchInterface(objectManager), dbus.WithMatchMember("InterfacesAdded")},
		{dbus.WithMatchSender(bluezBusName), dbus.WithMatchInterface(objectManager), dbus.WithMatchMember("InterfacesRemoved")},
	}
	for _, opts := range matches {
		if err := b.Conn.AddMatchSignal(opts...); err != nil {
			b.logger().Errorf("bluez", "add match: %v", err)
		}
	}
	signals := make(chan *dbus.Signal, 16)
	b.Conn.Signal(signals)

	ctx, cancel := context.WithCancel(context.Background())
	b.mu.Lock()
	b.cancel = func() {
		cancel()
		b.Conn.RemoveSignal(signals)
		for _, opts := range matches {
			_ = b.Conn.RemoveMatchSignal(opts...)
		}
	}
	if b.connected == nil {
		b.connected = make(map[dbus.ObjectPath]bool)
	}
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-signals:
				if !ok {
					return
				}
				changed, state := b.apply(sig)
				if !changed {
					continue
				}
				b.Loop.PostContext(ctx, func() {
					if ctx.Err() == nil {
						fn(state)
					}
				})
			}
		}
	}()
}

// apply folds one signal into the per-device table and reports whether the
// aggregate connected state flipped.
func (b *BluezConnection) apply(sig *dbus.Signal) (bool, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	before := anyTrue(b.connected)

	switch sig.Name {
	case propertiesInterface + ".PropertiesChanged":
		if len(sig.Body) < 2 {
			return false, before
		}
		iface, _ := sig.Body[0].(string)
		props, _ := sig.Body[1].(map[string]dbus.Variant)
		if iface != bluezDeviceInterface {
			return false, before
		}
		if v, ok := props["Connected"]; ok {
			connected, _ := v.Value().(bool)
			b.connected[sig.Path] = connected
		}
	case objectManager + ".InterfacesAdded":
		if len(sig.Body) < 2 {
			return false, before
		}
		path, _ := sig.Body[0].(dbus.ObjectPath)
		ifaces, _ := sig.Body[1].(map[string]map[string]dbus.Variant)
		if props, ok := ifaces[bluezDeviceInterface]; ok {
			b.connected[path] = deviceConnected(props)
		}
	case objectManager + ".InterfacesRemoved":
		if len(sig.Body) < 2 {
			return false, before
		}
		path, _ := sig.Body[0].(dbus.ObjectPath)
		ifaces, _ := sig.Body[1].([]string)
		for _, iface := range ifaces {
			if iface == bluezDeviceInterface {
				delete(b.connected, path)
			}
		}
	default:
		return false, before
	}

	after := anyTrue(b.connected)
	return after != before, after
}

func (b *BluezConnection) Unsubscribe() {
	b.mu.Lock()
	cancel := b.cancel
	b.cancel = nil
	b.mu.Unlock()
	if cancel != nil {
		cancel()
		b.wg.Wait()
	}
}

func (b *BluezConnection) logger() Logger {
	if b.Logger == nil {
		return noopLogger{}
	}
	return b.Logger
}

func anyTrue(m map[dbus.ObjectPath]bool) bool {
	for _, v := range m {
		if v {
			return true
		}
	}
	return false
}
