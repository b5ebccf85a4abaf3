// Package face is the watchface itself: it owns the window, layers and
// display state, and reacts to tick, battery and Bluetooth events.
package face

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/rook-computer/circuit/internal/assets"
	"github.com/rook-computer/circuit/internal/gauge"
	"github.com/rook-computer/circuit/internal/host"
	"github.com/rook-computer/circuit/internal/render"
	"github.com/rook-computer/circuit/internal/timefmt"
	"golang.org/x/image/font"
)

// Layer frames, in screen coordinates.
var (
	TimeFrame         = image.Rect(0, 85, 125, 135)
	DayFrame          = image.Rect(0, 8, 135, 36)
	DateFrame         = image.Rect(0, 36, 135, 64)
	ExtraFrame        = image.Rect(15, 140, 150, 168)
	ConnectivityFrame = image.Rect(55, 22, 65, 36)
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

type Options struct {
	Width, Height int
	Foreground    color.Color
	Background    color.Color
	GaugeFill     gauge.FillMode
	Resources     Resources
	Now           func() time.Time
	Logger        Logger
}

// DisplayState is what the face currently shows.
type DisplayState struct {
	Time               string                  `json:"time"`
	Day                string                  `json:"day"`
	Date               string                  `json:"date"`
	Extra              string                  `json:"extra"`
	BluetoothConnected bool                    `json:"bluetoothConnected"`
	Battery            host.BatteryChargeState `json:"battery"`
}

// Watchface implements host.Handler. All methods must run on the loop
// goroutine.
type Watchface struct {
	opts     Options
	services host.Services

	window *render.Window

	image         Bitmap
	imagePower    Bitmap
	imageCharging Bitmap

	fontBig   font.Face
	fontLabel font.Face
	fontSmall font.Face

	backgroundLayer *render.Layer
	batteryLayer    *render.Layer
	bluetoothLayer  *render.Layer

	timeLayer  *render.TextLayer
	dayLayer   *render.TextLayer
	dateLayer  *render.TextLayer
	extraLayer *render.TextLayer

	formatter *timefmt.Formatter
	gauge     *gauge.Renderer

	bluetooth bool
	battery   host.BatteryChargeState
}

var _ host.Handler = (*Watchface)(nil)

func New(opts Options) *Watchface {
	if opts.Width <= 0 {
		opts.Width = render.ScreenWidth
	}
	if opts.Height <= 0 {
		opts.Height = render.ScreenHeight
	}
	if opts.Foreground == nil {
		opts.Foreground = render.White
	}
	if opts.Background == nil {
		opts.Background = render.Black
	}
	if opts.Resources == nil {
		opts.Resources = AssetResources{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}
	return &Watchface{opts: opts, formatter: timefmt.NewFormatter()}
}

// Init builds the window and layers, subscribes to services and populates
// the display once before the first natural event.
func (f *Watchface) Init(services host.Services) error {
	if f.window != nil {
		return fmt.Errorf("watchface already initialized")
	}
	f.services = services
	f.window = render.NewWindow(f.opts.Width, f.opts.Height, f.opts.Background)

	if err := f.loadResources(); err != nil {
		f.releaseBitmaps()
		f.window.Destroy()
		f.window = nil
		return err
	}

	root := f.window.RootLayer()
	bounds := root.Frame()

	f.backgroundLayer = render.NewLayer(bounds)
	f.backgroundLayer.SetUpdateProc(f.drawBackground)
	root.AddChild(f.backgroundLayer)

	f.timeLayer = f.newTextLayer(TimeFrame, f.fontBig, render.TextAlignRight)
	root.AddChild(f.timeLayer.Layer)
	f.dayLayer = f.newTextLayer(DayFrame, f.fontLabel, render.TextAlignRight)
	root.AddChild(f.dayLayer.Layer)
	f.dateLayer = f.newTextLayer(DateFrame, f.fontLabel, render.TextAlignRight)
	root.AddChild(f.dateLayer.Layer)
	f.extraLayer = f.newTextLayer(ExtraFrame, f.fontSmall, render.TextAlignLeft)
	root.AddChild(f.extraLayer.Layer)

	f.gauge = gauge.NewRenderer(f.opts.Foreground, f.opts.Background, f.opts.GaugeFill)
	f.batteryLayer = render.NewLayer(image.Rectangle{Max: bounds.Size()})
	f.batteryLayer.SetUpdateProc(f.drawBattery)
	root.AddChild(f.batteryLayer)

	if services.Tick != nil {
		services.Tick.Subscribe(host.MinuteUnit, f.OnMinuteTick)
	}
	f.OnMinuteTick(time.Time{}, host.MinuteUnit)

	f.bluetoothLayer = render.NewLayer(ConnectivityFrame)
	f.bluetoothLayer.SetUpdateProc(f.drawBluetooth)
	root.AddChild(f.bluetoothLayer)
	if services.Connection != nil {
		f.OnConnectivityChange(services.Connection.Peek())
		services.Connection.Subscribe(f.OnConnectivityChange)
	}

	if services.Battery != nil {
		f.OnBatteryChange(services.Battery.Peek())
		services.Battery.Subscribe(f.OnBatteryChange)
	}

	f.opts.Logger.Infof("face", "initialized %dx%d, gauge fill %v", f.opts.Width, f.opts.Height, f.opts.GaugeFill)
	return nil
}

func (f *Watchface) loadResources() error {
	var err error
	if f.image, err = f.opts.Resources.Bitmap(assets.ImageBackground); err != nil {
		return fmt.Errorf("load background: %w", err)
	}
	if f.imagePower, err = f.opts.Resources.Bitmap(assets.ImagePower); err != nil {
		return fmt.Errorf("load power icon: %w", err)
	}
	if f.imageCharging, err = f.opts.Resources.Bitmap(assets.ImageCharging); err != nil {
		return fmt.Errorf("load charging icon: %w", err)
	}
	f.fontBig = f.opts.Resources.Font(assets.FontTime)
	f.fontLabel = f.opts.Resources.Font(assets.FontLabel)
	f.fontSmall = f.opts.Resources.Font(assets.FontSmall)
	return nil
}

func (f *Watchface) newTextLayer(frame image.Rectangle, face font.Face, align render.TextAlign) *render.TextLayer {
	layer := render.NewTextLayer(frame)
	layer.SetTextAlignment(align)
	layer.SetTextColor(f.opts.Foreground)
	layer.SetBackgroundColor(render.Clear)
	layer.SetFont(face)
	return layer
}

// Deinit unsubscribes and releases everything in reverse order of creation.
func (f *Watchface) Deinit() {
	if f.window == nil || f.window.Destroyed() {
		return
	}
	if f.services.Tick != nil {
		f.services.Tick.Unsubscribe()
	}
	if f.services.Connection != nil {
		f.services.Connection.Unsubscribe()
	}
	if f.services.Battery != nil {
		f.services.Battery.Unsubscribe()
	}
	f.opts.Logger.Infof("face", "services unsubscribed")

	f.releaseBitmaps()
	f.opts.Logger.Infof("face", "bitmaps destroyed")

	f.backgroundLayer.Destroy()
	f.batteryLayer.Destroy()
	f.bluetoothLayer.Destroy()
	f.opts.Logger.Infof("face", "layers destroyed")

	f.timeLayer.Destroy()
	f.dayLayer.Destroy()
	f.dateLayer.Destroy()
	f.extraLayer.Destroy()
	f.opts.Logger.Infof("face", "text layers destroyed")

	f.window.Destroy()
	f.opts.Logger.Infof("face", "window destroyed")
}

func (f *Watchface) releaseBitmaps() {
	for _, bmp := range []Bitmap{f.image, f.imagePower, f.imageCharging} {
		if bmp != nil {
			bmp.Destroy()
		}
	}
}

// OnMinuteTick reformats the texts. A zero t means "now".
func (f *Watchface) OnMinuteTick(t time.Time, changed host.TimeUnits) {
	if t.IsZero() {
		t = f.opts.Now()
	}
	f.formatter.Format(timefmt.FromTime(t))

	f.timeLayer.SetText(f.formatter.Time.String())
	f.dayLayer.SetText(f.formatter.Day.String())
	f.dateLayer.SetText(f.formatter.Date.String())
	f.extraLayer.SetText(f.formatter.Extra.String())

	f.batteryLayer.MarkDirty()
	f.backgroundLayer.MarkDirty()
}

func (f *Watchface) OnBatteryChange(state host.BatteryChargeState) {
	f.battery = state
	f.batteryLayer.MarkDirty()
}

func (f *Watchface) OnConnectivityChange(connected bool) {
	f.bluetooth = connected
	f.bluetoothLayer.MarkDirty()
}

func (f *Watchface) drawBackground(layer *render.Layer, ctx *render.Context) {
	if f.image == nil {
		return
	}
	img := f.image.Image()
	if img == nil {
		return
	}
	ctx.DrawBitmapInRect(img, image.Rectangle{Max: img.Bounds().Size()})
}

func (f *Watchface) drawBattery(layer *render.Layer, ctx *render.Context) {
	f.gauge.Render(ctx, f.battery, gauge.Icons{
		Power:    bitmapImage(f.imagePower),
		Charging: bitmapImage(f.imageCharging),
	})
}

func (f *Watchface) drawBluetooth(layer *render.Layer, ctx *render.Context) {
	ctx.SetFillColor(f.opts.Foreground)
	if !f.bluetooth {
		ctx.FillRect(image.Rect(0, 0, 10, 14))
	}
}

func bitmapImage(b Bitmap) image.Image {
	if b == nil {
		return nil
	}
	return b.Image()
}

// Paint and Canvas let the event loop drive the window.
func (f *Watchface) Paint() bool {
	if f.window == nil {
		return false
	}
	return f.window.Paint()
}

func (f *Watchface) Canvas() *image.RGBA {
	if f.window == nil {
		return nil
	}
	return f.window.Canvas()
}

func (f *Watchface) Window() *render.Window { return f.window }

func (f *Watchface) BackgroundLayer() *render.Layer   { return f.backgroundLayer }
func (f *Watchface) BatteryLayer() *render.Layer      { return f.batteryLayer }
func (f *Watchface) ConnectivityLayer() *render.Layer { return f.bluetoothLayer }

func (f *Watchface) TextLayers() []*render.TextLayer {
	return []*render.TextLayer{f.timeLayer, f.dayLayer, f.dateLayer, f.extraLayer}
}

func (f *Watchface) Snapshot() DisplayState {
	return DisplayState{
		Time:               f.formatter.Time.String(),
		Day:                f.formatter.Day.String(),
		Date:               f.formatter.Date.String(),
		Extra:              f.formatter.Extra.String(),
		BluetoothConnected: f.bluetooth,
		Battery:            f.battery,
	}
}
