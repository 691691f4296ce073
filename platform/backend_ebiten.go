//go:build ebiten || js

package platform

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	ebitenaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lixenwraith/skirmish/audio"
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/render"
	"github.com/lixenwraith/skirmish/tilemap"
	"github.com/lixenwraith/skirmish/vmath"
)

// NativeAudio reports whether the linked backend owns an audio device
// The window plays cues through its own ebiten audio context
const NativeAudio = true

// New creates the native window backend
func New(opts Options) (Backend, error) {
	cfg := opts.Audio
	if cfg == nil {
		cfg = audio.LoadConfig()
	}
	title := opts.Title
	if title == "" {
		title = parameter.WindowTitle
	}
	return &WindowBackend{audioCfg: cfg, title: title}, nil
}

// WindowBackend draws frames with ebiten and plays cues through the ebiten audio context
type WindowBackend struct {
	title    string
	audioCfg *audio.Config
	audioCtx *ebitenaudio.Context
	cues     [core.SoundCount][]byte

	mu    sync.Mutex
	frame *render.Frame
	fn    FrameFunc
	last  time.Time
	err   error
}

// Init implements Backend
func (b *WindowBackend) Init() error {
	ebiten.SetWindowSize(parameter.WindowWidth, parameter.WindowHeight)
	ebiten.SetWindowTitle(b.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if b.audioCfg.Enabled && b.audioCtx == nil {
		b.audioCtx = ebitenaudio.NewContext(b.audioCfg.SampleRate)
		for id := core.SoundNone + 1; id < core.SoundCount; id++ {
			b.cues[id] = audio.RenderPCM(id, b.audioCfg)
		}
	}
	return nil
}

// Fini implements Backend, ebiten releases the window when RunGame returns
func (b *WindowBackend) Fini() {}

// Run implements Backend, blocking in ebiten's game loop
func (b *WindowBackend) Run(fn FrameFunc) error {
	b.fn = fn
	b.last = time.Now()
	err := ebiten.RunGame(b)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}

// Update implements ebiten.Game
func (b *WindowBackend) Update() error {
	in := b.PollInput()
	if in.Quit {
		return ebiten.Termination
	}

	now := time.Now()
	frame, err := b.fn(now.Sub(b.last), in)
	b.last = now
	if errors.Is(err, ErrQuit) {
		return ebiten.Termination
	}
	if err != nil {
		return err
	}
	return b.Present(frame)
}

// Layout implements ebiten.Game
func (b *WindowBackend) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Present implements Backend, the frame is drawn on the next Draw
func (b *WindowBackend) Present(f *render.Frame) error {
	b.mu.Lock()
	b.frame = f
	b.mu.Unlock()
	return nil
}

// PollInput implements Backend
func (b *WindowBackend) PollInput() core.InputState {
	var in core.InputState
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		in.MoveX--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		in.MoveX++
	}
	in.Jump = ebiten.IsKeyPressed(ebiten.KeySpace) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW)
	in.Pause = inpututil.IsKeyJustPressed(ebiten.KeyP)
	in.Debug = inpututil.IsKeyJustPressed(ebiten.KeyF1) || inpututil.IsKeyJustPressed(ebiten.KeyBackquote)
	in.Quit = inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	return in
}

// PlaySound implements Backend
func (b *WindowBackend) PlaySound(id core.SoundID) bool {
	if b.audioCtx == nil || id >= core.SoundCount || len(b.cues[id]) == 0 {
		return false
	}
	b.audioCtx.NewPlayerFromBytes(b.cues[id]).Play()
	return true
}

// Draw implements ebiten.Game
func (b *WindowBackend) Draw(screen *ebiten.Image) {
	b.mu.Lock()
	f := b.frame
	b.mu.Unlock()
	if f == nil {
		return
	}

	screen.Fill(rgba(f.Background, 1))
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	cam := newCamera(f, sw, sh)

	for _, t := range f.Tiles {
		drawTile(screen, cam, f.TileSize, t)
	}
	for i := range f.Sprites {
		s := &f.Sprites[i]
		x, y, w, h := cam.rect(s.Min, s.Size)
		vector.DrawFilledRect(screen, x, y, w, h, rgba(s.Color, 1), false)
	}
	for _, p := range f.Particles {
		x, y := cam.point(p.Pos)
		r := float32(max(p.Size, 0.05) * cam.scale / 2)
		vector.DrawFilledCircle(screen, x, y, r, rgba(p.Color, 1-p.Fade), true)
	}

	if len(f.Debug) > 0 {
		ebitenutil.DebugPrintAt(screen, strings.Join(f.Debug, "\n"), 4, 4)
	}
	if f.Paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED", sw/2-18, sh/2)
	}
}

// camera maps world units (y up) to screen pixels (y down)
type camera struct {
	origin vmath.Vec2
	scale  float64
	height float64
}

func newCamera(f *render.Frame, sw, sh int) camera {
	ts := f.TileSize
	if ts <= 0 {
		ts = 1
	}
	scale := parameter.PixelsPerTile / ts
	world := f.WorldSize()
	axis := func(focus, view, extent float64) float64 {
		if view >= extent {
			return (extent - view) / 2
		}
		return min(max(focus-view/2, 0), extent-view)
	}
	viewW, viewH := float64(sw)/scale, float64(sh)/scale
	return camera{
		origin: vmath.V(axis(f.Focus[0], viewW, world[0]), axis(f.Focus[1], viewH, world[1])),
		scale:  scale,
		height: float64(sh),
	}
}

func (c camera) point(p vmath.Vec2) (float32, float32) {
	x := (p[0] - c.origin[0]) * c.scale
	y := c.height - (p[1]-c.origin[1])*c.scale
	return float32(x), float32(y)
}

// rect returns the screen rectangle of a world box given its bottom-left corner
func (c camera) rect(minCorner, size vmath.Vec2) (x, y, w, h float32) {
	x, y = c.point(minCorner.Add(vmath.V(0, size[1])))
	return x, y, float32(size[0] * c.scale), float32(size[1] * c.scale)
}

var (
	tileSolid  = color.RGBA{R: 86, G: 92, B: 112, A: 255}
	tileOneWay = color.RGBA{R: 156, G: 124, B: 76, A: 255}
	tileSlope  = color.RGBA{R: 112, G: 116, B: 96, A: 255}
)

func drawTile(screen *ebiten.Image, cam camera, ts float64, t render.TileDraw) {
	corner := vmath.V(float64(t.X)*ts, float64(t.Y)*ts)
	switch t.Kind {
	case tilemap.Solid:
		x, y, w, h := cam.rect(corner, vmath.V(ts, ts))
		vector.DrawFilledRect(screen, x, y, w, h, tileSolid, false)
	case tilemap.OneWay:
		x, y, w, _ := cam.rect(corner, vmath.V(ts, ts))
		vector.DrawFilledRect(screen, x, y, w, float32(cam.scale*ts/6), tileOneWay, false)
	case tilemap.Slope:
		var path vector.Path
		lx := vmath.SlopeHeight(t.Angle, ts, 0)
		rx := vmath.SlopeHeight(t.Angle, ts, ts)
		x0, y0 := cam.point(corner)
		x1, y1 := cam.point(corner.Add(vmath.V(ts, 0)))
		x2, y2 := cam.point(corner.Add(vmath.V(ts, rx)))
		x3, y3 := cam.point(corner.Add(vmath.V(0, lx)))
		path.MoveTo(x0, y0)
		path.LineTo(x1, y1)
		path.LineTo(x2, y2)
		path.LineTo(x3, y3)
		path.Close()
		vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
		for i := range vs {
			vs[i].ColorR = float32(tileSlope.R) / 255
			vs[i].ColorG = float32(tileSlope.G) / 255
			vs[i].ColorB = float32(tileSlope.B) / 255
			vs[i].ColorA = 1
		}
		screen.DrawTriangles(vs, is, whitePixel(), &ebiten.DrawTrianglesOptions{})
	}
}

var (
	whiteOnce  sync.Once
	whiteImage *ebiten.Image
)

// whitePixel is the source image for solid-color triangles
func whitePixel() *ebiten.Image {
	whiteOnce.Do(func() {
		whiteImage = ebiten.NewImage(1, 1)
		whiteImage.Fill(color.White)
	})
	return whiteImage
}

func rgba(c uint32, alpha float64) color.RGBA {
	a := uint8(min(max(alpha, 0), 1) * 255)
	rgb := render.Hex(c)
	// color.RGBA is alpha-premultiplied
	return color.RGBA{
		R: uint8(uint32(rgb.R) * uint32(a) / 255),
		G: uint8(uint32(rgb.G) * uint32(a) / 255),
		B: uint8(uint32(rgb.B) * uint32(a) / 255),
		A: a,
	}
}
