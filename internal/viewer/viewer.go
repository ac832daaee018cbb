// Package viewer hosts a Scene in an ebiten window.
package viewer

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/ornament"
	"github.com/phanxgames/ornament/internal/prefs"
	"github.com/tanema/gween/ease"
)

// Options configures the window host.
type Options struct {
	Width, Height int
	Title         string
	ScreenshotDir string
	// PhotoDir receives copies of image files dropped onto the window.
	PhotoDir string
	// Prefs, when set, restores and saves tracking, HUD and photo state.
	Prefs *prefs.Store
	Log   *slog.Logger
}

// DefaultOptions returns a 1280x720 window writing screenshots to
// "screenshots".
func DefaultOptions() Options {
	return Options{Width: 1280, Height: 720, Title: "ornament", ScreenshotDir: "screenshots", PhotoDir: "photos"}
}

// Eye distances for the two formations. The nebula photo ring is wider
// than the tree camera's eye distance.
const (
	treeDistance   = ornament.DefaultCameraDistance
	nebulaDistance = 18.0
	dollyDuration  = 2.0
)

// dotSize is the edge length of the particle sprite in pixels.
const dotSize = 8

var background = color.RGBA{R: 2, G: 4, B: 12, A: 255}

// controls is the input sampled from the window for one tick.
type controls struct {
	toggle, openPalm, closedFist, release bool
	screenshot, hud, tracking, quit       bool

	cursorX, cursorY float64
	cursorIn         bool
	photos           []string
}

// Game implements ebiten.Game for a Scene.
type Game struct {
	scene  *ornament.Scene
	camera *ornament.Camera
	opts   Options
	log    *slog.Logger

	dot      *ebiten.Image
	hud      hud
	tracking bool
	cursorIn bool
	phase    ornament.Phase
	width    int
	height   int
}

// New creates a Game for scene.
func New(scene *ornament.Scene, opts Options) *Game {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = DefaultOptions().Width, DefaultOptions().Height
	}
	if opts.ScreenshotDir == "" {
		opts.ScreenshotDir = DefaultOptions().ScreenshotDir
	}
	if opts.PhotoDir == "" {
		opts.PhotoDir = DefaultOptions().PhotoDir
	}
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	g := &Game{
		scene:  scene,
		camera: ornament.NewCamera(opts.Width, opts.Height),
		opts:   opts,
		log:    log,
		phase:  scene.Phase(),
		width:  opts.Width,
		height: opts.Height,
	}
	g.hud.visible = true
	if opts.Prefs != nil {
		p := opts.Prefs.Prefs()
		g.tracking = p.CameraEnabled
		g.hud.visible = p.ShowHUD
		if len(p.UserPhotos) > 0 {
			scene.SetUserPhotos(p.UserPhotos)
		}
	}
	return g
}

// Run opens the window and blocks until it is closed. Preferences are saved
// on exit.
func Run(scene *ornament.Scene, opts Options) error {
	g := New(scene, opts)
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle(g.opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	if g.opts.Prefs != nil {
		if serr := g.opts.Prefs.Save(); serr != nil {
			g.log.Warn("failed to save prefs", "error", serr)
		}
	}
	return err
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	c := g.sample()
	if c.quit {
		return ebiten.Termination
	}
	g.apply(c)

	dt := 1.0 / float64(ebiten.TPS())
	g.scene.Update(dt)
	g.followPhase()
	g.camera.Update(float32(dt))
	g.hud.update(dt, g.scene.Status(), g.tracking)
	return nil
}

// sample reads the keyboard, cursor and dropped files.
func (g *Game) sample() controls {
	c := controls{
		toggle:     inpututil.IsKeyJustPressed(ebiten.KeySpace),
		openPalm:   inpututil.IsKeyJustPressed(ebiten.KeyO),
		closedFist: inpututil.IsKeyJustPressed(ebiten.KeyF),
		release:    inpututil.IsKeyJustPressed(ebiten.KeyN),
		screenshot: inpututil.IsKeyJustPressed(ebiten.KeyP),
		hud:        inpututil.IsKeyJustPressed(ebiten.KeyH),
		tracking:   inpututil.IsKeyJustPressed(ebiten.KeyC),
		quit:       inpututil.IsKeyJustPressed(ebiten.KeyEscape),
	}
	x, y := ebiten.CursorPosition()
	c.cursorX, c.cursorY = float64(x), float64(y)
	c.cursorIn = x >= 0 && y >= 0 && x < g.width && y < g.height
	if dropped := ebiten.DroppedFiles(); dropped != nil {
		photos, err := importPhotos(dropped, g.opts.PhotoDir)
		if err != nil {
			g.log.Error("failed to import dropped photos", "error", err)
		}
		c.photos = photos
	}
	return c
}

// followPhase dollies the camera out when the scene starts blooming and
// back in when it starts collapsing.
func (g *Game) followPhase() {
	p := g.scene.Phase()
	if p == g.phase {
		return
	}
	g.phase = p
	switch p {
	case ornament.PhaseBlooming:
		g.camera.DollyTo(nebulaDistance, dollyDuration, ease.InOutQuad)
	case ornament.PhaseCollapsing:
		g.camera.DollyTo(treeDistance, dollyDuration, ease.InOutQuad)
	}
}

// apply turns sampled controls into scene input. With tracking on the
// cursor stands in for the hand.
func (g *Game) apply(c controls) {
	s := g.scene
	if c.toggle {
		s.InjectToggle()
	}
	if c.openPalm {
		s.InjectGesture(ornament.GestureOpenPalm)
	}
	if c.closedFist {
		s.InjectGesture(ornament.GestureClosedFist)
	}
	if c.release {
		s.InjectGesture(ornament.GestureNone)
	}
	if c.screenshot {
		s.Screenshot("manual")
	}
	if c.hud {
		g.hud.visible = !g.hud.visible
		if g.opts.Prefs != nil {
			g.opts.Prefs.SetShowHUD(g.hud.visible)
		}
	}
	if c.tracking {
		g.tracking = !g.tracking
		g.log.Info("hand tracking", "enabled", g.tracking)
		if g.opts.Prefs != nil {
			g.opts.Prefs.SetCameraEnabled(g.tracking)
		}
	}

	switch {
	case c.cursorIn:
		p := ornament.PointerFromScreen(c.cursorX, c.cursorY, float64(g.width), float64(g.height))
		s.InjectPointer(p.X, p.Y)
		if g.tracking {
			s.InjectHand(c.cursorX/float64(g.width), 1-c.cursorY/float64(g.height))
		}
	case g.cursorIn:
		s.InjectPointerLost()
	}
	g.cursorIn = c.cursorIn

	if len(c.photos) > 0 {
		s.InjectPhotos(c.photos...)
		if g.opts.Prefs != nil {
			g.opts.Prefs.SetUserPhotos(append(append([]string(nil), c.photos...), s.UserPhotos()...))
		}
	}
}

var photoExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".gif": true}

// droppedPhotos lists the image files in a dropped file system, sorted by
// path. Paths are relative to the drop root.
func droppedPhotos(fsys fs.FS) []string {
	var out []string
	_ = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if photoExts[strings.ToLower(path.Ext(p))] {
			out = append(out, p)
		}
		return nil
	})
	sort.Strings(out)
	return out
}

// importPhotos copies the dropped images into dir and returns absolute
// file:// URLs for the copies. Dropped file systems are only readable while
// the drop is handled, so the copies outlive the session. Nested paths are
// flattened with underscores. Files that fail to copy are skipped and
// reported in the returned error.
func importPhotos(fsys fs.FS, dir string) ([]string, error) {
	names := droppedPhotos(fsys)
	if len(names) == 0 {
		return nil, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("photo dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("photo dir %s: %w", dir, err)
	}
	var urls []string
	var errs []error
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", name, err))
			continue
		}
		dst := filepath.Join(abs, strings.ReplaceAll(name, "/", "_"))
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", dst, err))
			continue
		}
		u := url.URL{Scheme: "file", Path: filepath.ToSlash(dst)}
		urls = append(urls, u.String())
	}
	return urls, errors.Join(errs...)
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	if g.dot == nil {
		g.dot = ebiten.NewImage(dotSize, dotSize)
		g.dot.Fill(color.White)
	}

	groups, buffers := g.scene.Groups(), g.scene.Buffers()
	for gi := range groups {
		buf := buffers[gi]
		for i := 0; i < buf.Len(); i++ {
			tr := buf.Transform(i)
			if tr.Scale <= 0 {
				continue
			}
			g.drawDot(screen, tr.Position, tr.Scale, buf.Color(i), 1)
		}
	}

	if top := g.scene.Topper(); top.Scale > 0 {
		g.drawDot(screen, top.Position, 0.5*top.Scale, ornament.Color{R: 1, G: 0.84, B: 0, A: 1}, 1)
	}
	if core := g.scene.Core(); core.Visible && core.Opacity > 0 {
		p := ornament.Point3{core.Offset.X, core.Offset.Y, 0}
		g.drawDot(screen, p, core.Scale*5, ornament.Color{R: 1, G: 0.9, B: 0.6, A: 1}, core.Opacity)
	}

	g.hud.draw(screen)

	if labels := g.scene.TakeScreenshots(); len(labels) > 0 {
		paths, err := writeScreenshots(g.opts.ScreenshotDir, labels, capture(screen), time.Now())
		if err != nil {
			g.log.Error("screenshot failed", "error", err)
		}
		for _, p := range paths {
			g.log.Info("screenshot written", "path", p)
		}
	}
}

// drawDot draws the particle sprite at p, sized size scene units, with
// additive blending so overlapping particles glow.
func (g *Game) drawDot(screen *ebiten.Image, p ornament.Point3, size float64, c ornament.Color, alpha float64) {
	sx, sy, _, ok := g.camera.Project(p)
	if !ok {
		return
	}
	px := size * g.camera.PixelScale(p)
	if px < 1 {
		px = 1
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-dotSize/2, -dotSize/2)
	op.GeoM.Scale(px/dotSize, px/dotSize)
	op.GeoM.Translate(sx, sy)
	op.ColorScale.Scale(float32(c.R*alpha), float32(c.G*alpha), float32(c.B*alpha), float32(c.A*alpha))
	op.Blend = ebiten.BlendLighter
	screen.DrawImage(g.dot, op)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.camera.SetViewport(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
