// Package termview renders a Scene into a terminal with tcell.
package termview

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/ornament"
)

// cellAspect is the height of a terminal cell relative to its width.
const cellAspect = 2.0

// cameraDistance pulls the camera back far enough to fit the topper.
const cameraDistance = 14.0

// glyphs per particle group; groups not listed use '.'.
var glyphs = map[string]rune{
	"round-gems":  '.',
	"accent-gems": '*',
	"ornaments":   'o',
	"drape-beads": ':',
	"photos":      '#',
}

// View draws a Scene on a tcell screen and routes keys and mouse motion back
// into it.
type View struct {
	screen tcell.Screen
	scene  *ornament.Scene
	camera *ornament.Camera
	log    *slog.Logger

	depth   []float64
	width   int
	height  int
	showHUD bool
}

// New creates a View for scene on an initialized screen.
func New(screen tcell.Screen, scene *ornament.Scene, log *slog.Logger) *View {
	v := &View{
		screen:  screen,
		scene:   scene,
		camera:  ornament.NewCamera(1, 1),
		log:     log,
		showHUD: true,
	}
	v.camera.Eye = ornament.Point3{0, 0, cameraDistance}
	v.resize()
	return v
}

// SetShowHUD toggles the status line.
func (v *View) SetShowHUD(show bool) { v.showHUD = show }

// Camera returns the view camera.
func (v *View) Camera() *ornament.Camera { return v.camera }

func (v *View) resize() {
	w, h := v.screen.Size()
	v.width, v.height = w, h
	// Project into square pixels, then fold rows back into cells.
	v.camera.SetViewport(w, int(float64(h)*cellAspect))
	if n := w * h; cap(v.depth) < n {
		v.depth = make([]float64, n)
	} else {
		v.depth = v.depth[:n]
	}
}

// Draw renders the current scene state. Nearer particles win a cell.
func (v *View) Draw() {
	v.screen.Clear()
	for i := range v.depth {
		v.depth[i] = math.Inf(1)
	}

	groups, buffers := v.scene.Groups(), v.scene.Buffers()
	for gi, g := range groups {
		glyph, ok := glyphs[g.Name()]
		if !ok {
			glyph = '.'
		}
		buf := buffers[gi]
		for i := 0; i < buf.Len(); i++ {
			tr := buf.Transform(i)
			if tr.Scale <= 0 {
				continue
			}
			v.plot(tr.Position, glyph, buf.Color(i))
		}
	}

	if top := v.scene.Topper(); top.Scale > 0.5 {
		v.overlay(top.Position, '+', tcell.ColorGold)
	}
	if v.showHUD {
		v.drawStatus()
	}
}

func (v *View) plot(p ornament.Point3, glyph rune, c ornament.Color) {
	sx, sy, depth, ok := v.camera.Project(p)
	if !ok {
		return
	}
	x, y := int(sx), int(sy/cellAspect)
	if x < 0 || y < 0 || x >= v.width || y >= v.height {
		return
	}
	idx := y*v.width + x
	if depth >= v.depth[idx] {
		return
	}
	v.depth[idx] = depth
	r, g, b, _ := c.RGBA8()
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	v.screen.SetContent(x, y, glyph, nil, style)
}

// overlay draws glyph at p regardless of depth.
func (v *View) overlay(p ornament.Point3, glyph rune, c tcell.Color) {
	sx, sy, _, ok := v.camera.Project(p)
	if !ok {
		return
	}
	x, y := int(sx), int(sy/cellAspect)
	if x < 0 || y < 0 || x >= v.width || y >= v.height {
		return
	}
	v.screen.SetContent(x, y, glyph, nil, tcell.StyleDefault.Foreground(c).Bold(true))
}

// StatusLine formats the HUD text.
func (v *View) StatusLine() string {
	return fmt.Sprintf(" %s | %s | %3.0f%% | photos %d | space toggle, o/f gesture, q quit",
		v.scene.Phase(), v.scene.Gesture(), v.scene.Progress()*100, len(v.scene.Photos()))
}

func (v *View) drawStatus() {
	y := v.height - 1
	if y < 0 {
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray)
	x := 0
	for _, r := range v.StatusLine() {
		if x >= v.width {
			break
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < v.width; x++ {
		v.screen.SetContent(x, y, ' ', nil, style)
	}
}

// HandleEvent applies a terminal event to the scene. It returns true when
// the user asked to quit.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return true
			case ' ':
				v.scene.InjectToggle()
			case 'o':
				v.scene.InjectGesture(ornament.GestureOpenPalm)
			case 'f':
				v.scene.InjectGesture(ornament.GestureClosedFist)
			case 'n':
				v.scene.InjectGesture(ornament.GestureNone)
			case 'h':
				v.showHUD = !v.showHUD
			}
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		p := ornament.PointerFromScreen(float64(x)+0.5, float64(y)+0.5, float64(v.width), float64(v.height))
		v.scene.InjectPointer(p.X, p.Y)
	case *tcell.EventResize:
		v.screen.Sync()
		v.resize()
	}
	return false
}

// Run drives the scene at fps until ctx is cancelled or the user quits.
func (v *View) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 30
	}
	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go v.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	last := time.Now()

	v.log.Info("terminal view started", "width", v.width, "height", v.height, "fps", fps)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok || v.HandleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			v.scene.Update(dt)
			v.Draw()
			v.screen.Show()
		}
	}
}
