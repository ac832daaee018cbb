package viewer

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/ornament"
)

// hudRefresh is how often, in seconds, the HUD text is rebuilt.
const hudRefresh = 0.5

// hud is the status overlay: phase, gesture, progress and frame rates.
type hud struct {
	img     *ebiten.Image
	text    string
	elapsed float64
	visible bool
}

// hudText formats the overlay lines.
func hudText(st ornament.Status, tracking bool, fps, tps float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Phase: %s (%3.0f%%)\n", st.Phase, st.Progress*100)
	fmt.Fprintf(&b, "Gesture: %s\n", st.Gesture)
	if tracking {
		b.WriteString("Tracking: on\n")
	} else {
		b.WriteString("Tracking: off\n")
	}
	fmt.Fprintf(&b, "Photos: %d\n", len(st.Photos))
	fmt.Fprintf(&b, "FPS: %.1f\nTPS: %.1f", fps, tps)
	return b.String()
}

// update rebuilds the text every hudRefresh seconds.
func (h *hud) update(dt float64, st ornament.Status, tracking bool) {
	h.elapsed += dt
	if h.text != "" && h.elapsed < hudRefresh {
		return
	}
	h.elapsed = 0
	h.text = hudText(st, tracking, ebiten.ActualFPS(), ebiten.ActualTPS())
}

func (h *hud) draw(screen *ebiten.Image) {
	if !h.visible || h.text == "" {
		return
	}
	if h.img == nil {
		h.img = ebiten.NewImage(180, 100)
	}
	h.img.Clear()
	// Semi-transparent background for readability
	h.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(h.img, h.text)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(8, 8)
	screen.DrawImage(h.img, op)
}
