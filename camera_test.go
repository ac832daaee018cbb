package ornament

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestCameraProjectCenter(t *testing.T) {
	c := NewCamera(800, 600)
	sx, sy, depth, ok := c.Project(Point3{})
	if !ok {
		t.Fatal("origin should be visible")
	}
	if math.Abs(sx-400) > 1e-9 || math.Abs(sy-300) > 1e-9 {
		t.Errorf("Project(origin) = (%f, %f), want (400, 300)", sx, sy)
	}
	if depth <= 0 || depth >= 1 {
		t.Errorf("depth = %f, want inside (0, 1)", depth)
	}
}

func TestCameraProjectScreenAxes(t *testing.T) {
	c := NewCamera(800, 600)
	_, upY, _, _ := c.Project(Point3{0, 1, 0})
	rightX, _, _, _ := c.Project(Point3{1, 0, 0})
	if upY >= 300 {
		t.Errorf("point above origin at sy = %f, want above center (y down)", upY)
	}
	if rightX <= 400 {
		t.Errorf("point right of origin at sx = %f, want right of center", rightX)
	}
}

func TestCameraProjectBehind(t *testing.T) {
	c := NewCamera(800, 600)
	if _, _, _, ok := c.Project(Point3{0, 0, 20}); ok {
		t.Error("point behind the camera should not project")
	}
	if _, _, _, ok := c.Project(Point3{0, 0, -200}); ok {
		t.Error("point beyond the far plane should not project")
	}
}

func TestCameraPixelScale(t *testing.T) {
	c := NewCamera(800, 600)
	want := 600 / (2 * 10 * math.Tan(DefaultFovY*math.Pi/360))
	if got := c.PixelScale(Point3{}); math.Abs(got-want) > 1e-9 {
		t.Errorf("PixelScale = %f, want %f", got, want)
	}
	if got := c.PixelScale(c.Eye); got != 0 {
		t.Errorf("PixelScale at eye = %f, want 0", got)
	}
	near := c.PixelScale(Point3{0, 0, 5})
	if near <= want {
		t.Errorf("closer point scale %f should exceed %f", near, want)
	}
}

func TestCameraDolly(t *testing.T) {
	c := NewCamera(800, 600)
	c.DollyTo(20, 1, ease.Linear)

	c.Update(0.5)
	if d := c.Eye.Len(); math.Abs(d-15) > 1e-4 {
		t.Errorf("distance mid-dolly = %f, want 15", d)
	}
	c.Update(0.5)
	if d := c.Eye.Len(); math.Abs(d-20) > 1e-4 {
		t.Errorf("distance after dolly = %f, want 20", d)
	}
	if c.dolly != nil {
		t.Error("dolly should clear when finished")
	}
	if c.Eye[0] != 0 || c.Eye[1] != 0 {
		t.Errorf("dolly changed direction: eye = %v", c.Eye)
	}
}

func TestCameraSetViewport(t *testing.T) {
	c := NewCamera(100, 100)
	c.SetViewport(400, 200)
	sx, sy, _, _ := c.Project(Point3{})
	if math.Abs(sx-200) > 1e-9 || math.Abs(sy-100) > 1e-9 {
		t.Errorf("center = (%f, %f), want (200, 100)", sx, sy)
	}
}
