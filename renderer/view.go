// Package renderer draws published ecosystem snapshots with raylib. It
// only ever reads snapshots; all mutation goes back through the
// coordinator.
package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wriggle/camera"
	"github.com/pthm-cable/wriggle/config"
	"github.com/pthm-cable/wriggle/ecosystem"
	"github.com/pthm-cable/wriggle/geom"
)

// View renders shelters, organisms, and the HUD through a pan/zoom
// camera. panelWidth is reserved on the right for the control panel.
type View struct {
	cam     *camera.Camera
	screenH int32

	energyFull int
}

// NewView sizes the viewport for the given screen and arena.
func NewView(cfg *config.Config, panelWidth int32) *View {
	arena := float32(cfg.Arena.Size)
	v := &View{
		cam: camera.New(
			float32(int32(cfg.Screen.Width)-panelWidth),
			float32(cfg.Screen.Height),
			arena, arena,
		),
		screenH:    int32(cfg.Screen.Height),
		energyFull: cfg.Simulation.DivisionThreshold,
	}
	if v.energyFull <= 0 {
		v.energyFull = 1
	}
	return v
}

// Camera exposes the view camera for input handling.
func (v *View) Camera() *camera.Camera { return v.cam }

// HandleInput applies mouse wheel zoom, right-drag pan, and the R key
// reset. Input over the control panel is ignored.
func (v *View) HandleInput() {
	mouse := rl.GetMousePosition()
	if mouse.X > v.cam.ViewportW {
		return
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		v.cam.Pan(-delta.X, -delta.Y)
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.cam.Reset()
	}
}

// toScreen converts an arena position to window coordinates.
func (v *View) toScreen(p geom.Vec2) rl.Vector2 {
	sx, sy := v.cam.WorldToScreen(p.X, p.Y)
	return rl.Vector2{X: sx, Y: sy}
}

// Draw renders one snapshot frame. Call between BeginDrawing and
// EndDrawing.
func (v *View) Draw(snap *ecosystem.Snapshot, running bool) {
	v.drawArena()
	for _, s := range snap.Shelters {
		v.drawShelter(s.Pos, s.Size)
	}
	for _, o := range snap.Organisms {
		v.drawOrganism(o)
	}
	v.drawHUD(snap, running)
}

func (v *View) drawArena() {
	topLeft := v.toScreen(geom.Vec2{})
	size := v.cam.WorldW * v.cam.Zoom
	rl.DrawRectangleLines(int32(topLeft.X), int32(topLeft.Y), int32(size), int32(size), rl.DarkGray)
}

func (v *View) drawShelter(pos, size geom.Vec2) {
	if !v.cam.IsVisible(pos.X+size.X/2, pos.Y+size.Y/2, size.X+size.Y) {
		return
	}
	p := v.toScreen(pos)
	rl.DrawRectangleV(p,
		rl.Vector2{X: size.X * v.cam.Zoom, Y: size.Y * v.cam.Zoom},
		rl.Color{R: 40, G: 70, B: 110, A: 120})
}

func (v *View) drawOrganism(o ecosystem.OrganismState) {
	if len(o.Points) == 0 {
		return
	}
	// Cull on the head with a radius generous enough for any chain.
	if !v.cam.IsVisible(o.Points[0].X, o.Points[0].Y, 200) {
		return
	}
	c := v.energyColor(o.Energy)
	for i := 0; i < len(o.Points)-1; i++ {
		rl.DrawLineV(v.toScreen(o.Points[i]), v.toScreen(o.Points[i+1]), c)
	}
	rl.DrawCircleV(v.toScreen(o.Points[0]), 2.5, c)
}

// energyColor fades from red (starving) through white to green
// (division-ready).
func (v *View) energyColor(energy int) rl.Color {
	t := float32(energy) / float32(v.energyFull)
	if t > 1 {
		t = 1
	}
	if t < 0 {
		t = 0
	}
	switch {
	case t < 0.25:
		return rl.Color{R: 230, G: 90, B: 70, A: 255}
	case t < 0.75:
		return rl.RayWhite
	default:
		return rl.Color{R: 110, G: 220, B: 120, A: 255}
	}
}

func (v *View) drawHUD(snap *ecosystem.Snapshot, running bool) {
	rl.DrawText("Wriggle", 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Organisms: %d | Shelters: %d", len(snap.Organisms), len(snap.Shelters)),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Moves: %d | Moves/s: %.0f | FPS: %d",
			snap.MoveCounter, snap.MovesPerSecond, rl.GetFPS()),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Idle"
	statusColor := rl.Gray
	if running {
		statusText = "Running"
		statusColor = rl.Yellow
	}
	rl.DrawText(statusText, 10, 75, 16, statusColor)

	rl.DrawText("[Space] start/stop  [O] add organism  [H] add shelter  [R] reset view  [Wheel] zoom  [RMB] pan",
		10, v.screenH-25, 14, rl.Gray)
}
