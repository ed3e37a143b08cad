package renderer

import (
	"fmt"
	"log/slog"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wriggle/config"
)

// PanelAction is what the control panel asks the coordinator to do after
// a frame. Zero value means no action.
type PanelAction struct {
	ToggleRun  bool
	ApplyReset bool // Reset with the panel's edited parameters
}

// Panel is the raygui parameter panel on the right edge of the window.
// It edits a pending copy of the simulation parameters; nothing reaches
// the coordinator until Apply.
type Panel struct {
	x     float32
	width float32

	sim       config.SimulationConfig
	presetDir string
	presets   []string
	presetIdx int
	status    string
}

// NewPanel creates the panel with the given pending parameters.
func NewPanel(x, width float32, cfg *config.Config) *Panel {
	p := &Panel{
		x:         x,
		width:     width,
		sim:       cfg.Simulation,
		presetDir: cfg.Presets.Dir,
	}
	p.refreshPresets()
	return p
}

func (p *Panel) refreshPresets() {
	names, err := config.ListPresets(p.presetDir)
	if err != nil {
		slog.Error("listing presets", "error", err)
		return
	}
	p.presets = names
	if p.presetIdx >= len(p.presets) {
		p.presetIdx = 0
	}
}

// slider draws one labeled parameter slider and returns the new value.
func (p *Panel) slider(y *float32, label string, value, min, max float32, format string) float32 {
	rl.DrawText(label, int32(p.x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: p.x, Y: *y, Width: p.width - 70, Height: 20},
		"", "",
		value, min, max,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(p.x+p.width-60), int32(*y+2), 16, rl.LightGray)
	*y += 30
	return v
}

// Draw renders the panel and returns the requested action. Call between
// BeginDrawing and EndDrawing.
func (p *Panel) Draw(running bool) PanelAction {
	var action PanelAction
	y := float32(10)

	rl.DrawText("Parameters", int32(p.x), int32(y), 20, rl.White)
	y += 30

	p.sim.IterationCount = int(p.slider(&y, "Iterations per step",
		float32(p.sim.IterationCount), 10, 500, "%.0f"))
	p.sim.MovementLimit = float64(p.slider(&y, "Movement limit (rad)",
		float32(p.sim.MovementLimit), 0.01, 0.3, "%.2f"))
	p.sim.SegmentSize = float64(p.slider(&y, "Segment size",
		float32(p.sim.SegmentSize), 4, 40, "%.0f"))
	p.sim.OrganismCount = int(p.slider(&y, "Organisms at reset",
		float32(p.sim.OrganismCount), 1, 200, "%.0f"))
	p.sim.MinOrganismCount = int(p.slider(&y, "Minimum organisms",
		float32(p.sim.MinOrganismCount), 0, 100, "%.0f"))
	p.sim.EnergyGainRate = int(p.slider(&y, "Energy gain rate",
		float32(p.sim.EnergyGainRate), 0, 20, "%.0f"))
	p.sim.DivisionThreshold = int(p.slider(&y, "Division threshold",
		float32(p.sim.DivisionThreshold), 0, 5000, "%.0f"))
	p.sim.ShelterCount = int(p.slider(&y, "Shelters at reset",
		float32(p.sim.ShelterCount), 0, 30, "%.0f"))

	y += 5
	if gui.Button(rl.Rectangle{X: p.x, Y: y, Width: 120, Height: 30}, startStopLabel(running)) {
		action.ToggleRun = true
	}
	if gui.Button(rl.Rectangle{X: p.x + 130, Y: y, Width: 120, Height: 30}, "Apply + Reset") {
		action.ApplyReset = true
	}
	y += 45

	rl.DrawLine(int32(p.x), int32(y), int32(p.x+p.width-20), int32(y), rl.DarkGray)
	y += 15

	rl.DrawText("Presets", int32(p.x), int32(y), 16, rl.White)
	y += 25

	name := "(none)"
	if len(p.presets) > 0 {
		name = p.presets[p.presetIdx]
	}
	if gui.Button(rl.Rectangle{X: p.x, Y: y, Width: 30, Height: 24}, "<") && len(p.presets) > 0 {
		p.presetIdx = (p.presetIdx + len(p.presets) - 1) % len(p.presets)
	}
	rl.DrawText(name, int32(p.x+40), int32(y+4), 16, rl.LightGray)
	if gui.Button(rl.Rectangle{X: p.x + p.width - 50, Y: y, Width: 30, Height: 24}, ">") && len(p.presets) > 0 {
		p.presetIdx = (p.presetIdx + 1) % len(p.presets)
	}
	y += 34

	if gui.Button(rl.Rectangle{X: p.x, Y: y, Width: 120, Height: 30}, "Load") {
		p.loadPreset()
	}
	if gui.Button(rl.Rectangle{X: p.x + 130, Y: y, Width: 120, Height: 30}, "Save New") {
		p.savePreset()
	}
	y += 40

	if p.status != "" {
		rl.DrawText(p.status, int32(p.x), int32(y), 12, rl.Gray)
	}

	action.ToggleRun = action.ToggleRun || rl.IsKeyPressed(rl.KeySpace)
	return action
}

// Sim returns the panel's pending parameters, used by Apply + Reset.
func (p *Panel) Sim() config.SimulationConfig { return p.sim }

func (p *Panel) loadPreset() {
	if len(p.presets) == 0 {
		p.status = "no presets saved"
		return
	}
	name := p.presets[p.presetIdx]
	sim, err := config.LoadPreset(p.presetDir, name)
	if err != nil {
		slog.Error("loading preset", "name", name, "error", err)
		p.status = "load failed: " + name
		return
	}
	p.sim = sim
	p.status = "loaded " + name
}

func (p *Panel) savePreset() {
	name := fmt.Sprintf("preset-%02d", len(p.presets)+1)
	if err := config.SavePreset(p.presetDir, name, p.sim); err != nil {
		slog.Error("saving preset", "name", name, "error", err)
		p.status = "save failed"
		return
	}
	p.refreshPresets()
	for i, n := range p.presets {
		if n == name {
			p.presetIdx = i
		}
	}
	p.status = "saved " + name
}

func startStopLabel(running bool) string {
	if running {
		return "Stop"
	}
	return "Start"
}
