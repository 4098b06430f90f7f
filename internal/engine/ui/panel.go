package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/windmoth/internal/logger"
	"github.com/Faultbox/windmoth/internal/params"
)

// Stats is the read-only status shown at the top of the panel.
type Stats struct {
	Trails  int
	Phase   string
	Elapsed float32 // seconds since the first frame
}

// Panel draws the parameter editor window.
type Panel struct {
	form *Form
	log  *zap.Logger
}

// NewPanel creates a panel editing store.
func NewPanel(store *params.Store) *Panel {
	return &Panel{
		form: NewForm(store),
		log:  logger.Named("panel"),
	}
}

// Draw emits the panel widgets. Must be called inside an ImGui frame.
func (p *Panel) Draw(stats Stats) {
	p.form.Refresh()

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondFirstUseEver, imgui.NewVec2(0, 0))
	imgui.SetNextWindowBgAlpha(0.85)
	if imgui.BeginV("Wind", nil, imgui.WindowFlagsAlwaysAutoResize) {
		imgui.Text(fmt.Sprintf("FPS: %.0f", imgui.CurrentIO().Framerate()))
		imgui.Text(fmt.Sprintf("Trails: %d", stats.Trails))
		imgui.Text(fmt.Sprintf("Time: %.1fs", stats.Elapsed))
		imgui.Text("Model: " + stats.Phase)
		imgui.TextDisabled("(double-click to tumble, R to reset view)")
		imgui.Separator()

		for i, field := range p.form.numeric {
			p.slider(i, field)
		}
		imgui.Separator()
		for i, field := range params.ColourFields() {
			if imgui.ColorEdit3(field.String(), p.form.Colour(i)) {
				p.report(field, p.form.ColourChanged(i))
			}
		}
	}
	imgui.End()
}

func (p *Panel) slider(i int, field params.Field) {
	r := params.RangeOf(field)
	v := p.form.Value(i)

	var changed bool
	if field == params.FieldTrailCount {
		n := int32(*v)
		if imgui.SliderIntV(field.String(), &n, int32(r.Min), int32(r.Max), "%d", imgui.SliderFlagsAlwaysClamp) {
			*v = float32(n)
			changed = true
		}
	} else {
		changed = imgui.SliderFloatV(field.String(), v, r.Min, r.Max, stepFormat(r.Step), imgui.SliderFlagsAlwaysClamp)
	}

	if changed {
		p.report(field, p.form.Changed(i))
	}
	if imgui.IsItemDeactivatedAfterEdit() {
		p.report(field, p.form.Finished(i))
	}
}

func (p *Panel) report(field params.Field, err error) {
	if err != nil {
		p.log.Warn("parameter rejected", zap.Stringer("field", field), zap.Error(err))
	}
}
