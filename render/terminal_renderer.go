package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/clinuxrulz/flying-shooter/core"
	"github.com/clinuxrulz/flying-shooter/engine"
	"github.com/clinuxrulz/flying-shooter/parameter"
	"github.com/clinuxrulz/flying-shooter/rollback"
)

// HUD carries host state drawn around the arena
type HUD struct {
	Phase    engine.OuterPhase
	Local    []core.PlayerHandle
	Status   string
	Severity Severity
	Muted    bool
}

// TerminalRenderer draws published views to a tcell screen
type TerminalRenderer struct {
	screen tcell.Screen
	layout Layout
}

// NewTerminalRenderer creates a renderer sized to screen
func NewTerminalRenderer(screen tcell.Screen) *TerminalRenderer {
	r := &TerminalRenderer{screen: screen}
	r.Resize()
	return r
}

// Resize recomputes the layout after a terminal resize
func (r *TerminalRenderer) Resize() {
	w, h := r.screen.Size()
	r.layout = NewLayout(w, h)
}

// Layout returns the current layout
func (r *TerminalRenderer) Layout() Layout {
	return r.layout
}

// RenderFrame draws view and hud; view may be nil before the first frame
func (r *TerminalRenderer) RenderFrame(view *rollback.View, hud HUD) {
	defaultStyle := tcell.StyleDefault.Background(RgbBackground)
	r.screen.Fill(' ', defaultStyle)

	r.drawWalls(defaultStyle)
	if view != nil {
		r.drawBullets(view, defaultStyle)
		r.drawPlayers(view, defaultStyle)
		r.drawScore(view, defaultStyle)
	}
	if hud.Phase != engine.OuterInGame {
		r.drawOverlay(hud.Phase, defaultStyle)
	}
	r.drawStatusBar(view, hud, defaultStyle)

	r.screen.Show()
}

func (r *TerminalRenderer) drawWalls(defaultStyle tcell.Style) {
	x0, y0, x1, y1 := r.layout.Bounds()
	if x1 <= x0 || y1 <= y0 {
		return
	}
	style := defaultStyle.Foreground(RgbWall)
	for x := x0; x <= x1; x++ {
		r.screen.SetContent(x, y0, parameter.WallChar, nil, style)
		r.screen.SetContent(x, y1, parameter.WallChar, nil, style)
	}
	for y := y0; y <= y1; y++ {
		r.screen.SetContent(x0, y, parameter.WallChar, nil, style)
		r.screen.SetContent(x1, y, parameter.WallChar, nil, style)
	}
}

func (r *TerminalRenderer) drawBullets(view *rollback.View, defaultStyle tcell.Style) {
	style := defaultStyle.Foreground(RgbBullet)
	for _, b := range view.Bullets {
		if x, y, ok := r.layout.ToScreen(b.Position); ok {
			r.screen.SetContent(x, y, parameter.BulletChar, nil, style)
		}
	}
}

func (r *TerminalRenderer) drawPlayers(view *rollback.View, defaultStyle tcell.Style) {
	for _, p := range view.Players {
		x, y, ok := r.layout.ToScreen(p.Position)
		if !ok {
			continue
		}
		style := defaultStyle.Foreground(PlayerColor(p.Handle)).Bold(true)
		r.screen.SetContent(x, y, FacingGlyph(p.Facing), nil, style)
	}
}

// ScoreText formats scores as "p1 - p2"
func ScoreText(scores []uint32) string {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = fmt.Sprintf("%d", s)
	}
	return strings.Join(parts, " - ")
}

func (r *TerminalRenderer) drawScore(view *rollback.View, defaultStyle tcell.Style) {
	text := ScoreText(view.Scores)
	x := (r.layout.Width - len(text)) / 2
	r.drawText(x, 0, text, defaultStyle.Foreground(RgbScore).Bold(true))

	round := fmt.Sprintf("round %d", view.RoundNumber)
	r.drawText(1, 0, round, defaultStyle.Foreground(RgbStatusBar))
}

func (r *TerminalRenderer) drawOverlay(phase engine.OuterPhase, defaultStyle tcell.Style) {
	var text string
	switch phase {
	case engine.OuterLoading:
		text = "loading"
	case engine.OuterMatchmaking:
		text = "waiting for players"
	default:
		return
	}
	x := (r.layout.Width - len(text)) / 2
	y := r.layout.Height / 2
	r.drawText(x, y, text, defaultStyle.Foreground(RgbOverlay))
}

func (r *TerminalRenderer) drawStatusBar(view *rollback.View, hud HUD, defaultStyle tcell.Style) {
	y := r.layout.Height - 1
	if y < parameter.TopMargin {
		return
	}

	left := hud.Phase.String()
	if len(hud.Local) == 1 {
		left = fmt.Sprintf("%s | player %d", left, hud.Local[0]+1)
	}
	if view != nil {
		left = fmt.Sprintf("%s | frame %d", left, view.Frame)
	}
	if hud.Muted {
		left += " | muted"
	}
	r.drawText(0, y, left, defaultStyle.Foreground(RgbStatusBar))

	if hud.Status == "" {
		return
	}
	color := RgbStatusBar
	switch hud.Severity {
	case SeverityWarn:
		color = RgbStatusWarn
	case SeverityError:
		color = RgbStatusErr
	}
	x := max(r.layout.Width-len(hud.Status)-1, len(left)+2)
	r.drawText(x, y, hud.Status, defaultStyle.Foreground(color))
}

// drawText writes text clipped to the screen width
func (r *TerminalRenderer) drawText(x, y int, text string, style tcell.Style) {
	for _, ch := range text {
		if x >= r.layout.Width {
			return
		}
		if x >= 0 {
			r.screen.SetContent(x, y, ch, nil, style)
		}
		x++
	}
}
