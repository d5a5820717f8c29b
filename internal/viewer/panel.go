package viewer

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/battlescape/internal/terrain"
)

const (
	panelWidth      = 360
	panelMinHeight  = 320
	panelLineHeight = 14
	panelTitle      = 18
)

// EventPanel shows the tail of the terrain journal beside the map.
type EventPanel struct {
	journal *terrain.Journal
}

// NewEventPanel creates a panel over j. A nil journal draws an empty panel.
func NewEventPanel(j *terrain.Journal) *EventPanel {
	return &EventPanel{journal: j}
}

// Recent returns up to n of the newest entries, oldest first.
func (p *EventPanel) Recent(n int) []terrain.JournalEntry {
	if p.journal == nil || n <= 0 {
		return nil
	}
	entries := p.journal.Entries()
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries
}

// Draw renders the panel at panelX, newest entry at the bottom.
func (p *EventPanel) Draw(screen *ebiten.Image, panelX, panelH int, face *text.GoXFace) {
	x := float32(panelX)
	vector.FillRect(screen, x, 0, panelWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	vector.StrokeLine(screen, x, 0, x, float32(panelH), 1, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)
	vector.FillRect(screen, x, 0, panelWidth, panelTitle, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(panelX+8), 2)
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, "TERRAIN EVENTS", face, op)

	visible := p.Recent((panelH - panelTitle - 6) / panelLineHeight)
	const highlight = 3
	y := panelTitle + 4
	for i, e := range visible {
		if i >= len(visible)-highlight {
			vector.FillRect(screen, x+2, float32(y), panelWidth-4, panelLineHeight, color.RGBA{R: 30, G: 40, B: 30, A: 160}, false)
		}
		dot := xcorpCol
		switch e.Faction {
		case terrain.FactionAlien.String():
			dot = alienCol
		case "--":
			dot = gridCol
		}
		vector.FillRect(screen, x+5, float32(y+4), 3, 6, dot, false)

		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(panelX+12), float64(y))
		op.ColorScale.ScaleWithColor(color.RGBA{R: 200, G: 210, B: 200, A: 255})
		text.Draw(screen, e.String(), face, op)
		y += panelLineHeight
	}
}
