package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/clinuxrulz/flying-shooter/core"
)

var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbWall       = tcell.NewRGBColor(70, 72, 90)    // Dim gray-blue
	RgbBullet     = tcell.NewRGBColor(255, 255, 255) // White
	RgbScore      = tcell.NewRGBColor(255, 255, 0)   // Bright Yellow
	RgbStatusBar  = tcell.NewRGBColor(180, 180, 180) // Brighter gray
	RgbStatusWarn = tcell.NewRGBColor(255, 165, 0)   // Orange
	RgbStatusErr  = tcell.NewRGBColor(255, 80, 80)   // Normal Red
	RgbOverlay    = tcell.NewRGBColor(135, 206, 250) // Light sky blue
)

// RgbPlayers colors ships by handle
var RgbPlayers = [...]tcell.Color{
	tcell.NewRGBColor(0, 200, 0),     // Normal Green
	tcell.NewRGBColor(100, 150, 255), // Normal Blue
	tcell.NewRGBColor(255, 80, 80),   // Normal Red
	tcell.NewRGBColor(255, 165, 0),   // Orange
}

// PlayerColor returns the ship color of h
func PlayerColor(h core.PlayerHandle) tcell.Color {
	return RgbPlayers[int(h)%len(RgbPlayers)]
}
