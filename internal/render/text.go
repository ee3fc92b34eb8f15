package render

import "time"

// TextLine is one centered line of an overlay, relative to the vertical center.
type TextLine struct {
	Offset int // Rows from the center
	Text   string
	Accent bool // Drawn highlighted
}

var titleArt = []string{
	` ___ _  ___   ___   ___  ___ ___  ___ `,
	`|_ _| \| \ \ / /_\ |   \| __| _ \/ __|`,
	` | || .  |\ V / _ \| |) | _||   /\__ \`,
	`|___|_|\_| \_/_/ \_\___/|___|_|_\|___/`,
}

var wonArt = []string{
	` __   _____  _   _  __      _____ _  _ `,
	` \ \ / / _ \| | | | \ \    / /_ _| \| |`,
	`  \ V / (_) | |_| |  \ \/\/ / | || .  |`,
	`   |_| \___/ \___/    \_/\_/ |___|_|\_|`,
}

var lostArt = []string{
	`   ___   _   __  __ ___    _____   _____ ___ `,
	`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \`,
	` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   /`,
	`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\`,
}

var controlLines = []string{
	"A D / < >  . . . . Move",
	"SPACE / W  . . . . Fire",
	"Q  . . . . . . . . Quit",
}

// blinkOn toggles every 600ms, for prompts.
func blinkOn(now time.Time) bool {
	return now.UnixMilli()/600%2 == 0
}

// OverlayLines returns the centered text for the scene's current screen.
func OverlayLines(s *Scene, now time.Time) []TextLine {
	var lines []TextLine
	addArt := func(art []string, top int) {
		for i, l := range art {
			lines = append(lines, TextLine{Offset: top + i, Text: l})
		}
	}

	switch s.Screen {
	case ScreenStart:
		addArt(titleArt, -7)
		lines = append(lines, TextLine{Offset: -2, Text: "~ Defend the planet, one level at a time ~"})
		for i, l := range controlLines {
			lines = append(lines, TextLine{Offset: i, Text: l})
		}
		lines = append(lines, TextLine{Offset: 4, Text: "Top score: " + s.HUD.TopScoreText()})
		if blinkOn(now) {
			lines = append(lines, TextLine{Offset: 6, Text: ">>  Press ENTER to Start  <<", Accent: true})
		}

	case ScreenWon, ScreenLost:
		art, prompt := wonArt, ">>  Press ENTER for the next level  <<"
		if s.Screen == ScreenLost {
			art, prompt = lostArt, ">>  Press ENTER to start over  <<"
		}
		addArt(art, -6)
		lines = append(lines, TextLine{Offset: 0, Text: "Score: " + s.HUD.ScoreText()})
		if s.NewTop {
			lines = append(lines, TextLine{Offset: 2, Text: "NEW TOP SCORE!", Accent: true})
		} else {
			lines = append(lines, TextLine{Offset: 2, Text: "Top score: " + s.HUD.TopScoreText()})
		}
		if blinkOn(now) {
			lines = append(lines, TextLine{Offset: 4, Text: prompt, Accent: true})
		}
	}
	return lines
}

// HUDText returns the left and right HUD strings. Fields are padded so a
// shrinking value never leaves stale characters behind.
func HUDText(s *Scene) (left, right string) {
	left = "Score: " + padRight(s.HUD.ScoreText(), 8) + " Level: " + padRight(s.HUD.LevelText(), 4)
	right = "Top: " + padRight(s.HUD.TopScoreText(), 8)
	return left, right
}

func padRight(s string, n int) string {
	for len(s) < n {
		s += " "
	}
	return s
}
