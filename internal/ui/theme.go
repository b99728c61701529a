package ui

import "image/color"

type Theme struct {
	Background    color.RGBA
	Grid          color.RGBA
	GridMajor     color.RGBA
	Cursor        color.RGBA
	Trail         color.RGBA
	ButtonIdle    color.RGBA
	ButtonPressed color.RGBA
	ButtonRelease color.RGBA
	Border        color.RGBA
	StatusBar     color.RGBA
	Recording     color.RGBA
	Replay        color.RGBA

	StatusHeightDp int
	IndicatorDp    int
	CursorArmDp    int
	MinGridPx      int
}

func DefaultTheme() Theme {
	return Theme{
		Background:    color.RGBA{0xF3, 0xF5, 0xF8, 0xFF},
		Grid:          color.RGBA{0xE2, 0xE7, 0xEF, 0xFF},
		GridMajor:     color.RGBA{0xC8, 0xCF, 0xDB, 0xFF},
		Cursor:        color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		Trail:         color.RGBA{0xB2, 0xBF, 0xD0, 0xFF},
		ButtonIdle:    color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		ButtonPressed: color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		ButtonRelease: color.RGBA{0xE6, 0x7E, 0x22, 0xFF},
		Border:        color.RGBA{0xB2, 0xBF, 0xD0, 0xFF},
		StatusBar:     color.RGBA{0xEA, 0xEF, 0xF6, 0xFF},
		Recording:     color.RGBA{0xB7, 0x1C, 0x1C, 0xFF},
		Replay:        color.RGBA{0x11, 0x7A, 0x37, 0xFF},

		StatusHeightDp: 28,
		IndicatorDp:    18,
		CursorArmDp:    8,
		MinGridPx:      16,
	}
}
