package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background    tcell.Color
	Foreground    tcell.Color
	HeaderBg      tcell.Color
	HeaderFg      tcell.Color
	SelectionBg   tcell.Color
	SelectionFg   tcell.Color
	CursorBg      tcell.Color
	CursorFg      tcell.Color
	DirectoryFg   tcell.Color
	FileFg        tcell.Color
	DisabledFg    tcell.Color
	StagedFg      tcell.Color
	StatusBg      tcell.Color
	StatusFg      tcell.Color
	ErrorFg       tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		HeaderBg:    tcell.ColorDefault,
		HeaderFg:    tcell.ColorDefault,
		SelectionBg: tcell.Color33,
		SelectionFg: tcell.ColorWhite,
		CursorBg:    tcell.Color238,
		CursorFg:    tcell.ColorWhite,
		DirectoryFg: tcell.Color33,
		FileFg:      tcell.ColorDefault,
		DisabledFg:  tcell.ColorLightSlateGray,
		StagedFg:    tcell.Color214, // staged rows show amber until pasted
		StatusBg:    tcell.ColorDefault,
		StatusFg:    tcell.ColorDefault,
		ErrorFg:     tcell.ColorRed,
	}
}
