package render

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qmacs/internal/config"
)

// Palette maps color classes to terminal foreground colors.
type Palette [numColors]tcell.Color

// DefaultPalette uses the eight ANSI colors so it works on any terminal.
func DefaultPalette() Palette {
	var p Palette
	p[ColorComment] = tcell.ColorGreen
	p[ColorKeyword] = tcell.ColorNavy
	p[ColorString] = tcell.ColorMaroon
	p[ColorNumber] = tcell.ColorPurple
	p[ColorDelimiter] = tcell.ColorTeal
	p[ColorType] = tcell.ColorTeal
	p[ColorFunction] = tcell.ColorOlive
	p[ColorConstant] = tcell.ColorPurple
	p[ColorSelection] = tcell.ColorOlive
	p[ColorMatch] = tcell.ColorYellow
	p[ColorWarning] = tcell.ColorOlive
	p[ColorError] = tcell.ColorRed
	p[ColorPrompt] = tcell.ColorTeal
	return p
}

// NewPalette overlays the theme's colors on DefaultPalette.
func NewPalette(t config.Theme) Palette {
	p := DefaultPalette()
	for c, name := range map[Color]string{
		ColorDefault:   t.Foreground,
		ColorComment:   t.SyntaxComment,
		ColorKeyword:   t.SyntaxKeyword,
		ColorString:    t.SyntaxString,
		ColorNumber:    t.SyntaxNumber,
		ColorDelimiter: t.SyntaxPunctuation,
		ColorType:      t.SyntaxType,
		ColorFunction:  t.SyntaxFunction,
		ColorConstant:  t.SyntaxConstant,
		ColorSelection: t.SelectionForeground,
		ColorMatch:     t.SearchMatchForeground,
		ColorStatus:    t.StatuslineForeground,
		ColorMessage:   t.CommandlineForeground,
		ColorWarning:   t.WarningForeground,
		ColorError:     t.ErrorForeground,
		ColorPrompt:    t.PromptForeground,
	} {
		p[c] = ParseColor(name, p[c])
	}
	return p
}

// ParseColor accepts "#rrggbb", "default" or a color name known to tcell.
func ParseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}

// appendSGR appends the select-graphic-rendition sequence that sets the
// foreground to c.
func appendSGR(dst []byte, c tcell.Color) []byte {
	switch {
	case c == tcell.ColorDefault || !c.Valid():
		return append(dst, "\x1b[39m"...)
	case c.IsRGB():
		r, g, b := c.RGB()
		dst = append(dst, "\x1b[38;2;"...)
		dst = strconv.AppendInt(dst, int64(r), 10)
		dst = append(dst, ';')
		dst = strconv.AppendInt(dst, int64(g), 10)
		dst = append(dst, ';')
		dst = strconv.AppendInt(dst, int64(b), 10)
		return append(dst, 'm')
	}
	n := int(c - tcell.ColorValid)
	switch {
	case n < 8:
		dst = append(dst, "\x1b["...)
		dst = strconv.AppendInt(dst, int64(30+n), 10)
	case n < 16:
		dst = append(dst, "\x1b["...)
		dst = strconv.AppendInt(dst, int64(90+n-8), 10)
	default:
		dst = append(dst, "\x1b[38;5;"...)
		dst = strconv.AppendInt(dst, int64(n), 10)
	}
	return append(dst, 'm')
}
