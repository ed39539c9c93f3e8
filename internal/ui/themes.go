package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// StyleTheme defines the color palette the board and modals draw from
type StyleTheme struct {
	Name     string
	Accent   lipgloss.Color // Selection, borders of the focused pane
	Violet   lipgloss.Color // Hints and secondary metadata
	Green    lipgloss.Color // Active cursors and healthy streams
	Red      lipgloss.Color // Errors
	Orange   lipgloss.Color // Exhausted streams
	Gray     lipgloss.Color // Muted text
	DarkGray lipgloss.Color // Unfocused borders and the status bar
	White    lipgloss.Color // Main text
}

// CatppuccinTheme is the default palette, taken from Catppuccin Mocha
var CatppuccinTheme = StyleTheme{
	Name:     "catppuccin",
	Accent:   lipgloss.Color("#89B4FA"),
	Violet:   lipgloss.Color("#CBA6F7"),
	Green:    lipgloss.Color("#A6E3A1"),
	Red:      lipgloss.Color("#F38BA8"),
	Orange:   lipgloss.Color("#FAB387"),
	Gray:     lipgloss.Color("#6C7086"),
	DarkGray: lipgloss.Color("#313244"),
	White:    lipgloss.Color("#CDD6F4"),
}

// MonochromeTheme keeps everything grayscale for minimal terminals
var MonochromeTheme = StyleTheme{
	Name:     "monochrome",
	Accent:   lipgloss.Color("#E8E8E8"),
	Violet:   lipgloss.Color("#9E9E9E"),
	Green:    lipgloss.Color("#C8C8C8"),
	Red:      lipgloss.Color("#F5F5F5"),
	Orange:   lipgloss.Color("#B0B0B0"),
	Gray:     lipgloss.Color("#707070"),
	DarkGray: lipgloss.Color("#2E2E2E"),
	White:    lipgloss.Color("#EDEDED"),
}

// LightTheme provides softer tones that still read on dark terminal
// backgrounds
var LightTheme = StyleTheme{
	Name:     "light",
	Accent:   lipgloss.Color("#0EA5E9"),
	Violet:   lipgloss.Color("#8B5CF6"),
	Green:    lipgloss.Color("#22C55E"),
	Red:      lipgloss.Color("#F43F5E"),
	Orange:   lipgloss.Color("#FB923C"),
	Gray:     lipgloss.Color("#64748B"),
	DarkGray: lipgloss.Color("#475569"),
	White:    lipgloss.Color("#F1F5F9"),
}

// AvailableThemes is the cycling order for the theme command
var AvailableThemes = []StyleTheme{
	CatppuccinTheme,
	MonochromeTheme,
	LightTheme,
}

// ThemeByName resolves a configured theme name, falling back to the default.
func ThemeByName(name string) StyleTheme {
	for _, t := range AvailableThemes {
		if t.Name == name {
			return t
		}
	}
	return CatppuccinTheme
}

// NextTheme returns the theme after the named one in cycling order.
func NextTheme(name string) StyleTheme {
	for i, t := range AvailableThemes {
		if t.Name == name {
			return AvailableThemes[(i+1)%len(AvailableThemes)]
		}
	}
	return CatppuccinTheme
}

// HeaderGradient returns the endpoint colors for the title bar gradient.
func (t StyleTheme) HeaderGradient() (string, string) {
	return string(t.Accent), string(t.Violet)
}

// Common styles built from the palette
func (t StyleTheme) TextStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.White)
}

func (t StyleTheme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Gray)
}

func (t StyleTheme) HintStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Violet)
}

func (t StyleTheme) SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Green)
}

func (t StyleTheme) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Red).
		Bold(true)
}

func (t StyleTheme) SelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)
}

func (t StyleTheme) DimmedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Gray).
		Faint(true)
}

// ToGlamourStyle converts the palette to a glamour style config for
// markdown rendering in the intro modal
func (t StyleTheme) ToGlamourStyle() ansi.StyleConfig {
	style := styles.DraculaStyleConfig

	// The modal already pads; a document margin would double it.
	style.Document.Margin = uintPtr(0)

	style.Document.StylePrimitive.Color = stringPtr(string(t.White))
	style.Heading.StylePrimitive.Color = stringPtr(string(t.Accent))
	style.Heading.StylePrimitive.Bold = boolPtr(true)

	// Replace hash prefixes with arrows across heading levels
	style.H1.StylePrimitive.Color = stringPtr(string(t.Accent))
	style.H1.StylePrimitive.Bold = boolPtr(true)
	style.H1.StylePrimitive.Prefix = ""
	style.H1.Prefix = "▸ "
	style.H1.Suffix = ""
	style.H1.Format = ""

	style.H2.StylePrimitive.Color = stringPtr(string(t.Accent))
	style.H2.StylePrimitive.Bold = boolPtr(true)
	style.H2.Prefix = "▸ "
	style.H2.Suffix = ""
	style.H2.Format = ""

	style.H3.StylePrimitive.Color = stringPtr(string(t.Accent))
	style.H3.Prefix = "▸ "
	style.H3.Suffix = ""
	style.H3.Format = ""

	style.Link.Color = stringPtr(string(t.Violet))
	style.LinkText.Color = stringPtr(string(t.Violet))
	style.Code.Color = stringPtr(string(t.Green))
	style.CodeBlock.StylePrimitive.Color = stringPtr(string(t.Green))
	style.Emph.Color = stringPtr(string(t.Orange))
	style.Strong.Color = stringPtr(string(t.Red))

	style.List.StyleBlock.Indent = uintPtr(1)
	style.List.StyleBlock.IndentToken = stringPtr("  ")
	style.List.StyleBlock.StylePrimitive.Color = stringPtr(string(t.White))
	style.List.LevelIndent = 4

	style.Item.BlockPrefix = "• "
	style.Item.Color = stringPtr(string(t.White))
	style.Item.Format = ""

	style.Enumeration.Color = stringPtr(string(t.White))

	style.BlockQuote.StylePrimitive.Color = stringPtr(string(t.Gray))
	style.BlockQuote.StylePrimitive.Italic = boolPtr(true)

	return style
}

// glamour's style config wants pointers for optional fields
func stringPtr(s string) *string { return &s }
func uintPtr(u uint) *uint       { return &u }
func boolPtr(b bool) *bool       { return &b }

// RenderWithGradientBackground lays text over a left-to-right gradient,
// padding or clipping it to width.
func RenderWithGradientBackground(text string, width int, startColor, endColor string) string {
	runes := []rune(text)
	if len(runes) < width {
		runes = append(runes, []rune(strings.Repeat(" ", width-len(runes)))...)
	} else {
		runes = runes[:width]
	}

	span := float64(maxInt(width-1, 1))
	var out strings.Builder
	for i, r := range runes {
		cell := lipgloss.NewStyle().
			Background(lipgloss.Color(InterpolateColor(startColor, endColor, float64(i)/span))).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)
		out.WriteString(cell.Render(string(r)))
	}
	return out.String()
}

// InterpolateColor blends two hex colors, position 0 giving the first and
// 1 the second. Colors that fail to parse come back unchanged.
func InterpolateColor(startColor, endColor string, position float64) string {
	r1, g1, b1, err := hexRGB(startColor)
	if err != nil {
		return startColor
	}
	r2, g2, b2, err := hexRGB(endColor)
	if err != nil {
		return startColor
	}

	if position < 0 {
		position = 0
	} else if position > 1 {
		position = 1
	}

	lerp := func(a, b int) int {
		return int(float64(a) + float64(b-a)*position)
	}
	return fmt.Sprintf("#%02X%02X%02X", lerp(r1, r2), lerp(g1, g2), lerp(b1, b2))
}

// hexRGB splits a #RRGGBB string into channels.
func hexRGB(color string) (int, int, int, error) {
	hex := strings.TrimPrefix(color, "#")
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("not a #RRGGBB color: %q", color)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("not a #RRGGBB color: %q", color)
	}
	return int(v >> 16), int(v >> 8 & 0xFF), int(v & 0xFF), nil
}
