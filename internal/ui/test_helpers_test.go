package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nickpending/catchup/internal/library"
	"github.com/nickpending/catchup/internal/stream"
)

// testCategories builds a small library snapshot covering every cursor state:
// an active downloaded stream, an exhausted one, a never-started linked one,
// and a manual backlog in a second category.
func testCategories() []*library.Category {
	return []*library.Category{
		{
			Name: "podcasts",
			Streams: []*stream.Stream{
				{
					Category: "podcasts",
					Name:     "radiolab",
					Kind:     stream.Downloaded,
					Source:   "https://example.com/radiolab.xml",
					Cursor: stream.Cursor{
						Date:     "2024-03-01",
						Name:     "the-other-latif",
						Ref:      "mp3",
						Progress: "12:30",
					},
				},
				{
					Category: "podcasts",
					Name:     "hardcore-history",
					Kind:     stream.Downloaded,
					Source:   "https://example.com/hh.xml",
					Cursor:   stream.Cursor{Date: stream.EndOfTime},
				},
				{
					Category: "podcasts",
					Name:     "in-our-time",
					Kind:     stream.Linked,
					Source:   "https://example.com/iot.xml",
					Cursor:   stream.Cursor{Date: stream.BeginningOfTime},
				},
			},
		},
		{
			Name: "reading",
			Streams: []*stream.Stream{
				{
					Category: "reading",
					Name:     "backlog",
					Kind:     stream.Manual,
					Cursor: stream.Cursor{
						Date:     "2024-01-15",
						Name:     "the-idea-factory",
						Progress: "p. 88",
					},
				},
			},
		},
	}
}

// testModel creates a properly initialized Model for testing
func testModel() Model {
	m := NewModel(nil, nil, "catppuccin", nil, nil)
	m.loading = false
	m.categories = testCategories()
	m.width = 100
	m.height = 40
	return m
}

// keyRunes builds the KeyMsg a plain character keypress produces
func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}
