package stream

import "strings"

// Item is one ledger entry. Ref holds the payload extension for downloaded
// items, the URL for linked items, and free-form metadata (if any) for
// manual items.
type Item struct {
	Date string
	Name string
	Ref  string
}

// Matches reports whether the item carries the cursor's (date, name) key.
func (i Item) Matches(c Cursor) bool {
	return i.Date == c.Date && i.Name == c.Name
}

// PayloadName builds the on-disk file name for a downloaded item:
// date;name.extension. Zero-padded ISO dates make lexicographic file order
// equal chronological order.
func (i Item) PayloadName() string {
	return i.Date + FieldSep + i.Name + "." + i.Ref
}

// ParsePayloadName parses a payload file name back into an item. Names that
// do not follow the date;name.extension shape (stray files dropped into the
// stream directory) report ok=false.
func ParsePayloadName(name string) (item Item, ok bool) {
	if len(name) < len("1000-01-01")+1 || !ValidDate(name[:10]) || name[10:11] != FieldSep {
		return Item{}, false
	}
	rest := name[11:]
	dot := strings.LastIndex(rest, ".")
	if dot <= 0 || dot == len(rest)-1 {
		return Item{}, false
	}
	return Item{Date: name[:10], Name: rest[:dot], Ref: rest[dot+1:]}, true
}

// ValidDate checks the yyyy-mm-dd shape without parsing a calendar.
func ValidDate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, r := range s {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
