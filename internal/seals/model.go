package seals

import (
	"fmt"
	"strconv"
	"strings"
)

// Tier ranks a triumph. The set is closed.
type Tier string

const (
	Bronze Tier = "Bronze"
	Silver Tier = "Silver"
	Gold   Tier = "Gold"
)

// TiersByPrestige lists tiers in display order, most prestigious first.
var TiersByPrestige = []Tier{Gold, Silver, Bronze}

// Valid reports whether t is one of Bronze, Silver or Gold.
func (t Tier) Valid() bool {
	switch t {
	case Bronze, Silver, Gold:
		return true
	}
	return false
}

// Rank orders tiers for display: Gold=3, Silver=2, Bronze=1, anything else 0.
func (t Tier) Rank() int {
	switch t {
	case Gold:
		return 3
	case Silver:
		return 2
	case Bronze:
		return 1
	}
	return 0
}

// ParseTier converts user input ("gold", "Silver") into a Tier.
func ParseTier(s string) (Tier, error) {
	for _, t := range TiersByPrestige {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tier %q: must be one of Bronze, Silver, Gold", s)
}

// Triumph is a checklist item within a seal.
type Triumph struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Tier Tier   `json:"tier"`
	Done bool   `json:"done"`
}

// Book is a reading record attached to a seal.
type Book struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Author   *string `json:"author,omitempty"`
	Pages    *int    `json:"pages,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	Finished bool    `json:"finished"`
}

// BookPayload is the user-supplied part of a new Book.
type BookPayload struct {
	Title  string
	Author string
	Pages  *int
	Notes  string
}

// ParsePages reads a page count typed by the user. Blank, non-numeric and
// negative input yields nil.
func ParsePages(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

// GildRecord is an append-only log entry of one gilding.
type GildRecord struct {
	ID   string  `json:"id"`
	Year string  `json:"year"`
	Date string  `json:"date"`
	Note *string `json:"note,omitempty"`
}

// Seal is a themed collection of triumphs.
type Seal struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Theme       string         `json:"theme"`
	Flavor      string         `json:"flavor"`
	Palette     string         `json:"palette"`
	Icon        string         `json:"icon"`
	Triumphs    []Triumph      `json:"triumphs"`
	Books       []Book         `json:"books"`
	EarnedOn    *string        `json:"earnedOn,omitempty"`
	GildsByYear map[string]int `json:"gildsByYear"`
	GildHistory []GildRecord   `json:"gildHistory"`
}

// Earned reports whether the seal has ever been fully completed.
func (s Seal) Earned() bool {
	return s.EarnedOn != nil
}

// GildCount returns the number of gilds recorded for year.
func (s Seal) GildCount(year string) int {
	return s.GildsByYear[year]
}

// Document is the root persisted object.
type Document struct {
	Seals    []Seal `json:"seals"`
	ActiveID string `json:"activeId"`
}

// Find returns the seal with the given id.
func (d Document) Find(id string) (Seal, bool) {
	if i := d.indexOf(id); i >= 0 {
		return d.Seals[i], true
	}
	return Seal{}, false
}

// Active returns the seal referenced by ActiveID, falling back to the first
// seal when the reference is empty or stale.
func (d Document) Active() (Seal, bool) {
	if s, ok := d.Find(d.ActiveID); ok {
		return s, true
	}
	if len(d.Seals) > 0 {
		return d.Seals[0], true
	}
	return Seal{}, false
}

func (d Document) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range d.Seals {
		if d.Seals[i].ID == id {
			return i
		}
	}
	return -1
}

// Palette is a named style key for a seal.
type Palette struct {
	Key  string
	Name string
}

// Palettes is the fixed style table, in picker order.
var Palettes = []Palette{
	{Key: "ember", Name: "Ember"},
	{Key: "aether", Name: "Aether"},
	{Key: "verdant", Name: "Verdant"},
	{Key: "void", Name: "Void"},
	{Key: "iron", Name: "Iron"},
}

// DefaultPalette is used for unknown palette keys.
const DefaultPalette = "ember"

// NormalizePalette returns key if it names a palette, else DefaultPalette.
func NormalizePalette(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, p := range Palettes {
		if p.Key == k {
			return k
		}
	}
	return DefaultPalette
}

// Icons is the fixed icon table.
var Icons = []string{"Flame", "Sparkles", "Shield", "Trophy", "Star", "Crown"}

// DefaultIcon is used for new seals and for unknown icon keys.
const DefaultIcon = "Trophy"

// NormalizeIcon returns name if it is a known icon, else DefaultIcon.
func NormalizeIcon(name string) string {
	for _, i := range Icons {
		if i == name {
			return name
		}
	}
	return DefaultIcon
}

// Validate reports the first structural problem that would leave the store
// unable to address an entity: missing or repeated ids, blank titles and
// tiers outside the closed set.
func (d Document) Validate() error {
	sealIDs := make(map[string]bool, len(d.Seals))
	for i, s := range d.Seals {
		if s.ID == "" {
			return fmt.Errorf("seal %d has no id", i)
		}
		if sealIDs[s.ID] {
			return fmt.Errorf("duplicate seal id %q", s.ID)
		}
		sealIDs[s.ID] = true
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("seal %q has a blank title", s.ID)
		}

		triumphIDs := make(map[string]bool, len(s.Triumphs))
		for _, t := range s.Triumphs {
			if t.ID == "" || triumphIDs[t.ID] {
				return fmt.Errorf("seal %q: missing or duplicate triumph id %q", s.ID, t.ID)
			}
			triumphIDs[t.ID] = true
			if !t.Tier.Valid() {
				return fmt.Errorf("seal %q: triumph %q has unknown tier %q", s.ID, t.ID, t.Tier)
			}
		}

		bookIDs := make(map[string]bool, len(s.Books))
		for _, b := range s.Books {
			if b.ID == "" || bookIDs[b.ID] {
				return fmt.Errorf("seal %q: missing or duplicate book id %q", s.ID, b.ID)
			}
			bookIDs[b.ID] = true
		}
	}
	return nil
}

// normalize fills nil collections so an encoded document always carries
// empty arrays and maps rather than nulls.
func (d Document) normalize() Document {
	out := Document{ActiveID: d.ActiveID, Seals: make([]Seal, len(d.Seals))}
	for i, s := range d.Seals {
		if s.Triumphs == nil {
			s.Triumphs = []Triumph{}
		}
		if s.Books == nil {
			s.Books = []Book{}
		}
		if s.GildsByYear == nil {
			s.GildsByYear = map[string]int{}
		}
		if s.GildHistory == nil {
			s.GildHistory = []GildRecord{}
		}
		out.Seals[i] = s
	}
	return out
}
