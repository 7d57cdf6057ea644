package progress

import "strings"

// Status is the display state of a tile.
type Status int

const (
	Locked Status = iota
	Active
	Complete
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Complete:
		return "complete"
	default:
		return "locked"
	}
}

// ParseOverride maps an upstream status string to a Status.
// "passed" is the platform's name for a completed test.
func ParseOverride(raw string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "passed":
		return Complete, true
	case "active":
		return Active, true
	case "locked":
		return Locked, true
	default:
		return Locked, false
	}
}

type TileType string

const (
	TileLesson      TileType = "lesson"
	TileCheckpoint  TileType = "checkpoint"
	TileBonus       TileType = "bonus"
	TileFastForward TileType = "fast_forward"
)

// Tile is one step of a chapter. CompletableID is empty for decorative tiles.
type Tile struct {
	Type           TileType
	CompletableID  string
	OrderIndex     int
	Description    string
	StatusOverride string
}

// Chapter owns an ordered tile sequence. Slice order is presentation order.
type Chapter struct {
	ID     string
	Number int
	Title  string
	Tiles  []Tile
}

// CompletedSet is the read-only set of finished completable identifiers.
type CompletedSet map[string]struct{}

func NewCompletedSet(ids ...string) CompletedSet {
	s := make(CompletedSet, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		s[id] = struct{}{}
	}
	return s
}

func (s CompletedSet) Has(id string) bool {
	if id == "" {
		return false
	}
	_, ok := s[id]
	return ok
}

// IDs returns the identifiers in unspecified order.
func (s CompletedSet) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}
