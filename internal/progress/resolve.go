package progress

// Resolve derives the status of every tile in a chapter.
//
// Overrides win. Otherwise a tile whose id is completed is Complete, the first
// tile with an incomplete id is Active, and everything else is Locked. Tiles
// without an id can only become Active through an override.
func Resolve(tiles []Tile, completed CompletedSet) []Status {
	if len(tiles) == 0 {
		return nil
	}

	active := firstIncomplete(tiles, completed)

	out := make([]Status, len(tiles))
	for i, t := range tiles {
		if s, ok := ParseOverride(t.StatusOverride); ok {
			out[i] = s
			continue
		}
		switch {
		case completed.Has(t.CompletableID):
			out[i] = Complete
		case i == active:
			out[i] = Active
		default:
			out[i] = Locked
		}
	}
	return out
}

// firstIncomplete returns the index of the first tile with an id missing from
// completed, or -1.
func firstIncomplete(tiles []Tile, completed CompletedSet) int {
	for i, t := range tiles {
		if t.CompletableID != "" && !completed.Has(t.CompletableID) {
			return i
		}
	}
	return -1
}

type TileView struct {
	Type          TileType
	Description   string
	CompletableID string
	Status        Status
}

type ChapterView struct {
	Number int
	Title  string
	Tiles  []TileView
}

// ActiveTile returns the index of the active tile, or -1.
func (c ChapterView) ActiveTile() int {
	for i, t := range c.Tiles {
		if t.Status == Active {
			return i
		}
	}
	return -1
}

// CompletedCount returns how many tiles are complete.
func (c ChapterView) CompletedCount() int {
	n := 0
	for _, t := range c.Tiles {
		if t.Status == Complete {
			n++
		}
	}
	return n
}

type View struct {
	Chapters []ChapterView
}

func ResolveChapter(ch Chapter, completed CompletedSet) ChapterView {
	statuses := Resolve(ch.Tiles, completed)
	tiles := make([]TileView, len(ch.Tiles))
	for i, t := range ch.Tiles {
		tiles[i] = TileView{
			Type:          t.Type,
			Description:   t.Description,
			CompletableID: t.CompletableID,
			Status:        statuses[i],
		}
	}
	return ChapterView{Number: ch.Number, Title: ch.Title, Tiles: tiles}
}

func BuildView(chapters []Chapter, completed CompletedSet) View {
	v := View{Chapters: make([]ChapterView, 0, len(chapters))}
	for _, ch := range chapters {
		v.Chapters = append(v.Chapters, ResolveChapter(ch, completed))
	}
	return v
}
