package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cli/go-gh/v2/pkg/tableprinter"

	"github.com/fchimpan/kusa-learn/internal/progress"
)

type PathOptions struct {
	IsTTY bool
	Width int
}

// Path writes one table row per tile. Headers and color are only emitted on a TTY;
// otherwise rows are tab-separated for scripting.
func Path(w io.Writer, view progress.View, opts PathOptions) error {
	s := newStyles()
	tp := tableprinter.New(w, opts.IsTTY, opts.Width)
	if opts.IsTTY {
		tp.AddHeader([]string{"CHAPTER", "TITLE", "STEP", "TILE", "TYPE", "STATUS"})
	}

	for _, ch := range view.Chapters {
		for i, t := range ch.Tiles {
			tp.AddField(fmt.Sprintf("%d", ch.Number))
			tp.AddField(ch.Title)
			tp.AddField(fmt.Sprintf("%d", i+1))
			tp.AddField(t.Description)
			tp.AddField(string(t.Type))
			if opts.IsTTY {
				st := statusStyle(s, t.Status)
				tp.AddField(t.Status.String(), tableprinter.WithColor(func(v string) string { return st.Render(v) }))
			} else {
				tp.AddField(t.Status.String())
			}
			tp.EndRow()
		}
	}
	return tp.Render()
}

// Chapters renders the learning path as stacked chapter blocks.
func Chapters(view progress.View, courseTitle string) string {
	s := newStyles()
	lines := []string{s.title.Render(courseTitle)}
	if len(view.Chapters) == 0 {
		lines = append(lines, s.dim.Render("No chapters available."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, ch := range view.Chapters {
		head := s.value.Render(fmt.Sprintf("Chapter %d  %s", ch.Number, ch.Title)) +
			s.dim.Render(fmt.Sprintf("  %d/%d", ch.CompletedCount(), len(ch.Tiles)))
		block := []string{head}
		if len(ch.Tiles) == 0 {
			block = append(block, s.dim.Render("  (no lessons yet)"))
		}
		for _, t := range ch.Tiles {
			st := statusStyle(s, t.Status)
			line := fmt.Sprintf("  %s %s", st.Render(statusMark(t.Status)), t.Description)
			if t.Status == progress.Active {
				line = s.selected.Render(line)
			}
			block = append(block, line)
		}
		lines = append(lines, s.section.Render(strings.Join(block, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func statusStyle(s styles, st progress.Status) lipgloss.Style {
	switch st {
	case progress.Complete:
		return s.complete
	case progress.Active:
		return s.active
	default:
		return s.locked
	}
}

func statusMark(st progress.Status) string {
	switch st {
	case progress.Complete:
		return "✔"
	case progress.Active:
		return "▶"
	default:
		return "○"
	}
}
