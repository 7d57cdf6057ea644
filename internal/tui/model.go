package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fchimpan/kusa-learn/internal/calendar"
	"github.com/fchimpan/kusa-learn/internal/progress"
	"github.com/fchimpan/kusa-learn/internal/render"
	"github.com/fchimpan/kusa-learn/internal/session"
	"github.com/fchimpan/kusa-learn/internal/store"
	"github.com/fchimpan/kusa-learn/internal/streak"
)

type pane int

const (
	panePath pane = iota
	paneStreak
)

// heatWeeks is how much history the streak pane shows under the calendar.
const heatWeeks = 26

type Options struct {
	Session *session.Session
	// Sync refetches platform state for the r key, starting from the current
	// snapshot prev. A nil Budget in the result means the platform reported none.
	// Nil means offline.
	Sync func(ctx context.Context, prev store.State) (store.State, error)
	// Persist saves a snapshot after a local change.
	Persist func(ctx context.Context, state store.State) error
	// SyncedAt is when the loaded state was last fetched.
	SyncedAt time.Time
	// Saver is the remote half of a streak-saver restoration; nil restores locally only.
	Saver streak.RemoteFunc
	// Timeout bounds each background request.
	Timeout time.Duration
}

type Model struct {
	opts Options
	sess *session.Session

	ready bool
	w     int
	h     int

	pane     pane
	month    time.Time
	syncing  bool
	saving   bool
	syncedAt time.Time

	status    string
	statusErr bool
}

func NewModel(opts Options) *Model {
	if opts.Session == nil {
		opts.Session = session.New(session.Options{})
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Model{
		opts:     opts,
		sess:     opts.Session,
		month:    opts.Session.Today(),
		syncedAt: opts.SyncedAt,
	}
}

type syncDoneMsg struct {
	state store.State
	err   error
}

type saverDoneMsg struct {
	restoration *session.Restoration
	err         error
}

type persistedMsg struct {
	err error
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.w = msg.Width
		m.h = msg.Height
		m.ready = true
		return m, nil
	case syncDoneMsg:
		m.syncing = false
		if msg.err != nil {
			m.setError(fmt.Sprintf("sync failed: %v", msg.err))
			return m, nil
		}
		// A sync without a platform budget keeps the session's current one.
		msg.state.Apply(m.sess, m.sess.Budget())
		m.syncedAt = msg.state.SyncedAt
		m.setStatus("synced")
		return m, m.persistCmd()
	case saverDoneMsg:
		m.saving = false
		if msg.err != nil {
			m.setError(saverErrorText(msg.err))
			return m, nil
		}
		if !m.sess.Commit(msg.restoration) {
			m.setError(fmt.Sprintf("restore of %s superseded by sync", calendar.NormalizeISODate(msg.restoration.Day)))
			return m, nil
		}
		m.setStatus(fmt.Sprintf("restored %s", calendar.NormalizeISODate(msg.restoration.Day)))
		return m, m.persistCmd()
	case persistedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("save failed: %v", msg.err))
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			if m.pane == panePath {
				m.pane = paneStreak
			} else {
				m.pane = panePath
			}
		case "left", "h":
			m.moveCourse(-1)
		case "right", "l":
			m.moveCourse(1)
		case "s", "S":
			return m, m.saverCmd()
		case "r", "R":
			return m, m.syncCmd()
		}
		return m, nil
	default:
		return m, nil
	}
}

// moveCourse steps through courses on the path pane and months on the streak pane.
func (m *Model) moveCourse(delta int) {
	if m.pane == paneStreak {
		m.month = time.Date(m.month.Year(), m.month.Month()+time.Month(delta), 1, 0, 0, 0, 0, m.month.Location())
		return
	}
	courses := m.sess.Courses()
	if len(courses) == 0 {
		return
	}
	idx := 0
	for i, c := range courses {
		if c.ID == m.sess.CourseID() {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(courses)) % len(courses)
	m.sess.SelectCourse(courses[idx].ID)
}

func (m *Model) saverCmd() tea.Cmd {
	if m.saving || m.sess.SaverPending() {
		m.setError("a streak saver is already in progress")
		return nil
	}
	r, err := m.sess.PrepareRestore()
	if err != nil {
		m.setError(saverErrorText(err))
		return nil
	}
	m.saving = true
	m.setStatus(fmt.Sprintf("restoring %s...", calendar.NormalizeISODate(r.Day)))
	remote, timeout := m.opts.Saver, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return saverDoneMsg{restoration: r, err: r.Run(ctx, remote)}
	}
}

func (m *Model) syncCmd() tea.Cmd {
	if m.opts.Sync == nil {
		m.setError("offline: no platform token configured")
		return nil
	}
	if m.syncing {
		return nil
	}
	m.syncing = true
	m.setStatus("syncing...")
	prev := store.Capture(m.sess, m.syncedAt)
	prev.Budget = nil
	sync, timeout := m.opts.Sync, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		state, err := sync(ctx, prev)
		return syncDoneMsg{state: state, err: err}
	}
}

func (m *Model) persistCmd() tea.Cmd {
	if m.opts.Persist == nil {
		return nil
	}
	persist, state, timeout := m.opts.Persist, store.Capture(m.sess, m.syncedAt), m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return persistedMsg{err: persist(ctx, state)}
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

func saverErrorText(err error) string {
	switch {
	case streak.IsInsufficientBudget(err):
		return "no streak savers left"
	case errors.Is(err, streak.ErrNothingToRestore):
		return "no missed day to restore"
	case errors.Is(err, streak.ErrRestorePending):
		return "a streak saver is already in progress"
	default:
		return err.Error()
	}
}

func (m *Model) View() string {
	if !m.ready {
		return "loading...\n"
	}

	sum := m.sess.Streak()
	body := ""
	switch m.pane {
	case paneStreak:
		body = render.Streak(sum, m.sess.CheckIns(), render.StreakOptions{
			Now:          m.sess.Today(),
			Month:        m.month,
			SaverPending: m.saving,
		}) + "\n\n" + render.Heat(m.sess.CheckIns(), m.sess.Today(), heatWeeks, m.w)
	default:
		body = render.Chapters(m.sess.View(), m.courseTitle())
	}

	lines := []string{
		renderHUD(m.courseTitle(), m.sess.View(), sum),
		renderTabs(m.pane),
		"",
		body,
		"",
		m.renderStatus(),
		styleHudDim.Render(helpText(m.pane)),
	}
	content := strings.Join(lines, "\n")

	if m.w > lipgloss.Width(content) {
		content = lipgloss.PlaceHorizontal(m.w, lipgloss.Center, content)
	}
	return content + "\n"
}

func (m *Model) courseTitle() string {
	for _, c := range m.sess.Courses() {
		if c.ID == m.sess.CourseID() {
			if c.Title != "" {
				return c.Title
			}
			return "Course " + c.ID
		}
	}
	return "No course"
}

func (m *Model) renderStatus() string {
	switch {
	case m.status == "":
		return ""
	case m.statusErr:
		return styleStatusErr.Render(m.status)
	default:
		return styleHudOk.Render(m.status)
	}
}

func helpText(p pane) string {
	if p == paneStreak {
		return "(tab path, ←/→ month, s streak saver, r sync, q quit)"
	}
	return "(tab streak, ←/→ course, s streak saver, r sync, q quit)"
}

func renderTabs(p pane) string {
	path, strk := styleTab.Render("Path"), styleTab.Render("Streak")
	if p == panePath {
		path = styleTabActive.Render("Path")
	} else {
		strk = styleTabActive.Render("Streak")
	}
	return path + " " + strk
}

func renderHUD(course string, view progress.View, sum streak.Summary) string {
	sep := styleHudDim.Render("  |  ")

	done, total := 0, 0
	for _, ch := range view.Chapters {
		done += ch.CompletedCount()
		total += len(ch.Tiles)
	}

	barW := 18
	fill := 0
	if total > 0 {
		fill = barW * done / total
	}
	fill = min(max(fill, 0), barW)
	bar := styleHudLabel.Render("[") +
		styleHudOk.Render(strings.Repeat("█", fill)) +
		styleHudDim.Render(strings.Repeat("░", barW-fill)) +
		styleHudLabel.Render("]")

	return strings.Join([]string{
		styleHudLabel.Render("course ") + styleHudValue.Render(course),
		sep,
		styleHudLabel.Render("lessons ") + styleHudValue.Render(fmt.Sprintf("%d/%d", done, total)) + " " + bar,
		sep,
		styleHudLabel.Render("streak ") + styleHudStreak.Render(fmt.Sprintf("%d", sum.Length)),
		sep,
		styleHudLabel.Render("savers ") + styleHudValue.Render(fmt.Sprintf("%d", sum.SaversLeft)),
	}, "")
}

var (
	styleHudLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e"))
	styleHudValue  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d0d7de"))
	styleHudStreak = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd33d"))
	styleHudOk     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7ee787"))
	styleHudDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
	styleStatusErr = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff7b72"))

	styleTab       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#8b949e"))
	styleTabActive = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#161b22")).Background(lipgloss.Color("#7ee787"))
)
