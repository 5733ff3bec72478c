package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/curricula/internal/cli/formatter"
	"github.com/alexanderramin/curricula/internal/contract"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// detailHeight is the number of lines reserved for the topic detail pane.
const detailHeight = 7

type browserKeys struct {
	Up     key.Binding
	Down   key.Binding
	Scroll key.Binding
	Quit   key.Binding
}

func defaultBrowserKeys() browserKeys {
	return browserKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Scroll: key.NewBinding(key.WithKeys("pgdown", "pgup"), key.WithHelp("pgup/pgdn", "scroll detail")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// scheduleBrowser is a read-only view of a computed course schedule: a
// topic table with the selected topic's detail underneath.
type scheduleBrowser struct {
	resp   *contract.CourseScheduleResponse
	titles map[string]string
	table  table.Model
	detail viewport.Model
	keys   browserKeys
	width  int
}

func newScheduleBrowser(resp *contract.CourseScheduleResponse) *scheduleBrowser {
	titles := make(map[string]string, len(resp.Topics))
	for _, t := range resp.Topics {
		titles[t.TopicID] = t.Title
	}

	rows := make([]table.Row, 0, len(resp.Topics))
	for i, t := range resp.Topics {
		mark := ""
		if t.Fallback {
			mark = "cycle"
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			t.Title,
			formatter.FormatHours(t.Hours),
			t.StartDate.Format(formatter.DateLayout),
			t.EndDate.Format(formatter.DateLayout),
			mark,
		})
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(formatter.ColorHeader).Bold(true)
	styles.Selected = styles.Selected.Foreground(formatter.ColorFg).Background(formatter.ColorDim)

	b := &scheduleBrowser{
		resp:   resp,
		titles: titles,
		keys:   defaultBrowserKeys(),
		table: table.New(
			table.WithColumns(browserColumns(0)),
			table.WithRows(rows),
			table.WithFocused(true),
			table.WithHeight(min(len(rows)+1, 15)),
			table.WithStyles(styles),
		),
		detail: viewport.New(80, detailHeight),
	}
	b.refreshDetail()
	return b
}

// browserColumns sizes the title column to the terminal width.
func browserColumns(width int) []table.Column {
	titleWidth := 30
	if width > 0 {
		titleWidth = max(width-4-8-12-12-8-12, 12)
	}
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Topic", Width: titleWidth},
		{Title: "Hours", Width: 8},
		{Title: "Start", Width: 12},
		{Title: "End", Width: 12},
		{Title: "", Width: 8},
	}
}

func (b *scheduleBrowser) Init() tea.Cmd { return nil }

func (b *scheduleBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.table.SetColumns(browserColumns(msg.Width))
		b.table.SetHeight(max(msg.Height-detailHeight-6, 3))
		b.detail.Width = msg.Width
		return b, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, b.keys.Quit):
			return b, tea.Quit
		case key.Matches(msg, b.keys.Scroll):
			var cmd tea.Cmd
			b.detail, cmd = b.detail.Update(msg)
			return b, cmd
		}
	}

	before := b.table.Cursor()
	var cmd tea.Cmd
	b.table, cmd = b.table.Update(msg)
	if b.table.Cursor() != before {
		b.refreshDetail()
	}
	return b, cmd
}

// selected returns the topic under the cursor, or nil for an empty course.
func (b *scheduleBrowser) selected() *contract.TopicScheduleView {
	i := b.table.Cursor()
	if i < 0 || i >= len(b.resp.Topics) {
		return nil
	}
	return &b.resp.Topics[i]
}

func (b *scheduleBrowser) refreshDetail() {
	t := b.selected()
	if t == nil {
		b.detail.SetContent(formatter.Dim("This course has no topics."))
		return
	}
	var s strings.Builder
	s.WriteString(formatter.Bold(t.Title) + "\n")
	s.WriteString(fmt.Sprintf("%s  %s over %s\n", formatter.Dim("WHEN   "),
		formatter.DateRange(&t.StartDate, &t.EndDate), formatter.FormatHours(t.Hours)))
	s.WriteString(fmt.Sprintf("%s  %s\n", formatter.Dim("AFTER  "), formatter.IDList(t.Prerequisites, b.titles)))
	s.WriteString(fmt.Sprintf("%s  %s\n", formatter.Dim("WITH   "), formatter.IDList(t.Corequisites, b.titles)))
	if t.Fallback {
		s.WriteString(formatter.Warning("on a prerequisite cycle, placed after the other topics") + "\n")
	}
	b.detail.SetContent(s.String())
	b.detail.GotoTop()
}

func (b *scheduleBrowser) View() string {
	r := b.resp
	header := lipgloss.JoinVertical(lipgloss.Left,
		formatter.Header(r.Title),
		formatter.Dim(fmt.Sprintf("%s → %s  %s over %s",
			formatter.FormatDate(r.StartAt), formatter.FormatDate(r.EndAt),
			formatter.FormatHours(r.TotalHours), formatter.FormatDays(r.TotalDays))),
	)
	help := formatter.Dim(strings.Join([]string{
		helpText(b.keys.Up), helpText(b.keys.Down), helpText(b.keys.Scroll), helpText(b.keys.Quit),
	}, " • "))
	return lipgloss.JoinVertical(lipgloss.Left, header, "", b.table.View(), "", b.detail.View(), help)
}

func helpText(b key.Binding) string {
	h := b.Help()
	return h.Key + " " + h.Desc
}
