// Package tui implements the figscript terminal user interface: a catalog
// browser, the task list, and a live preview of the generated script.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/figscript/figscript/internal/catalog"
	"github.com/figscript/figscript/internal/events"
	"github.com/figscript/figscript/internal/logging"
	"github.com/figscript/figscript/internal/queue"
	"github.com/figscript/figscript/internal/script"
	"github.com/figscript/figscript/internal/templates"
	"github.com/figscript/figscript/internal/tui/components"
	"github.com/figscript/figscript/internal/tui/styles"
)

// Config wires the TUI to its collaborators.
type Config struct {
	Catalog        *catalog.Catalog
	Theme          string
	NoticeDuration time.Duration
	RenderOptions  templates.Options
	ScriptOptions  script.Options
	// CheckScript runs the syntax check on every preview refresh.
	CheckScript bool
	// Copy writes the script to the clipboard.
	Copy func(string) error
}

// Run launches the TUI program.
func Run(cfg Config) error {
	program := tea.NewProgram(newModel(cfg), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

type focusArea int

const (
	focusCatalog focusArea = iota
	focusTasks
	focusPreview
)

type inputMode int

const (
	modeBrowse inputMode = iota
	modeFilter
	modeForm
)

const (
	minWidth      = 60
	minHeight     = 15
	defaultWidth  = 100
	defaultHeight = 30
	feedSize      = 32
)

var errNoClipboard = errors.New("clipboard is not available")

type model struct {
	width  int
	height int
	styles styles.Styles
	cfg    Config
	logger zerolog.Logger

	queue    *queue.Queue
	renderer templates.Renderer
	feed     *events.Feed
	palette  *components.CatalogPalette
	tasks    components.TaskList
	form     *components.VarForm
	filter   textinput.Model
	preview  *components.ScriptViewer
	// formPreview shows the entry being added or edited, rendered from the
	// form's current values.
	formPreview *components.ScriptViewer

	focus     focusArea
	mode      inputMode
	script    string
	scriptErr error
	now       time.Time
}

func newModel(cfg Config) model {
	if cfg.NoticeDuration <= 0 {
		cfg.NoticeDuration = 3 * time.Second
	}
	var entries []*catalog.Entry
	if cfg.Catalog != nil {
		entries = cfg.Catalog.Entries()
	}

	feed := events.NewFeed(feedSize)
	renderer := templates.NewRenderer(cfg.RenderOptions)
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter properties"

	m := model{
		styles:      styles.BuildStyles(styles.ThemeByName(cfg.Theme)),
		cfg:         cfg,
		logger:      logging.Component("tui"),
		feed:        feed,
		renderer:    renderer,
		queue:       queue.New(queue.WithRenderer(renderer), queue.WithRecorder(feed)),
		palette:     components.NewCatalogPalette(entries),
		filter:      filter,
		preview:     components.NewScriptViewer(),
		formPreview: components.NewScriptViewer(),
		now:         time.Now(),
	}
	m.refreshPreview()
	return m
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeFilter:
			return m.updateFilter(msg)
		case modeForm:
			return m.updateForm(msg)
		}
		return m.updateBrowse(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()
	}
	return m, nil
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.focus = (m.focus + 1) % 3
	case "shift+tab":
		m.focus = (m.focus + 2) % 3
	case "j", "down":
		m.move(1)
	case "k", "up":
		m.move(-1)
	case "g", "home":
		if m.focus == focusPreview {
			m.preview.ScrollToTop()
		}
	case "G", "end":
		if m.focus == focusPreview {
			m.preview.ScrollToBottom()
		}
	case "/":
		m.focus = focusCatalog
		m.mode = modeFilter
		m.filter.SetValue(m.palette.Query)
		m.filter.CursorEnd()
		return m, m.filter.Focus()
	case "enter":
		if m.focus == focusTasks {
			return m, m.editSelectedTask()
		}
		return m, m.openAddForm()
	case "a":
		m.addSelectedEntry()
	case "e":
		return m, m.editSelectedTask()
	case "d", "delete":
		m.removeSelectedTask()
	case "K":
		m.reorderSelectedTask(-1)
	case "J":
		m.reorderSelectedTask(1)
	case "c":
		m.copyScript()
	case "C":
		if m.queue.Len() > 0 {
			m.queue.Clear()
			m.tasks.Clamp(0)
			m.refreshPreview()
		}
	}
	return m, nil
}

func (m model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filter.Blur()
		m.filter.SetValue("")
		m.palette.Reset()
		m.mode = modeBrowse
		return m, nil
	case "enter", "tab":
		m.filter.Blur()
		m.mode = modeBrowse
		return m, nil
	case "down":
		m.palette.Move(1)
		return m, nil
	case "up":
		m.palette.Move(-1)
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.palette.SetQuery(m.filter.Value())
	return m, cmd
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form = nil
		m.mode = modeBrowse
		return m, nil
	case "enter":
		m.saveForm()
		return m, nil
	case "tab":
		m.form.Next()
		return m, nil
	case "shift+tab":
		m.form.Prev()
		return m, nil
	case "left", "right":
		if field := m.form.Focused(); field != nil && isChoice(field.Input.Type) {
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			m.form.Cycle(delta)
			m.refreshFormPreview()
			return m, nil
		}
	case "up", "down":
		if field := m.form.Focused(); field != nil && field.Input.Type == catalog.InputNumber {
			delta := 1
			if msg.String() == "down" {
				delta = -1
			}
			m.form.Cycle(delta)
			m.refreshFormPreview()
		}
		return m, nil
	}
	cmd := m.form.Update(msg)
	m.refreshFormPreview()
	return m, cmd
}

func isChoice(t catalog.InputType) bool {
	return t == catalog.InputSelect || t == catalog.InputBoolean
}

func (m *model) move(delta int) {
	switch m.focus {
	case focusCatalog:
		m.palette.Move(delta)
	case focusTasks:
		m.tasks.Move(delta, m.queue.Len())
	case focusPreview:
		if delta > 0 {
			m.preview.ScrollDown(delta)
		} else {
			m.preview.ScrollUp(-delta)
		}
	}
}

func (m *model) addSelectedEntry() {
	entry := m.palette.SelectedEntry()
	if entry == nil {
		return
	}
	if m.queue.Add(entry.NewTask(nil)) {
		m.tasks.Index = m.queue.Len() - 1
		m.refreshPreview()
	}
}

func (m *model) openAddForm() tea.Cmd {
	entry := m.palette.SelectedEntry()
	if entry == nil {
		return nil
	}
	if _, queued := m.queue.Get(entry.ID); queued {
		m.feed.Record(events.Event{Type: events.TypeTaskDuplicate, TaskID: entry.ID, Name: entry.Name})
		return nil
	}
	if len(entry.Inputs) == 0 {
		m.addSelectedEntry()
		return nil
	}
	m.form = components.NewVarForm(entry, "", nil)
	m.mode = modeForm
	m.refreshFormPreview()
	return textinput.Blink
}

func (m *model) editSelectedTask() tea.Cmd {
	tasks := m.queue.Tasks()
	if m.tasks.Index < 0 || m.tasks.Index >= len(tasks) {
		return nil
	}
	task := tasks[m.tasks.Index]
	entry, err := m.lookupEntry(task.ID)
	if err != nil {
		m.feed.Record(events.Event{Type: events.TypeError, TaskID: task.ID, Detail: fmt.Sprintf("No catalog entry for %s", task.Name)})
		return nil
	}
	m.form = components.NewVarForm(entry, task.ID, task.Vars)
	m.mode = modeForm
	m.focus = focusTasks
	m.refreshFormPreview()
	return textinput.Blink
}

func (m *model) lookupEntry(id string) (*catalog.Entry, error) {
	if m.cfg.Catalog == nil {
		return nil, catalog.ErrEntryNotFound
	}
	return m.cfg.Catalog.Get(id)
}

func (m *model) saveForm() {
	form := m.form
	m.form = nil
	m.mode = modeBrowse
	if form == nil {
		return
	}

	if form.Editing() {
		m.queue.UpdateVars(form.TaskID, form.Values())
	} else if m.queue.Add(form.Entry.NewTask(form.Values())) {
		m.tasks.Index = m.queue.Len() - 1
	}
	m.refreshPreview()
}

func (m *model) removeSelectedTask() {
	tasks := m.queue.Tasks()
	if m.tasks.Index < 0 || m.tasks.Index >= len(tasks) {
		return
	}
	m.queue.Remove(tasks[m.tasks.Index].ID)
	m.tasks.Clamp(m.queue.Len())
	m.refreshPreview()
}

func (m *model) reorderSelectedTask(delta int) {
	from := m.tasks.Index
	to := from + delta
	if to < 0 || to >= m.queue.Len() {
		return
	}
	if err := m.queue.Reorder(from, to); err != nil {
		m.logger.Debug().Err(err).Msg("reorder rejected")
		return
	}
	m.tasks.Index = to
	m.refreshPreview()
}

func (m *model) copyScript() {
	if strings.TrimSpace(m.script) == "" {
		m.feed.Record(events.Event{Type: events.TypeError, Detail: "Nothing to copy yet"})
		return
	}

	err := errNoClipboard
	if m.cfg.Copy != nil {
		err = m.cfg.Copy(m.script)
	}
	if err != nil {
		m.logger.Warn().Err(err).Msg("copy failed")
		m.feed.Record(events.Event{Type: events.TypeError, Detail: fmt.Sprintf("Copy failed: %v", err)})
		return
	}
	m.feed.Record(events.Event{Type: events.TypeScriptCopied})
}

// refreshPreview rebuilds the script from the queue. Rendering is cheap, so
// it runs after every mutation rather than on demand.
func (m *model) refreshPreview() {
	opts := m.cfg.ScriptOptions
	opts.Wrap = true
	if opts.Indent == "" {
		opts.Indent = script.DefaultOptions().Indent
	}

	src, err := script.Build(m.queue.RenderEach(), opts)
	if err == nil && m.cfg.CheckScript && src != "" {
		err = script.Check(src)
	}
	m.script = src
	m.scriptErr = err
	m.preview.SetContent(src)
}

// refreshFormPreview renders the form's entry on its own: helpers and body,
// without the selection loop.
func (m *model) refreshFormPreview() {
	if m.form == nil {
		m.formPreview.SetContent("")
		return
	}
	entry := m.form.Entry
	body := strings.TrimSpace(m.renderer.Render(entry.Template, m.form.Values()))
	if body == "" {
		m.formPreview.SetContent("")
		return
	}

	opts := m.cfg.ScriptOptions
	opts.Wrap = false
	src, err := script.Build([]queue.Rendered{{
		ID:      entry.ID,
		Name:    entry.Name,
		Comment: entry.Comment,
		Helpers: entry.Helpers,
		Body:    body,
	}}, opts)
	if err != nil {
		m.logger.Debug().Err(err).Str("entry", entry.ID).Msg("form preview without helpers")
		src = body
	}
	m.formPreview.SetContent(src)
}

func (m model) View() string {
	width, height := m.width, m.height
	if width > 0 && height > 0 {
		if width < minWidth || height < minHeight {
			return fmt.Sprintf("%s\n", joinLines(m.smallViewLines()))
		}
	} else {
		width, height = defaultWidth, defaultHeight
	}

	header := m.headerLine()
	footer := m.footerLines()
	bodyHeight := height - 1 - len(footer)

	leftWidth := max(width/3, 30)
	rightWidth := width - leftWidth

	left := m.renderLeftPanel(leftWidth, bodyHeight)
	tasksHeight := min(max(m.queue.Len()+3, 6), bodyHeight/2)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTasksPanel(rightWidth, tasksHeight),
		m.renderPreviewPanel(rightWidth, bodyHeight-tasksHeight),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return fmt.Sprintf("%s\n", joinLines(append([]string{header, body}, footer...)))
}

func (m model) headerLine() string {
	title := m.styles.Title.Render("figscript")
	count := fmt.Sprintf("%d tasks", m.queue.Len())
	if m.queue.Len() == 1 {
		count = "1 task"
	}
	return title + "  " + m.styles.Muted.Render(count)
}

func (m model) footerLines() []string {
	status := m.styles.Muted.Render(" ")
	if event, ok := m.feed.Active(m.now, m.cfg.NoticeDuration); ok {
		status = components.RenderEventBadge(m.styles, event)
	} else if m.scriptErr != nil {
		status = m.styles.Error.Render("ERR " + m.scriptErr.Error())
	}
	return []string{status, m.shortcuts()}
}

func (m model) shortcuts() string {
	switch m.mode {
	case modeFilter:
		return m.styles.Muted.Render("type to filter | ↑/↓ move | enter done | esc clear")
	case modeForm:
		return m.styles.Muted.Render("tab next field | enter save | esc cancel")
	}

	state := components.ActionState{
		Tasks:         m.queue.Len(),
		SelectedTask:  m.tasks.Index,
		HasSelection:  m.palette.SelectedEntry() != nil,
		ScriptPresent: m.script != "",
	}
	switch m.focus {
	case focusTasks:
		return components.RenderQuickActionBar(m.styles, components.TaskActions(state))
	case focusPreview:
		return components.RenderQuickActionBar(m.styles, components.PreviewActions(state))
	default:
		return components.RenderQuickActionBar(m.styles, components.CatalogActions(state))
	}
}

func (m model) panelStyle(area focusArea, width, height int) lipgloss.Style {
	style := m.styles.Panel
	if m.focus == area && m.mode != modeForm {
		style = m.styles.PanelFocus
	}
	// Borders take two columns and two rows.
	return style.Width(max(width-2, 1)).Height(max(height-2, 1))
}

func (m model) renderLeftPanel(width, height int) string {
	inner := width - 4
	if m.mode == modeForm && m.form != nil {
		lines := m.form.Render(m.styles, inner)
		return m.styles.PanelFocus.Width(max(width-2, 1)).Height(max(height-2, 1)).Render(joinLines(lines))
	}

	title := m.styles.Accent.Render("Catalog")
	lines := []string{title}
	if m.mode == modeFilter {
		lines = append(lines, m.filter.View())
	} else if m.palette.Query != "" {
		lines = append(lines, m.styles.Muted.Render("/ "+m.palette.Query))
	}
	listHeight := height - 2 - len(lines)
	lines = append(lines, m.palette.Render(m.styles, inner, listHeight)...)
	return m.panelStyle(focusCatalog, width, height).Render(joinLines(lines))
}

func (m model) renderTasksPanel(width, height int) string {
	lines := []string{m.styles.Accent.Render("Task list")}
	lines = append(lines, m.tasks.Render(m.styles, m.queue.Tasks(), m.focus == focusTasks, width-4)...)
	if maxLines := height - 2; maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return m.panelStyle(focusTasks, width, height).Render(joinLines(lines))
}

func (m model) renderPreviewPanel(width, height int) string {
	if m.mode == modeForm && m.form != nil {
		title := "Preview: " + m.form.Entry.Name
		return components.RenderScriptPanel(m.styles, m.formPreview, title, width, height, true)
	}
	focused := m.focus == focusPreview && m.mode != modeForm
	return components.RenderScriptPanel(m.styles, m.preview, "Script preview", width, height, focused)
}

func (m model) smallViewLines() []string {
	message := fmt.Sprintf("Terminal too small (%dx%d).", m.width, m.height)
	hint := fmt.Sprintf("Resize to at least %dx%d.", minWidth, minHeight)

	return []string{
		m.styles.Warning.Render(message),
		m.styles.Muted.Render(hint),
		m.styles.Muted.Render("Press q to quit."),
	}
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
