package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/johan-st/wordname-tui/internal/access"
	"github.com/johan-st/wordname-tui/internal/generate"
	"github.com/johan-st/wordname-tui/internal/history"
	"github.com/johan-st/wordname-tui/internal/lexicon"
)

// Focus represents which pane is focused
type Focus int

const (
	FocusSettings Focus = iota
	FocusResults
	FocusActivity
)

// Settings field indices. Language rows start at fieldLangBase.
const (
	fieldCount = iota
	fieldCase
	fieldSuffix
	fieldPolicy
	fieldLangBase
)

const (
	countStep    = 5
	maxCount     = 500
	maxActivity  = 200
	flashTimeout = time.Second
)

// langOption is a selectable language row in the settings pane.
type langOption struct {
	tag     lexicon.Tag
	words   int
	enabled bool
}

// App is the main TUI application model.
type App struct {
	// Dependencies
	lexStore     *lexicon.Store
	generator    *generate.Generator
	historyStore *history.Store
	resolver     *access.Resolver
	user         *access.UserInfo
	sessionID    string

	// Window size
	width, height int

	// State
	focus          Focus
	settingsCursor int

	// Generation settings
	count      int
	caseMode   generate.Case
	suffixMode generate.Suffix
	policy     generate.PickPolicy
	langs      []langOption

	// Results
	resultsTable table.Model
	results      []generate.Username
	selectedRow  int
	sortAlpha    bool

	// Run state
	running   bool
	cancelRun context.CancelFunc
	events    chan tea.Msg
	lastReq   generate.Request
	runID     string
	produced  int
	requested int
	runState  generate.State
	runErr    error

	// Activity log
	activity []string

	// UI state
	flash      string
	flashIsErr bool
	showHelp   bool
	err        error

	// Key bindings
	keys KeyMap
}

// NewApp creates a new TUI application.
func NewApp(lexStore *lexicon.Store, generator *generate.Generator, historyStore *history.Store,
	resolver *access.Resolver, user *access.UserInfo, sessionID string,
	defaults generate.Request, width, height int) *App {

	resultsTable := table.New(
		table.WithColumns([]table.Column{}),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(height-10),
	)
	resultsTable.SetStyles(table.Styles{
		Header:   tableHeaderStyle,
		Cell:     tableCellStyle,
		Selected: tableSelectedRowStyle,
	})

	count := defaults.Count
	if count < 1 {
		count = 1
	}

	app := &App{
		lexStore:     lexStore,
		generator:    generator,
		historyStore: historyStore,
		resolver:     resolver,
		user:         user,
		sessionID:    sessionID,
		width:        width,
		height:       height,
		focus:        FocusSettings,
		count:        count,
		caseMode:     defaults.Case,
		suffixMode:   defaults.Suffix,
		policy:       defaults.Policy,
		runState:     generate.StateIdle,
		resultsTable: resultsTable,
		keys:         DefaultKeyMap(),
	}

	return app
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.loadLanguages
}

// loadLanguages loads the languages this user may generate from, with word counts.
func (a *App) loadLanguages() tea.Msg {
	tags := a.lexStore.Languages()
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = string(t)
	}
	if a.resolver != nil {
		names = a.resolver.FilterLanguages(a.user, names)
	}

	opts := make([]langOption, 0, len(names))
	for _, name := range names {
		tag := lexicon.Tag(name)
		opts = append(opts, langOption{
			tag:     tag,
			words:   a.lexStore.Count(tag),
			enabled: true,
		})
	}
	return LanguagesLoadedMsg{Languages: opts}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateSizes()
		return a, nil

	case LanguagesLoadedMsg:
		if msg.Error != nil {
			a.err = msg.Error
		} else {
			a.langs = msg.Languages
			if a.settingsCursor >= fieldLangBase+len(a.langs) {
				a.settingsCursor = fieldLangBase
			}
		}
		return a, nil

	case UsernameAcceptedMsg:
		a.produced = msg.Produced
		a.requested = msg.Requested
		a.results = append(a.results, msg.Username)
		a.logActivity(fmt.Sprintf("accepted %s (%s)", msg.Username.Value, msg.Username.Lang))
		a.updateResultsTable()
		return a, a.waitForEvent

	case GenerationDoneMsg:
		return a.finishRun(msg)

	case RunRecordedMsg:
		if msg.Error != nil {
			a.logActivity("history write failed: " + msg.Error.Error())
		}
		return a, nil

	case FlashClearMsg:
		a.flash = ""
		a.flashIsErr = false
		return a, nil

	case ErrorMsg:
		a.err = msg.Error
		return a, nil
	}

	// Update focused component
	if a.focus == FocusResults {
		var cmd tea.Cmd
		a.resultsTable, cmd = a.resultsTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// startGeneration kicks off an asynchronous run. Progress arrives over the
// events channel so the model stays responsive while the generator works.
func (a *App) startGeneration() tea.Cmd {
	if a.running {
		return nil
	}

	req := a.buildRequest()
	if len(req.Languages) == 0 {
		return a.setFlash("no languages selected", true)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancelRun = cancel
	a.running = true
	a.runState = generate.StateRunning
	a.runErr = nil
	a.lastReq = req
	a.runID = uuid.New().String()
	a.results = nil
	a.selectedRow = 0
	a.produced = 0
	a.requested = req.Count
	a.updateResultsTable()
	a.logActivity(fmt.Sprintf("run started: %d names from %s", req.Count, joinTags(req.Languages)))

	events := make(chan tea.Msg, req.Count+1)
	a.events = events

	go func() {
		start := time.Now()
		result, err := a.generator.Run(ctx, req, func(u generate.Username, produced, requested int) {
			events <- UsernameAcceptedMsg{Username: u, Produced: produced, Requested: requested}
		})
		events <- GenerationDoneMsg{Result: result, Err: err, Duration: time.Since(start)}
	}()

	return a.waitForEvent
}

// waitForEvent blocks on the next event from the running generation.
func (a *App) waitForEvent() tea.Msg {
	return <-a.events
}

func (a *App) finishRun(msg GenerationDoneMsg) (tea.Model, tea.Cmd) {
	a.running = false
	if a.cancelRun != nil {
		a.cancelRun()
		a.cancelRun = nil
	}
	a.runErr = msg.Err

	result := msg.Result
	if result == nil {
		a.runState = generate.StateIdle
		if msg.Err != nil {
			a.logActivity("run failed: " + msg.Err.Error())
		}
		return a, nil
	}

	a.runState = result.State
	switch {
	case result.State == generate.StateCancelled:
		a.logActivity(fmt.Sprintf("run cancelled after %d/%d in %s",
			len(result.Usernames), a.requested, formatRunDuration(msg.Duration)))
	case msg.Err != nil:
		a.logActivity(fmt.Sprintf("run stopped: %s", msg.Err.Error()))
	default:
		a.logActivity(fmt.Sprintf("run completed: %d names in %s (%d profanity, %d duplicate, %d non-ascii rejected)",
			len(result.Usernames), formatRunDuration(msg.Duration),
			result.Profanity, result.Duplicate, result.NonASCII))
	}

	return a, a.recordRun(result, msg.Err, msg.Duration)
}

// recordRun persists the finished run to history.
func (a *App) recordRun(result *generate.Result, runErr error, duration time.Duration) tea.Cmd {
	if a.historyStore == nil {
		return nil
	}
	runID := a.runID
	sessionID := a.sessionID
	req := a.lastReq
	return func() tea.Msg {
		record := history.NewRunRecord(runID, sessionID, req, result, runErr, duration)
		err := a.historyStore.RecordRun(record, result.Usernames)
		return RunRecordedMsg{Error: err}
	}
}

func (a *App) buildRequest() generate.Request {
	var tags []lexicon.Tag
	for _, l := range a.langs {
		if l.enabled {
			tags = append(tags, l.tag)
		}
	}
	return generate.Request{
		Count:     a.count,
		Case:      a.caseMode,
		Suffix:    a.suffixMode,
		Languages: tags,
		Policy:    a.policy,
		RetryCap:  generate.DefaultRetryCap,
	}
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle help overlay
	if a.showHelp {
		if key.Matches(msg, a.keys.Back) || key.Matches(msg, a.keys.Help) {
			a.showHelp = false
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		if a.cancelRun != nil {
			a.cancelRun()
		}
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return a, nil

	case key.Matches(msg, a.keys.Generate):
		return a, a.startGeneration()

	case key.Matches(msg, a.keys.Cancel):
		return a.handleCancel()

	case key.Matches(msg, a.keys.Back):
		if a.running {
			return a.handleCancel()
		}
		return a, nil

	case key.Matches(msg, a.keys.Sort):
		a.sortAlpha = !a.sortAlpha
		a.updateResultsTable()
		return a, nil

	case key.Matches(msg, a.keys.Refresh):
		return a, a.loadLanguages

	case key.Matches(msg, a.keys.Copy):
		return a, a.copySelected()

	case key.Matches(msg, a.keys.CopyAll):
		return a, a.copyAll()

	case key.Matches(msg, a.keys.NextPane):
		a.focus = (a.focus + 1) % 3
		a.updateFocus()
		return a, nil

	case key.Matches(msg, a.keys.PrevPane):
		a.focus = (a.focus + 2) % 3
		a.updateFocus()
		return a, nil

	case key.Matches(msg, a.keys.Left):
		if a.focus == FocusSettings {
			a.adjustSetting(-1)
		}
		return a, nil

	case key.Matches(msg, a.keys.Right):
		if a.focus == FocusSettings {
			a.adjustSetting(1)
		}
		return a, nil

	case key.Matches(msg, a.keys.Up):
		return a.handleUp()

	case key.Matches(msg, a.keys.Down):
		return a.handleDown()

	case key.Matches(msg, a.keys.Select):
		return a.handleSelect()
	}

	return a, nil
}

func (a *App) handleCancel() (tea.Model, tea.Cmd) {
	if !a.running || a.cancelRun == nil {
		return a, nil
	}
	a.cancelRun()
	a.logActivity("cancel requested")
	return a, nil
}

func (a *App) updateFocus() {
	a.resultsTable.Blur()
	if a.focus == FocusResults {
		a.resultsTable.Focus()
	}
}

func (a *App) handleUp() (tea.Model, tea.Cmd) {
	switch a.focus {
	case FocusSettings:
		if a.settingsCursor > 0 {
			a.settingsCursor--
		}
	case FocusResults:
		if a.selectedRow > 0 {
			a.selectedRow--
			a.resultsTable.SetCursor(a.selectedRow)
		}
	}
	return a, nil
}

func (a *App) handleDown() (tea.Model, tea.Cmd) {
	switch a.focus {
	case FocusSettings:
		if a.settingsCursor < fieldLangBase+len(a.langs)-1 {
			a.settingsCursor++
		}
	case FocusResults:
		if a.selectedRow < len(a.results)-1 {
			a.selectedRow++
			a.resultsTable.SetCursor(a.selectedRow)
		}
	}
	return a, nil
}

func (a *App) handleSelect() (tea.Model, tea.Cmd) {
	switch a.focus {
	case FocusSettings:
		if a.settingsCursor >= fieldLangBase {
			i := a.settingsCursor - fieldLangBase
			if i < len(a.langs) {
				a.langs[i].enabled = !a.langs[i].enabled
			}
		} else {
			a.adjustSetting(1)
		}
		return a, nil
	case FocusResults:
		return a, a.copySelected()
	}
	return a, nil
}

// adjustSetting changes the value of the setting under the cursor.
func (a *App) adjustSetting(dir int) {
	switch a.settingsCursor {
	case fieldCount:
		a.count += dir * countStep
		if a.count < 1 {
			a.count = 1
		}
		if a.count > maxCount {
			a.count = maxCount
		}
	case fieldCase:
		a.caseMode = cycleCase(a.caseMode, dir)
	case fieldSuffix:
		a.suffixMode = cycleSuffix(a.suffixMode, dir)
	case fieldPolicy:
		if a.policy == generate.PickUniform {
			a.policy = generate.PickRoundRobin
		} else {
			a.policy = generate.PickUniform
		}
	default:
		i := a.settingsCursor - fieldLangBase
		if i >= 0 && i < len(a.langs) {
			a.langs[i].enabled = !a.langs[i].enabled
		}
	}
}

func cycleCase(c generate.Case, dir int) generate.Case {
	n := (int(c) + dir + 3) % 3
	return generate.Case(n)
}

func cycleSuffix(s generate.Suffix, dir int) generate.Suffix {
	n := (int(s) + dir + 4) % 4
	return generate.Suffix(n)
}

func (a *App) copySelected() tea.Cmd {
	view := a.viewResults()
	if len(view) == 0 || a.selectedRow >= len(view) {
		return nil
	}
	value := view[a.selectedRow].Value
	if err := copyToClipboard(value); err != nil {
		return a.setFlash("copy: "+err.Error(), true)
	}
	return a.setFlash("copied "+value, false)
}

func (a *App) copyAll() tea.Cmd {
	view := a.viewResults()
	if len(view) == 0 {
		return nil
	}
	var b strings.Builder
	for _, u := range view {
		b.WriteString(u.Value)
		b.WriteString("\n")
	}
	if err := copyToClipboard(b.String()); err != nil {
		return a.setFlash("copy: "+err.Error(), true)
	}
	return a.setFlash(fmt.Sprintf("copied %d names", len(view)), false)
}

func (a *App) setFlash(msg string, isErr bool) tea.Cmd {
	a.flash = msg
	a.flashIsErr = isErr
	return tea.Tick(flashTimeout, func(time.Time) tea.Msg {
		return FlashClearMsg{}
	})
}

func (a *App) logActivity(line string) {
	stamped := time.Now().Format("15:04:05") + " " + line
	a.activity = append(a.activity, stamped)
	if len(a.activity) > maxActivity {
		a.activity = a.activity[len(a.activity)-maxActivity:]
	}
}

// viewResults returns results in display order.
func (a *App) viewResults() []generate.Username {
	if !a.sortAlpha {
		return a.results
	}
	view := make([]generate.Username, len(a.results))
	copy(view, a.results)
	sort.Slice(view, func(i, j int) bool {
		return strings.ToLower(view[i].Value) < strings.ToLower(view[j].Value)
	})
	return view
}

func (a *App) updateResultsTable() {
	view := a.viewResults()

	nameWidth := 8
	for _, u := range view {
		if len(u.Value) > nameWidth {
			nameWidth = len(u.Value)
		}
	}
	if nameWidth > 32 {
		nameWidth = 32
	}

	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "USERNAME", Width: nameWidth + 2},
		{Title: "LANGUAGE", Width: 10},
		{Title: "SUFFIX", Width: 6},
	}

	rows := make([]table.Row, len(view))
	for i, u := range view {
		suffix := u.Suffix
		if suffix == "" {
			suffix = "-"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			truncateString(u.Value, nameWidth),
			string(u.Lang),
			suffix,
		}
	}

	// Must set rows before columns to avoid index panic in bubbles/table
	a.resultsTable.SetRows([]table.Row{})
	a.resultsTable.SetColumns(columns)
	a.resultsTable.SetRows(rows)
	if a.selectedRow < len(rows) {
		a.resultsTable.SetCursor(a.selectedRow)
	} else if len(rows) > 0 {
		a.resultsTable.SetCursor(0)
		a.selectedRow = 0
	}
}

func (a *App) updateSizes() {
	contentHeight := a.height - 2 // flash (1) + status (1)

	_, resultsWidth, _ := a.paneWidths()

	tableHeight := contentHeight - 3 // borders + header
	if tableHeight < 1 {
		tableHeight = 1
	}
	a.resultsTable.SetHeight(tableHeight)
	a.resultsTable.SetWidth(resultsWidth - 4)
	a.updateResultsTable()
}

// paneWidths returns the widths for the settings, results and activity panes.
func (a *App) paneWidths() (int, int, int) {
	settingsWidth := a.settingsPaneWidth()
	activityWidth := 36

	maxPanelWidth := a.width / 3
	if settingsWidth > maxPanelWidth {
		settingsWidth = maxPanelWidth
	}
	if activityWidth > maxPanelWidth {
		activityWidth = maxPanelWidth
	}
	if settingsWidth < 18 {
		settingsWidth = 18
	}
	if activityWidth < 16 {
		activityWidth = 16
	}

	resultsWidth := a.width - settingsWidth - activityWidth - 2
	return settingsWidth, resultsWidth, activityWidth
}

// settingsPaneWidth returns the width needed for the settings panel
// based on the longest language row, plus cursor prefix and borders.
func (a *App) settingsPaneWidth() int {
	maxLen := 18
	for _, l := range a.langs {
		row := len(string(l.tag)) + len(humanize.Comma(int64(l.words))) + 8
		if row > maxLen {
			maxLen = row
		}
	}
	return maxLen + 7
}

// View implements tea.Model.
func (a *App) View() string {
	if a.width < 60 || a.height < 12 {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
			errorStyle.Render("Terminal too small\nMin: 60x12"))
	}

	if a.showHelp {
		return a.renderHelp()
	}

	settingsWidth, resultsWidth, activityWidth := a.paneWidths()
	contentHeight := a.height - 2 // flash (1) + status (1)

	var b strings.Builder

	settingsPane := a.renderSettingsPane(settingsWidth, contentHeight)
	resultsPane := a.renderResultsPane(resultsWidth, contentHeight)
	activityPane := a.renderActivityPane(activityWidth, contentHeight)

	content := lipgloss.JoinHorizontal(lipgloss.Top, settingsPane, resultsPane, activityPane)
	b.WriteString(content)
	b.WriteString("\n")

	b.WriteString(a.renderFlashBar())
	b.WriteString("\n")

	b.WriteString(a.renderStatusBar())

	return b.String()
}

func (a *App) renderSettingsPane(width, height int) string {
	focused := a.focus == FocusSettings

	var content strings.Builder

	writeField := func(idx int, label, value string) {
		line := fmt.Sprintf("%-8s %s", label, value)
		if focused && a.settingsCursor == idx {
			content.WriteString(selectedItemStyle.Render("> " + line))
		} else {
			content.WriteString(normalItemStyle.Render("  " + line))
		}
		content.WriteString("\n")
	}

	writeField(fieldCount, "count", fmt.Sprintf("%d", a.count))
	writeField(fieldCase, "case", a.caseMode.String())
	writeField(fieldSuffix, "suffix", a.suffixMode.String())
	writeField(fieldPolicy, "policy", a.policy.String())
	content.WriteString("\n")
	content.WriteString(dimItemStyle.Render("  languages"))
	content.WriteString("\n")

	if len(a.langs) == 0 {
		content.WriteString(dimItemStyle.Render("  no wordlists loaded"))
	}

	// Scroll language rows when they outgrow the pane.
	visibleHeight := height - 2 - 6 // borders + fixed fields
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	offset := 0
	langCursor := a.settingsCursor - fieldLangBase
	if langCursor >= visibleHeight {
		offset = langCursor - visibleHeight + 1
	}
	end := offset + visibleHeight
	if end > len(a.langs) {
		end = len(a.langs)
	}

	for i := offset; i < end; i++ {
		l := a.langs[i]
		mark := "[ ]"
		if l.enabled {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %-4s %s", mark, string(l.tag), humanize.Comma(int64(l.words)))
		line = truncateString(line, width-6)
		if focused && a.settingsCursor == fieldLangBase+i {
			content.WriteString(selectedItemStyle.Render("> " + line))
		} else {
			content.WriteString(normalItemStyle.Render("  " + line))
		}
		if i < end-1 || end < len(a.langs) {
			content.WriteString("\n")
		}
	}

	if end < len(a.langs) {
		content.WriteString(dimItemStyle.Render(" ↓ more"))
	}

	return a.renderPaneWithTitle(content.String(), width, height, "Settings", focused)
}

func (a *App) renderResultsPane(width, height int) string {
	focused := a.focus == FocusResults

	if len(a.results) == 0 {
		hint := "Press g to generate"
		if a.running {
			hint = "Generating..."
		}
		return a.renderPaneWithTitle(dimItemStyle.Render(hint), width, height, a.resultsTitle(), focused)
	}

	var content strings.Builder
	content.WriteString(a.resultsTable.View())

	return a.renderPaneWithTitle(content.String(), width, height, a.resultsTitle(), focused)
}

func (a *App) resultsTitle() string {
	title := "Results"
	if a.sortAlpha {
		title = "Results (a-z)"
	}
	return title
}

func (a *App) renderActivityPane(width, height int) string {
	focused := a.focus == FocusActivity

	visibleHeight := height - 2
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	var content strings.Builder
	if len(a.activity) == 0 {
		content.WriteString(dimItemStyle.Render(" quiet so far"))
	} else {
		start := 0
		if len(a.activity) > visibleHeight {
			start = len(a.activity) - visibleHeight
		}
		for i := start; i < len(a.activity); i++ {
			content.WriteString(dimItemStyle.Render(truncateString(a.activity[i], width-4)))
			if i < len(a.activity)-1 {
				content.WriteString("\n")
			}
		}
	}

	return a.renderPaneWithTitle(content.String(), width, height, "Activity", focused)
}

// buildBorderTitle builds a top border line with an embedded title
// width is the total width including border characters
// title is the plain text title (no styling applied yet)
// focused determines the border color
func (a *App) buildBorderTitle(width int, title string, focused bool) string {
	border := lipgloss.RoundedBorder()
	var borderColor lipgloss.Color
	var tStyle lipgloss.Style
	if focused {
		borderColor = primaryColor
		tStyle = focusedBorderTitleStyle
	} else {
		borderColor = mutedColor
		tStyle = borderTitleStyle
	}

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)

	titleRendered := tStyle.Render(title)
	titleWidth := lipgloss.Width(titleRendered)

	// Format: ╭─ Title ───────╮
	remainingWidth := width - 5 - titleWidth
	if remainingWidth < 0 {
		remainingWidth = 0
	}

	var b strings.Builder
	b.WriteString(borderStyle.Render(border.TopLeft))
	b.WriteString(borderStyle.Render(border.Top))
	b.WriteString(" ")
	b.WriteString(titleRendered)
	b.WriteString(" ")
	for i := 0; i < remainingWidth; i++ {
		b.WriteString(borderStyle.Render(border.Top))
	}
	b.WriteString(borderStyle.Render(border.TopRight))

	return b.String()
}

// renderPaneWithTitle renders content in a pane with a title in the top border
func (a *App) renderPaneWithTitle(content string, width, height int, title string, focused bool) string {
	border := lipgloss.RoundedBorder()
	var borderColor lipgloss.Color
	if focused {
		borderColor = primaryColor
	} else {
		borderColor = mutedColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)

	innerWidth := width - 2
	innerHeight := height - 2
	if innerWidth < 1 {
		innerWidth = 1
	}
	if innerHeight < 1 {
		innerHeight = 1
	}

	contentLines := strings.Split(content, "\n")
	for len(contentLines) < innerHeight {
		contentLines = append(contentLines, "")
	}
	if len(contentLines) > innerHeight {
		contentLines = contentLines[:innerHeight]
	}

	var result strings.Builder

	result.WriteString(a.buildBorderTitle(width, title, focused))
	result.WriteString("\n")

	for _, line := range contentLines {
		result.WriteString(borderStyle.Render(border.Left))
		paddedLine := " " + line
		lineWidth := lipgloss.Width(paddedLine)
		if lineWidth < innerWidth {
			paddedLine += strings.Repeat(" ", innerWidth-lineWidth)
		}
		result.WriteString(paddedLine)
		result.WriteString(borderStyle.Render(border.Right))
		result.WriteString("\n")
	}

	result.WriteString(borderStyle.Render(border.BottomLeft))
	for i := 0; i < innerWidth; i++ {
		result.WriteString(borderStyle.Render(border.Bottom))
	}
	result.WriteString(borderStyle.Render(border.BottomRight))

	return result.String()
}

func (a *App) renderFlashBar() string {
	if a.flash != "" {
		if a.flashIsErr {
			return errorStyle.Render(a.flash)
		}
		return successStyle.Render(a.flash)
	}
	if a.runErr != nil {
		return errorStyle.Render(a.runErr.Error())
	}
	if a.err != nil {
		return errorStyle.Render(a.err.Error())
	}
	return dimItemStyle.Render("g:generate  enter:copy  a:copy all  s:sort")
}

func (a *App) renderStatusBar() string {
	var leftParts []string
	var rightParts []string

	leftParts = append(leftParts, titleStyle.Render("wordname-tui"))
	leftParts = append(leftParts, dimItemStyle.Render(a.user.DisplayName()))

	enabled := 0
	for _, l := range a.langs {
		if l.enabled {
			enabled++
		}
	}
	rightParts = append(rightParts, statusKeyStyle.Render(fmt.Sprintf("%d/%d langs", enabled, len(a.langs))))

	if a.requested > 0 {
		rightParts = append(rightParts, dimItemStyle.Render(fmt.Sprintf("| %d/%d names", a.produced, a.requested)))
	}

	var badge string
	switch {
	case a.running:
		badge = runningBadge.Render("RUNNING")
	case a.runState == generate.StateCompleted:
		badge = completedBadge.Render("DONE")
	case a.runState == generate.StateCancelled:
		badge = cancelledBadge.Render("CANCELLED")
	default:
		badge = idleBadge.Render("IDLE")
	}
	rightParts = append(rightParts, badge)

	rightParts = append(rightParts, dimItemStyle.Render("| ?:help q:quit"))

	leftContent := strings.Join(leftParts, " ")
	rightContent := strings.Join(rightParts, " ")

	leftWidth := lipgloss.Width(leftContent)
	rightWidth := lipgloss.Width(rightContent)
	padding := a.width - leftWidth - rightWidth - 2
	if padding < 1 {
		padding = 1
	}

	content := leftContent + strings.Repeat(" ", padding) + rightContent
	return statusBarStyle.Width(a.width).Render(content)
}

func (a *App) renderHelp() string {
	var b strings.Builder

	bindings := []struct {
		key  string
		desc string
	}{
		{"↑/k, ↓/j", "Navigate"},
		{"←/h, →/l", "Adjust setting"},
		{"Tab", "Next pane"},
		{"Enter/Space", "Toggle language / copy name"},
		{"g", "Start generation"},
		{"x, Esc", "Cancel running generation"},
		{"c", "Copy selected name"},
		{"a", "Copy all names"},
		{"s", "Toggle alphabetical sort"},
		{"r", "Refresh languages"},
		{"?", "Toggle help"},
		{"q, Ctrl+C", "Quit"},
	}

	for _, binding := range bindings {
		b.WriteString(helpKeyStyle.Render(fmt.Sprintf("%-14s", binding.key)))
		b.WriteString(helpDescStyle.Render(binding.desc))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimItemStyle.Render("Press ? or Esc to close"))

	modal := modalStyle.Render(titleStyle.Render("Help") + "\n\n" + b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

// truncateString truncates a string to maxLen, adding ellipsis if needed
func truncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-1] + "…"
}

func joinTags(tags []lexicon.Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = string(t)
	}
	return strings.Join(names, ",")
}

func formatRunDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(10 * time.Millisecond).String()
}
