package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/versecraft/engine/internal/storage"
	"github.com/versecraft/engine/pkg/engine"
	"github.com/versecraft/engine/pkg/player"
	"github.com/versecraft/engine/pkg/session"
	"github.com/versecraft/engine/pkg/story"
)

type screen int

const (
	screenMenu screen = iota
	screenPlay
	screenInventory
	screenCharacter
	screenSlots
	screenQuit
)

var (
	storyPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	hudPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	narrativeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // near-white

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")). // green
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

type menuEntry struct {
	label    string
	storyID  string
	subtitle string
	resume   bool
}

// ConsoleUI is the BubbleTea model that runs the local player.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	source   storage.StorySource
	store    *session.Store
	manifest *story.Manifest
	logger   *slog.Logger

	sess *engine.Session

	screen screen
	prev   screen

	menuEntries []menuEntry
	menuIndex   int

	invIndex int
	slotMode string // "save" or "load"

	viewport viewport.Model
	ready    bool
	width    int
	height   int

	status string
	errMsg string
}

func NewConsoleUI(source storage.StorySource, store *session.Store, manifest *story.Manifest, logger *slog.Logger) ConsoleUI {
	vp := viewport.New(60, 20)
	vp.MouseWheelEnabled = true

	ui := ConsoleUI{
		source:   source,
		store:    store,
		manifest: manifest,
		logger:   logger,
		viewport: vp,
		screen:   screenMenu,
	}
	ui.buildMenu()
	return ui
}

func (m *ConsoleUI) buildMenu() {
	m.menuEntries = nil
	if lp, err := m.store.LastPlayed(context.Background()); err == nil && lp != nil {
		m.menuEntries = append(m.menuEntries, menuEntry{
			label:  fmt.Sprintf("Continue (%s, slot %d)", lp.StoryID, lp.Slot),
			resume: true,
		})
	}
	for _, info := range m.manifest.Stories {
		label := info.Title
		if label == "" {
			label = info.ID
		}
		m.menuEntries = append(m.menuEntries, menuEntry{
			label:    label,
			storyID:  info.ID,
			subtitle: info.Subtitle,
		})
	}
	if m.menuIndex >= len(m.menuEntries) {
		m.menuIndex = 0
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return nil
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		storyWidth := int(float64(m.width)*0.72) - 4
		m.viewport.Width = storyWidth - 2
		m.viewport.Height = m.height - 6
		m.ready = true
		if m.sess != nil {
			m.writeStoryContent()
		}
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.screen {
		case screenMenu:
			return m.updateMenu(msg)
		case screenPlay:
			return m.updatePlay(msg)
		case screenInventory:
			return m.updateInventory(msg)
		case screenCharacter:
			return m.updateCharacter(msg)
		case screenSlots:
			return m.updateSlots(msg)
		case screenQuit:
			return m.updateQuit(msg)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m ConsoleUI) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.prev = screenMenu
		m.screen = screenQuit
		return m, nil
	case tea.KeyUp:
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case tea.KeyDown:
		if m.menuIndex < len(m.menuEntries)-1 {
			m.menuIndex++
		}
	case tea.KeyEnter:
		if len(m.menuEntries) == 0 {
			return m, nil
		}
		entry := m.menuEntries[m.menuIndex]
		if entry.resume {
			m.continueLast()
		} else {
			m.startStory(entry.storyID)
		}
	}
	return m, nil
}

func (m ConsoleUI) updatePlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.prev = screenPlay
		m.screen = screenQuit
		return m, nil
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.choose(int(msg.String()[0] - '1'))
	case "i":
		m.invIndex = 0
		m.screen = screenInventory
	case "c":
		m.screen = screenCharacter
	case "s":
		m.slotMode = "save"
		m.screen = screenSlots
	case "l":
		m.slotMode = "load"
		m.screen = screenSlots
	case "m":
		m.leaveToMenu()
	case "y":
		m.yankSection()
	}
	return m, nil
}

func (m ConsoleUI) updateInventory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.inventoryRows()

	switch msg.Type {
	case tea.KeyCtrlC:
		m.prev = screenInventory
		m.screen = screenQuit
		return m, nil
	case tea.KeyEsc:
		m.screen = screenPlay
		return m, nil
	case tea.KeyUp:
		if m.invIndex > 0 {
			m.invIndex--
		}
		return m, nil
	case tea.KeyDown:
		if m.invIndex < len(rows)-1 {
			m.invIndex++
		}
		return m, nil
	}

	if len(rows) == 0 {
		return m, nil
	}
	row := rows[m.invIndex]

	switch msg.String() {
	case "u":
		if m.sess.Player.UseItem(row.category, row.item.ID) {
			m.status = fmt.Sprintf("Used %s", displayName(row.item))
		} else {
			m.status = fmt.Sprintf("%s cannot be used", displayName(row.item))
		}
	case "e":
		slot := equipSlotFor(row)
		if slot == "" {
			m.status = fmt.Sprintf("%s cannot be equipped", displayName(row.item))
		} else if m.sess.Player.EquipItem(slot, row.category, row.item.ID) {
			m.status = fmt.Sprintf("Equipped %s", displayName(row.item))
		} else {
			m.status = fmt.Sprintf("Could not equip %s", displayName(row.item))
		}
	}
	if m.invIndex >= len(m.inventoryRows()) && m.invIndex > 0 {
		m.invIndex--
	}
	return m, nil
}

func (m ConsoleUI) updateCharacter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.prev = screenCharacter
		m.screen = screenQuit
	default:
		for _, slot := range []string{story.SlotWeapon, story.SlotArmor, story.SlotSpecial} {
			if msg.String() == string(slot[0]) && m.sess.Player.Equip[slot] != nil {
				if m.sess.Player.UnequipItem(slot) {
					m.status = "Unequipped " + slot
				}
				return m, nil
			}
		}
		m.screen = screenPlay
	}
	return m, nil
}

func (m ConsoleUI) updateSlots(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.prev = screenSlots
		m.screen = screenQuit
		return m, nil
	case tea.KeyEsc:
		m.screen = screenPlay
		return m, nil
	}

	switch msg.String() {
	case "1", "2", "3":
		slot := int(msg.String()[0] - '0')
		if m.slotMode == "save" {
			m.saveSlot(slot)
		} else {
			m.loadSlot(slot)
		}
		m.screen = screenPlay
		m.writeStoryContent()
	}
	return m, nil
}

func (m ConsoleUI) updateQuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEnter:
		return m, tea.Quit
	}
	switch msg.String() {
	case "y", "Y":
		return m, tea.Quit
	case "n", "N":
		m.screen = m.prev
	}
	return m, nil
}

func (m *ConsoleUI) startStory(storyID string) {
	info, ok := m.manifest.Find(storyID)
	if !ok {
		m.errMsg = "Story not found: " + storyID
		return
	}
	st, err := m.source.FetchStory(context.Background(), info.File)
	if err != nil {
		m.errMsg = "Failed to load story: " + err.Error()
		return
	}
	prog, err := m.store.LoadProgression(context.Background())
	if err != nil {
		prog = player.NewProgression()
	}
	m.sess = engine.NewSession(st, player.NewState(st.Module, prog), m.logger)
	m.enterPlay()
}

func (m *ConsoleUI) continueLast() {
	ctx := context.Background()
	lp, err := m.store.LastPlayed(ctx)
	if err != nil || lp == nil {
		m.errMsg = "No saved game to continue"
		return
	}
	saved, err := m.store.Load(ctx, lp.StoryID, lp.Slot)
	if err != nil {
		m.errMsg = "Failed to load save: " + err.Error()
		return
	}
	info, ok := m.manifest.Find(saved.StoryID)
	if !ok {
		m.errMsg = "Saved story is no longer available: " + saved.StoryID
		return
	}
	st, err := m.source.FetchStory(ctx, info.File)
	if err != nil {
		m.errMsg = "Failed to load story: " + err.Error()
		return
	}
	m.sess = engine.ResumeSession(uuid.New(), st, saved.SectionID, saved.Player, m.logger)
	m.enterPlay()
}

func (m *ConsoleUI) enterPlay() {
	m.errMsg = ""
	m.status = ""
	m.screen = screenPlay
	m.writeStoryContent()
}

func (m *ConsoleUI) leaveToMenu() {
	m.sess = nil
	m.status = ""
	m.buildMenu()
	m.screen = screenMenu
}

func (m *ConsoleUI) choose(index int) {
	m.status = ""
	outcome, err := m.sess.Choose(index)
	if err != nil {
		var missing *engine.MissingSectionError
		if errors.As(err, &missing) {
			m.status = "That path leads nowhere: section '" + missing.SectionID + "' is missing"
		}
		return
	}

	switch outcome.Signal {
	case engine.SignalMenu:
		m.leaveToMenu()
		return
	case engine.SignalSave:
		m.slotMode = "save"
		m.screen = screenSlots
		return
	case engine.SignalLoad:
		m.slotMode = "load"
		m.screen = screenSlots
		return
	case engine.SignalInventory:
		m.invIndex = 0
		m.screen = screenInventory
		return
	case engine.SignalCharacter:
		m.screen = screenCharacter
		return
	}

	if outcome.Warning != "" {
		m.status = outcome.Warning
	}
	m.writeStoryContent()
	m.viewport.GotoTop()
}

func (m *ConsoleUI) saveSlot(slot int) {
	st := &session.State{
		StoryID:   m.sess.Story.ID,
		SectionID: m.sess.SectionID,
		Player:    m.sess.Player,
	}
	if err := m.store.Save(context.Background(), st, slot); err != nil {
		m.status = "Save failed: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("Saved to slot %d", slot)
}

func (m *ConsoleUI) loadSlot(slot int) {
	saved, err := m.store.LoadStrict(context.Background(), m.sess.Story.ID, m.sess.Story.ID, slot)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			m.status = fmt.Sprintf("Slot %d is empty", slot)
		} else {
			m.status = "Load failed: " + err.Error()
		}
		return
	}
	m.sess = engine.ResumeSession(m.sess.ID, m.sess.Story, saved.SectionID, saved.Player, m.logger)
	m.status = fmt.Sprintf("Loaded slot %d", slot)
}

func (m *ConsoleUI) yankSection() {
	sec := m.sess.Section()
	if sec == nil {
		return
	}
	if err := clipboard.WriteAll(strings.Join(sec.Text, "\n")); err != nil {
		m.status = "Clipboard unavailable"
		return
	}
	m.status = "Section text copied to clipboard"
}

// writeStoryContent renders the current section and choices into the viewport.
func (m *ConsoleUI) writeStoryContent() {
	if m.sess == nil || !m.ready {
		return
	}
	width := m.viewport.Width - 4
	if width < 20 {
		width = 20
	}

	snap := m.sess.Snapshot()
	var content strings.Builder

	title := m.sess.Story.Title
	if title == "" {
		title = m.sess.Story.ID
	}
	content.WriteString(titleStyle.Render(strings.ToUpper(title)) + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	if snap.Section == nil {
		content.WriteString(errorStyle.Render("This story has no current section.") + "\n")
		m.viewport.SetContent(content.String())
		return
	}

	for _, para := range snap.Section.Text {
		content.WriteString(narrativeStyle.Render(wordwrap.String(para, width)) + "\n\n")
	}
	if snap.Section.SystemNote != "" {
		content.WriteString(noteStyle.Render(wordwrap.String(snap.Section.SystemNote, width)) + "\n\n")
	}

	if len(snap.Choices) == 0 {
		content.WriteString(promptStyle.Render("The end. Press m for the main menu.") + "\n")
	} else {
		for i, c := range snap.Choices {
			line := fmt.Sprintf("%d. %s", i+1, c.Label)
			content.WriteString(choiceStyle.Render(wordwrap.String(line, width)) + "\n")
		}
	}

	m.viewport.SetContent(content.String())
}

type invRow struct {
	category string
	item     player.Item
}

func (m *ConsoleUI) inventoryRows() []invRow {
	var rows []invRow
	for _, cat := range []string{
		story.CategoryConsumable,
		story.CategoryItem,
		story.CategoryWeapon,
		story.CategoryArmor,
		story.CategorySpecial,
	} {
		for _, it := range m.sess.Player.Inventory[cat] {
			rows = append(rows, invRow{category: cat, item: it})
		}
	}
	return rows
}

func equipSlotFor(row invRow) string {
	if row.item.EquipSlot != "" {
		return row.item.EquipSlot
	}
	switch row.category {
	case story.CategoryWeapon:
		return story.SlotWeapon
	case story.CategoryArmor:
		return story.SlotArmor
	case story.CategorySpecial:
		return story.SlotSpecial
	}
	return ""
}

func displayName(it player.Item) string {
	if it.Name != "" {
		return it.Name
	}
	return player.TitleFromID(it.ID)
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	switch m.screen {
	case screenMenu:
		return m.renderMenu()
	case screenQuit:
		return m.renderQuitModal()
	case screenInventory:
		return m.renderInventoryModal()
	case screenCharacter:
		return m.renderCharacterModal()
	case screenSlots:
		return m.renderSlotsModal()
	}
	return m.renderPlay()
}

func (m ConsoleUI) renderPlay() string {
	storyWidth := int(float64(m.width)*0.72) - 4
	hudWidth := m.width - storyWidth - 6

	statusLine := ""
	if m.status != "" {
		statusLine = statusStyle.Render(m.status)
	}

	storyPanel := storyPanelStyle.Width(storyWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.viewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", storyWidth-4)),
			statusLine,
			promptStyle.Render("1-9 choose · i inventory · c character · s save · l load · m menu · y copy · Esc quit"),
		),
	)

	hudPanel := hudPanelStyle.Width(hudWidth).Height(m.height - 2).Render(m.renderHUD(hudWidth - 4))

	return lipgloss.JoinHorizontal(lipgloss.Top, storyPanel, hudPanel)
}

func (m ConsoleUI) renderHUD(width int) string {
	p := m.sess.Player
	var content strings.Builder

	content.WriteString(titleStyle.Render("CHARACTER") + "\n\n")

	content.WriteString(fmt.Sprintf("%s %d/%d\n", p.Resource.Name, p.Resource.Cur, p.Resource.Max))
	content.WriteString(renderBar(p.Resource.Cur, p.Resource.Min, p.Resource.Max, min(width, 24)) + "\n\n")

	content.WriteString(fmt.Sprintf("Level %d\n", p.Progression.Level))
	content.WriteString(fmt.Sprintf("XP %d/%d\n", p.Progression.XP, p.Progression.XPMax))
	content.WriteString(renderBar(p.Progression.XP, 0, p.Progression.XPMax, min(width, 24)) + "\n\n")

	if cur := m.sess.Story.Module.Currency; cur != nil {
		content.WriteString(fmt.Sprintf("%s: %d\n\n", cur.Name, p.Currency))
	}

	content.WriteString("Equipment:\n")
	for _, slot := range []string{story.SlotWeapon, story.SlotArmor, story.SlotSpecial} {
		name := p.EquippedName(slot)
		if name == "" {
			name = "-"
		}
		content.WriteString(fmt.Sprintf("• %s: %s\n", slot, name))
	}

	itemCount := 0
	for _, rows := range p.Inventory {
		for _, it := range rows {
			itemCount += it.Qty
		}
	}
	content.WriteString(fmt.Sprintf("\nItems: %d\n", itemCount))

	return content.String()
}

func renderBar(cur, lo, hi, width int) string {
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	filled := (cur - lo) * width / span
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return separatorStyle.Render(strings.Repeat("█", filled) + strings.Repeat("░", width-filled))
}

func (m ConsoleUI) renderMenu() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("VERSECRAFT") + "\n\n")

	if m.errMsg != "" {
		content.WriteString(errorStyle.Render(m.errMsg) + "\n\n")
	}

	for i, entry := range m.menuEntries {
		line := entry.label
		if entry.subtitle != "" {
			line += " · " + entry.subtitle
		}
		if i == m.menuIndex {
			content.WriteString(modalSelectedItemStyle.Render("▶ "+line) + "\n")
		} else {
			content.WriteString(modalItemStyle.Render("  "+line) + "\n")
		}
	}

	content.WriteString("\n" + promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Esc to quit"))

	modal := modalStyle.Width(64).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderQuitModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Unsaved progress will be lost.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to keep playing"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderInventoryModal() string {
	rows := m.inventoryRows()
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Inventory"))
	content.WriteString("\n\n")

	if len(rows) == 0 {
		content.WriteString(promptStyle.Render("Your pack is empty."))
	} else {
		for i, row := range rows {
			line := fmt.Sprintf("%s ×%d (%s)", displayName(row.item), row.item.Qty, row.category)
			if i == m.invIndex {
				content.WriteString(modalSelectedItemStyle.Render("▶ "+line) + "\n")
			} else {
				content.WriteString(modalItemStyle.Render("  "+line) + "\n")
			}
		}
	}

	if m.status != "" {
		content.WriteString("\n" + statusStyle.Render(m.status))
	}
	content.WriteString("\n\n" + promptStyle.Render("↑/↓ select · u use · e equip · Esc back"))

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderCharacterModal() string {
	p := m.sess.Player
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Character"))
	content.WriteString("\n\n")

	content.WriteString(fmt.Sprintf("%s: %d/%d\n", p.Resource.Name, p.Resource.Cur, p.Resource.Max))
	content.WriteString(fmt.Sprintf("Level: %d   XP: %d/%d\n", p.Progression.Level, p.Progression.XP, p.Progression.XPMax))
	if cur := m.sess.Story.Module.Currency; cur != nil {
		content.WriteString(fmt.Sprintf("%s: %d\n", cur.Name, p.Currency))
	}
	content.WriteString("\n")

	for _, slot := range []string{story.SlotWeapon, story.SlotArmor, story.SlotSpecial} {
		name := p.EquippedName(slot)
		if name == "" {
			name = "nothing"
		}
		content.WriteString(fmt.Sprintf("%s: %s\n", player.TitleFromID(slot), name))
	}

	flagCount := 0
	for _, set := range p.Flags {
		if set {
			flagCount++
		}
	}
	content.WriteString(fmt.Sprintf("\nStory marks: %d\n", flagCount))

	if m.status != "" {
		content.WriteString("\n" + statusStyle.Render(m.status))
	}
	content.WriteString("\n" + promptStyle.Render("w/a unequip weapon/armor · any other key to return"))

	modal := modalStyle.Width(56).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderSlotsModal() string {
	var content strings.Builder
	if m.slotMode == "save" {
		content.WriteString(modalTitleStyle.Render("Save Game"))
	} else {
		content.WriteString(modalTitleStyle.Render("Load Game"))
	}
	content.WriteString("\n\n")

	for slot := 1; slot <= session.MaxSlots; slot++ {
		desc := "empty"
		if st, err := m.store.Load(context.Background(), m.sess.Story.ID, slot); err == nil {
			desc = fmt.Sprintf("%s · %s", st.SectionID, st.SavedAt.Local().Format("Jan 2 15:04"))
		}
		content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %d. %s", slot, desc)) + "\n")
	}

	content.WriteString("\n" + promptStyle.Render("Press 1-3 to pick a slot, Esc to cancel"))

	modal := modalStyle.Width(56).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}
