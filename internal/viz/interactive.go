package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/chaoslab/internal/config"
)

var modelInfo = map[string]string{
	config.ModelDoublePendulum: "chaotic dynamics",
	config.ModelNBody:          "softened gravity",
}

const (
	stateMenu = iota
	statePresets
	stateSim
)

// App is the interactive launcher: pick a model, pick a preset, watch it.
type App struct {
	state     int
	cursor    int
	models    []string
	presets   []string
	selected  string
	err       error
	liveModel Model
}

func NewApp() App {
	return App{state: stateMenu, models: config.Models()}
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == stateSim {
		next, cmd := a.liveModel.Update(msg)
		a.liveModel = next.(Model)
		return a, cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch a.state {
	case stateMenu:
		return a.menuKey(key)
	case statePresets:
		return a.presetKey(key)
	}
	return a, nil
}

func (a App) menuKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		a.cursor = max(a.cursor-1, 0)
	case "down", "j":
		a.cursor = min(a.cursor+1, len(a.models)-1)
	case "enter", " ":
		a.selected = a.models[a.cursor]
		a.presets = config.ListPresets(a.selected)
		a.state, a.cursor, a.err = statePresets, 0, nil
	}
	return a, nil
}

func (a App) presetKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "q", "esc":
		a.state, a.cursor = stateMenu, 0
	case "up", "k":
		a.cursor = max(a.cursor-1, 0)
	case "down", "j":
		a.cursor = min(a.cursor+1, len(a.presets)-1)
	case "enter", " ":
		return a.start()
	}
	return a, nil
}

func (a App) start() (App, tea.Cmd) {
	if len(a.presets) == 0 {
		return a, nil
	}
	cfg := config.GetPreset(a.selected, a.presets[a.cursor])
	scene, err := NewScene(cfg)
	if err != nil {
		a.err = err
		return a, nil
	}
	a.liveModel = NewModel(scene, cfg.Dt)
	a.state = stateSim
	return a, a.liveModel.Init()
}

func (a App) View() string {
	switch a.state {
	case stateMenu:
		return a.viewList("CHAOSLAB", "physics integration lab", a.models, func(name string) string { return modelInfo[name] })
	case statePresets:
		return a.viewList(strings.ToUpper(a.selected), modelInfo[a.selected], a.presets, func(name string) string {
			cfg := config.GetPreset(a.selected, name)
			return fmt.Sprintf("%s dt=%g %gs", cfg.Integrator, cfg.Dt, cfg.Duration)
		})
	case stateSim:
		return a.liveModel.View()
	}
	return ""
}

func (a App) viewList(title, subtitle string, items []string, describe func(string) string) string {
	var (
		head   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
		sub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
		cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
		active = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
		desc   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
		idle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
		key    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
		bad    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
	)

	var b strings.Builder
	b.WriteString("\n\n    " + head.Render(title) + "\n    " + sub.Render(subtitle) + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, name := range items {
		if i == a.cursor {
			fmt.Fprintf(&b, "    %s %s  %s\n", cursor.Render("▸"), active.Render(fmt.Sprintf("%-16s", name)), desc.Render(describe(name)))
		} else {
			fmt.Fprintf(&b, "      %s  %s\n", idle.Render(fmt.Sprintf("%-16s", name)), idle.Render(describe(name)))
		}
	}
	if a.err != nil {
		b.WriteString("\n    " + bad.Render(a.err.Error()) + "\n")
	}
	b.WriteString("\n    " + key.Render("j/k") + idle.Render(" navigate  ") + key.Render("enter") + idle.Render(" select  ") + key.Render("q") + idle.Render(" back/quit") + "\n")
	return b.String()
}

func RunInteractive() error {
	_, err := tea.NewProgram(NewApp(), tea.WithAltScreen()).Run()
	return err
}
