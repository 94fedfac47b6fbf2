package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const (
	width            = 80
	height           = 24
	historyCapacity  = 600
	maxStepsPerFrame = 64
	frameInterval    = time.Second / 60
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the live viewer: it steps a scene on every frame and renders it
// next to an energy trace.
type Model struct {
	scene         Scene
	dt            float64
	stepsPerFrame int
	t             float64
	initialEnergy float64
	canvas        *Canvas
	energy        []float64
	running       bool
	showHelp      bool
	err           error
	theme         Theme
	styles        styles
}

func NewModel(scene Scene, dt float64) Model {
	m := Model{
		scene:         scene,
		dt:            dt,
		stepsPerFrame: 1,
		initialEnergy: scene.TotalEnergy(),
		canvas:        NewCanvas(width, height),
		energy:        make([]float64, 0, historyCapacity),
		running:       true,
		theme:         ThemeCyberpunk,
		styles:        newStyles(ThemeCyberpunk),
	}
	m.draw()
	return m
}

func (m Model) WithTheme(t Theme) Model {
	m.theme = t
	m.styles = newStyles(t)
	return m
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "+", "=":
			m.stepsPerFrame = min(m.stepsPerFrame*2, maxStepsPerFrame)
		case "-", "_":
			m.stepsPerFrame = max(m.stepsPerFrame/2, 1)
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		w := max(msg.Width-44, 20)
		h := max(msg.Height-4, 10)
		m.canvas = NewCanvas(w, h)
		m.draw()
	case TickMsg:
		if m.running {
			m.advance()
			m.draw()
		}
		return m, tick()
	}
	return m, nil
}

// advance runs one frame of steps. A failed step pauses the viewer and
// keeps the error for display.
func (m *Model) advance() {
	for n := 0; n < m.stepsPerFrame; n++ {
		if err := m.scene.Step(m.dt); err != nil {
			m.err = err
			m.running = false
			return
		}
		m.t += m.dt
	}

	e := m.scene.TotalEnergy()
	if math.IsNaN(e) || math.IsInf(e, 0) {
		m.err = fmt.Errorf("energy diverged at t=%.3fs", m.t)
		m.running = false
		return
	}
	m.energy = append(m.energy, e)
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

func (m *Model) reset() {
	m.scene.Reset()
	m.t = 0
	m.err = nil
	m.running = true
	m.energy = m.energy[:0]
	m.initialEnergy = m.scene.TotalEnergy()
	m.draw()
}

func (m *Model) draw() {
	m.canvas.Clear()
	m.scene.Draw(m.canvas)
}

// Drift is the relative change of total energy since the last reset, or the
// absolute change when the initial energy is zero.
func (m Model) Drift() float64 {
	if len(m.energy) == 0 {
		return 0
	}
	d := m.energy[len(m.energy)-1] - m.initialEnergy
	if m.initialEnergy == 0 {
		return math.Abs(d)
	}
	return math.Abs(d / m.initialEnergy)
}

func (m Model) Time() float64      { return m.t }
func (m Model) Running() bool      { return m.running }
func (m Model) StepsPerFrame() int { return m.stepsPerFrame }
func (m Model) Err() error         { return m.err }

func (m Model) View() string {
	st := m.styles
	var s strings.Builder

	s.WriteString(st.header.Render(strings.ToUpper(m.scene.Name())) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(st.errText.Render("HALTED") + "\n" + st.errText.Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(st.status.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(st.warn.Render("PAUSED") + "\n\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}
	s.WriteString(st.muted.Render(Sparkline(m.energy, 30)) + "\n\n")

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.t))
	row("Step", fmt.Sprintf("%g × %d", m.dt, m.stepsPerFrame))
	row("Energy", fmt.Sprintf("%.6g", m.scene.TotalEnergy()))
	row("Drift", fmt.Sprintf("%.2e", m.Drift()))
	for _, stat := range m.scene.Stats() {
		row(stat.Label, stat.Value)
	}

	s.WriteString(st.help.Render("SP:Pause R:Reset Q:Quit\n+/-:Speed T:Theme ?:Help"))

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Padding(1, 2).Render(m.canvas.String()),
		st.stats.Render(s.String()))
	if m.showHelp {
		return st.selected.Render(helpText) + "\n\n" + main
	}
	return main
}

const helpText = `KEYBOARD SHORTCUTS
  Space  pause / resume
  R      reset to the initial state
  + / -  double / halve steps per frame
  T      cycle themes
  ?      toggle this help
  Q      quit`

// Run opens the live viewer on scene and blocks until the user quits.
func Run(scene Scene, dt float64, theme Theme) error {
	_, err := tea.NewProgram(NewModel(scene, dt).WithTheme(theme), tea.WithAltScreen()).Run()
	return err
}
