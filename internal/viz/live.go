package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/physkern/internal/kernel"
	"github.com/san-kum/physkern/internal/metrics"
)

const (
	defaultCols     = 64
	defaultRows     = 32
	historyCapacity = 600
	frameRate       = 30
)

type TickMsg time.Time

// Options configure the live view. Impulses, when set, is consulted
// before every tick.
type Options struct {
	Title    string
	Impulses func(tick int) []kernel.Impulse
	Cols     int
	Rows     int
}

// Model steps a field once per frame and renders it as a heatmap.
type Model struct {
	field      kernel.Field
	opts       Options
	cols, rows int
	tick       int
	running    bool
	divergence bool
	showHelp   bool
	err        error

	energy  *metrics.KineticEnergy
	speed   *metrics.MaxSpeed
	maxDiv  *metrics.MaxDivergence
	history []float64
}

func NewModel(field kernel.Field, opts Options) Model {
	cols, rows := opts.Cols, opts.Rows
	if cols <= 0 {
		cols = defaultCols
	}
	if rows <= 0 {
		rows = defaultRows
	}
	if opts.Title == "" {
		opts.Title = "velocity field"
	}

	return Model{
		field:   field,
		opts:    opts,
		cols:    cols,
		rows:    rows,
		running: true,
		energy:  metrics.NewKineticEnergy(),
		speed:   metrics.NewMaxSpeed(),
		maxDiv:  metrics.NewMaxDivergence(),
		history: make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			if !m.running {
				m.step()
			}
		case "r":
			m.reset()
		case "d":
			m.divergence = !m.divergence
		case "i":
			m.inject()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.cols = max(8, min(m.field.Size(), msg.Width-48))
		m.rows = max(4, min(m.field.Size(), msg.Height-6))
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	if m.opts.Impulses != nil {
		for _, imp := range m.opts.Impulses(m.tick) {
			if err := imp.Apply(m.field); err != nil {
				m.err = &kernel.TickError{Tick: m.tick, Wrapped: err}
				m.running = false
				return
			}
		}
	}

	m.field.Step()
	m.tick++

	m.energy.Observe(m.field, m.tick)
	m.speed.Observe(m.field, m.tick)
	m.maxDiv.Observe(m.field, m.tick)

	m.history = append(m.history, m.energy.Value())
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

// inject adds a unit impulse pointing left at the centre cell.
func (m *Model) inject() {
	c := m.field.Size() / 2
	if err := m.field.AddVelocity(c, c, -1, 0); err != nil {
		m.err = err
	}
}

func (m *Model) reset() {
	m.field.Reset()
	m.tick = 0
	m.err = nil
	m.history = m.history[:0]
	m.energy.Reset()
	m.speed.Reset()
	m.maxDiv.Reset()
}

// Tick returns the number of completed ticks.
func (m Model) Tick() int { return m.tick }

// Running reports whether the model steps on every frame.
func (m Model) Running() bool { return m.running }

// Err returns the error that paused the model, if any.
func (m Model) Err() error { return m.err }

// finiteSamples drops NaN and ±Inf, which asciigraph cannot scale.
func finiteSamples(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func (m Model) View() string {
	n := m.field.Size()

	var values []float64
	label := "SPEED"
	signed := false
	if m.divergence {
		values = m.field.Divergence()
		label = "DIVERGENCE"
		signed = true
	} else {
		values = Speed(m.field.Velocities())
	}

	heat := mapStyle.Render(Heatmap(values, n, m.cols, m.rows, signed))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.opts.Title)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(StatusError.Render("ERROR") + "\n" + m.err.Error() + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	s.WriteString(Stat("View", label) + "\n")
	s.WriteString(Stat("Tick", fmt.Sprintf("%d", m.tick)) + "\n")
	s.WriteString(Stat("Grid", fmt.Sprintf("%dx%d", n, n)) + "\n")
	s.WriteString(Stat("Energy", fmt.Sprintf("%.4g", m.energy.Value())) + "\n")
	s.WriteString(Stat("Max speed", fmt.Sprintf("%.4g", m.speed.Value())) + "\n")
	s.WriteString(Stat("Max |div|", fmt.Sprintf("%.4g", m.maxDiv.Value())) + "\n")
	s.WriteString(Stat("Scale", Legend(Scale(values), signed)) + "\n")
	s.WriteString(Stat("Theme", CurrentTheme.Name) + "\n")

	if finite := finiteSamples(m.history); len(finite) > 1 {
		chart := asciigraph.Plot(finite, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	} else if len(m.history) > 1 {
		s.WriteString(graphStyle.Render("Kinetic energy: no finite samples") + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause S:Step R:Reset Q:Quit\nD:View I:Impulse T:Theme ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, heat, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  S        - Single step (paused)     ║
║  R        - Reset the field          ║
║  D        - Speed / divergence view  ║
║  I        - Impulse at the centre    ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
