package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/kinesim/internal/analysis"
	"github.com/san-kum/kinesim/internal/dynamo"
	"github.com/san-kum/kinesim/internal/sim"
)

const (
	width           = 80
	height          = 24
	worldWidth      = 800.0
	followMargin    = 250.0
	historyCapacity = 600
	graphWindow     = 120
)

type TickMsg time.Time

// Build constructs a fresh simulator; the live view calls it again on reset.
type Build func() (*sim.Simulator, error)

// Model steps a simulator once per screen tick and draws each frame.
type Model struct {
	build    Build
	sim      *sim.Simulator
	scene    string
	maxTicks int

	tick     int
	frame    *dynamo.Frame
	history  []dynamo.Frame
	playHead int
	signal   []float64

	canvas   *Canvas
	vp       Viewport
	theme    Theme
	running  bool
	showHelp bool
	err      error
}

// NewModel builds the first simulator. maxTicks of zero runs until quit.
func NewModel(scene string, build Build, maxTicks int) (Model, error) {
	s, err := build()
	if err != nil {
		return Model{}, err
	}
	m := Model{
		build:    build,
		sim:      s,
		scene:    scene,
		maxTicks: maxTicks,
		history:  make([]dynamo.Frame, 0, historyCapacity),
		playHead: -1,
		signal:   make([]float64, 0, historyCapacity),
		canvas:   NewCanvas(width, height),
		theme:    Themes[0],
		running:  true,
	}
	m.vp = NewViewport(width, height, worldWidth, dynamo.V(worldWidth/2, 300))
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "t":
			m.theme = NextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// Tick is the number of ticks simulated so far.
func (m Model) Tick() int { return m.tick }

func (m Model) Running() bool { return m.running }

// Err reports a failed rebuild on reset.
func (m Model) Err() error { return m.err }

func (m *Model) step() {
	if m.sim == nil || (m.maxTicks > 0 && m.tick >= m.maxTicks) {
		return
	}
	f := m.sim.Step(m.tick)
	m.tick++
	m.frame = &f
	m.vp.Follow(f.Target, followMargin)

	m.history = append(m.history, f)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
	m.signal = append(m.signal, signalOf(&f))
	if len(m.signal) > historyCapacity {
		m.signal = m.signal[1:]
	}
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead = max(m.playHead+dir, 0)
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

func (m *Model) reset() {
	s, err := m.build()
	if err != nil {
		m.err = err
		return
	}
	m.sim = s
	m.err = nil
	m.tick = 0
	m.frame = nil
	m.history = m.history[:0]
	m.signal = m.signal[:0]
	m.playHead = -1
	m.vp.Center = dynamo.V(worldWidth/2, 300)
}

// signalOf picks the quantity graphed for a frame: body energy, leg miss,
// or tail offset from the head axis, depending on what the scene has.
func signalOf(f *dynamo.Frame) float64 {
	switch {
	case f.Body != nil:
		return f.Body.Energy
	case len(f.Joints) > 0:
		return analysis.ReachMiss([]dynamo.Frame{*f})[0]
	case len(f.Nodes) > 1:
		return analysis.LateralSwing([]dynamo.Frame{*f}, -1)[0]
	default:
		return f.Target.Y
	}
}

func signalName(f *dynamo.Frame) string {
	switch {
	case f == nil:
		return ""
	case f.Body != nil:
		return "Energy"
	case len(f.Joints) > 0:
		return "Reach miss"
	case len(f.Nodes) > 1:
		return "Tail swing"
	default:
		return "Target y"
	}
}

func (m Model) shown() *dynamo.Frame {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return &m.history[m.playHead]
	}
	return m.frame
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return StatusPaused.Render("ERROR: " + m.err.Error())
	case m.playHead != -1 && !m.running:
		return StatusPaused.Render(fmt.Sprintf("REPLAY PAUSED (%d)", m.playHead-len(m.history)+1))
	case m.playHead != -1:
		return StatusRunning.Render(fmt.Sprintf("REPLAYING (%d)", m.playHead-len(m.history)+1))
	case !m.running:
		return StatusPaused.Render("PAUSED")
	case m.maxTicks > 0 && m.tick >= m.maxTicks:
		return StatusPaused.Render("DONE")
	default:
		return StatusRunning.Render("RUNNING")
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	f := m.shown()

	m.canvas.Clear()
	if m.sim != nil {
		DrawTerrain(m.canvas, m.vp, m.sim.Rig().Terrain())
	}
	DrawFrame(m.canvas, m.vp, f)
	canvasView := canvasStyle.Foreground(m.theme.Primary).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scene)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.signal) > 1 {
		window := m.signal[max(len(m.signal)-graphWindow, 0):]
		chart := asciigraph.Plot(window, asciigraph.Height(4), asciigraph.Width(24), asciigraph.Caption(signalName(f)))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Tick") + valueStyle.Render(fmt.Sprintf("%d", m.tick)) + "\n")
	if m.maxTicks > 0 {
		s.WriteString(labelStyle.Render("Progress") + ProgressBar(float64(m.tick)/float64(m.maxTicks), 20) + "\n")
	}
	if f != nil {
		s.WriteString(labelStyle.Render("Target") + valueStyle.Render(fmt.Sprintf("%.1f, %.1f", f.Target.X, f.Target.Y)) + "\n")
		if b := f.Body; b != nil {
			s.WriteString(labelStyle.Render("Contacts") + valueStyle.Render(fmt.Sprintf("%d", b.Contacts)) + "\n")
		}
	}
	if m.sim != nil {
		if leg := m.sim.Rig().Leg(); leg != nil {
			angles := leg.SegmentAngles()
			parts := make([]string, len(angles))
			for i, a := range angles {
				parts[i] = fmt.Sprintf("%.0f°", a)
			}
			s.WriteString(labelStyle.Render("Angles") + valueStyle.Render(strings.Join(parts, " ")) + "\n")
		}
		s.WriteString("\nMETRICS\n")
		s.WriteString(metricsView(m.sim.MetricValues()))
	}

	s.WriteString(helpStyle.Render("\n" + Separator(30) + "\nSP:Pause R:Reset Q:Quit\nT:Theme  ?:Help  [ ]:Replay"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpView(m.theme) + "\n\n" + mainView
	}
	return mainView
}

func metricsView(values map[string]float64) string {
	if len(values) == 0 {
		return labelStyle.Render("  (none)") + "\n"
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var s strings.Builder
	for _, k := range keys {
		v := values[k]
		text := fmt.Sprintf("%.4g", v)
		if math.IsInf(v, 0) || math.IsNaN(v) {
			text = "-"
		}
		s.WriteString(labelStyle.Render(k) + valueStyle.Render(text) + "\n")
	}
	return s.String()
}

func helpView(theme Theme) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Muted).
		Padding(0, 2)
	return box.Render(strings.Join([]string{
		"Space  pause or resume",
		"R      rebuild the scene",
		"[ ]    step through recent frames",
		"T      cycle themes (" + strings.Join(ThemeNames(), ", ") + ")",
		"?      toggle this help",
		"Q      quit",
	}, "\n"))
}

// Run starts the live view on the terminal.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
