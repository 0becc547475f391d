package viz

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/clock"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/hierarchy"
	"github.com/san-kum/orrery/internal/orbit"
)

const (
	historyCapacity = 120
	trailCapacity   = 240
	ringSegments    = 64
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(44)
	graphStyle  = lipgloss.NewStyle().Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// TickMsg advances the clock and redraws.
type TickMsg time.Time

// SceneMsg replaces the displayed scene, typically after the file changed on disk.
type SceneMsg struct{ Scene *hierarchy.Scene }

// ErrorMsg reports a failed reload. The current scene stays on screen.
type ErrorMsg struct{ Err error }

// Model is the live terminal view of one scene.
type Model struct {
	scene    *hierarchy.Scene
	clock    *clock.SimClock
	frame    *orbit.Frame
	canvas   *Canvas
	camera   *Camera
	cfg      config.TerminalConfig
	log      *zap.Logger
	viewName string

	showOrbits bool
	showTrails bool
	showHelp   bool
	selected   body.ID
	trails     [][]Vec3
	history    []float64
	reloads    int
	lastErr    error

	recorder *Recorder
}

// NewModel builds a live view for scene. clk supplies simulation time; the
// view never resets it, including across reloads.
func NewModel(scene *hierarchy.Scene, clk *clock.SimClock, cfg config.TerminalConfig, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Width <= 0 {
		cfg.Width = config.DefaultConfig().Terminal.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = config.DefaultConfig().Terminal.Height
	}
	if cfg.FPS <= 0 {
		cfg.FPS = config.DefaultConfig().Terminal.FPS
	}
	if cfg.Theme != "" {
		SetTheme(cfg.Theme)
	}

	m := Model{
		clock:      clk,
		frame:      &orbit.Frame{},
		canvas:     NewCanvas(cfg.Width, cfg.Height),
		camera:     NewCamera(),
		cfg:        cfg,
		log:        log,
		showOrbits: true,
		showTrails: cfg.Trails,
		history:    make([]float64, 0, historyCapacity),
	}
	m.setView(cfg.View)
	m.setScene(scene)
	return m
}

func (m *Model) setView(name string) {
	v, ok := config.GetView(name)
	if !ok {
		name = "oblique"
		v = config.Views[name]
	}
	m.viewName = name
	m.camera.Apply(v)
	if m.cfg.Zoom > 0 {
		m.camera.Zoom *= m.cfg.Zoom
	}
}

func (m *Model) cycleView() {
	names := config.ListViews()
	for i, name := range names {
		if name == m.viewName {
			m.setView(names[(i+1)%len(names)])
			return
		}
	}
	m.setView(names[0])
}

// setScene swaps the scene between frames. The new tree may have a different
// shape, so per-body state is rebuilt.
func (m *Model) setScene(scene *hierarchy.Scene) {
	m.scene = scene
	m.trails = make([][]Vec3, scene.Tree.Len())
	m.history = m.history[:0]
	if !scene.Tree.Valid(m.selected) {
		m.selected = scene.Tree.Root()
	}
	m.camera.Fit(Extent(scene.Tree))
	orbit.ComposeInto(m.frame, scene.Tree, m.clock.Elapsed())
}

// Extent returns the largest distance from the Star any body surface can reach.
func Extent(tree *body.Tree) float64 {
	var extent float64
	tree.Walk(func(id body.ID, b body.Body) bool {
		reach := b.Radius
		if b.Orbits() {
			reach += b.OrbitalDistance
		}
		for _, a := range tree.Ancestors(id) {
			if ab := tree.Body(a); ab.Orbits() {
				reach += ab.OrbitalDistance
			}
		}
		extent = max(extent, reach)
		return true
	})
	return extent
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.cfg.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and advances the clock.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case SceneMsg:
		if msg.Scene == nil || msg.Scene.Tree == nil {
			return m, nil
		}
		m.setScene(msg.Scene)
		m.reloads++
		m.lastErr = nil
		m.log.Info("scene reloaded", zap.String("path", msg.Scene.Path), zap.Int("bodies", msg.Scene.Tree.Len()))
	case ErrorMsg:
		m.lastErr = msg.Err
		m.log.Warn("reload failed, keeping previous scene", zap.Error(msg.Err))
	case TickMsg:
		m.step()
		m.draw()
		if m.recorder != nil {
			m.recorder.Capture(m.canvas)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.stopRecording()
		return m, tea.Quit
	case " ":
		m.clock.SetPaused(!m.clock.Paused())
	case ">", ".":
		m.clock.SetScale(m.clock.Scale() * 2)
	case "<", ",":
		m.clock.SetScale(m.clock.Scale() / 2)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	case "v":
		m.cycleView()
	case "tab":
		m.selected = body.ID((int(m.selected) + 1) % m.scene.Tree.Len())
		m.history = m.history[:0]
	case "o":
		m.showOrbits = !m.showOrbits
	case "l":
		m.showTrails = !m.showTrails
		for i := range m.trails {
			m.trails[i] = m.trails[i][:0]
		}
	case "t":
		NextTheme()
	case "g":
		if m.recorder != nil {
			m.stopRecording()
		} else {
			m.recorder = NewRecorder()
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) stopRecording() {
	if m.recorder == nil {
		return
	}
	path := gifName(m.scene.Path)
	if err := m.recorder.Save(path); err != nil {
		m.log.Error("saving recording", zap.String("path", path), zap.Error(err))
	} else {
		m.log.Info("recording saved", zap.String("path", path), zap.Int("frames", m.recorder.Len()))
	}
	m.recorder = nil
}

func gifName(scenePath string) string {
	name := strings.TrimSuffix(filepath.Base(scenePath), filepath.Ext(scenePath))
	if name == "" || name == "." {
		name = "orrery"
	}
	return name + ".gif"
}

// step composes the frame for the current simulation time.
func (m *Model) step() {
	m.clock.Tick()
	orbit.ComposeInto(m.frame, m.scene.Tree, m.clock.Elapsed())

	if m.showTrails {
		for id := range m.trails {
			p := fromWorld(m.frame.Position(body.ID(id)))
			m.trails[id] = append(m.trails[id], p)
			if len(m.trails[id]) > trailCapacity {
				m.trails[id] = m.trails[id][1:]
			}
		}
	}

	m.history = append(m.history, m.frame.Position(m.selected).X)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	tree := m.scene.Tree
	cw, ch := m.canvas.Pixels()

	if m.showOrbits {
		wf := NewWireframe()
		tree.Walk(func(id body.ID, b body.Body) bool {
			if !b.Orbits() {
				return true
			}
			center := fromWorld(m.frame.Position(b.Parent))
			wf.AddRing(center, b.OrbitalDistance, ringSegments)
			return true
		})
		Render3D(m.canvas, wf, m.camera)
	}

	if m.showTrails {
		for _, trail := range m.trails {
			for _, p := range trail {
				if x, y, _, ok := m.camera.Project(p, cw, ch); ok {
					m.canvas.Set(x, y)
				}
			}
		}
	}

	for id := 0; id < tree.Len(); id++ {
		p := fromWorld(m.frame.Position(body.ID(id)))
		x, y, _, ok := m.camera.Project(p, cw, ch)
		if !ok {
			continue
		}
		r := m.camera.PixelRadius(p, tree.Body(body.ID(id)).Radius, cw, ch)
		m.canvas.FillDisc(x, y, r)
	}
}

func (m Model) status() string {
	switch {
	case m.recorder != nil:
		return StatusRecording.Render(fmt.Sprintf("● REC %d", m.recorder.Len()))
	case m.clock.Paused():
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render("RUNNING")
	}
}

func metric(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value) + "\n"
}

// View renders the canvas and the stats panel.
func (m Model) View() string {
	theme := CurrentTheme
	canvasView := canvasStyle.Foreground(theme.Primary).Render(m.canvas.String())

	var s strings.Builder
	title := "ORRERY"
	if m.scene.Path != "" {
		title = strings.ToUpper(filepath.Base(m.scene.Path))
	}
	s.WriteString(GradientText(title, theme.Primary, theme.Secondary) + "\n")
	s.WriteString(m.status() + "\n\n")

	s.WriteString(metric("Time", fmt.Sprintf("%.2f", m.clock.Elapsed())))
	s.WriteString(metric("Scale", fmt.Sprintf("%gx", m.clock.Scale())))
	s.WriteString(metric("Bodies", fmt.Sprintf("%d", m.scene.Tree.Len())))
	s.WriteString(metric("View", m.viewName))
	s.WriteString(metric("Theme", theme.Name))
	if m.reloads > 0 {
		s.WriteString(metric("Reloads", fmt.Sprintf("%d", m.reloads)))
	}

	b := m.scene.Tree.Body(m.selected)
	pos := m.frame.Position(m.selected)
	s.WriteString("\n" + Separator(38) + "\n")
	s.WriteString(metric("Body", fmt.Sprintf("#%d %s", m.selected, b.Texture)))
	s.WriteString(metric("Kind", b.Kind.String()))
	s.WriteString(metric("Radius", fmt.Sprintf("%g", b.Radius)))
	if b.Kind == body.Planet {
		s.WriteString(metric("Distance", fmt.Sprintf("%g", b.OrbitalDistance)))
		s.WriteString(metric("Period", fmt.Sprintf("%g", b.OrbitalPeriod)))
	}
	s.WriteString(metric("Position", fmt.Sprintf("%.2f %.2f %.2f", pos.X, pos.Y, pos.Z)))

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("x"))
		s.WriteString(graphStyle.Foreground(theme.Accent).Render(chart) + "\n")
	}

	if m.lastErr != nil {
		s.WriteString("\n" + StatusError.Render(m.lastErr.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause <>:Speed +-:Zoom\nV:View Tab:Body T:Theme\nO:Orbits L:Trails G:GIF Q:Quit"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))

	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume clock       ║
║  < >      - Halve/double time scale  ║
║  + -      - Zoom in/out              ║
║  V        - Cycle view presets       ║
║  Tab      - Select next body         ║
║  O        - Toggle orbit rings       ║
║  L        - Toggle trails            ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Scene returns the scene currently on screen.
func (m Model) Scene() *hierarchy.Scene { return m.scene }

// Frame returns the most recently composed frame.
func (m Model) Frame() *orbit.Frame { return m.frame }

// Canvas returns the drawing surface.
func (m Model) Canvas() *Canvas { return m.canvas }
