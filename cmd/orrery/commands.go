package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/orrery/internal/analysis"
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/clock"
	"github.com/san-kum/orrery/internal/export"
	"github.com/san-kum/orrery/internal/gui"
	"github.com/san-kum/orrery/internal/hierarchy"
	"github.com/san-kum/orrery/internal/orbit"
	"github.com/san-kum/orrery/internal/storage"
	"github.com/san-kum/orrery/internal/viz"
	"github.com/san-kum/orrery/internal/watch"
)

func loadScene(path string) (*hierarchy.Scene, error) {
	scene, err := hierarchy.Load(path)
	if err != nil {
		return nil, err
	}
	log.Info("scene loaded", zap.String("path", path), zap.Int("bodies", scene.Tree.Len()))
	return scene, nil
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// watchScenes starts a watcher on path in g. Reloaded scenes and reload
// errors are passed to the callbacks from the watcher goroutine.
func watchScenes(ctx context.Context, g *errgroup.Group, path string, onScene watch.Handler, onError watch.ErrorHandler) error {
	w, err := watch.New(path, log)
	if err != nil {
		return err
	}
	g.Go(func() error { return w.Run(ctx, onScene, onError) })
	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	scene, err := loadScene(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	opts := gui.Options{
		Config: cfg.Window,
		Clock:  clock.New(clock.Wall{}, cfg.TimeScale),
		Log:    log,
	}

	g, gctx := errgroup.WithContext(ctx)
	if watchFile {
		// The window only wants the newest scene; a stale pending one is replaced.
		scenes := make(chan *hierarchy.Scene, 1)
		onScene := func(s *hierarchy.Scene) {
			for {
				select {
				case scenes <- s:
					return
				default:
					select {
					case <-scenes:
					default:
					}
				}
			}
		}
		if err := watchScenes(gctx, g, args[0], onScene, nil); err != nil {
			return err
		}
		opts.Scenes = scenes
	}

	// raylib needs the main goroutine.
	runErr := gui.Run(gctx, scene, opts)
	cancel()
	if err := g.Wait(); err != nil {
		return err
	}
	return runErr
}

func runLive(cmd *cobra.Command, args []string) error {
	scene, err := loadScene(args[0])
	if err != nil {
		return err
	}

	term := cfg.Terminal
	if theme != "" {
		term.Theme = theme
	}
	if view != "" {
		term.View = view
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	m := viz.NewModel(scene, clock.New(clock.Wall{}, cfg.TimeScale), term, log)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	g, gctx := errgroup.WithContext(ctx)
	if watchFile {
		onScene := func(s *hierarchy.Scene) { p.Send(viz.SceneMsg{Scene: s}) }
		onError := func(err error) { p.Send(viz.ErrorMsg{Err: err}) }
		if err := watchScenes(gctx, g, args[0], onScene, onError); err != nil {
			return err
		}
	}
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
	return g.Wait()
}

var (
	rootStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd700"))
	itemStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	enumStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func bodyLabel(id body.ID, b body.Body) string {
	if b.IsStar() {
		return fmt.Sprintf("#%d %s  r=%g rot=%g", id, b.Texture, b.Radius, b.RotationPeriod)
	}
	return fmt.Sprintf("#%d %s  r=%g rot=%g d=%g T=%g", id, b.Texture, b.Radius, b.RotationPeriod, b.OrbitalDistance, b.OrbitalPeriod)
}

func hierarchyTree(t *body.Tree, id body.ID) *tree.Tree {
	node := tree.Root(bodyLabel(id, t.Body(id)))
	for _, child := range t.Children(id) {
		if len(t.Children(child)) > 0 {
			node.Child(hierarchyTree(t, child))
		} else {
			node.Child(bodyLabel(child, t.Body(child)))
		}
	}
	return node
}

func runValidate(cmd *cobra.Command, args []string) error {
	scene, err := loadScene(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("camera"), fmt.Sprintf("%g %g %g", scene.Camera.X, scene.Camera.Y, scene.Camera.Z))
	l := scene.Light
	fmt.Fprintf(out, "%s %s\n\n", labelStyle.Render("light "),
		fmt.Sprintf("rgb(%g %g %g) ambient=%g diffuse=%g specular=%g att=%g",
			l.Color[0], l.Color[1], l.Color[2], l.Ambient, l.Diffuse, l.Specular, l.LinearAttenuation))

	t := hierarchyTree(scene.Tree, scene.Tree.Root()).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(enumStyle).
		RootStyle(rootStyle).
		ItemStyle(itemStyle)
	fmt.Fprintln(out, t)
	fmt.Fprintf(out, "\n%d bodies ok\n", scene.Tree.Len())
	return nil
}

type dumpBody struct {
	ID       int        `json:"id"`
	Kind     string     `json:"kind"`
	Texture  string     `json:"texture"`
	Parent   int        `json:"parent"`
	Position [3]float64 `json:"position"`
}

type dumpFrame struct {
	Time   float64    `json:"time"`
	Bodies []dumpBody `json:"bodies"`
}

func runDump(cmd *cobra.Command, args []string) error {
	scene, err := loadScene(args[0])
	if err != nil {
		return err
	}

	frame := orbit.Compose(scene.Tree, atTime)
	out := dumpFrame{Time: frame.Time}
	for id, b := range scene.Tree.Bodies() {
		p := frame.Position(body.ID(id))
		out.Bodies = append(out.Bodies, dumpBody{
			ID: id, Kind: b.Kind.String(), Texture: b.Texture, Parent: int(b.Parent),
			Position: [3]float64{p.X, p.Y, p.Z},
		})
	}
	return writeDump(cmd.OutOrStdout(), out, jsonOut)
}

func writeDump(w io.Writer, d dumpFrame, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "t = %g\n", d.Time)
	fmt.Fprintln(tw, "ID\tKIND\tTEXTURE\tPARENT\tX\tY\tZ")
	for _, b := range d.Bodies {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.4f\t%.4f\t%.4f\n",
			b.ID, b.Kind, b.Texture, b.Parent, b.Position[0], b.Position[1], b.Position[2])
	}
	return tw.Flush()
}

// driftTolerance bounds how far a recorded body may stray from its orbital distance.
const driftTolerance = 1e-6

func runRecord(cmd *cobra.Command, args []string) error {
	scene, err := loadScene(args[0])
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("dt") {
		dt = cfg.Record.Dt
	}
	if !cmd.Flags().Changed("duration") {
		duration = cfg.Record.Duration
	}

	track, err := analysis.Sample(scene.Tree, start, duration, dt)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(args[0], scene.Tree, track)
	if err != nil {
		return err
	}

	drift := analysis.Drift(scene.Tree, track)
	if stable := analysis.Stable(drift, driftTolerance); stable < 1 {
		log.Warn("orbit radius drift above tolerance", zap.Float64("stable", stable))
	}

	log.Info("run recorded", zap.String("run", runID), zap.Int("samples", track.Len()))
	fmt.Fprintf(cmd.OutOrStdout(), "run: %s (%d samples of %d bodies, max drift %.2e)\n",
		runID, track.Len(), track.Bodies(), slices.Max(drift))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tBODIES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.4f\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			len(run.Bodies),
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *analysis.Track, error) {
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	track, err := st.LoadTrack(runID)
	if err != nil {
		return nil, nil, err
	}
	if bodyID < 0 || bodyID >= track.Bodies() {
		return nil, nil, fmt.Errorf("body %d out of range, run has %d bodies", bodyID, track.Bodies())
	}
	return meta, track, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, track, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if track.Len() < 2 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	info := meta.Bodies[bodyID]
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "body: #%d %s\n", info.ID, info.Texture)
	fmt.Fprintf(out, "samples: %d\n\n", track.Len())

	for _, axis := range []analysis.Axis{analysis.AxisX, analysis.AxisZ} {
		graph := asciigraph.Plot(track.Series(body.ID(bodyID), axis),
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption(fmt.Sprintf("%s vs time", axis)))
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, track, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	info := meta.Bodies[bodyID]
	fmt.Fprintf(out, "body: #%d %s\n", info.ID, info.Texture)

	for _, axis := range []analysis.Axis{analysis.AxisX, analysis.AxisZ} {
		period, err := analysis.DominantPeriod(track.Series(body.ID(bodyID), axis), track.Dt)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", axis, err)
			continue
		}
		fmt.Fprintf(out, "%s: dominant period %.4f\n", axis, period)
	}
	return nil
}

func outputPath(runID, ext string) string {
	if outFile != "" {
		return outFile
	}
	return runID + ext
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	track, err := st.LoadTrack(args[0])
	if err != nil {
		return err
	}

	path := outputPath(args[0], ".svg")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.OrbitsToSVG(f, track, 800); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	path := outputPath(args[0], ".json")
	if err := st.ExportJSONFile(path, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", path)
	return nil
}
