package gui

import (
	"context"
	"fmt"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/san-kum/orrery/internal/clock"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/hierarchy"
	"github.com/san-kum/orrery/internal/orbit"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColOrbit   = rl.NewColor(60, 60, 80, 255)
)

// Options configure a window session.
type Options struct {
	Config config.WindowConfig
	Clock  *clock.SimClock
	Log    *zap.Logger
	// Scenes delivers replacement scenes, e.g. from a file watcher. May be nil.
	Scenes <-chan *hierarchy.Scene
}

type App struct {
	scene    *hierarchy.Scene
	clock    *clock.SimClock
	frames   orbit.Publisher
	cfg      config.WindowConfig
	log      *zap.Logger
	scenes   <-chan *hierarchy.Scene
	camera   rl.Camera3D
	sphere   rl.Model
	textures map[string]rl.Texture2D

	showOrbits bool
	showHUD    bool
}

func initWindow(cfg config.WindowConfig) {
	rl.InitWindow(int32(cfg.Width), int32(cfg.Height), cfg.Title)
	rl.SetTargetFPS(int32(cfg.FPS))
	rl.SetExitKey(rl.KeyEscape)
}

// Run opens the window and renders scene until the window is closed or ctx
// is cancelled. It must be called from the main goroutine.
func Run(ctx context.Context, scene *hierarchy.Scene, opts Options) error {
	if scene == nil || scene.Tree == nil {
		return fmt.Errorf("gui: no scene to render")
	}
	initWindow(opts.Config)
	defer rl.CloseWindow()

	app := NewApp(scene, opts)
	defer app.Close()
	app.RunLoop(ctx)
	return nil
}

// NewApp prepares GPU resources for scene. The window must already be open.
func NewApp(scene *hierarchy.Scene, opts Options) *App {
	clk := opts.Clock
	if clk == nil {
		clk = clock.New(clock.Wall{}, 1)
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	cfg := opts.Config

	app := &App{
		clock:      clk,
		cfg:        cfg,
		log:        log,
		scenes:     opts.Scenes,
		sphere:     rl.LoadModelFromMesh(rl.GenMeshSphere(1, cfg.SphereRings, cfg.SphereSlices)),
		textures:   make(map[string]rl.Texture2D),
		showOrbits: cfg.ShowOrbits,
		showHUD:    true,
	}
	app.setScene(scene)
	return app
}

func (a *App) setScene(scene *hierarchy.Scene) {
	a.scene = scene
	a.camera = rl.NewCamera3D(
		toVector3(scene.Camera),
		rl.NewVector3(0, 0, 0),
		rl.NewVector3(0, 1, 0),
		float32(a.cfg.FOV),
		rl.CameraPerspective,
	)
	a.frames.Advance(scene.Tree, a.clock.Elapsed())
	a.log.Info("scene ready",
		zap.String("path", scene.Path),
		zap.Int("bodies", scene.Tree.Len()))
}

// texture returns the cached texture for name, loading it on first use. A
// texture that fails to load is cached as the zero value and drawn untextured.
func (a *App) texture(name string) rl.Texture2D {
	if tex, ok := a.textures[name]; ok {
		return tex
	}
	path := a.texturePath(name)
	tex := rl.LoadTexture(path)
	if tex.ID == 0 {
		a.log.Warn("texture not loaded, using flat color", zap.String("path", path))
	}
	a.textures[name] = tex
	return tex
}

func (a *App) texturePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	dir := a.cfg.TextureDir
	if dir == "" && a.scene.Path != "" {
		dir = filepath.Dir(a.scene.Path)
	}
	return filepath.Join(dir, name)
}

func (a *App) Close() {
	for _, tex := range a.textures {
		if tex.ID != 0 {
			rl.UnloadTexture(tex)
		}
	}
	rl.UnloadModel(a.sphere)
}

func (a *App) RunLoop(ctx context.Context) {
	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return
		}
		a.Update()
		a.Draw()
	}
}

// Update swaps in a pending scene, handles input and publishes the next frame.
func (a *App) Update() {
	select {
	case scene, ok := <-a.scenes:
		if ok && scene != nil {
			a.setScene(scene)
		}
	default:
	}

	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.clock.SetPaused(!a.clock.Paused())
	case rl.IsKeyPressed(rl.KeyUp):
		a.clock.SetScale(a.clock.Scale() * 2)
	case rl.IsKeyPressed(rl.KeyDown):
		a.clock.SetScale(a.clock.Scale() / 2)
	case rl.IsKeyPressed(rl.KeyO):
		a.showOrbits = !a.showOrbits
	case rl.IsKeyPressed(rl.KeyH):
		a.showHUD = !a.showHUD
	}

	a.clock.Tick()
	a.frames.Advance(a.scene.Tree, a.clock.Elapsed())
}

func (a *App) Draw() {
	frame := a.frames.Load()

	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.camera)
	if a.showOrbits {
		a.RenderOrbits(frame)
	}
	a.RenderBodies(frame)
	rl.EndMode3D()

	if a.showHUD {
		a.DrawHUD(frame)
	}
	rl.EndDrawing()
}

func (a *App) DrawHUD(frame *orbit.Frame) {
	name := "orrery"
	if a.scene.Path != "" {
		name = filepath.Base(a.scene.Path)
	}
	rl.DrawText(name, 30, 30, 24, ColSelect)
	rl.DrawText(fmt.Sprintf("t = %.2f  x%g", frame.Time, a.clock.Scale()), 30, 60, 16, ColText)

	status, col := "RUNNING", ColSelect
	if a.clock.Paused() {
		status, col = "PAUSED", ColTextDim
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	rl.DrawText(status, w-120, 30, 16, col)
	rl.DrawText("[SPACE] PAUSE  [UP/DOWN] SPEED  [O] ORBITS  [H] HUD  [ESC] QUIT", 30, h-30, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), w-120, h-30, 14, ColTextDim)
}
