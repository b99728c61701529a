package app

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pointerkit/internal/config"
	"pointerkit/internal/hints"
	"pointerkit/internal/logging"
	"pointerkit/internal/platform"
	"pointerkit/internal/platform/ebitenwin"
	"pointerkit/internal/render"
	"pointerkit/internal/session"
	"pointerkit/internal/ui"
	"pointerkit/pkg/mouse"
	"pointerkit/pkg/ptrace"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/sqweek/dialog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const tracePasswordEnv = "POINTERKIT_TRACE_PASSWORD"

type fontKey struct {
	size  int
	bold  bool
	mono  bool
	scale int
}

type fontBank struct {
	regular *opentype.Font
	bold    *opentype.Font
	mono    *opentype.Font
	cache   map[fontKey]font.Face
}

func newFontBank() fontBank {
	bank := fontBank{cache: map[fontKey]font.Face{}}
	reg, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return bank
	}
	bol, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return bank
	}
	mon, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return bank
	}
	bank.regular = reg
	bank.bold = bol
	bank.mono = mon
	return bank
}

type App struct {
	cfg        config.Config
	configPath string
	log        *logging.Logger

	ctx      *platform.Context
	window   *ebitenwin.Window
	tracker  *mouse.State
	recorder *session.Recorder
	player   *session.Player
	watcher  *config.Watcher
	mode     ui.Mode

	theme       ui.Theme
	frameBuffer *render.FrameBuffer
	fonts       fontBank
	uiScale     float32

	status    string
	frameTick uint64
	lastTrace *ptrace.Recording
	tracePath string
}

func New(cfg config.Config, configPath string, log *logging.Logger) *App {
	return &App{
		cfg:        cfg.Normalize(),
		configPath: configPath,
		log:        log,
		theme:      ui.DefaultTheme(),
		fonts:      newFontBank(),
		uiScale:    1,
		status:     "Live input",
	}
}

func (a *App) Run() error {
	ctx, err := platform.NewContext(ebitenwin.New())
	if err != nil {
		return err
	}
	a.ctx = ctx
	defer func() {
		if err := a.ctx.Close(); err != nil {
			a.log.Msgf(logging.CategorySystem, logging.PriorityWarn, "close context: %v", err)
		}
	}()

	win, err := ctx.CreateWindow(a.cfg.WindowConfig())
	if err != nil {
		return err
	}
	a.window = win.(*ebitenwin.Window)
	a.recorder = session.NewRecorder(a.window, a.window)
	a.tracker = mouse.New(a.recorder)
	a.tracker.SetLogicalSize(a.cfg.LogicalSize())
	a.applyHints()

	if a.configPath != "" {
		w, err := config.NewWatcher(a.configPath)
		if err != nil {
			a.log.Msgf(logging.CategorySystem, logging.PriorityWarn, "config hot reload disabled: %v", err)
		} else {
			a.watcher = w
			defer w.Close()
		}
	}

	a.log.Msgf(logging.CategoryApp, logging.PriorityInfo, "running on %s with logical size %dx%d",
		ctx.Name(), a.tracker.LogicalWidth(), a.tracker.LogicalHeight())
	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("run game loop: %w", err)
	}
	return nil
}

func (a *App) applyHints() {
	if err := hints.Apply(ebitenwin.Target{}, a.cfg.Hints); err != nil {
		a.log.Msgf(logging.CategorySystem, logging.PriorityWarn, "hints: %v", err)
	}
	a.uiScale = max(a.window.Scale(), 1)
}

func (a *App) Update() error {
	a.frameTick++
	a.drainConfigEvents()

	for _, ev := range a.window.PollEvents() {
		switch ev.Type {
		case platform.EventClose:
			return ebiten.Termination
		case platform.EventResize:
			a.log.Msgf(logging.CategoryVideo, logging.PriorityDebug, "window resized to %dx%d", ev.Width, ev.Height)
		}
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		a.toggleRecording()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF6) && a.mode == ui.ModeReplay {
		a.stopReplay("Back to live input")
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := a.saveTraceDialog(); err != nil {
			a.fail("save trace", err)
		}
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyO) {
		if err := a.openTraceDialog(); err != nil {
			a.fail("open trace", err)
		}
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		snap := a.tracker.Snapshot().String()
		if err := clipboard.WriteAll(snap); err != nil {
			a.fail("copy snapshot", err)
		} else {
			a.status = "Copied snapshot"
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.tracker.Reset()
		a.status = "Scaling reset to 1x1"
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		a.tracker.SetLogicalSize(a.logicalTarget())
		a.status = fmt.Sprintf("Logical size %dx%d", a.tracker.LogicalWidth(), a.tracker.LogicalHeight())
	}

	if a.mode == ui.ModeReplay {
		a.tracker.WindowUpdated(a.player)
	} else {
		a.tracker.WindowUpdated(a.window)
	}
	a.tracker.Poll()
	a.logInput()

	if a.mode == ui.ModeReplay && a.player.Done() {
		a.stopReplay("Replay finished")
	}
	return nil
}

func (a *App) logInput() {
	if a.tracker.WasLeftButtonReleased() {
		a.log.Msgf(logging.CategoryInput, logging.PriorityDebug, "left released at %d,%d", a.tracker.MouseX(), a.tracker.MouseY())
	}
	if a.tracker.WasRightButtonReleased() {
		a.log.Msgf(logging.CategoryInput, logging.PriorityDebug, "right released at %d,%d", a.tracker.MouseX(), a.tracker.MouseY())
	}
	if a.tracker.WasMouseMoved() && a.log.Enabled(logging.CategoryInput, logging.PriorityVerbose) {
		a.log.Msgf(logging.CategoryInput, logging.PriorityVerbose, "moved to %d,%d", a.tracker.MouseX(), a.tracker.MouseY())
	}
}

func (a *App) logicalTarget() mouse.Size {
	if a.mode == ui.ModeReplay && a.player != nil {
		return a.player.LogicalSize()
	}
	return a.cfg.LogicalSize()
}

func (a *App) drainConfigEvents() {
	if a.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-a.watcher.Events:
			if !ok {
				a.watcher = nil
				return
			}
			a.reloadConfig(path)
		case err, ok := <-a.watcher.Errors:
			if ok {
				a.log.Msgf(logging.CategorySystem, logging.PriorityWarn, "config watcher: %v", err)
			}
		default:
			return
		}
	}
}

func (a *App) reloadConfig(path string) {
	cfg, err := config.Load(path)
	if err != nil {
		a.fail("reload config", err)
		return
	}
	a.cfg = cfg
	if err := cfg.ApplyLogging(a.log); err != nil {
		a.log.Msgf(logging.CategorySystem, logging.PriorityWarn, "log config: %v", err)
	}
	a.applyHints()
	if a.mode != ui.ModeReplay {
		a.tracker.SetLogicalSize(cfg.LogicalSize())
	}
	a.window.SetTitle(cfg.Window.Title)
	a.status = "Reloaded " + filepath.Base(path)
	a.log.Msgf(logging.CategoryApp, logging.PriorityInfo, "config reloaded from %s", path)
}

func (a *App) toggleRecording() {
	if a.mode == ui.ModeReplay {
		a.status = "Cannot record during replay"
		return
	}
	if a.recorder.Recording() {
		a.lastTrace = a.recorder.Stop()
		a.mode = ui.ModeLive
		a.status = fmt.Sprintf("Recorded %d frames (%s)", len(a.lastTrace.Frames), a.lastTrace.Duration().Round(10*time.Millisecond))
		a.log.Msgf(logging.CategoryInput, logging.PriorityInfo, "recording stopped after %d frames", len(a.lastTrace.Frames))
		return
	}
	title := time.Now().Format("trace 2006-01-02 15:04:05")
	a.recorder.Start(title, a.cfg.Recording.TPS, a.tracker.LogicalSize())
	a.mode = ui.ModeRecording
	a.status = "Recording"
	a.log.Msgf(logging.CategoryInput, logging.PriorityInfo, "recording started")
}

func (a *App) startReplay(rec *ptrace.Recording) {
	if a.recorder.Recording() {
		a.lastTrace = a.recorder.Stop()
	}
	a.player = session.NewPlayer(rec)
	a.tracker.SetSampler(a.player)
	a.tracker.SetLogicalSize(a.player.LogicalSize())
	a.mode = ui.ModeReplay
	a.status = fmt.Sprintf("Replaying %q (%d frames)", rec.Meta.Title, a.player.Len())
	a.log.Msgf(logging.CategoryInput, logging.PriorityInfo, "replay started: %d frames", a.player.Len())
}

func (a *App) stopReplay(status string) {
	a.tracker.SetSampler(a.recorder)
	a.tracker.SetLogicalSize(a.cfg.LogicalSize())
	a.player = nil
	a.mode = ui.ModeLive
	a.status = status
}

func (a *App) fail(what string, err error) {
	a.status = fmt.Sprintf("%s failed: %v", what, err)
	a.log.Msgf(logging.CategoryError, logging.PriorityError, "%s: %v", what, err)
}

func (a *App) traceDir() string {
	if a.cfg.Recording.Dir != "" {
		return a.cfg.Recording.Dir
	}
	if a.tracePath != "" {
		return filepath.Dir(a.tracePath)
	}
	return "."
}

func (a *App) saveTraceDialog() error {
	if a.lastTrace == nil {
		return errors.New("nothing recorded yet")
	}
	path, err := dialog.File().Filter("Pointer traces", "ptrc").SetStartDir(a.traceDir()).Title("Save trace").Save()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return nil
		}
		return err
	}
	if filepath.Ext(path) == "" {
		path += ".ptrc"
	}
	password := os.Getenv(tracePasswordEnv)
	opts := ptrace.SaveOptions{
		Compression: a.cfg.Recording.Compression,
		Encryption:  ptrace.EncryptionOptions{Enabled: strings.TrimSpace(password) != "", Password: password},
	}
	if err := ptrace.SaveWithOptions(path, a.lastTrace, opts); err != nil {
		return err
	}
	a.tracePath = path
	a.status = "Saved " + filepath.Base(path)
	return nil
}

func (a *App) openTraceDialog() error {
	path, err := dialog.File().Filter("Pointer traces", "ptrc").SetStartDir(a.traceDir()).Title("Open trace").Load()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return nil
		}
		return err
	}
	path = filepath.Clean(path)
	env, err := ptrace.InspectEnvelope(path)
	if err != nil {
		return err
	}
	password := os.Getenv(tracePasswordEnv)
	if env.Encrypted && strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: set %s", ptrace.ErrPasswordRequired, tracePasswordEnv)
	}
	rec, err := ptrace.LoadWithOptions(path, ptrace.LoadOptions{Password: password})
	if err != nil {
		return err
	}
	a.tracePath = path
	a.startReplay(rec)
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if a.frameBuffer == nil || a.frameBuffer.W != w || a.frameBuffer.H != h {
		a.frameBuffer = render.NewFrameBuffer(w, h)
	}

	snap := a.tracker.Snapshot()
	layout := ui.DrawShell(a.frameBuffer, snap, a.mode, a.theme, a.uiScale)
	if err := a.window.Present(a.frameBuffer); err != nil {
		a.log.Msgf(logging.CategoryRender, logging.PriorityError, "present: %v", err)
		return
	}
	screen.DrawImage(a.window.Canvas(), nil)

	labelFace := a.uiFace(10, true, false)
	statusFace := a.uiFace(10, false, true)
	text.Draw(screen, "L", labelFace, layout.LeftBox.Max.X+4, layout.LeftBox.Max.Y-4, a.theme.Cursor)
	text.Draw(screen, "R", labelFace, layout.RightBox.Max.X+4, layout.RightBox.Max.Y-4, a.theme.Cursor)

	statusLeft := fmt.Sprintf("[ %d,%d ] [ logical %dx%d ] [ window %dx%d ]",
		snap.Pos.X, snap.Pos.Y, snap.Logical.W, snap.Logical.H, snap.Window.W, snap.Window.H)
	statusRight := fmt.Sprintf("[ %s ] [ %s ]", a.modeLabel(), a.status)
	baseline := layout.StatusBar + layout.StatusH - int(math.Round(float64(9*a.uiScale)))
	text.Draw(screen, statusLeft, statusFace, 12, baseline, color.RGBA{R: 42, G: 56, B: 80, A: 255})
	text.Draw(screen, statusRight, statusFace, w/2, baseline, color.RGBA{R: 42, G: 56, B: 80, A: 255})
}

func (a *App) modeLabel() string {
	switch a.mode {
	case ui.ModeRecording:
		return fmt.Sprintf("REC %d", a.recorder.FrameCount())
	case ui.ModeReplay:
		return fmt.Sprintf("PLAY %d/%d", a.player.Position(), a.player.Len())
	}
	return "LIVE"
}

// Layout keeps the screen at the outside size so that cursor positions
// arrive in physical window pixels and the tracker does the remapping.
func (a *App) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	outsideWidth = max(outsideWidth, 1)
	outsideHeight = max(outsideHeight, 1)
	if a.window != nil {
		a.window.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// uiFace returns a cached face scaled by the current UI scale.
func (a *App) uiFace(size int, bold, mono bool) font.Face {
	scaleKey := int(math.Round(float64(a.uiScale * 1000)))
	key := fontKey{size: size, bold: bold, mono: mono, scale: scaleKey}
	if f, ok := a.fonts.cache[key]; ok {
		return f
	}
	var base *opentype.Font
	switch {
	case mono:
		base = a.fonts.mono
	case bold:
		base = a.fonts.bold
	default:
		base = a.fonts.regular
	}
	if base == nil {
		return basicfont.Face7x13
	}
	opts := &opentype.FaceOptions{Size: float64(size) * float64(a.uiScale), DPI: 72, Hinting: font.HintingFull}
	face, err := opentype.NewFace(base, opts)
	if err != nil {
		return basicfont.Face7x13
	}
	a.fonts.cache[key] = face
	return face
}
