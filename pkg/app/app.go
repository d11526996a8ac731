package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/zurustar/xmidi/pkg/cli"
	"github.com/zurustar/xmidi/pkg/controller"
	"github.com/zurustar/xmidi/pkg/fileutil"
	"github.com/zurustar/xmidi/pkg/logger"
	"github.com/zurustar/xmidi/pkg/midi"
	"github.com/zurustar/xmidi/pkg/monitor"
	"github.com/zurustar/xmidi/pkg/synth"
)

// レンダリング終了時に鳴らし切る長さ
const renderTail = time.Second

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config  *cli.Config
	log     *slog.Logger
	embedFS fs.FS
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer

	renderer   *synth.Renderer
	renderFile *os.File
}

// New Applicationを作成
// embedFSは埋め込みSoundFont用（nil可）
func New(embedFS fs.FS, stdin io.Reader, stdout, stderr io.Writer) *Application {
	return &Application{
		embedFS: embedFS,
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
	}
}

// Run アプリケーションを実行
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp(app.stdout)
		return nil
	}

	// 2. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.log.Info("Application started")

	// 3. 入力の準備
	input, name, err := app.openInput()
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer input.Close()

	app.log.Info("Input opened", "name", name)

	// 4. シンセへの転送設定（SoundFont指定時）
	sinks, err := app.setupSynth()
	if err != nil {
		return fmt.Errorf("failed to set up synthesizer: %w", err)
	}
	// 途中で失敗してもWAVを閉じる（正常時は下で完了済み）
	defer app.finishRender()

	// 5. モニタの実行
	session, err := app.newSession(sinks)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	ctx, stop := app.context()
	defer stop()

	stats, runErr := session.Run(ctx, input)
	app.logStats(stats)

	if err := app.finishRender(); err != nil {
		return fmt.Errorf("failed to finish rendering: %w", err)
	}

	switch {
	case runErr == nil:
	case errors.Is(runErr, context.DeadlineExceeded):
		app.log.Info("Timeout reached, terminating", "duration", app.config.Timeout)
	case errors.Is(runErr, context.Canceled):
		app.log.Info("Interrupted, terminating")
	default:
		return fmt.Errorf("failed to decode stream: %w", runErr)
	}

	app.log.Info("Application terminated normally")
	return nil
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = config
	return nil
}

// initLogger ロガーを初期化（ログは標準エラー出力、一覧は標準出力）
func (app *Application) initLogger() error {
	if err := logger.InitLogger(app.config.LogLevel, app.config.LogFormat, app.stderr); err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

// openInput 入力ファイルまたは標準入力を開く
func (app *Application) openInput() (io.ReadCloser, string, error) {
	if app.config.InputPath == "" {
		if rc, ok := app.stdin.(io.ReadCloser); ok {
			return rc, "stdin", nil
		}
		return io.NopCloser(app.stdin), "stdin", nil
	}

	rc, err := fileutil.NewRealFS("").Open(app.config.InputPath)
	if err != nil {
		return nil, "", err
	}
	return rc, app.config.InputPath, nil
}

// context タイムアウトと割り込みで終了するコンテキストを作成
func (app *Application) context() (context.Context, context.CancelFunc) {
	ctx, stopSignal := signal.NotifyContext(context.Background(), os.Interrupt)
	if app.config.Timeout <= 0 {
		return ctx, stopSignal
	}

	ctx, cancel := context.WithTimeout(ctx, app.config.Timeout)
	return ctx, func() {
		cancel()
		stopSignal()
	}
}

// setupSynth SoundFontを読み込み、ブリッジまたはレンダラを作成
func (app *Application) setupSynth() ([]monitor.Sink, error) {
	if app.config.SoundFont == "" {
		return nil, nil
	}

	loc := findSoundFont(app.embedFS, app.config.SoundFont, app.config.InputPath)
	if loc == nil {
		return nil, fmt.Errorf("%w: %s", synth.ErrSoundFontNotFound, app.config.SoundFont)
	}

	sf, err := synth.LoadSoundFont(loc.FileSystem, loc.Path)
	if err != nil {
		return nil, err
	}
	s, err := synth.NewSynthesizer(sf)
	if err != nil {
		return nil, err
	}

	app.log.Info("SoundFont loaded", "path", loc.Path, "embedded", loc.IsEmbedded)

	if app.config.RenderPath == "" {
		return []monitor.Sink{synth.NewBridge(s)}, nil
	}

	f, err := os.Create(app.config.RenderPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}
	r, err := synth.NewRenderer(f, s, app.config.RenderStep)
	if err != nil {
		f.Close()
		return nil, err
	}
	app.renderer = r
	app.renderFile = f

	app.log.Info("Rendering to WAV", "path", app.config.RenderPath, "step", app.config.RenderStep)
	return []monitor.Sink{r}, nil
}

// finishRender WAVの末尾を書き出してファイルを閉じる（2回目以降は何もしない）
func (app *Application) finishRender() error {
	if app.renderer == nil {
		return nil
	}
	defer func() {
		app.renderFile.Close()
		app.renderer = nil
		app.renderFile = nil
	}()

	if err := app.renderer.Close(renderTail); err != nil {
		return err
	}
	app.log.Info("WAV written", "path", app.config.RenderPath, "frames", app.renderer.Frames())
	return nil
}

// newSession プリンタとセッションを作成
func (app *Application) newSession(sinks []monitor.Sink) (*monitor.Session, error) {
	textDecoder, err := monitor.NewTextDecoder(app.config.SysExCharset)
	if err != nil {
		return nil, err
	}

	printer := monitor.NewPrinter(app.stdout,
		monitor.WithDrumChannel(app.config.DrumChannel),
		monitor.WithTextDecoder(textDecoder),
		monitor.WithColor(app.config.Color),
		monitor.WithTracker(controller.NewTracker()),
	)

	var opts []midi.DecoderOption
	if app.config.Strict {
		opts = append(opts, midi.WithStrictDataBytes())
	}
	if app.config.MaxSysEx > 0 {
		opts = append(opts, midi.WithMaxSysExLength(app.config.MaxSysEx))
	}

	session := monitor.NewSession(printer, monitor.SessionConfig{
		Resync:         app.config.Resync,
		DecoderOptions: opts,
		Sinks:          sinks,
		Logger:         app.log,
	})
	app.log.Debug("Session created", "session", session.ID().String())
	return session, nil
}

// logStats セッションの統計を出力
func (app *Application) logStats(stats monitor.Stats) {
	attrs := []any{
		"messages", stats.Messages,
		"bytes", stats.Bytes,
		"system", stats.System,
		"skipped", stats.Skipped,
		"elapsed", stats.Elapsed,
	}
	for t := midi.TypeNoteOff; t <= midi.TypeSystem; t++ {
		if n := stats.ByType[t]; n > 0 {
			attrs = append(attrs, t.String(), n)
		}
	}
	app.log.Info("Session finished", attrs...)
}
