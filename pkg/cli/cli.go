package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// 既定値
const (
	DefaultDrumChannel = 10
	DefaultRenderStep  = 50 * time.Millisecond
)

// Config はコマンドライン引数から解析された設定を保持する
type Config struct {
	InputPath    string        // 入力ファイルのパス（空または"-"は標準入力）
	Timeout      time.Duration // タイムアウト時間（0は無制限）
	LogLevel     string        // ログレベル（debug, info, warn, error）
	LogFormat    string        // ログ形式（text, json）
	Color        bool          // 種別列を色付け
	Resync       bool          // 不正なステータスバイトを読み飛ばして継続
	Strict       bool          // データバイトの最上位ビットを検査
	DrumChannel  uint8         // ドラムチャンネル（チャンネル番号 0-15）
	SysExCharset string        // SysExペイロードの文字コード（空は表示しない）
	MaxSysEx     int           // SysExの最大長（0は無制限）
	SoundFont    string        // SoundFontのパス（指定時はシンセに転送）
	RenderPath   string        // WAV出力先（SoundFont指定時のみ）
	RenderStep   time.Duration // メッセージごとにレンダリングする長さ
	ShowHelp     bool          // ヘルプ表示フラグ
}

var validCharsets = map[string]bool{
	"":            true,
	"ascii":       true,
	"shift_jis":   true,
	"euc-jp":      true,
	"iso-2022-jp": true,
}

// ブール型フラグ（値を取らない）
var boolFlags = map[string]bool{
	"-h": true, "--help": true, "-help": true,
	"-c": true, "--color": true, "-color": true,
	"-r": true, "--resync": true, "-resync": true,
	"--strict": true, "-strict": true,
}

// ParseArgs コマンドライン引数を解析してConfigを返す
func ParseArgs(args []string) (*Config, error) {
	// 引数を並べ替え：フラグを前に、位置引数を後ろに
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("midimon", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	config := &Config{}

	var (
		timeoutSec  int
		drumChannel int
		maxSysEx    int
	)
	fs.IntVar(&timeoutSec, "timeout", 0, "タイムアウト時間（秒）")
	fs.IntVar(&timeoutSec, "t", 0, "タイムアウト時間（秒）（短縮形）")
	fs.StringVar(&config.LogLevel, "log-level", "info", "ログレベル（debug, info, warn, error）")
	fs.StringVar(&config.LogLevel, "l", "info", "ログレベル（短縮形）")
	fs.StringVar(&config.LogFormat, "log-format", "text", "ログ形式（text, json）")
	fs.BoolVar(&config.Color, "color", false, "種別列を色付け")
	fs.BoolVar(&config.Color, "c", false, "種別列を色付け（短縮形）")
	fs.BoolVar(&config.Resync, "resync", false, "不正なステータスバイトを読み飛ばす")
	fs.BoolVar(&config.Resync, "r", false, "不正なステータスバイトを読み飛ばす（短縮形）")
	fs.BoolVar(&config.Strict, "strict", false, "データバイトを検査")
	fs.IntVar(&drumChannel, "drum-channel", 0, "ドラムチャンネル（1-16）")
	fs.StringVar(&config.SysExCharset, "sysex-charset", "", "SysExペイロードの文字コード")
	fs.IntVar(&maxSysEx, "max-sysex", 0, "SysExの最大長（バイト）")
	fs.StringVar(&config.SoundFont, "soundfont", "", "SoundFontのパス")
	fs.StringVar(&config.SoundFont, "s", "", "SoundFontのパス（短縮形）")
	fs.StringVar(&config.RenderPath, "render", "", "WAV出力先")
	fs.StringVar(&config.RenderPath, "o", "", "WAV出力先（短縮形）")
	fs.DurationVar(&config.RenderStep, "render-step", DefaultRenderStep, "メッセージごとのレンダリング長")
	fs.BoolVar(&config.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&config.ShowHelp, "h", false, "ヘルプを表示（短縮形）")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, err
	}

	// 環境変数からの設定（コマンドラインフラグが優先）
	if timeoutSec == 0 {
		if timeoutEnv := os.Getenv("TIMEOUT"); timeoutEnv != "" {
			if t, err := strconv.Atoi(timeoutEnv); err == nil && t > 0 {
				timeoutSec = t
			}
		}
	}

	if config.LogLevel == "info" {
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			config.LogLevel = strings.ToLower(logLevelEnv)
		}
	}

	if config.LogFormat == "text" {
		if logFormatEnv := os.Getenv("LOG_FORMAT"); logFormatEnv != "" {
			config.LogFormat = strings.ToLower(logFormatEnv)
		}
	}

	if !config.Color {
		if colorEnv := os.Getenv("XMIDI_COLOR"); colorEnv != "" {
			config.Color = colorEnv == "1" || strings.ToLower(colorEnv) == "true"
		}
	}

	if drumChannel == 0 {
		drumChannel = DefaultDrumChannel
		if drumEnv := os.Getenv("XMIDI_DRUM_CHANNEL"); drumEnv != "" {
			n, err := strconv.Atoi(drumEnv)
			if err != nil {
				return nil, fmt.Errorf("invalid XMIDI_DRUM_CHANNEL: %q", drumEnv)
			}
			drumChannel = n
		}
	}

	maxSysExSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "max-sysex" {
			maxSysExSet = true
		}
	})
	if !maxSysExSet {
		if maxEnv := os.Getenv("XMIDI_MAX_SYSEX"); maxEnv != "" {
			n, err := strconv.Atoi(maxEnv)
			if err != nil {
				return nil, fmt.Errorf("invalid XMIDI_MAX_SYSEX: %q", maxEnv)
			}
			maxSysEx = n
		}
	}
	if maxSysEx < 0 {
		return nil, fmt.Errorf("max sysex length must be non-negative, got %d", maxSysEx)
	}
	config.MaxSysEx = maxSysEx

	// タイムアウトの検証
	if timeoutSec < 0 {
		return nil, fmt.Errorf("timeout must be non-negative, got %d", timeoutSec)
	}
	config.Timeout = time.Duration(timeoutSec) * time.Second

	// ログレベルの検証
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	if config.LogFormat != "text" && config.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log format: %s (must be text or json)", config.LogFormat)
	}

	// ドラムチャンネルは1-16で指定し、内部では0-15で保持する
	if drumChannel < 1 || drumChannel > 16 {
		return nil, fmt.Errorf("drum channel must be between 1 and 16, got %d", drumChannel)
	}
	config.DrumChannel = uint8(drumChannel - 1)

	config.SysExCharset = strings.ToLower(config.SysExCharset)
	if !validCharsets[config.SysExCharset] {
		return nil, fmt.Errorf("unsupported sysex charset: %s", config.SysExCharset)
	}

	if config.RenderPath != "" && config.SoundFont == "" {
		return nil, fmt.Errorf("--render requires --soundfont")
	}
	if config.RenderStep <= 0 {
		return nil, fmt.Errorf("render step must be positive, got %v", config.RenderStep)
	}

	// 位置引数（入力ファイルのパス）
	if fs.NArg() > 0 {
		config.InputPath = fs.Arg(0)
	}
	if config.InputPath == "-" {
		config.InputPath = ""
	}

	return config, nil
}

// reorderArgs 引数を並べ替えて、フラグを前に、位置引数を後ろに配置する
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "-"単独は標準入力を表す位置引数
		if len(arg) > 1 && arg[0] == '-' {
			flags = append(flags, arg)

			// --flag=value 形式は次の引数を消費しない
			if strings.Contains(arg, "=") || boolFlags[arg] {
				continue
			}
			if i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, arg)
		}
	}

	// フラグを前に、位置引数を後ろに配置
	return append(flags, positional...)
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `midimon - MIDI byte stream monitor

Usage:
  midimon [options] [input]

Arguments:
  input         MIDIバイト列のファイル（.syxなど）。省略または"-"で標準入力

Options:
  -t, --timeout <seconds>     指定秒数後に終了（デフォルト: 無制限）
  -l, --log-level <level>     ログレベル: debug, info, warn, error（デフォルト: info）
  --log-format <format>       ログ形式: text, json（デフォルト: text）
  -c, --color                 種別列を色付け
  -r, --resync                不正なステータスバイトを読み飛ばして継続
  --strict                    データバイトの最上位ビットを検査
  --drum-channel <1-16>       ドラムチャンネル（デフォルト: 10）
  --sysex-charset <name>      SysExを文字列として表示: ascii, shift_jis, euc-jp, iso-2022-jp
  --max-sysex <bytes>         SysExの最大長（デフォルト: 0 = 無制限）
  -s, --soundfont <path>      SoundFont(.sf2)を読み込みシンセに転送
  -o, --render <path>         シンセ出力をWAVに書き出す（--soundfont必須）
  --render-step <duration>    メッセージごとのレンダリング長（デフォルト: 50ms）
  -h, --help                  このヘルプを表示

Environment Variables:
  TIMEOUT=<seconds>           タイムアウト時間（秒）
  LOG_LEVEL=<level>           ログレベル
  LOG_FORMAT=<format>         ログ形式
  XMIDI_COLOR=1               色付けを有効化
  XMIDI_DRUM_CHANNEL=<1-16>   ドラムチャンネル
  XMIDI_MAX_SYSEX=<bytes>     SysExの最大長

Examples:
  midimon testdata/test4.syx
  midimon --resync /dev/snd/midiC1D0
  midimon --sysex-charset shift_jis dump.syx
  midimon -s GeneralUser.sf2 -o out.wav song.syx
`)
}
