package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type EditorOptions struct {
	TabWidth int `toml:"tab-width"`
	// Terminal selects the terminal backend: "tty" opens /dev/tty, "stdio"
	// uses the process's standard input and output.
	Terminal string `toml:"terminal"`
	// Allocator backs the text buffer: "mmap" or "heap".
	Allocator       string `toml:"allocator"`
	InitialCapacity int    `toml:"initial-capacity"`
	// MaxBufferBytes caps the size of the text buffer and the kill slot.
	// A negative value in config.toml removes the cap.
	MaxBufferBytes int `toml:"max-buffer-bytes"`
	// Highlighter is "tree-sitter", "keywords" or "off".
	Highlighter     string `toml:"highlighter"`
	SystemClipboard bool   `toml:"system-clipboard"`
	SavePlace       *bool  `toml:"save-place"`
	GitBranch       *bool  `toml:"git-branch"`
	GitBranchSymbol string `toml:"git-branch-symbol"`
}

type Theme struct {
	Theme                 string `toml:"theme"`
	Foreground            string `toml:"foreground"`
	StatuslineForeground  string `toml:"statusline-foreground"`
	CommandlineForeground string `toml:"commandline-foreground"`
	PromptForeground      string `toml:"prompt-foreground"`
	WarningForeground     string `toml:"warning-foreground"`
	ErrorForeground       string `toml:"error-foreground"`
	SelectionForeground   string `toml:"selection-foreground"`
	SearchMatchForeground string `toml:"search-foreground"`
	SyntaxComment         string `toml:"syntax-comment"`
	SyntaxKeyword         string `toml:"syntax-keyword"`
	SyntaxString          string `toml:"syntax-string"`
	SyntaxNumber          string `toml:"syntax-number"`
	SyntaxPunctuation     string `toml:"syntax-punctuation"`
	SyntaxType            string `toml:"syntax-type"`
	SyntaxFunction        string `toml:"syntax-function"`
	SyntaxConstant        string `toml:"syntax-constant"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Theme  Theme         `toml:"theme"`
}

func boolPtr(v bool) *bool { return &v }

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:        8,
			Terminal:        "tty",
			Allocator:       "mmap",
			InitialCapacity: 4096,
			MaxBufferBytes:  1 << 30,
			Highlighter:     "tree-sitter",
			SavePlace:       boolPtr(true),
			GitBranch:       boolPtr(true),
			GitBranchSymbol: "git:",
		},
		Theme: Theme{
			Foreground:            "default",
			StatuslineForeground:  "default",
			CommandlineForeground: "default",
			PromptForeground:      "teal",
			WarningForeground:     "olive",
			ErrorForeground:       "red",
			SelectionForeground:   "olive",
			SearchMatchForeground: "yellow",
			SyntaxComment:         "green",
			SyntaxKeyword:         "navy",
			SyntaxString:          "maroon",
			SyntaxNumber:          "purple",
			SyntaxPunctuation:     "teal",
			SyntaxType:            "teal",
			SyntaxFunction:        "olive",
			SyntaxConstant:        "purple",
		},
	}
}

// Enabled reports whether an optional boolean setting is on.
func Enabled(v *bool) bool { return v != nil && *v }

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if userCfg.Editor.Terminal != "" {
		cfg.Editor.Terminal = userCfg.Editor.Terminal
	}
	if userCfg.Editor.Allocator != "" {
		cfg.Editor.Allocator = userCfg.Editor.Allocator
	}
	if userCfg.Editor.InitialCapacity > 0 {
		cfg.Editor.InitialCapacity = userCfg.Editor.InitialCapacity
	}
	if userCfg.Editor.MaxBufferBytes != 0 {
		cfg.Editor.MaxBufferBytes = max(userCfg.Editor.MaxBufferBytes, 0)
	}
	if userCfg.Editor.Highlighter != "" {
		cfg.Editor.Highlighter = userCfg.Editor.Highlighter
	}
	if userCfg.Editor.SystemClipboard {
		cfg.Editor.SystemClipboard = true
	}
	if userCfg.Editor.SavePlace != nil {
		cfg.Editor.SavePlace = userCfg.Editor.SavePlace
	}
	if userCfg.Editor.GitBranch != nil {
		cfg.Editor.GitBranch = userCfg.Editor.GitBranch
	}
	if userCfg.Editor.GitBranchSymbol != "" {
		cfg.Editor.GitBranchSymbol = userCfg.Editor.GitBranchSymbol
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.Foreground, src.Foreground)
	set(&dst.StatuslineForeground, src.StatuslineForeground)
	set(&dst.CommandlineForeground, src.CommandlineForeground)
	set(&dst.PromptForeground, src.PromptForeground)
	set(&dst.WarningForeground, src.WarningForeground)
	set(&dst.ErrorForeground, src.ErrorForeground)
	set(&dst.SelectionForeground, src.SelectionForeground)
	set(&dst.SearchMatchForeground, src.SearchMatchForeground)
	set(&dst.SyntaxComment, src.SyntaxComment)
	set(&dst.SyntaxKeyword, src.SyntaxKeyword)
	set(&dst.SyntaxString, src.SyntaxString)
	set(&dst.SyntaxNumber, src.SyntaxNumber)
	set(&dst.SyntaxPunctuation, src.SyntaxPunctuation)
	set(&dst.SyntaxType, src.SyntaxType)
	set(&dst.SyntaxFunction, src.SyntaxFunction)
	set(&dst.SyntaxConstant, src.SyntaxConstant)
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads theme/<name>.toml, either as bare keys or under [theme].
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	md, err := toml.Decode(string(data), &wrap)
	if err != nil {
		return Theme{}, fmt.Errorf("%s: %w", path, err)
	}
	if md.IsDefined("theme") {
		return wrap.Theme, nil
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err != nil {
		return Theme{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("QMACS_CONFIG_HOME"); v != "" {
		return filepath.Clean(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qmacs"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qmacs"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
