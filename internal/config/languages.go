package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Language describes how to recognise and highlight one file type. Entries
// from languages.toml extend or replace the built-in table by name.
type Language struct {
	Name         string   `toml:"name"`
	FileTypes    []string `toml:"file-types"`
	Keywords     []string `toml:"keywords"`
	Types        []string `toml:"types"`
	Constants    []string `toml:"constants"`
	LineComment  string   `toml:"line-comment"`
	BlockComment []string `toml:"block-comment"`
	Quotes       string   `toml:"quotes"`
}

type Languages struct {
	Languages []Language `toml:"language"`
}

func (l Languages) Match(path string) *Language {
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for i := range l.Languages {
		lang := &l.Languages[i]
		for _, ft := range lang.FileTypes {
			ftLower := strings.ToLower(ft)
			if ftLower == ext || ftLower == baseLower {
				return lang
			}
			if strings.HasPrefix(ftLower, ".") && strings.TrimPrefix(ftLower, ".") == ext {
				return lang
			}
		}
	}
	return nil
}

// Merge returns l with the entries of over added; an entry with a known
// name replaces the old one.
func (l Languages) Merge(over Languages) Languages {
	out := Languages{Languages: make([]Language, 0, len(l.Languages)+len(over.Languages))}
	index := make(map[string]int)
	for _, lang := range l.Languages {
		index[lang.Name] = len(out.Languages)
		out.Languages = append(out.Languages, lang)
	}
	for _, lang := range over.Languages {
		if i, ok := index[lang.Name]; ok {
			out.Languages[i] = lang
			continue
		}
		index[lang.Name] = len(out.Languages)
		out.Languages = append(out.Languages, lang)
	}
	return out
}

func LoadLanguages() (Languages, error) {
	path, err := LanguagesPath()
	if err != nil {
		return Languages{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Languages{}, nil
		}
		return Languages{}, err
	}

	var cfg Languages
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Languages{}, err
	}
	return cfg, nil
}

func LanguagesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "languages.toml"), nil
}
