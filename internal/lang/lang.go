// Package lang holds the embedded locale tables for user-facing text that
// ships in more than one language. Lookup falls back to English, then to the
// bracketed key so a missing entry is visible instead of silent.
package lang

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

var tables = map[string]map[string]string{}

func init() {
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		panic(fmt.Sprintf("lang: read locales: %v", err))
	}
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".yaml")
		data, err := localeFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			panic(fmt.Sprintf("lang: read %s: %v", entry.Name(), err))
		}
		table := map[string]string{}
		if err := yaml.Unmarshal(data, &table); err != nil {
			panic(fmt.Sprintf("lang: parse %s: %v", entry.Name(), err))
		}
		tables[name] = table
	}
}

// T returns the translation for key in the given language.
func T(language, key string) string {
	if table, ok := tables[language]; ok {
		if value, ok := table[key]; ok {
			return value
		}
	}
	if value, ok := tables["en"][key]; ok {
		return value
	}
	return "{" + key + "}"
}

// Supported reports whether the language has a locale table.
func Supported(language string) bool {
	_, ok := tables[language]
	return ok
}

// Languages lists the available locale codes.
func Languages() []string {
	out := make([]string, 0, len(tables))
	for name := range tables {
		out = append(out, name)
	}
	return out
}
