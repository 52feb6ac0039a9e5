// Package prefecture maps the subsidy portal's numeric pref_id values to
// prefecture names. The ids follow the JIS X 0401 ordering the portal uses.
package prefecture

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed prefectures.yaml
var rawTable []byte

type Prefecture struct {
	ID     int    `yaml:"id"`
	Name   string `yaml:"name"`
	Romaji string `yaml:"romaji"`
}

var (
	table  []Prefecture
	byID   map[int]Prefecture
	byName map[string]Prefecture
)

func init() {
	var doc struct {
		Prefectures []Prefecture `yaml:"prefectures"`
	}
	if err := yaml.Unmarshal(rawTable, &doc); err != nil {
		panic(fmt.Sprintf("prefecture: bad embedded table: %v", err))
	}
	table = doc.Prefectures
	byID = make(map[int]Prefecture, len(table))
	byName = make(map[string]Prefecture, len(table))
	for _, p := range table {
		byID[p.ID] = p
		byName[p.Name] = p
	}
}

// Name returns the prefecture name for a portal pref_id, or "" when the id
// is not in the table.
func Name(id int) string {
	return byID[id].Name
}

// Romaji returns the lowercase romanized name for a portal pref_id, or ""
// when the id is not in the table.
func Romaji(id int) string {
	return byID[id].Romaji
}

// ID resolves a prefecture name to its portal pref_id.
func ID(name string) (int, bool) {
	p, ok := byName[name]
	return p.ID, ok
}

// IsName reports whether s is exactly a prefecture name.
func IsName(s string) bool {
	_, ok := byName[s]
	return ok
}

// All returns the table in id order.
func All() []Prefecture {
	out := make([]Prefecture, len(table))
	copy(out, table)
	return out
}

// Names returns all prefecture names in id order.
func Names() []string {
	out := make([]string, len(table))
	for i, p := range table {
		out[i] = p.Name
	}
	return out
}
