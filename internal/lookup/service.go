package lookup

import (
	"encoding/json"
	"log"
	"strings"
	"unicode"

	"github.com/iancoleman/orderedmap"
)

type TypeRegistryAPI interface {
	GetAll() []TypeEntry
	Resolve(key string) TypeEntry
}

// TypeRegistry merges configured portfolio types with the built-in defaults.
// Configuration is a JSON object mapping key -> {label, color}; key order is
// preserved. The registry is read-only and recomputed on each call.
type TypeRegistry struct {
	ConfigJSON string
}

func NewTypeRegistry(configJSON string) *TypeRegistry {
	return &TypeRegistry{ConfigJSON: configJSON}
}

var defaultTypes = []TypeEntry{
	{Key: "all", Label: "All", Color: "gray"},
	{Key: "residential", Label: "Residential", Color: "success"},
	{Key: "commercial", Label: "Commercial", Color: "info"},
}

func (tr *TypeRegistry) GetAll() []TypeEntry {
	om := orderedmap.New()
	if strings.TrimSpace(tr.ConfigJSON) != "" {
		if err := json.Unmarshal([]byte(tr.ConfigJSON), om); err != nil {
			log.Printf("lookup: invalid portfolio types config, using defaults only: %v", err)
			om = orderedmap.New()
		}
	}

	entries := make([]TypeEntry, 0, len(om.Keys())+len(defaultTypes))
	for _, key := range om.Keys() {
		raw, _ := om.Get(key)
		entries = append(entries, entryFromConfig(key, raw))
	}

	// Defaults are injected only when the configuration omits them.
	for _, d := range defaultTypes {
		if _, ok := om.Get(d.Key); !ok {
			entries = append(entries, d)
		}
	}

	return entries
}

// Resolve never fails: unknown keys fall back to a capitalized label and a
// neutral color so stale type strings on old records still render.
func (tr *TypeRegistry) Resolve(key string) TypeEntry {
	for _, e := range tr.GetAll() {
		if e.Key == key {
			return e
		}
	}
	return TypeEntry{Key: key, Label: ucfirst(key), Color: "gray"}
}

func entryFromConfig(key string, raw interface{}) TypeEntry {
	entry := TypeEntry{Key: key, Label: ucfirst(key), Color: "gray"}

	get := func(field string) (string, bool) {
		switch v := raw.(type) {
		case orderedmap.OrderedMap:
			if fv, ok := v.Get(field); ok {
				if s, ok := fv.(string); ok {
					return s, true
				}
			}
		case map[string]interface{}:
			if fv, ok := v[field]; ok {
				if s, ok := fv.(string); ok {
					return s, true
				}
			}
		}
		return "", false
	}

	if label, ok := get("label"); ok && label != "" {
		entry.Label = label
	}
	if color, ok := get("color"); ok && color != "" {
		entry.Color = color
	}
	return entry
}

func ucfirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
