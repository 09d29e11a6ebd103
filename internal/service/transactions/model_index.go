package transactions

import (
	"sort"
	"strings"

	"github.com/mamadbah2/traders/internal/domain/models"
)

// DefaultItems is the built-in electronics catalogue offered by the item picker.
var DefaultItems = []string{
	"Laptop", "Washing Machine", "Juicer", "LED", "Iron",
	"Air Fryer", "Blender", "Cooler", "Water Dispenser", "Steamer", "AC",
}

// ModelIndex maps an item to the distinct models previously entered for it.
// Items and models compare case-insensitively; the first spelling seen is kept.
// It is not safe for concurrent use; Service serializes access.
type ModelIndex struct {
	items  map[string]string
	models map[string][]string
	seen   map[string]map[string]struct{}
}

// NewModelIndex builds an index from the persisted model history log.
func NewModelIndex(entries []models.ModelHistoryEntry) *ModelIndex {
	idx := &ModelIndex{
		items:  make(map[string]string),
		models: make(map[string][]string),
		seen:   make(map[string]map[string]struct{}),
	}
	for _, e := range entries {
		idx.Add(e.Item, e.Model)
	}
	return idx
}

// Add records model under item and reports whether it was new for that item.
func (idx *ModelIndex) Add(item, model string) bool {
	itemKey, modelKey := models.Normalize(item), models.Normalize(model)
	if itemKey == "" || modelKey == "" {
		return false
	}

	if _, ok := idx.items[itemKey]; !ok {
		idx.items[itemKey] = strings.TrimSpace(item)
		idx.seen[itemKey] = make(map[string]struct{})
	}
	if _, ok := idx.seen[itemKey][modelKey]; ok {
		return false
	}
	idx.seen[itemKey][modelKey] = struct{}{}
	idx.models[itemKey] = append(idx.models[itemKey], strings.TrimSpace(model))
	return true
}

// Models returns the distinct models of item in the order they were first seen.
func (idx *ModelIndex) Models(item string) []string {
	list := idx.models[models.Normalize(item)]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Items merges DefaultItems with every item present in the index. Catalogue
// entries come first in catalogue order, followed by the rest sorted.
func (idx *ModelIndex) Items() []string {
	out := make([]string, 0, len(DefaultItems)+len(idx.items))
	known := make(map[string]struct{}, len(DefaultItems))
	for _, item := range DefaultItems {
		known[models.Normalize(item)] = struct{}{}
		out = append(out, item)
	}

	var extra []string
	for key, item := range idx.items {
		if _, ok := known[key]; !ok {
			extra = append(extra, item)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
