// Package keys migrates obsolete photo slot keys into their current names.
package keys

import (
	"sort"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

// Migrate applies rules in declared order to a copy of slots.
// The input map is never modified. Applying the same rules to an already
// migrated map returns an equal map.
func Migrate(slots map[string][]domain.PhotoRef, rules []domain.RenameRule) map[string][]domain.PhotoRef {
	out := domain.ClonePhotoSlots(slots)
	for _, rule := range rules {
		apply(out, rule)
	}
	return out
}

// MigrateSchema applies every migration of the schema in ascending version order.
func MigrateSchema(schema *domain.Schema, slots map[string][]domain.PhotoRef) map[string][]domain.PhotoRef {
	return Migrate(slots, Rules(schema))
}

// Rules flattens the schema migrations into a single ordered rule list.
// Rules within one migration keep their declared order.
func Rules(schema *domain.Schema) []domain.RenameRule {
	if schema == nil {
		return nil
	}
	migrations := make([]domain.Migration, len(schema.Migrations))
	copy(migrations, schema.Migrations)
	sort.SliceStable(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	var rules []domain.RenameRule
	for _, m := range migrations {
		rules = append(rules, m.Rules...)
	}
	return rules
}

func apply(slots map[string][]domain.PhotoRef, rule domain.RenameRule) {
	legacy, present := slots[rule.From]
	if !present || rule.From == "" {
		return
	}
	legacy = compact(legacy)
	if len(legacy) == 0 {
		delete(slots, rule.From)
		return
	}

	if len(rule.FanOut) > 0 {
		fanOut(slots, rule, legacy)
		return
	}
	if rule.To == "" || rule.To == rule.From {
		return
	}

	merged := compact(slots[rule.To])
	merged = append(merged, legacy...)
	slots[rule.To] = merged
	delete(slots, rule.From)
}

// fanOut copies the first legacy photo into every target when all targets
// are empty; the remaining legacy photos follow it in the first target.
// When any target is populated nothing is copied and every legacy photo is
// appended to the first target instead.
func fanOut(slots map[string][]domain.PhotoRef, rule domain.RenameRule, legacy []domain.PhotoRef) {
	first := rule.FanOut[0]
	for _, target := range rule.FanOut {
		if len(compact(slots[target])) > 0 {
			slots[first] = append(compact(slots[first]), legacy...)
			delete(slots, rule.From)
			return
		}
	}
	for _, target := range rule.FanOut {
		slots[target] = []domain.PhotoRef{legacy[0].Clone()}
	}
	slots[first] = append(slots[first], legacy[1:]...)
	delete(slots, rule.From)
}

func compact(refs []domain.PhotoRef) []domain.PhotoRef {
	out := make([]domain.PhotoRef, 0, len(refs))
	for _, r := range refs {
		if !r.IsZero() {
			out = append(out, r)
		}
	}
	return out
}
