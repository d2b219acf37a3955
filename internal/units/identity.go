// Package units reconciles the repeating sub-records of a document (one per
// hotel room, classroom, ...) with the count and numbering configuration
// the user controls.
package units

import (
	"strconv"
	"strings"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

// Identity is the natural key of a unit.
type Identity struct {
	Kind string
	No   string
}

// Identities derives the desired unit list from cfg: rooms first, then
// classrooms labelled 1..ClassroomCount.
func Identities(cfg domain.UnitConfig) []Identity {
	rooms := domain.ClampCount(cfg.RoomCount)
	classrooms := 0
	if cfg.HasClassroom {
		classrooms = domain.ClampCount(cfg.ClassroomCount)
	}
	out := make([]Identity, 0, rooms+classrooms)

	switch cfg.Numbering.Mode {
	case domain.NumberingManual:
		labels := ParseManualList(cfg.Numbering.ManualListText)
		for i := 0; i < rooms; i++ {
			no := ""
			if i < len(labels) {
				no = labels[i]
			}
			out = append(out, Identity{Kind: domain.KindRoom, No: no})
		}
	default:
		step := max(1, cfg.Numbering.Step)
		for i := 0; i < rooms; i++ {
			out = append(out, Identity{
				Kind: domain.KindRoom,
				No:   strconv.Itoa(cfg.Numbering.Start + i*step),
			})
		}
	}

	for i := 1; i <= classrooms; i++ {
		out = append(out, Identity{Kind: domain.KindClassroom, No: strconv.Itoa(i)})
	}
	return out
}

// ParseManualList splits text on commas and newlines, keeps only the digits
// of each entry and drops blanks and duplicates, preserving first-seen order.
func ParseManualList(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	seen := make(map[string]bool, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		no := strings.Map(digitsOnly, part)
		if no == "" || seen[no] {
			continue
		}
		seen[no] = true
		out = append(out, no)
	}
	return out
}

func digitsOnly(r rune) rune {
	if r >= '0' && r <= '9' {
		return r
	}
	return -1
}
