package form

import (
	"fmt"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

// row is one editable document value.
type row struct {
	path  string
	label string
	group string
	typ   domain.FieldType
}

// configRows are the unit config values of schemas with repeating units.
var configRows = []row{
	{path: "config.roomCount", label: "Room count", typ: domain.FieldNumber},
	{path: "config.hasClassroom", label: "Has classroom", typ: domain.FieldBool},
	{path: "config.classroomCount", label: "Classroom count", typ: domain.FieldNumber},
	{path: "config.numbering.mode", label: "Numbering (range/manual)"},
	{path: "config.numbering.start", label: "Numbering start", typ: domain.FieldNumber},
	{path: "config.numbering.step", label: "Numbering step", typ: domain.FieldNumber},
	{path: "config.numbering.manualListText", label: "Room numbers"},
}

// buildRows lists the editable paths of doc in display order: container
// fields, checklist, notes, then unit config and one block per unit.
func buildRows(schema *domain.Schema, doc *domain.Document) []row {
	var rows []row

	for _, c := range schema.Shape.Containers {
		for _, f := range c.Fields {
			label := f.Label
			if label == "" {
				label = f.Key
			}
			if f.EffectiveType() == domain.FieldList {
				for i := 0; i < f.Arity; i++ {
					rows = append(rows, row{
						path:  fmt.Sprintf("%s.%s.%d", c.Key, f.Key, i),
						label: fmt.Sprintf("%s #%d", label, i+1),
						group: c.Key,
					})
				}
				continue
			}
			rows = append(rows, row{path: c.Key + "." + f.Key, label: label, group: c.Key, typ: f.EffectiveType()})
		}
	}

	for _, item := range schema.Checklist {
		rows = append(rows, row{path: domain.KeyChecklist + "." + item, label: item, group: "checklist"})
	}

	for _, sec := range schema.Sections {
		if sec.NoteKey == "" {
			continue
		}
		rows = append(rows, row{path: domain.KeyNotes + "." + sec.NoteKey, label: sec.Title, group: "notes"})
	}

	if schema.Unit == nil || doc.Config == nil {
		return rows
	}
	for _, r := range configRows {
		r.group = "config"
		rows = append(rows, r)
	}
	for _, u := range doc.Units {
		group := fmt.Sprintf("%s %s", schema.Unit.KindLabel(u.Kind), u.No)
		rows = append(rows, row{path: "units." + u.ID + ".no", label: "Number", group: group})
		for _, f := range schema.Unit.Fields {
			if f.EffectiveType() == domain.FieldList {
				continue
			}
			label := f.Label
			if label == "" {
				label = f.Key
			}
			rows = append(rows, row{
				path:  "units." + u.ID + ".fields." + f.Key,
				label: label,
				group: group,
				typ:   f.EffectiveType(),
			})
		}
	}
	return rows
}

// indexOf returns the position of path in rows, or -1.
func indexOf(rows []row, path string) int {
	for i := range rows {
		if rows[i].path == path {
			return i
		}
	}
	return -1
}

// parseInput converts typed text to the value written to the document.
// Bool fields take true/false; everything else is written as text and
// coerced by normalisation.
func parseInput(typ domain.FieldType, text string) any {
	if typ == domain.FieldBool {
		switch text {
		case "true", "yes", "y", "1":
			return true
		case "false", "no", "n", "0", "":
			return false
		}
	}
	return text
}
