// Package domain defines the core business entities for reportdraft.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Schema: A per-equipment-type descriptor of fields, checklist items and photo slots
//   - Document: The canonical, schema-complete form of one equipment inspection
//   - PhotoRef / PhotoInput: Normalised photo values and the boundary union they come from
//   - Unit / UnitConfig: Repeating sub-records and the configuration that sizes them
//   - Draft: A persisted, not-yet-submitted snapshot of a document
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
