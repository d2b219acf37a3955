// Package normalisers holds the pure steps that turn persisted, partial or
// legacy equipment documents into their canonical form.
//
// # Subpackages
//
//   - document: schema-driven normalisation of whole documents
//   - keys: versioned photo slot key migrations
//
// # Import Rules
//
//   - Can Import: domain package, each other (document imports keys)
//   - Cannot Import: ports, services or adapters
//
// Nothing in these packages logs, blocks or returns errors for malformed
// input: defects degrade to schema defaults.
package normalisers
