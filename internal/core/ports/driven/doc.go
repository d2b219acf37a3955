// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SchemaCatalog: Equipment schemas keyed by equipment type
//   - DraftStore: Keyed draft blob persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ReportAPI: Remote report and account API. Without it, report commands are unavailable.
//   - PhotoReader: Reads photo files into data URLs. Without it, photos cannot be attached.
//   - Exporter: Writes reports to spreadsheets. Without it, export is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or engine package
package driven
