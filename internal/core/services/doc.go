// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters) and the engine packages
// (normalisers, units, commit, calculators).
//
// Services are pure Go with no CGO.
package services
