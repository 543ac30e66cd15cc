// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentSource: Supplies modified-document snapshots per pass
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PassJournal: Records backup pass history. Without it, passes
//     still run but leave no history.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
