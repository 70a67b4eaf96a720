// Package types holds the static-semantics type representation used by the
// elaborator: type constructors (Syms), types, schemes, and the per-session
// Arena that owns every inference variable.
//
// All mutable inference state lives in an Arena. Arenas are never shared
// between sessions, so independent compilation units can be elaborated on
// separate goroutines without locking.
//
// Unification is not transactional. When a unification fails part-way
// through, bindings made before the failure stay in place; diagnostics are
// reported relative to that partially-bound state.
package types
