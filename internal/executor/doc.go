// Package executor implements a query execution engine with pluggable scalar
// representations, capability-based type contracts, and concurrent resolution
// of async fields with declaration-order results.
//
// # Overview
//
// An Engine binds one immutable schema to one scalar representation S and
// executes pre-validated query documents against it. Resolution walks the
// operation's selection set and produces a value.Value[S] tree:
//   - Each selection owns a fixed slot in its enclosing object. Synchronous
//     fields fill their slot inline; async fields (schema.Field.Async) and
//     fragments run concurrently under an errgroup, then slots are merged in
//     declaration order. Completion order never affects response order.
//   - Fragment spreads resolve against the same instance and merge their keys
//     flat. Inline fragments and type-conditioned spreads match when the
//     condition names the object type or an abstract type it belongs to; a
//     non-matching condition contributes nothing. Key collisions are
//     last-write-wins, in document order.
//   - @skip and @include are evaluated per selection against the coerced
//     variable set before any resolver runs.
//
// # Capability contracts
//
// Schema types are backed by host values implementing capability interfaces:
// Meta supplies static metadata, Resolver and AsyncResolver resolve fields,
// and Polymorphic resolves abstract values into concrete ones (Variants is
// the standard ordered predicate-list implementation). Ownership-delegating
// adapters (Owned, Shared, Borrowed) forward all capabilities unchanged.
// A value missing a capability its schema role requires panics on first use:
// that is a schema-construction fault, never a query error.
//
// # Errors and partial success
//
// Field-resolution and coercion failures become located ExecError values
// (message, source location, response path) collected in a shared sink. A
// failure or null on a non-null field collapses the enclosing object to null
// and discards its sibling contributions; the collapse keeps propagating
// until a nullable ancestor absorbs it. Nullable fields fail in place and
// their siblings survive, so a result can carry both data and errors.
//
// # Scalars
//
// Scalar kinds are configured per engine through ScalarMap: each ScalarDef is
// three pure functions covering query-literal parsing, host-value input
// coercion, and result serialization. DefaultScalars covers the builtin kinds
// over the value.Default representation; custom representations plug in the
// same way.
package executor
