// Package store persists each bus's seat map and available count.
//
// Every backend implements Store: Load returns a bus's snapshot (the
// all-unoccupied default when nothing has been persisted) and Save writes
// the map and count together. Load never reports an absent bus as an error.
//
// # Backends
//
//   - FileStore: two human-readable text files per bus, compatible with the
//     legacy layout (bus<N>_seats.txt holds the count, bus<N>_status.txt holds
//     one occupant line per seat)
//   - SQLStore: SQLite (WAL mode, single writer) or MySQL; map and count are
//     written in one transaction; also stores the activity audit trail
//   - RedisStore: a list and a counter per bus, written in MULTI/EXEC
//   - MemoryStore: process-local, for tests and dry runs
//
// # Failure Model
//
// Medium failures are returned as *seat.PersistenceError. Stores never
// retry; the engine surfaces the error as the outcome of the operation.
//
// Stores do not check the count against the map. A snapshot may come back
// inconsistent and the engine reconciles it.
package store
