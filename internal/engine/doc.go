// Package engine implements the seat reservation engine.
//
// The engine is the only component that mutates seat state. Every
// operation follows the same cycle for one bus:
//
//  1. acquire the bus lock
//  2. load the snapshot from the store (reconciling a drifted count)
//  3. validate and mutate a private copy of the seat map
//  4. save map and count together, once
//  5. release the lock and report the outcome to the activity recorder
//
// # Booking
//
// BookSeats pulls one seat number and one passenger name per ticket from
// a TicketSource. A rejected ticket (bad seat, taken seat, bad name) is
// reported back to the source and retried without advancing. The call
// commits all tickets or none: an abandoned booking (source error,
// cancelled context, attempt limit) persists nothing.
//
// # Consistency
//
// After every operation the persisted count equals the number of
// unoccupied seats. Counts that drifted on disk are corrected on the next
// load; Verify and Repair report and fix them explicitly.
//
// # Concurrency
//
// Operations on the same bus are serialized by an in-process lock held
// across load, mutate and save. Operations on different buses run
// independently. Separate processes sharing a store are not arbitrated.
package engine
