// Package seat defines the occupancy model shared by every layer of busres:
// a bus's seat map, its available count, passenger-name rules and the
// error kinds reported when a booking or cancellation is rejected.
//
// A Map always holds exactly one Record per seat. The available count is a
// cache of Map.Vacancies and every Snapshot that leaves the engine satisfies
//
//	snap.Available == snap.Seats.Vacancies()
//
// Stores may persist a count that disagrees with the map (a crash between
// writes, a hand-edited file); callers detect that with Snapshot.Consistent.
package seat
