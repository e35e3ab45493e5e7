package seat

import "strings"

const (
	// Unoccupied is the occupant label of a seat with no passenger.
	Unoccupied = "Empty"

	// DefaultCapacity is the number of seats on every bus unless configured.
	DefaultCapacity = 32

	// MaxNameLength bounds a stored passenger name, in runes.
	MaxNameLength = 99
)

// Record is one slot of a seat map.
type Record struct {
	Number   int    `json:"seat"`
	Occupant string `json:"occupant"`
}

// Vacant reports whether no passenger holds the seat.
func (r Record) Vacant() bool {
	return r.Occupant == Unoccupied
}

// Map is the ordered seat map of one bus. Index i holds seat i+1.
type Map []Record

// NewMap returns an all-unoccupied map with the given number of seats.
func NewMap(capacity int) Map {
	m := make(Map, capacity)
	for i := range m {
		m[i] = Record{Number: i + 1, Occupant: Unoccupied}
	}
	return m
}

// FromLines builds a map from persisted occupant lines.
//
// Short input is padded with unoccupied seats and extra lines are ignored,
// so the result always has exactly capacity records. A line that is blank
// after trimming is read as unoccupied.
func FromLines(lines []string, capacity int) Map {
	m := NewMap(capacity)
	for i, line := range lines {
		if i >= capacity {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m[i].Occupant = line
	}
	return m
}

// Lines returns the occupant label of every seat, in seat order.
func (m Map) Lines() []string {
	lines := make([]string, len(m))
	for i, r := range m {
		lines[i] = r.Occupant
	}
	return lines
}

// Capacity is the number of seats in the map.
func (m Map) Capacity() int {
	return len(m)
}

// Vacancies counts unoccupied seats.
func (m Map) Vacancies() int {
	n := 0
	for _, r := range m {
		if r.Vacant() {
			n++
		}
	}
	return n
}

// Get returns the record for a 1-based seat number.
func (m Map) Get(number int) (Record, bool) {
	if number < 1 || number > len(m) {
		return Record{}, false
	}
	return m[number-1], true
}

// Occupied returns the records holding a passenger, in seat order.
func (m Map) Occupied() []Record {
	var out []Record
	for _, r := range m {
		if !r.Vacant() {
			out = append(out, r)
		}
	}
	return out
}

// Clone returns an independent copy that can be mutated without touching m.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	copy(out, m)
	return out
}

// Snapshot is a bus's seat map together with its available count.
type Snapshot struct {
	Seats     Map
	Available int

	// Stored is false when the store had nothing persisted for the bus and
	// the snapshot is the all-unoccupied default.
	Stored bool
}

// Fresh returns the default snapshot of a bus that was never persisted.
func Fresh(capacity int) Snapshot {
	return Snapshot{Seats: NewMap(capacity), Available: capacity}
}

// Consistent reports whether the available count matches the map.
func (s Snapshot) Consistent() bool {
	return s.Available == s.Seats.Vacancies()
}

// Reconciled returns s with Available recomputed from the map.
func (s Snapshot) Reconciled() Snapshot {
	s.Available = s.Seats.Vacancies()
	return s
}
