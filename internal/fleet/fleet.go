// Package fleet holds the fixed, ordered set of buses a deployment serves.
package fleet

import (
	"fmt"

	"github.com/roach88/busreserve/internal/seat"
)

// DefaultNames are the buses served when no configuration overrides them.
var DefaultNames = []string{
	"Manglore Express",
	"Karwar Express",
	"Airavat Express",
	"SeaBird Express",
	"Newport Express",
}

// Bus is the static identity of one bus.
type Bus struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// Catalog is an immutable ordered list of buses sharing one seat capacity.
type Catalog struct {
	buses    []Bus
	capacity int
}

// New builds a catalog from display names. Bus numbers follow list order
// starting at 1.
func New(names []string, capacity int) (*Catalog, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("fleet: at least one bus is required")
	}
	if capacity < 1 {
		return nil, fmt.Errorf("fleet: seat capacity must be positive, got %d", capacity)
	}
	buses := make([]Bus, len(names))
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("fleet: bus %d has no name", i+1)
		}
		buses[i] = Bus{Number: i + 1, Name: name}
	}
	return &Catalog{buses: buses, capacity: capacity}, nil
}

// Default returns the five-bus, 32-seat fleet.
func Default() *Catalog {
	c, err := New(DefaultNames, seat.DefaultCapacity)
	if err != nil {
		panic(err)
	}
	return c
}

// Resolve returns the bus with the given number.
func (c *Catalog) Resolve(number int) (Bus, error) {
	if number < 1 || number > len(c.buses) {
		return Bus{}, &seat.InvalidBusError{Bus: number, Fleet: len(c.buses)}
	}
	return c.buses[number-1], nil
}

// Buses returns a copy of every bus in order.
func (c *Catalog) Buses() []Bus {
	out := make([]Bus, len(c.buses))
	copy(out, c.buses)
	return out
}

// Len is the number of buses.
func (c *Catalog) Len() int { return len(c.buses) }

// Capacity is the number of seats on each bus.
func (c *Catalog) Capacity() int { return c.capacity }
