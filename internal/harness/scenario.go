package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a booking script.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Fleet overrides for isolated runs. Zero values keep the defaults.
	SeatsPerBus int      `yaml:"seats_per_bus,omitempty"`
	FarePerSeat *int     `yaml:"fare_per_seat,omitempty"`
	MaxAttempts int      `yaml:"max_attempts,omitempty"`
	Buses       []string `yaml:"buses,omitempty"`

	// Actor is attributed on every booking and cancellation.
	Actor string `yaml:"actor,omitempty"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is exactly one of Book, Cancel or Status.
type Step struct {
	Book   *BookStep   `yaml:"book,omitempty"`
	Cancel *CancelStep `yaml:"cancel,omitempty"`
	Status *StatusStep `yaml:"status,omitempty"`

	// Expect checks the step outcome. A nil Expect requires success.
	Expect *Expect `yaml:"expect,omitempty"`
}

// BookStep books Count seats, answering tickets from Seats and Names.
type BookStep struct {
	Bus   int      `yaml:"bus"`
	Count int      `yaml:"count"`
	Seats []int    `yaml:"seats"`
	Names []string `yaml:"names"`
}

// CancelStep cancels one seat.
type CancelStep struct {
	Bus  int `yaml:"bus"`
	Seat int `yaml:"seat"`
}

// StatusStep reads one bus.
type StatusStep struct {
	Bus int `yaml:"bus"`
}

// Expect specifies the expected step outcome. Unset fields are not checked.
type Expect struct {
	// Error is the expected error code, e.g. "INSUFFICIENT_SEATS".
	// Empty means the step must succeed.
	Error string `yaml:"error,omitempty"`

	Available  *int           `yaml:"available,omitempty"`
	Charge     *int           `yaml:"charge,omitempty"`
	Refund     *int           `yaml:"refund,omitempty"`
	Previous   string         `yaml:"previous,omitempty"`
	Tickets    map[int]string `yaml:"tickets,omitempty"`
	Rejections []string       `yaml:"rejections,omitempty"`
}

// Assertion checks one bus after the last step.
type Assertion struct {
	Bus       int            `yaml:"bus"`
	Available *int           `yaml:"available,omitempty"`
	Occupied  map[int]string `yaml:"occupied,omitempty"`
	Vacant    []int          `yaml:"vacant,omitempty"`
}

// Op names the step kind.
func (s Step) Op() string {
	switch {
	case s.Book != nil:
		return "book"
	case s.Cancel != nil:
		return "cancel"
	case s.Status != nil:
		return "status"
	}
	return ""
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		n := 0
		for _, set := range []bool{step.Book != nil, step.Cancel != nil, step.Status != nil} {
			if set {
				n++
			}
		}
		if n != 1 {
			return fmt.Errorf("steps[%d]: exactly one of book, cancel or status is required", i)
		}
	}

	for i, a := range s.Assertions {
		if a.Bus == 0 {
			return fmt.Errorf("assertions[%d]: bus is required", i)
		}
	}
	return nil
}
