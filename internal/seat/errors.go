package seat

import (
	"errors"
	"fmt"
)

// Code is the stable machine-readable identifier of an error kind.
type Code string

const (
	CodeInvalidBus        Code = "INVALID_BUS"
	CodeInvalidSeat       Code = "INVALID_SEAT"
	CodeInvalidCount      Code = "INVALID_COUNT"
	CodeInsufficientSeats Code = "INSUFFICIENT_SEATS"
	CodeSeatAlreadyBooked Code = "SEAT_ALREADY_BOOKED"
	CodeEmptyName         Code = "EMPTY_NAME"
	CodeReservedName      Code = "RESERVED_NAME"
	CodeAlreadyEmpty      Code = "ALREADY_EMPTY"
	CodePersistence       Code = "PERSISTENCE"
	CodeAttemptsExceeded  Code = "ATTEMPTS_EXCEEDED"
	CodeAbandoned         Code = "ABANDONED"
)

// Coded is implemented by every error kind in this package.
type Coded interface {
	error
	Code() Code
}

// InvalidBusError reports a bus number outside the fleet.
type InvalidBusError struct {
	Bus   int
	Fleet int // number of buses in the fleet
}

func (e *InvalidBusError) Error() string {
	return fmt.Sprintf("invalid bus number %d: must be between 1 and %d", e.Bus, e.Fleet)
}

func (e *InvalidBusError) Code() Code { return CodeInvalidBus }

// InvalidSeatError reports a seat number outside 1..Capacity.
type InvalidSeatError struct {
	Bus      int
	Seat     int
	Capacity int
}

func (e *InvalidSeatError) Error() string {
	return fmt.Sprintf("invalid seat number %d on bus %d: must be between 1 and %d", e.Seat, e.Bus, e.Capacity)
}

func (e *InvalidSeatError) Code() Code { return CodeInvalidSeat }

// InvalidCountError reports a booking request for fewer than one seat.
type InvalidCountError struct {
	Bus       int
	Requested int
}

func (e *InvalidCountError) Error() string {
	return fmt.Sprintf("invalid seat count %d for bus %d: must be at least 1", e.Requested, e.Bus)
}

func (e *InvalidCountError) Code() Code { return CodeInvalidCount }

// InsufficientSeatsError reports a request for more seats than are free.
type InsufficientSeatsError struct {
	Bus       int
	Requested int
	Available int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("bus %d has %d seats available, %d requested", e.Bus, e.Available, e.Requested)
}

func (e *InsufficientSeatsError) Code() Code { return CodeInsufficientSeats }

// SeatAlreadyBookedError reports a ticket aimed at an occupied seat.
type SeatAlreadyBookedError struct {
	Bus      int
	Seat     int
	Occupant string
}

func (e *SeatAlreadyBookedError) Error() string {
	return fmt.Sprintf("seat %d on bus %d is already booked by %s", e.Seat, e.Bus, e.Occupant)
}

func (e *SeatAlreadyBookedError) Code() Code { return CodeSeatAlreadyBooked }

// EmptyNameError reports a passenger name that is blank after trimming.
type EmptyNameError struct {
	Bus  int
	Seat int
}

func (e *EmptyNameError) Error() string {
	if e.Seat == 0 {
		return "passenger name is empty"
	}
	return fmt.Sprintf("passenger name for seat %d on bus %d is empty", e.Seat, e.Bus)
}

func (e *EmptyNameError) Code() Code { return CodeEmptyName }

// ReservedNameError reports a passenger name equal to the Unoccupied label.
type ReservedNameError struct {
	Bus  int
	Seat int
	Name string
}

func (e *ReservedNameError) Error() string {
	return fmt.Sprintf("passenger name %q is reserved", e.Name)
}

func (e *ReservedNameError) Code() Code { return CodeReservedName }

// AlreadyEmptyError reports a cancellation of a seat nobody holds.
type AlreadyEmptyError struct {
	Bus  int
	Seat int
}

func (e *AlreadyEmptyError) Error() string {
	return fmt.Sprintf("seat %d on bus %d is already empty", e.Seat, e.Bus)
}

func (e *AlreadyEmptyError) Code() Code { return CodeAlreadyEmpty }

// PersistenceError wraps a failure of the underlying storage medium.
type PersistenceError struct {
	Bus int
	Op  string // "load", "save" or "init"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s bus %d: %v", e.Op, e.Bus, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Code() Code { return CodePersistence }

// AttemptsExceededError is returned when one ticket keeps failing past the
// configured attempt limit. Nothing is persisted for the booking.
type AttemptsExceededError struct {
	Bus      int
	Ticket   int // 1-based ticket index within the booking
	Attempts int
	Limit    int
	Last     error // the rejection that exhausted the limit
}

func (e *AttemptsExceededError) Error() string {
	return fmt.Sprintf("ticket %d on bus %d rejected %d times (limit %d): %v",
		e.Ticket, e.Bus, e.Attempts, e.Limit, e.Last)
}

func (e *AttemptsExceededError) Unwrap() error { return e.Last }

func (e *AttemptsExceededError) Code() Code { return CodeAttemptsExceeded }

// BookingAbandonedError is returned when the ticket source stops supplying
// input or the context is cancelled before every ticket is assigned.
type BookingAbandonedError struct {
	Bus    int
	Ticket int
	Err    error
}

func (e *BookingAbandonedError) Error() string {
	return fmt.Sprintf("booking on bus %d abandoned at ticket %d: %v", e.Bus, e.Ticket, e.Err)
}

func (e *BookingAbandonedError) Unwrap() error { return e.Err }

func (e *BookingAbandonedError) Code() Code { return CodeAbandoned }

// CodeOf returns the code of the first Coded error in err's chain, or the
// empty string. Uses errors.As to handle wrapped errors.
func CodeOf(err error) Code {
	var c Coded
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// IsValidation reports whether err is a caller-recoverable rejection.
func IsValidation(err error) bool {
	switch CodeOf(err) {
	case CodeInvalidBus, CodeInvalidSeat, CodeInvalidCount, CodeInsufficientSeats,
		CodeSeatAlreadyBooked, CodeEmptyName, CodeReservedName, CodeAlreadyEmpty:
		return true
	}
	return false
}

// IsPersistence reports whether err came from the storage medium.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// AtSeat fills in the bus and seat of a name error produced by CleanName.
// Other errors are returned unchanged.
func AtSeat(err error, bus, seatNo int) error {
	var empty *EmptyNameError
	if errors.As(err, &empty) {
		empty.Bus, empty.Seat = bus, seatNo
	}
	var reserved *ReservedNameError
	if errors.As(err, &reserved) {
		reserved.Bus, reserved.Seat = bus, seatNo
	}
	return err
}
