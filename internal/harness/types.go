package harness

import "github.com/roach88/busreserve/internal/engine"

// StepResult records what one step did.
type StepResult struct {
	Index      int                 `json:"index"`
	Op         string              `json:"op"`
	Bus        int                 `json:"bus"`
	Error      string              `json:"error,omitempty"` // error code, empty on success
	Ref        string              `json:"ref,omitempty"`
	Available  int                 `json:"available"`
	Charge     int                 `json:"charge,omitempty"`
	Refund     int                 `json:"refund,omitempty"`
	Previous   string              `json:"previous,omitempty"`
	Seat       int                 `json:"seat,omitempty"`
	Count      int                 `json:"count,omitempty"`
	Tickets    []engine.Assignment `json:"tickets,omitempty"`
	Rejections []string            `json:"rejections,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expectation, invariant check
	// and assertion held.
	Pass bool `json:"pass"`

	Steps []StepResult `json:"steps"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Activity holds the activity log lines of an isolated run.
	Activity []string `json:"activity,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
