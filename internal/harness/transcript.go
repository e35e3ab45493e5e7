package harness

import (
	"fmt"
	"strings"
)

// Transcript renders a result as plain text, one line per step followed by
// the activity log and any errors.
func (r *Result) Transcript(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", name)
	for _, s := range r.Steps {
		b.WriteString(stepLine(s))
		b.WriteByte('\n')
	}
	if len(r.Activity) > 0 {
		b.WriteString("activity:\n")
		for _, line := range r.Activity {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	if len(r.Errors) > 0 {
		b.WriteString("errors:\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "  %s\n", e)
		}
	}
	fmt.Fprintf(&b, "pass: %t\n", r.Pass)
	return b.String()
}

func stepLine(s StepResult) string {
	var head string
	switch s.Op {
	case "book":
		head = fmt.Sprintf("%d book bus=%d count=%d", s.Index, s.Bus, s.Count)
	case "cancel":
		head = fmt.Sprintf("%d cancel bus=%d seat=%d", s.Index, s.Bus, s.Seat)
	default:
		head = fmt.Sprintf("%d %s bus=%d", s.Index, s.Op, s.Bus)
	}

	fields := []string{head + ":"}
	if s.Error != "" {
		fields = append(fields, "error="+s.Error)
	} else {
		fields = append(fields, "ok")
	}
	if s.Ref != "" {
		fields = append(fields, "ref="+s.Ref)
	}
	if len(s.Tickets) > 0 {
		parts := make([]string, len(s.Tickets))
		for i, a := range s.Tickets {
			parts[i] = fmt.Sprintf("%d:%s", a.Seat, a.Passenger)
		}
		fields = append(fields, "tickets="+strings.Join(parts, ","))
	}
	if s.Charge != 0 {
		fields = append(fields, fmt.Sprintf("charge=%d", s.Charge))
	}
	if s.Previous != "" {
		fields = append(fields, "previous="+s.Previous)
	}
	if s.Refund != 0 {
		fields = append(fields, fmt.Sprintf("refund=%d", s.Refund))
	}
	if len(s.Rejections) > 0 {
		fields = append(fields, "rejected="+strings.Join(s.Rejections, ","))
	}
	fields = append(fields, fmt.Sprintf("available=%d", s.Available))
	return strings.Join(fields, " ")
}
