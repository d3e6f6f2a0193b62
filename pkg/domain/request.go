package domain

import "fmt"

// Validation messages returned to users.
const (
	MsgXCapacity       = "X capacity must be a positive integer"
	MsgYCapacity       = "Y capacity must be a positive integer"
	MsgTargetNegative  = "Target amount must be a non-negative integer"
	MsgTargetTooLarge  = "Target amount cannot exceed the capacity of the larger jug"
	MsgNoSolution      = "No solution possible"
	MsgValidationError = "Validation failed"
	MsgInvalidInput    = "Invalid input parameters"
)

// Request asks for the shortest way to measure ZAmountWanted units
// using jugs of XCapacity and YCapacity.
type Request struct {
	XCapacity     int `json:"xCapacity"`
	YCapacity     int `json:"yCapacity"`
	ZAmountWanted int `json:"zAmountWanted"`
}

// Key identifies the request in caches. Identical requests share a key.
func (r Request) Key() string {
	return fmt.Sprintf("waterjug_%d_%d_%d", r.XCapacity, r.YCapacity, r.ZAmountWanted)
}

// Validate checks every rule and reports all violations at once.
// It returns nil when the request is acceptable to the solver.
func (r Request) Validate() error {
	var msgs []string
	if r.XCapacity <= 0 {
		msgs = append(msgs, MsgXCapacity)
	}
	if r.YCapacity <= 0 {
		msgs = append(msgs, MsgYCapacity)
	}
	if r.ZAmountWanted < 0 {
		msgs = append(msgs, MsgTargetNegative)
	}
	// Only meaningful once the individual fields are in range.
	if len(msgs) == 0 && r.ZAmountWanted > max(r.XCapacity, r.YCapacity) {
		msgs = append(msgs, MsgTargetTooLarge)
	}
	if len(msgs) == 0 {
		return nil
	}
	return &ValidationError{Messages: msgs}
}
