package domain

import "fmt"

// State is the pair of volumes currently held by jug X and jug Y.
// Two states are the same state when both volumes match, regardless of
// the path that produced them.
type State struct {
	X int
	Y int
}

// Holds reports whether either jug contains exactly amount units.
func (s State) Holds(amount int) bool {
	return s.X == amount || s.Y == amount
}

func (s State) String() string {
	return fmt.Sprintf("(%d, %d)", s.X, s.Y)
}

// StatusSolved marks the terminal step of a solution.
const StatusSolved = "Solved"

// SolutionStep is one transition of a solution, numbered from 1.
type SolutionStep struct {
	Step    int    `json:"step"`
	BucketX int    `json:"bucketX"`
	BucketY int    `json:"bucketY"`
	Action  Action `json:"action"`
	Status  string `json:"status,omitempty"`
}

// Terminal reports whether the step reached the target.
func (s SolutionStep) Terminal() bool {
	return s.Status == StatusSolved
}

// State returns the volumes after the step was applied.
func (s SolutionStep) State() State {
	return State{X: s.BucketX, Y: s.BucketY}
}
