package solver

import (
	"github.com/aretw0/waterjug/pkg/domain"
)

// Result is the outcome of a single solve.
// Steps is non-empty exactly when Solvable is true.
type Result struct {
	Solvable bool
	Reason   Reason
	Steps    []domain.SolutionStep
}

// node is an arena entry of the search tree.
// parent is the index of the entry it was discovered from, -1 for the root.
type node struct {
	state  domain.State
	action domain.Action
	parent int
}

// walker encapsulates the mutable BFS state of one solve.
type walker struct {
	capX, capY int
	target     int
	nodes      []node
	queue      []int
	visited    map[domain.State]struct{}
}

// Solve returns a minimum-length sequence of operations that leaves target
// units in either jug, or the reason no such sequence exists.
// For fixed inputs the returned steps are always identical.
func Solve(capacityX, capacityY, target int) Result {
	if ok, reason := Feasible(capacityX, capacityY, target); !ok {
		return Result{Reason: reason}
	}

	if target == 0 {
		return Result{
			Solvable: true,
			Steps: []domain.SolutionStep{{
				Step:   1,
				Action: domain.ActionAlreadyDone,
				Status: domain.StatusSolved,
			}},
		}
	}

	// Capped per axis so huge capacities cannot overflow the product.
	hint := min(capacityX+1, 32) * min(capacityY+1, 32)
	w := &walker{
		capX:    capacityX,
		capY:    capacityY,
		target:  target,
		nodes:   make([]node, 0, hint),
		queue:   make([]int, 0, hint),
		visited: make(map[domain.State]struct{}, hint),
	}

	goal := w.search()
	if goal < 0 {
		// Unreachable once Feasible passed; kept as a consistency fallback.
		return Result{Reason: ReasonUnreachable}
	}
	return Result{Solvable: true, Steps: w.reconstruct(goal)}
}

// search runs the BFS and returns the arena index of the first goal dequeued,
// or -1 if the state space is exhausted.
func (w *walker) search() int {
	w.enqueue(domain.State{}, "", -1)

	for len(w.queue) > 0 {
		idx := w.queue[0]
		w.queue = w.queue[1:]

		cur := w.nodes[idx].state
		if cur.Holds(w.target) {
			return idx
		}
		w.expand(idx, cur)
	}
	return -1
}

// enqueue marks s visited, records its parent link and adds it to the frontier.
func (w *walker) enqueue(s domain.State, action domain.Action, parent int) {
	w.visited[s] = struct{}{}
	w.nodes = append(w.nodes, node{state: s, action: action, parent: parent})
	w.queue = append(w.queue, len(w.nodes)-1)
}

// expand enqueues every unseen successor of cur in the fixed action order.
func (w *walker) expand(idx int, cur domain.State) {
	for _, action := range domain.Actions {
		next, ok := w.apply(cur, action)
		if !ok {
			continue
		}
		if _, seen := w.visited[next]; seen {
			continue
		}
		w.enqueue(next, action, idx)
	}
}

// apply returns the state produced by action, and false when the action
// does not apply to s.
func (w *walker) apply(s domain.State, action domain.Action) (domain.State, bool) {
	switch action {
	case domain.ActionFillX:
		return domain.State{X: w.capX, Y: s.Y}, s.X < w.capX
	case domain.ActionFillY:
		return domain.State{X: s.X, Y: w.capY}, s.Y < w.capY
	case domain.ActionEmptyX:
		return domain.State{X: 0, Y: s.Y}, s.X > 0
	case domain.ActionEmptyY:
		return domain.State{X: s.X, Y: 0}, s.Y > 0
	case domain.ActionTransferXY:
		amount := min(s.X, w.capY-s.Y)
		return domain.State{X: s.X - amount, Y: s.Y + amount}, s.X > 0 && s.Y < w.capY
	case domain.ActionTransferYX:
		amount := min(s.Y, w.capX-s.X)
		return domain.State{X: s.X + amount, Y: s.Y - amount}, s.Y > 0 && s.X < w.capX
	}
	return s, false
}

// reconstruct walks parent links from goal back to the root and returns the
// transitions in root-to-goal order. The root itself is not a step.
func (w *walker) reconstruct(goal int) []domain.SolutionStep {
	var chain []int
	for i := goal; w.nodes[i].parent >= 0; i = w.nodes[i].parent {
		chain = append(chain, i)
	}

	steps := make([]domain.SolutionStep, len(chain))
	for k := range chain {
		nd := w.nodes[chain[len(chain)-1-k]]
		steps[k] = domain.SolutionStep{
			Step:    k + 1,
			BucketX: nd.state.X,
			BucketY: nd.state.Y,
			Action:  nd.action,
		}
	}
	steps[len(steps)-1].Status = domain.StatusSolved
	return steps
}
