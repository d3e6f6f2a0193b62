// Package solver finds the shortest sequence of jug operations that measures
// a target amount with two jugs of fixed integer capacity.
//
// Solve first applies the number theoretic feasibility test (the target must
// fit in the larger jug and be a multiple of gcd(X, Y)) and only then runs a
// breadth-first search over the (x, y) volume states starting at (0, 0).
// Because BFS expands states in non-decreasing distance from the root, the
// first goal state dequeued yields a minimum-length solution.
//
// Solve is pure: it holds no state between calls, performs no I/O and is safe
// for concurrent use. Callers may cache its results freely.
package solver
