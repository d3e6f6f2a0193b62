package solver

// Reason explains why a puzzle has no solution.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonExceedsCapacity Reason = "target exceeds both capacities"
	ReasonUnreachable     Reason = "target not reachable"
	ReasonInvalidInput    Reason = "invalid capacities or target"
)

// GCD returns the greatest common divisor of a and b using Euclid's algorithm.
func GCD(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// Feasible reports whether target can be measured with jugs of capacity a and b.
// The volumes producible in either jug are exactly the multiples of gcd(a, b)
// that fit in the larger jug.
func Feasible(a, b, target int) (bool, Reason) {
	if a <= 0 || b <= 0 || target < 0 {
		return false, ReasonInvalidInput
	}
	if target == 0 {
		return true, ReasonNone
	}
	if target > max(a, b) {
		return false, ReasonExceedsCapacity
	}
	if target%GCD(a, b) != 0 {
		return false, ReasonUnreachable
	}
	return true, ReasonNone
}
