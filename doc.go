/*
Package waterjug solves the classic two-jug measuring riddle.

Given two jugs of fixed integer capacity X and Y and a target amount Z, the
service returns the shortest sequence of fill, empty and transfer operations
that leaves exactly Z units in either jug, or reports that none exists.

# Concept

The solving core (package solver) is a pure breadth-first search over the
(x, y) volume states, guarded by the gcd feasibility test. The Service in this
package wraps it with the concerns every adapter (HTTP, MCP, CLI) shares:
input validation, response caching and coalescing of concurrent identical
requests.

# Usage

	svc := waterjug.New(waterjug.WithCache(memory.NewCache()))

	resp, err := svc.Solve(ctx, domain.Request{XCapacity: 2, YCapacity: 10, ZAmountWanted: 4})
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			log.Println(vErr.Messages)
		}
		return
	}
	if !resp.IsSolvable {
		log.Println(resp.Message)
	}
	for _, step := range resp.Solution {
		log.Println(step.Step, step.Action, step.BucketX, step.BucketY)
	}
*/
package waterjug
