package domain

// Response is the outcome of a solve request.
// An unsolvable puzzle is a valid Response, not an error.
type Response struct {
	Solution   []SolutionStep `json:"solution"`
	Message    string         `json:"message,omitempty"`
	IsSolvable bool           `json:"isSolvable"`
	TotalSteps int            `json:"totalSteps"`
	FromCache  bool           `json:"fromCache"`
}

// Clone returns a deep copy so cached responses cannot be mutated by callers.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	c := *r
	if r.Solution != nil {
		c.Solution = make([]SolutionStep, len(r.Solution))
		copy(c.Solution, r.Solution)
	}
	return &c
}

// FinalState returns the volumes after the last step, if any.
func (r *Response) FinalState() (State, bool) {
	if r == nil || len(r.Solution) == 0 {
		return State{}, false
	}
	return r.Solution[len(r.Solution)-1].State(), true
}

// ErrorResponse is returned to clients for rejected or failed requests.
type ErrorResponse struct {
	Error            string   `json:"error"`
	Message          string   `json:"message"`
	ValidationErrors []string `json:"validationErrors,omitempty"`
}

// Info describes the service for informational endpoints.
type Info struct {
	Name          string            `json:"name"`
	Version       string            `json:"version"`
	Description   string            `json:"description"`
	Endpoints     map[string]string `json:"endpoints"`
	SampleRequest Request           `json:"sampleRequest"`
}
