package domain

// Action identifies an operation applied to the pair of jugs.
// Its string value is the label shown to users.
type Action string

// Standard Actions, in the order the solver expands them.
const (
	ActionFillX       Action = "Fill bucket X"
	ActionFillY       Action = "Fill bucket Y"
	ActionEmptyX      Action = "Empty bucket X"
	ActionEmptyY      Action = "Empty bucket Y"
	ActionTransferXY  Action = "Transfer from bucket X to Y"
	ActionTransferYX  Action = "Transfer from bucket Y to X"
	ActionAlreadyDone Action = "Both buckets are already empty"
)

// Actions lists the six jug operations in expansion order.
var Actions = []Action{
	ActionFillX,
	ActionFillY,
	ActionEmptyX,
	ActionEmptyY,
	ActionTransferXY,
	ActionTransferYX,
}

func (a Action) String() string {
	return string(a)
}
