package subscription

// Operation names one sanctioned edge set of the state machine.
type Operation string

const (
	OpStartRenewal    Operation = "transition_to_pending_renewal"
	OpPause           Operation = "transition_to_paused"
	OpFail            Operation = "transition_to_failed"
	OpCancel          Operation = "transition_to_canceled"
	OpResume          Operation = "resume_from_paused"
	OpRetry           Operation = "retry_from_failed"
	OpCompleteRenewal Operation = "complete_renewal"

	// OpCreate labels the initial event emitted when a record is created.
	OpCreate Operation = "create"
)

// Rule is the fixed target and allow-list of one operation.
type Rule struct {
	Operation Operation `json:"operation"`
	Target    State     `json:"target"`
	From      []State   `json:"from"`
}

var transitionTable = map[Operation]Rule{
	OpStartRenewal:    {Operation: OpStartRenewal, Target: StatePendingRenewal, From: []State{StateActive}},
	OpPause:           {Operation: OpPause, Target: StatePaused, From: []State{StateActive, StatePendingRenewal}},
	OpFail:            {Operation: OpFail, Target: StateFailed, From: []State{StatePendingRenewal}},
	OpCancel:          {Operation: OpCancel, Target: StateCanceled, From: []State{StateActive, StatePendingRenewal, StatePaused, StateFailed}},
	OpResume:          {Operation: OpResume, Target: StateActive, From: []State{StatePaused}},
	OpRetry:           {Operation: OpRetry, Target: StatePendingRenewal, From: []State{StateFailed}},
	OpCompleteRenewal: {Operation: OpCompleteRenewal, Target: StateActive, From: []State{StatePendingRenewal}},
}

// Operations returns the transition operations in a stable order.
func Operations() []Operation {
	return []Operation{OpStartRenewal, OpPause, OpFail, OpCancel, OpResume, OpRetry, OpCompleteRenewal}
}

// Rules returns a copy of the transition table in the order of Operations.
func Rules() []Rule {
	rules := make([]Rule, 0, len(transitionTable))
	for _, op := range Operations() {
		r := transitionTable[op]
		r.From = append([]State(nil), r.From...)
		rules = append(rules, r)
	}
	return rules
}

// IsValid reports whether op is a transition operation.
func (op Operation) IsValid() bool {
	_, ok := transitionTable[op]
	return ok
}

// Target returns the state op moves a subscription into.
func (op Operation) Target() State {
	return transitionTable[op].Target
}

// Allows reports whether op may be applied to a subscription currently in from.
func (op Operation) Allows(from State) bool {
	for _, s := range transitionTable[op].From {
		if s == from {
			return true
		}
	}
	return false
}

// CanTransition reports whether any operation moves from into to.
func CanTransition(from, to State) bool {
	for _, r := range transitionTable {
		if r.Target == to && r.Operation.Allows(from) {
			return true
		}
	}
	return false
}
