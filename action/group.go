package action

import (
	"encoding/json"
	"strings"

	"codepay/kin"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidParameterCount   Error = "server parameter count does not match action count"
	ErrActionParameterMismatch Error = "server parameter does not match action id"
	ErrMissingServerParameter  Error = "action has no server parameter"
	ErrMissingFeeDestination   Error = "fee payment has no destination"
)

// Group is an ordered list of actions. Ids always equal the position in the
// group.
type Group struct {
	actions []Action
}

func NewGroup(actions ...Action) *Group {
	g := &Group{}
	g.Append(actions...)
	return g
}

func (g *Group) Append(actions ...Action) {
	g.actions = append(g.actions, actions...)
	for i := range g.actions {
		g.actions[i].ID = i
	}
}

func (g *Group) Len() int {
	return len(g.actions)
}

func (g *Group) At(i int) Action {
	return g.actions[i]
}

// Actions returns a copy of the actions.
func (g *Group) Actions() []Action {
	out := make([]Action, len(g.actions))
	copy(out, g.actions)
	return out
}

// Filter returns the actions of the given kind in group order.
func (g *Group) Filter(kind Kind) []Action {
	var out []Action
	for _, a := range g.actions {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

// TotalFees sums every fee payment in the group.
func (g *Group) TotalFees() kin.Kin {
	var total kin.Kin
	for _, a := range g.Filter(KindFeePayment) {
		total = total.Add(a.FeePayment.Amount)
	}
	return total
}

// Apply attaches server parameters to actions, one per action in order.
// Nothing is attached unless every parameter matches.
func (g *Group) Apply(params []ServerParameter) error {
	if len(params) != len(g.actions) {
		return ErrInvalidParameterCount
	}
	for i, p := range params {
		if p.ActionID != g.actions[i].ID {
			return ErrActionParameterMismatch
		}
	}
	for i := range params {
		p := params[i]
		g.actions[i].ServerParameter = &p
	}
	return nil
}

func (g *Group) String() string {
	lines := make([]string, 0, len(g.actions))
	for _, a := range g.actions {
		lines = append(lines, a.String())
	}
	return strings.Join(lines, "\n")
}

func (g *Group) MarshalJSON() ([]byte, error) {
	if g.actions == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(g.actions)
}
