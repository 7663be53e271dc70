package orders

import (
	_ "embed"
	"fmt"

	"github.com/dmitrymomot/persistfsm/pkg/persist"
	"github.com/dmitrymomot/persistfsm/pkg/statemachine"
)

// State is the lifecycle stage of an order.
type State string

// Event moves an order between states.
type Event string

const (
	Placed     State = "PLACED"
	Processing State = "PROCESSING"
	Sent       State = "SENT"
	Delivered  State = "DELIVERED"
)

const (
	Process Event = "process"
	Send    Event = "send"
	Deliver Event = "deliver"
)

func (s State) String() string { return string(s) }
func (e Event) String() string { return string(e) }

// Handler drives orders identified by int64 ids.
type Handler = persist.Handler[int64, State, Event]

// Codec stores states by their name.
var Codec persist.Codec[State] = persist.StringCodec[State]{}

//go:embed orders.yaml
var definitionYAML []byte

// NewDefinition decodes the embedded order lifecycle:
// PLACED -process-> PROCESSING -send-> SENT -deliver-> DELIVERED.
func NewDefinition(opts ...statemachine.DecodeOption[State, Event]) (*statemachine.Definition[State, Event], error) {
	def, err := statemachine.DecodeYAML[State, Event](definitionYAML, opts...)
	if err != nil {
		return nil, fmt.Errorf("orders definition: %w", err)
	}
	return def, nil
}

// MustDefinition is NewDefinition that panics on error.
func MustDefinition() *statemachine.Definition[State, Event] {
	def, err := NewDefinition()
	if err != nil {
		panic(err)
	}
	return def
}

// SeedOrders is the demo data set, one order per state.
func SeedOrders() []Order {
	return []Order{
		{ID: 1, State: Placed},
		{ID: 2, State: Processing},
		{ID: 3, State: Sent},
		{ID: 4, State: Delivered},
	}
}
