package domain

import "encoding/json"

// Args is the argument bag of one command invocation, keyed by field name.
type Args map[string]any

type FieldType string

const (
	FieldInt     FieldType = "int"
	FieldString  FieldType = "string"
	FieldBool    FieldType = "bool"
	FieldIntList FieldType = "int_list"
)

type ResultShape string

const (
	ResultNone   ResultShape = "none"
	ResultObject ResultShape = "object"
	ResultList   ResultShape = "list"
)

// FieldSpec declares one argument of a command: its type, whether it is
// required, the default injected when an optional field is absent, and the
// value constraints enforced before anything goes on the wire.
// Min and Max apply to ints, and per element to int lists.
type FieldSpec struct {
	Name     string
	Type     FieldType
	Required bool
	Default  any
	Min      *int64
	Max      *int64
	NonEmpty bool
	OneOf    []string
}

// CommandSpec is one catalog entry. Name is the catalog key and the value of
// the envelope's name field; Action is the verb the backend maps the command
// to, kept as catalog metadata.
type CommandSpec struct {
	Name   string
	Action string
	Fields []FieldSpec
	Result ResultShape
}

const EnvelopeTypeCommand = "command"

// OutboundCommand is the wire shape of one dispatched command.
type OutboundCommand struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Args Args   `json:"args"`
}

// ResponseEnvelope is the wire shape of one backend reply. It carries no
// request identifier; correlation is inferred from CommandName and arrival
// order.
type ResponseEnvelope struct {
	CommandName string          `json:"command_name"`
	Success     bool            `json:"success"`
	Timestamp   float64         `json:"timestamp"`
	Data        json.RawMessage `json:"data,omitempty"`
	Error       string          `json:"error,omitempty"`
}

type TicketState string

const (
	StatePending   TicketState = "pending"
	StateResolved  TicketState = "resolved"
	StateFailed    TicketState = "failed"
	StateTimedOut  TicketState = "timed_out"
	StateCancelled TicketState = "cancelled"
)

// Outcome is the terminal result of one dispatched command. Data is set on
// Resolved outcomes and, when the backend attaches partial data to a
// rejection, on Failed outcomes too. Error carries the backend's failure
// detail verbatim.
type Outcome struct {
	State TicketState
	Data  json.RawMessage
	Error string
}
