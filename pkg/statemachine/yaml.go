package statemachine

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Issue codes specific to YAML documents.
const (
	CodeMalformedDocument = "MALFORMED_DOCUMENT"
	CodeUnknownGuard      = "UNKNOWN_GUARD"
	CodeUnknownAction     = "UNKNOWN_ACTION"
)

type yamlDocument struct {
	Initial     string           `yaml:"initial"`
	States      []string         `yaml:"states"`
	Events      []string         `yaml:"events"`
	Transitions []yamlTransition `yaml:"transitions"`
}

type yamlTransition struct {
	From    string   `yaml:"from"`
	To      string   `yaml:"to"`
	Event   string   `yaml:"event"`
	Guards  []string `yaml:"guards"`
	Actions []string `yaml:"actions"`
}

// DecodeOption configures DecodeYAML.
type DecodeOption[S, E ~string] func(*decodeConfig[S, E])

type decodeConfig[S, E ~string] struct {
	guards  map[string]Guard[S, E]
	actions map[string]Action[S, E]
}

// WithNamedGuards makes guards referenceable by name from the document.
func WithNamedGuards[S, E ~string](guards map[string]Guard[S, E]) DecodeOption[S, E] {
	return func(c *decodeConfig[S, E]) {
		for name, g := range guards {
			if g != nil {
				c.guards[name] = g
			}
		}
	}
}

// WithNamedActions makes actions referenceable by name from the document.
func WithNamedActions[S, E ~string](actions map[string]Action[S, E]) DecodeOption[S, E] {
	return func(c *decodeConfig[S, E]) {
		for name, a := range actions {
			if a != nil {
				c.actions[name] = a
			}
		}
	}
}

// DecodeYAML builds a Definition from a YAML document of the form:
//
//	initial: PLACED
//	states: [PROCESSING, SENT, DELIVERED]
//	events: [process, send, deliver]
//	transitions:
//	  - {from: PLACED, to: PROCESSING, event: process, guards: [paid], actions: [notify]}
//
// Guards and actions are code, so the document references them by name and
// the caller supplies the implementations through WithNamedGuards and
// WithNamedActions. Unknown names are reported as definition issues.
func DecodeYAML[S, E ~string](data []byte, opts ...DecodeOption[S, E]) (*Definition[S, E], error) {
	cfg := &decodeConfig[S, E]{
		guards:  make(map[string]Guard[S, E]),
		actions: make(map[string]Action[S, E]),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &DefinitionError{Issues: []DefinitionIssue{{
			Code:    CodeMalformedDocument,
			Message: err.Error(),
		}}}
	}

	b := NewBuilder[S, E]()
	if doc.Initial != "" {
		b.Initial(S(doc.Initial))
	}
	for _, s := range doc.States {
		b.States(S(s))
	}
	for _, e := range doc.Events {
		b.Events(E(e))
	}

	for i, t := range doc.Transitions {
		var topts []TransitionOption[S, E]
		for _, name := range t.Guards {
			g, ok := cfg.guards[name]
			if !ok {
				b.issues = append(b.issues, DefinitionIssue{
					Code:    CodeUnknownGuard,
					Message: fmt.Sprintf("transition[%d] references unknown guard %q", i, name),
				})
				continue
			}
			topts = append(topts, WithGuard(g))
		}
		for _, name := range t.Actions {
			a, ok := cfg.actions[name]
			if !ok {
				b.issues = append(b.issues, DefinitionIssue{
					Code:    CodeUnknownAction,
					Message: fmt.Sprintf("transition[%d] references unknown action %q", i, name),
				})
				continue
			}
			topts = append(topts, WithAction(a))
		}
		b.Transition(S(t.From), S(t.To), E(t.Event), topts...)
	}

	return b.Build()
}

// ReadYAML is DecodeYAML over an io.Reader.
func ReadYAML[S, E ~string](r io.Reader, opts ...DecodeOption[S, E]) (*Definition[S, E], error) {
	if r == nil {
		return nil, errors.New("statemachine: nil reader")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	return DecodeYAML(data, opts...)
}
