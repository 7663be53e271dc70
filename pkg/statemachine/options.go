package statemachine

// TransitionOption configures a single transition with guards and actions.
type TransitionOption[S, E comparable] func(*transitionConfig[S, E])

// TransitionDef defines a transition between states.
type TransitionDef[S, E comparable] struct {
	From    S
	To      S
	Event   E
	Guards  []Guard[S, E]
	Actions []Action[S, E]
}

type transitionConfig[S, E comparable] struct {
	guards  []Guard[S, E]
	actions []Action[S, E]
}

// WithGuard adds a single guard to a transition.
func WithGuard[S, E comparable](guard Guard[S, E]) TransitionOption[S, E] {
	return func(cfg *transitionConfig[S, E]) {
		if guard != nil {
			cfg.guards = append(cfg.guards, guard)
		}
	}
}

// WithGuards adds multiple guards to a transition. All of them must pass.
func WithGuards[S, E comparable](guards ...Guard[S, E]) TransitionOption[S, E] {
	return func(cfg *transitionConfig[S, E]) {
		for _, guard := range guards {
			if guard != nil {
				cfg.guards = append(cfg.guards, guard)
			}
		}
	}
}

// WithAction adds a single action to a transition.
func WithAction[S, E comparable](action Action[S, E]) TransitionOption[S, E] {
	return func(cfg *transitionConfig[S, E]) {
		if action != nil {
			cfg.actions = append(cfg.actions, action)
		}
	}
}

// WithActions adds multiple actions to a transition, run in the given order.
func WithActions[S, E comparable](actions ...Action[S, E]) TransitionOption[S, E] {
	return func(cfg *transitionConfig[S, E]) {
		for _, action := range actions {
			if action != nil {
				cfg.actions = append(cfg.actions, action)
			}
		}
	}
}

// MachineOption configures a Machine.
type MachineOption[S, E comparable] func(*Machine[S, E])

// WithListeners attaches listeners notified, in order, while the machine fires.
func WithListeners[S, E comparable](listeners ...Listener[S, E]) MachineOption[S, E] {
	return func(m *Machine[S, E]) {
		for _, l := range listeners {
			if l != nil {
				m.listeners = append(m.listeners, l)
			}
		}
	}
}

// WithErrorReporter receives listener failures that do not change the outcome.
// Nil reporters are ignored.
func WithErrorReporter[S, E comparable](fn ErrorReporter) MachineOption[S, E] {
	return func(m *Machine[S, E]) {
		if fn != nil {
			m.report = fn
		}
	}
}
