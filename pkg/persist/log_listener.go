package persist

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/persistfsm/pkg/logger"
	"github.com/dmitrymomot/persistfsm/pkg/statemachine"
)

// LogListener writes one debug record per machine notification and an info
// record once a change is durable.
type LogListener[ID, S, E comparable] struct {
	log *slog.Logger
}

// NewLogListener returns a listener logging to log, or slog.Default when nil.
func NewLogListener[ID, S, E comparable](log *slog.Logger) *LogListener[ID, S, E] {
	if log == nil {
		log = slog.Default()
	}
	return &LogListener[ID, S, E]{log: log.With(logger.Component("statemachine"))}
}

func (l *LogListener[ID, S, E]) StateExited(ctx context.Context, state S) error {
	l.log.DebugContext(ctx, "state exited",
		logger.Stage(statemachine.StageStateExited.String()),
		logger.State(state),
	)
	return nil
}

func (l *LogListener[ID, S, E]) TransitionFired(ctx context.Context, t statemachine.Transition[S, E]) error {
	l.log.DebugContext(ctx, "transition fired",
		logger.Stage(statemachine.StageTransitionFired.String()),
		logger.FromState(t.From),
		logger.ToState(t.To),
		logger.Event(t.Event),
	)
	return nil
}

func (l *LogListener[ID, S, E]) StateEntered(ctx context.Context, state S) error {
	l.log.DebugContext(ctx, "state entered",
		logger.Stage(statemachine.StageStateEntered.String()),
		logger.State(state),
	)
	return nil
}

func (l *LogListener[ID, S, E]) BeforePersist(ctx context.Context, c Change[ID, S, E]) error {
	l.log.DebugContext(ctx, "persisting state",
		logger.Stage(statemachine.StageBeforePersist.String()),
		logger.EntityID(c.ID),
		logger.FromState(c.From),
		logger.ToState(c.To),
		logger.Event(c.Event),
	)
	return nil
}

func (l *LogListener[ID, S, E]) AfterPersist(ctx context.Context, c Change[ID, S, E]) error {
	l.log.InfoContext(ctx, "state persisted",
		logger.Stage(statemachine.StageAfterPersist.String()),
		logger.EntityID(c.ID),
		logger.FromState(c.From),
		logger.ToState(c.To),
		logger.Event(c.Event),
	)
	return nil
}
