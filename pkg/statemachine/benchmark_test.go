package statemachine_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/dmitrymomot/persistfsm/pkg/statemachine"
)

func benchDefinition(b *testing.B, states int) *statemachine.Definition[statemachine.StringState, statemachine.StringEvent] {
	b.Helper()
	next := statemachine.StringEvent("next")
	builder := statemachine.NewBuilder[statemachine.StringState, statemachine.StringEvent]().
		Initial("s0").
		Events(next)
	for i := 1; i < states; i++ {
		builder.States(statemachine.StringState(fmt.Sprintf("s%d", i)))
	}
	for i := 0; i < states-1; i++ {
		builder.Transition(
			statemachine.StringState(fmt.Sprintf("s%d", i)),
			statemachine.StringState(fmt.Sprintf("s%d", i+1)),
			next,
		)
	}
	def, err := builder.Build()
	if err != nil {
		b.Fatal(err)
	}
	return def
}

func BenchmarkEngineEvaluate(b *testing.B) {
	engine := statemachine.NewEngine(benchDefinition(b, 100))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = engine.Evaluate(ctx, "s50", "next", nil)
	}
}

func BenchmarkEngineEvaluateRejected(b *testing.B) {
	engine := statemachine.NewEngine(benchDefinition(b, 100))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = engine.Evaluate(ctx, "s99", "next", nil)
	}
}

func BenchmarkEngineEvaluateGuarded(b *testing.B) {
	allow := func(_ context.Context, _ statemachine.StringState, _ statemachine.StringEvent, data any) bool {
		return data != nil
	}
	def := statemachine.NewBuilder[statemachine.StringState, statemachine.StringEvent]().
		Initial("a").
		States("b").
		Events("go").
		Transition("a", "b", "go", statemachine.WithGuard(allow)).
		MustBuild()
	engine := statemachine.NewEngine(def)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = engine.Evaluate(ctx, "a", "go", true)
	}
}

func BenchmarkMachineResetAndFire(b *testing.B) {
	engine := statemachine.NewEngine(benchDefinition(b, 10))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := statemachine.NewMachine(engine)
		m.ResetTo("s3")
		if _, err := m.Fire(ctx, "next", nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEngineEvaluateParallel(b *testing.B) {
	engine := statemachine.NewEngine(benchDefinition(b, 100))
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = engine.Evaluate(ctx, "s10", "next", nil)
		}
	})
}
