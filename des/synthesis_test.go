package des

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecificationNotControllable(t *testing.T) {
	plants, specs := smallFactory()
	plant := mustCompose(plants...)
	// a full buffer cannot stop M1 from finishing
	assert.False(t, specs[0].IsControllable(plant))
	assert.False(t, mustCompose(plant, specs[0]).IsControllable(plant))
	assert.True(t, plant.IsControllable(plant))
}

func TestMonolithicSupervisor(t *testing.T) {
	plants, specs := smallFactory()
	plant := mustCompose(plants...)

	m := NewMetrics()
	sup, err := MonolithicSupervisor(plants, specs, WithMetrics(m))
	require.NoError(t, err)

	assert.Equal(t, "Sup", sup.Name())
	assert.Equal(t, 6, sup.Size())
	assert.Equal(t, 8, sup.TransitionCount())
	assert.True(t, sup.IsControllable(plant))
	assert.True(t, sup.IsNonblocking())
	assert.True(t, mustCompose(plant, sup).IsControllable(plant))
	assert.False(t, sup.HasState(st("1|0|1")))
	assert.False(t, sup.HasState(st("1|1|1")))

	assert.Equal(t, 2, m.Get(MetricStatesRemoved))
	assert.Equal(t, 1, m.Get(MetricSynthesisPasses))
	assert.Equal(t, 8, m.Get(MetricStatesExplored))
}

func TestMonolithicSupervisorMinimized(t *testing.T) {
	plants, specs := smallFactory()
	sup, err := MonolithicSupervisor(plants, specs)
	require.NoError(t, err)
	small, err := MonolithicSupervisor(plants, specs, Minimized())
	require.NoError(t, err)
	assert.LessOrEqual(t, small.Size(), sup.Size())
	assert.True(t, LanguageEquivalent(sup, small))
}

func TestMonolithicSupervisorParallel(t *testing.T) {
	plants, specs := smallFactory()
	seq, err := MonolithicSupervisor(plants, specs)
	require.NoError(t, err)
	par, err := MonolithicSupervisor(plants, specs, Parallel(8))
	require.NoError(t, err)
	assert.Equal(t, seq.States(), par.States())
	assert.Equal(t, seq.Transitions(), par.Transitions())
}

func TestMonolithicSupervisorEmpty(t *testing.T) {
	plant := New("P", mst("0"), []Transition{tr(mst("0"), uev("u"), mst("1"))})
	spec := New("S", mst("s"), nil, WithEvents(uev("u")))

	sup, err := MonolithicSupervisor([]*Automaton{plant}, []*Automaton{spec})
	require.NoError(t, err)
	assert.Equal(t, 1, sup.Size())
	assert.Equal(t, 0, sup.TransitionCount())
	assert.Empty(t, sup.MarkedStates())
}

func TestMonolithicSupervisorSpecificationOnlyEvent(t *testing.T) {
	plant := New("P", mst("0"), []Transition{
		tr(mst("0"), ev("a"), st("1")),
		tr(st("1"), uev("b"), mst("0")),
	})
	// v is uncontrollable but unknown to the plant, so the supervisor
	// may still cut it; s3 blocks b and s2 leads only there
	spec := New("S", mst("s0"), []Transition{
		tr(mst("s0"), ev("a"), st("s1")),
		tr(st("s1"), uev("b"), mst("s0")),
		tr(mst("s0"), uev("v"), st("s2")),
		tr(st("s2"), ev("a"), st("s3")),
	})
	m := NewMetrics()
	sup, err := MonolithicSupervisor([]*Automaton{plant}, []*Automaton{spec}, WithMetrics(m))
	require.NoError(t, err)
	assert.Equal(t, []State{mst("0|s0"), st("1|s1")}, sup.States())
	assert.Equal(t, 2, sup.TransitionCount())
	assert.True(t, sup.IsNonblocking())
	assert.Equal(t, 2, m.Get(MetricStatesRemoved))
	assert.Equal(t, 2, m.Get(MetricSynthesisPasses))
}

func TestMonolithicSupervisorErrors(t *testing.T) {
	plants, specs := smallFactory()
	_, err := MonolithicSupervisor(nil, specs)
	assert.ErrorIs(t, err, ErrNoAutomata)
	_, err = MonolithicSupervisor(plants, nil)
	assert.ErrorIs(t, err, ErrNoAutomata)
}

func TestDisabledEvents(t *testing.T) {
	plants, specs := smallFactory()
	plant := mustCompose(plants...)
	sup, err := MonolithicSupervisor(plants, specs)
	require.NoError(t, err)

	assert.Equal(t, map[State][]Event{
		mst("0|0|0"): {ev("a2")},
		st("1|0|0"):  {ev("a2")},
		st("0|0|1"):  {ev("a1")},
		st("0|1|1"):  {ev("a1")},
	}, sup.DisabledEvents(plant))
}

func TestReduceSupervisor(t *testing.T) {
	plants, specs := smallFactory()
	plant := mustCompose(plants...)
	sup, err := MonolithicSupervisor(plants, specs)
	require.NoError(t, err)

	red := ReduceSupervisor(plant, sup)
	assert.Equal(t, 2, red.Size())
	assert.Equal(t, []State{mst("0|0|0"), st("0|0|1")}, red.States())
	assert.True(t, red.IsControllable(plant))
	assert.True(t, LanguageEquivalent(mustCompose(plant, sup), mustCompose(plant, red)))
}

func TestLocalModularSupervisor(t *testing.T) {
	plants, specs := smallFactory()
	sups, err := LocalModularSupervisor(plants, specs, Parallel(2))
	require.NoError(t, err)
	require.Len(t, sups, 1)
	assert.Equal(t, "Sup(E)", sups[0].Name())
	assert.Equal(t, 6, sups[0].Size())

	ok, err := IsNonconflicting(append([]*Automaton{mustCompose(plants...)}, sups...))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalModularTwoBuffers(t *testing.T) {
	// M1 -> E1 -> M2 -> E2 -> M3
	plants := []*Automaton{machine(1), machine(2), machine(3)}
	e2 := New("E2", mst("0"), []Transition{
		tr(mst("0"), uev("b2"), st("1")),
		tr(st("1"), ev("a3"), mst("0")),
	})
	specs := []*Automaton{buffer().Rename("E1"), e2}

	sups, err := LocalModularSupervisor(plants, specs)
	require.NoError(t, err)
	require.Len(t, sups, 2)
	assert.Equal(t, "Sup(E1)", sups[0].Name())
	assert.Equal(t, "Sup(E2)", sups[1].Name())
	// each local supervisor only sees its two machines
	assert.False(t, sups[0].HasEvent(ev("a3")))
	assert.False(t, sups[1].HasEvent(ev("a1")))

	plant := mustCompose(plants...)
	for _, s := range sups {
		assert.True(t, s.IsControllable(plant))
	}
	ok, err := IsNonconflicting(append([]*Automaton{plant}, sups...))
	require.NoError(t, err)
	assert.True(t, ok)

	reduced, err := LocalModularReducedSupervisor(plants, specs, Parallel(2))
	require.NoError(t, err)
	require.Len(t, reduced, 2)
	for i, r := range reduced {
		assert.Equal(t, sups[i].Name(), r.Name())
		assert.Equal(t, 2, r.Size())
	}
	ok, err = IsNonconflicting(append([]*Automaton{plant}, reduced...))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalModularDisjointSpecification(t *testing.T) {
	plants, _ := smallFactory()
	other := New("X", mst("0"), []Transition{tr(mst("0"), ev("z"), mst("0"))})
	_, err := LocalModularSupervisor(plants, []*Automaton{other})
	assert.ErrorIs(t, err, ErrDisjointSpecification)
	_, err = LocalModularReducedSupervisor(nil, []*Automaton{other})
	assert.ErrorIs(t, err, ErrNoAutomata)
}

func TestIsNonconflicting(t *testing.T) {
	a := New("A", mst("0"), []Transition{
		tr(mst("0"), ev("x"), st("1")),
		tr(st("1"), ev("y"), mst("0")),
	})
	ok, err := IsNonconflicting([]*Automaton{a, a.Rename("B")})
	require.NoError(t, err)
	assert.True(t, ok)

	// after x y, C needs a second y that A only offers after another x
	c := New("C", mst("0"), []Transition{
		tr(mst("0"), ev("x"), st("1")),
		tr(st("1"), ev("y"), st("2")),
		tr(st("2"), ev("y"), mst("0")),
	})
	ok, err = IsNonconflicting([]*Automaton{a, c})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = IsNonconflicting(nil)
	assert.ErrorIs(t, err, ErrNoAutomata)
}
