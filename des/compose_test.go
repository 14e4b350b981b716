package des

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelCompositionInterleaving(t *testing.T) {
	m1 := New("M1", mst("0"), []Transition{
		tr(mst("0"), ev("a"), st("1")),
		tr(st("1"), ev("b"), mst("0")),
	})
	m2 := New("M2", mst("0"), []Transition{
		tr(mst("0"), ev("c"), st("1")),
		tr(st("1"), ev("d"), mst("0")),
	})
	c, err := ParallelComposition([]*Automaton{m1, m2})
	require.NoError(t, err)

	assert.Equal(t, "M1||M2", c.Name())
	assert.Equal(t, 4, c.Size())
	// every composite state offers one private move of each machine
	assert.Equal(t, 8, c.TransitionCount())
	assert.Equal(t, []State{mst("0|0")}, c.MarkedStates())
	assert.Equal(t, []Event{ev("a"), ev("b"), ev("c"), ev("d")}, c.Events())

	next, ok := c.Step(mst("0|0"), ev("c"))
	assert.True(t, ok)
	assert.Equal(t, st("0|1"), next)
}

func TestParallelCompositionSynchronizes(t *testing.T) {
	c := mustCompose(machine(1), buffer())
	// b1 needs both the machine and the buffer
	assert.Equal(t, []Event{ev("a1"), ev("a2"), uev("b1")}, c.Events())
	_, ok := c.Step(mst("0|0"), ev("a2"))
	assert.False(t, ok)

	s, ok := c.Step(mst("0|0"), ev("a1"))
	require.True(t, ok)
	s, ok = c.Step(s, uev("b1"))
	require.True(t, ok)
	assert.Equal(t, st("0|1"), s)
}

func TestParallelCompositionCommutative(t *testing.T) {
	a, b := machine(1), buffer()
	assert.True(t, Isomorphic(mustCompose(a, b), mustCompose(b, a)))

	plants, _ := smallFactory()
	assert.True(t, Isomorphic(mustCompose(plants...), mustCompose(plants[1], plants[0])))
}

func TestParallelCompositionAssociative(t *testing.T) {
	a, b, c := machine(1), machine(2), buffer()
	left := mustCompose(mustCompose(a, b), c)
	right := mustCompose(a, mustCompose(b, c))
	flat := mustCompose(a, b, c)
	assert.True(t, Isomorphic(left, right))
	assert.True(t, Isomorphic(left, flat))
	assert.Equal(t, 8, flat.Size())
}

func TestParallelCompositionSizeIsProduct(t *testing.T) {
	c := mustCompose(machine(1), cycle(1))
	assert.Equal(t, machine(1).Size()*cycle(1).Size(), c.Size())

	c = machine(1).ParallelCompositionWith([]*Automaton{cycle(1), cycle(2)})
	assert.Equal(t, 2*3*3, c.Size())
}

func TestParallelCompositionErrors(t *testing.T) {
	_, err := ParallelComposition(nil)
	assert.ErrorIs(t, err, ErrNoAutomata)

	m := machine(1)
	single, err := ParallelComposition([]*Automaton{m})
	require.NoError(t, err)
	assert.Same(t, m, single)
}

func TestProduct(t *testing.T) {
	a := New("A", st("0"), []Transition{
		tr(st("0"), ev("a"), st("1")),
		tr(st("1"), ev("b"), st("0")),
	})
	b := New("B", st("0"), []Transition{
		tr(st("0"), ev("a"), st("1")),
		tr(st("1"), ev("c"), st("0")),
	})

	p, err := Product([]*Automaton{a, b})
	require.NoError(t, err)
	assert.Equal(t, "A&B", p.Name())
	assert.Equal(t, []Event{ev("a")}, p.Events())
	assert.Equal(t, 2, p.Size())
	assert.Equal(t, 1, p.TransitionCount())

	pc := a.ParallelCompositionWith([]*Automaton{b})
	assert.Equal(t, 4, pc.Size())
	assert.Equal(t, 5, pc.TransitionCount())

	assert.True(t, Isomorphic(p, a.ProductWith([]*Automaton{b})))
	_, err = Product(nil)
	assert.ErrorIs(t, err, ErrNoAutomata)
}

func TestParallelMatchesSequential(t *testing.T) {
	var parts []*Automaton
	for i := range 6 {
		parts = append(parts, cycle(i))
	}
	seq, err := ParallelComposition(parts)
	require.NoError(t, err)
	par, err := ParallelComposition(parts, Parallel(4))
	require.NoError(t, err)

	assert.Equal(t, 729, seq.Size())
	assert.Equal(t, seq.States(), par.States())
	assert.Equal(t, seq.Transitions(), par.Transitions())

	all, err := ParallelComposition(parts, Parallel(0))
	require.NoError(t, err)
	assert.True(t, Isomorphic(seq, all))
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	_, err := ParallelComposition([]*Automaton{machine(1), machine(2)}, WithMetrics(m))
	require.NoError(t, err)

	assert.Equal(t, 4, m.Get(MetricStatesExplored))
	assert.Equal(t, 8, m.Get(MetricTransitionsExplored))
	assert.Equal(t, 3, m.Get(MetricFrontierLevels))
	assert.Contains(t, m.Table(), "| states_explored | 4 |")
}

func TestCompositeAliasesStayDistinct(t *testing.T) {
	// "0|1" x "2" and "0" x "1|2" would both read 0|1|2
	a := New("A", st("0"), []Transition{tr(st("0"), ev("x"), st("0|1"))})
	b := New("B", st("1|2"), []Transition{tr(st("1|2"), ev("y"), st("2"))})
	c := mustCompose(a, b)
	assert.Equal(t, []State{st("0|1|2"), st("0|1|1|2"), st("0|2"), st("0|1|2'")}, c.States())
	assert.Equal(t, 4, c.TransitionCount())

	next, ok := c.Step(st("0|2"), ev("x"))
	assert.True(t, ok)
	assert.Equal(t, st("0|1|2'"), next)

	back := New(c.Name(), c.InitialState(), c.Transitions(),
		WithStates(c.States()...), WithEvents(c.Events()...))
	assert.Equal(t, c.Size(), back.Size())
	assert.True(t, Isomorphic(c, back))
}
