package des

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 0 -u-> 2 and both 0 and 2 emit a: the observer never knows which branch ran.
func hiddenBranch() *Automaton {
	return New("H", st("0"), []Transition{
		tr(st("0"), ev("a"), st("1")),
		tr(st("0"), uev("u"), st("2")),
		tr(st("2"), ev("a"), st("3")),
	})
}

func TestCurrentStepOpacity(t *testing.T) {
	a := hiddenBranch()
	unobs := []Event{uev("u")}

	ok, est := CurrentStepOpacity(a, []State{st("1")}, unobs)
	assert.True(t, ok)
	assert.Equal(t, "CSE(H)", est.Name())
	assert.Equal(t, []State{st("{0,2}"), st("{1,3}")}, est.States())

	ok, _ = CurrentStepOpacity(a, []State{st("1"), st("3")}, unobs)
	assert.False(t, ok)

	// unknown secret states are ignored
	ok, _ = CurrentStepOpacity(a, []State{st("9")}, unobs)
	assert.True(t, ok)
}

func TestKStepsZeroIsCurrentStep(t *testing.T) {
	a := New("A", st("0"), []Transition{
		tr(st("0"), ev("a"), st("1")),
		tr(st("1"), ev("b"), st("0")),
		tr(st("0"), ev("c"), st("2")),
	})
	for _, secret := range [][]State{nil, {st("1")}, {st("0"), st("2")}, {st("7")}} {
		cur, curEst := CurrentStepOpacity(a, secret, nil)
		k0, k0Est, err := KStepsOpacity(a, secret, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, cur, k0, "secret %v", secret)
		assert.True(t, Isomorphic(curEst, k0Est))
	}

	ok, _ := CurrentStepOpacity(a, []State{st("1")}, nil)
	assert.False(t, ok)
}

func TestKStepsOpacity(t *testing.T) {
	// the secret 1 is only given away two observations later, by c
	a := New("A", st("0"), []Transition{
		tr(st("0"), uev("u"), st("1")),
		tr(st("0"), ev("a"), st("2")),
		tr(st("1"), ev("a"), st("3")),
		tr(st("2"), ev("b"), st("4")),
		tr(st("3"), ev("c"), st("5")),
	})
	secret := []State{st("1")}
	unobs := []Event{uev("u")}

	ok, _ := CurrentStepOpacity(a, secret, unobs)
	assert.True(t, ok)

	ok, est, err := KStepsOpacity(a, secret, unobs, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "K1SE(A)", est.Name())
	assert.Equal(t, "{(-,0),(-,1)}", est.InitialState().Alias())

	ok, est, err = KStepsOpacity(a, secret, unobs, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, est.HasState(st("{(1,3,5)}")))

	_, _, err = KStepsOpacity(a, secret, unobs, -1)
	assert.ErrorIs(t, err, ErrNegativeSteps)
}

func TestInitialStateOpacity(t *testing.T) {
	same := New("S", st("0"), []Transition{
		tr(st("0"), ev("a"), st("1")),
		tr(st("2"), ev("a"), st("3")),
	})
	initials := []State{st("0"), st("2")}
	ok, est := InitialStateOpacity(same, []State{st("0")}, initials, nil)
	assert.True(t, ok)
	assert.Equal(t, "ISE(S)", est.Name())
	assert.Equal(t, "{(0,0),(2,2)}", est.InitialState().Alias())
	assert.Equal(t, 2, est.Size())

	ok, est = InitialStateOpacity(same, []State{st("0")}, nil, nil)
	assert.True(t, ok)
	assert.Equal(t, "{(0,0),(1,1),(2,2),(3,3)}", est.InitialState().Alias())

	ok, _ = InitialStateOpacity(split(), []State{st("0")}, initials, nil)
	assert.False(t, ok)

	// no run can start outside the automaton, so nothing is revealed
	ok, est = InitialStateOpacity(same, []State{st("0")}, []State{st("nope")}, nil)
	assert.True(t, ok)
	assert.Equal(t, "{}", est.InitialState().Alias())
	assert.Equal(t, 1, est.Size())
}

// starting in 0 shows as a, starting in 2 as b
func split() *Automaton {
	return New("D", st("0"), []Transition{
		tr(st("0"), ev("a"), st("1")),
		tr(st("2"), ev("b"), st("3")),
	})
}

func TestInitialFinalStateOpacity(t *testing.T) {
	initials := []State{st("0"), st("2")}

	ok, est := InitialFinalStateOpacity(split(), []StatePair{{st("0"), st("1")}}, initials, nil)
	assert.False(t, ok)
	assert.Equal(t, "IFE(D)", est.Name())

	ok, _ = InitialFinalStateOpacity(split(), []StatePair{{st("0"), st("3")}}, initials, nil)
	assert.True(t, ok)

	ok, _ = InitialFinalStateOpacity(split(), []StatePair{{st("0"), st("9")}}, initials, nil, Parallel(2))
	assert.True(t, ok)
}
