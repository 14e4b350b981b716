package des

import (
	"fmt"

	u "github.com/araddon/gou"
)

// StatePair is an (initial, final) pair of states for initial-final
// state opacity.
type StatePair struct {
	Initial, Final State
}

// opacity explores an estimator and looks for an estimate revealing the
// secret. It returns whether none does, and the estimator automaton.
func opacity(e *estimator, root []int, name string, reveals func([]int) bool, opts []Option) (bool, *Automaton) {
	cfg := newConfig(opts)
	sp := explore(cfg, root, e.expand)
	est := e.automaton(name, sp)
	for i, t := range sp.tuples {
		// an empty estimate belongs to no run and reveals nothing
		if len(e.windows(t)) > 0 && reveals(t) {
			u.Debugf("%s: estimate %s reveals the secret", name, est.states[i])
			return false, est
		}
	}
	return true, est
}

func stateIndexSet(a *Automaton, states []State) map[int]bool {
	set := make(map[int]bool, len(states))
	for _, s := range states {
		if i, ok := a.stateIx[s]; ok {
			set[i] = true
		}
	}
	return set
}

// CurrentStepOpacity reports whether an observer of the observable
// events can never be sure that a is currently in a secret state: no
// reachable observer state consists of secret states only. The observer
// is returned along with the verdict.
func CurrentStepOpacity(a *Automaton, secret []State, unobservable []Event, opts ...Option) (bool, *Automaton) {
	sec := stateIndexSet(a, secret)
	e := newEstimator(a, unobservable, 1, false)
	reveals := func(t []int) bool {
		for _, s := range e.current(t) {
			if !sec[s] {
				return false
			}
		}
		return true
	}
	return opacity(e, e.root([][]int{{0}}), "CSE("+a.name+")", reveals, opts)
}

// InitialStateOpacity reports whether an observer can never be sure the
// run started in a secret state. The run may start in any of initials;
// when initials is empty every state of a is a candidate. The returned
// initial-state estimator tracks (start, current) pairs.
func InitialStateOpacity(a *Automaton, secret, initials []State, unobservable []Event, opts ...Option) (bool, *Automaton) {
	sec := stateIndexSet(a, secret)
	e := newEstimator(a, unobservable, 2, false)
	reveals := func(t []int) bool {
		for _, w := range e.windows(t) {
			if !sec[w[0]] {
				return false
			}
		}
		return true
	}
	return opacity(e, e.root(startPairs(a, initials)), "ISE("+a.name+")", reveals, opts)
}

// InitialFinalStateOpacity reports whether an observer can never be sure
// that the (start, current) pair of the run is one of the secret pairs.
// Candidate starts are as for InitialStateOpacity.
func InitialFinalStateOpacity(a *Automaton, secret []StatePair, initials []State, unobservable []Event, opts ...Option) (bool, *Automaton) {
	type pair struct{ i, f int }
	sec := make(map[pair]bool, len(secret))
	for _, p := range secret {
		i, okI := a.stateIx[p.Initial]
		f, okF := a.stateIx[p.Final]
		if okI && okF {
			sec[pair{i, f}] = true
		}
	}
	e := newEstimator(a, unobservable, 2, false)
	reveals := func(t []int) bool {
		for _, w := range e.windows(t) {
			if !sec[pair{w[0], w[1]}] {
				return false
			}
		}
		return true
	}
	return opacity(e, e.root(startPairs(a, initials)), "IFE("+a.name+")", reveals, opts)
}

func startPairs(a *Automaton, initials []State) [][]int {
	var ws [][]int
	if len(initials) == 0 {
		for i := range a.states {
			ws = append(ws, []int{i, i})
		}
		return ws
	}
	for _, s := range initials {
		if i, ok := a.stateIx[s]; ok {
			ws = append(ws, []int{i, i})
		}
	}
	if len(ws) == 0 {
		u.Warnf("%s: none of the initial states %v exists", a.name, initials)
	}
	return ws
}

// KStepsOpacity reports whether an observer can never be sure that a was
// in a secret state at the current observation or at any of the k
// previous ones. Each estimate keeps windows of the last k+1 states from
// which observable events fired, the last entry being the current state.
// With k = 0 this is exactly CurrentStepOpacity.
func KStepsOpacity(a *Automaton, secret []State, unobservable []Event, k int, opts ...Option) (bool, *Automaton, error) {
	if k < 0 {
		return false, nil, fmt.Errorf("%w: %d", ErrNegativeSteps, k)
	}
	sec := stateIndexSet(a, secret)
	e := newEstimator(a, unobservable, k+1, true)
	reveals := func(t []int) bool {
		ws := e.windows(t)
		for pos := 0; pos <= k; pos++ {
			if ws[0][pos] == beforeStart {
				continue
			}
			all := true
			for _, w := range ws {
				if !sec[w[pos]] {
					all = false
					break
				}
			}
			if all {
				return true
			}
		}
		return false
	}

	start := make([]int, k+1)
	for i := range k {
		start[i] = beforeStart
	}
	ok, est := opacity(e, e.root([][]int{start}), fmt.Sprintf("K%dSE(%s)", k, a.name), reveals, opts)
	return ok, est, nil
}
