package graph

import "sort"

// CTL evaluator over a finite Graph. Atomic propositions are plain
// vertex sets; callers map their own predicates (marked, secret,
// faulty, ...) to a Set and build formulas on top.

// ----- Vertex sets -----

type Set map[int]struct{}

func NewSet(vs ...int) Set {
	s := make(Set, len(vs))
	for _, v := range vs {
		s[v] = struct{}{}
	}
	return s
}

func (s Set) Has(v int) bool { _, ok := s[v]; return ok }
func (s Set) Add(v int)      { s[v] = struct{}{} }
func (s Set) Size() int      { return len(s) }

func (s Set) Copy() Set {
	out := make(Set, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// ToSlice returns the members in ascending order.
func (s Set) ToSlice() []int {
	out := make([]int, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func (s Set) Equals(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

func (s Set) Intersect(other Set) Set {
	out := NewSet()
	for k := range s {
		if other.Has(k) {
			out.Add(k)
		}
	}
	return out
}

func (s Set) Difference(other Set) Set {
	out := NewSet()
	for k := range s {
		if !other.Has(k) {
			out.Add(k)
		}
	}
	return out
}

// Universe builds a set containing every vertex of g.
func Universe(g *Graph) Set {
	u := make(Set, g.Order())
	for v := 0; v < g.Order(); v++ {
		u.Add(v)
	}
	return u
}

// PreE returns predecessors with SOME successor in W:
// PreE(W) = { s | ∃ s' . R(s,s') ∧ s' ∈ W }
func PreE(W Set, g *Graph) Set {
	out := NewSet()
	for s, succs := range g.Succ {
		for _, s2 := range succs {
			if W.Has(s2) {
				out.Add(s)
				break
			}
		}
	}
	return out
}

// ----- CTL Formula AST -----

// Formula is a CTL state formula; Sat returns the vertices satisfying it.
type Formula interface {
	Sat(g *Graph) Set
}

// Atom holds exactly on the given vertices.
type Atom struct {
	Vertices Set
}

func (a Atom) Sat(g *Graph) Set { return a.Vertices.Copy() }

// True holds everywhere.
type True struct{}

func (True) Sat(g *Graph) Set { return Universe(g) }

// Not: ¬φ
type Not struct {
	F Formula
}

func (n Not) Sat(g *Graph) Set {
	return Universe(g).Difference(n.F.Sat(g))
}

// And: (φ ∧ ψ)
type And struct {
	Left, Right Formula
}

func (a And) Sat(g *Graph) Set {
	return a.Left.Sat(g).Intersect(a.Right.Sat(g))
}

// EX φ: some successor satisfies φ.
type EX struct {
	F Formula
}

func (e EX) Sat(g *Graph) Set { return PreE(e.F.Sat(g), g) }

// EU(p, q): some path keeps p until q holds.
type EU struct {
	P, Q Formula
}

// Sat computes the least fixpoint W = Sat(Q) ∪ (Sat(P) ∩ PreE(W)) by a
// backward sweep from Sat(Q) instead of re-scanning every vertex per round.
func (eu EU) Sat(g *Graph) Set {
	satP := eu.P.Sat(g)
	W := eu.Q.Sat(g)
	pred := g.Reverse()

	queue := W.ToSlice()
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, p := range pred.Succ[v] {
			if W.Has(p) || !satP.Has(p) {
				continue
			}
			W.Add(p)
			queue = append(queue, p)
		}
	}
	return W
}

// EG φ: some infinite path keeps φ forever.
type EG struct {
	F Formula
}

// Sat computes the greatest fixpoint: start from Sat(φ) and peel off
// vertices left with no successor inside the set.
func (eg EG) Sat(g *Graph) Set {
	Z := eg.F.Sat(g)
	pred := g.Reverse()

	inside := make([]int, g.Order())
	var queue []int
	for v := range Z {
		for _, w := range g.Succ[v] {
			if Z.Has(w) {
				inside[v]++
			}
		}
		if inside[v] == 0 {
			queue = append(queue, v)
		}
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		if !Z.Has(v) {
			continue
		}
		delete(Z, v)
		for _, p := range pred.Succ[v] {
			if !Z.Has(p) {
				continue
			}
			inside[p]--
			if inside[p] == 0 {
				queue = append(queue, p)
			}
		}
	}
	return Z
}

// EF φ ≡ E[true U φ]
type EF struct {
	F Formula
}

func (ef EF) Sat(g *Graph) Set {
	return EU{P: True{}, Q: ef.F}.Sat(g)
}

// AG φ ≡ ¬EF ¬φ
type AG struct {
	F Formula
}

func (ag AG) Sat(g *Graph) Set {
	return Universe(g).Difference(EF{F: Not{F: ag.F}}.Sat(g))
}

// SatIn evaluates a formula and asks if the given vertex satisfies it.
func SatIn(f Formula, g *Graph, init int) bool {
	return f.Sat(g).Has(init)
}
