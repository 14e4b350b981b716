// Package graph holds exploration primitives over finite directed graphs
// whose vertices are the integers 0..Order()-1: reachability, strongly
// connected components and CTL-style fixed points over vertex sets.
package graph

// Graph is a finite directed graph given by its successor lists.
type Graph struct {
	Succ [][]int // R(v) = Succ[v]
}

// New creates a graph with n vertices and no edges.
func New(n int) *Graph {
	return &Graph{Succ: make([][]int, n)}
}

// Order returns the number of vertices.
func (g *Graph) Order() int { return len(g.Succ) }

// AddEdge adds the edge from -> to. Parallel edges are kept.
func (g *Graph) AddEdge(from, to int) {
	g.Succ[from] = append(g.Succ[from], to)
}

// Reverse returns the graph with every edge flipped.
func (g *Graph) Reverse() *Graph {
	r := New(g.Order())
	for v, succs := range g.Succ {
		for _, w := range succs {
			r.Succ[w] = append(r.Succ[w], v)
		}
	}
	return r
}

// Reachable returns, indexed by vertex, whether the vertex can be reached
// from any of the sources (sources included).
func Reachable(g *Graph, sources ...int) []bool {
	seen := make([]bool, g.Order())
	queue := make([]int, 0, len(sources))
	for _, s := range sources {
		if !seen[s] {
			seen[s] = true
			queue = append(queue, s)
		}
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range g.Succ[v] {
			if !seen[w] {
				seen[w] = true
				queue = append(queue, w)
			}
		}
	}
	return seen
}

// SCC returns the strongly connected components of g (Tarjan). The
// components come out in reverse topological order: a component is
// emitted before any component that can reach it.
func SCC(g *Graph) [][]int {
	n := g.Order()
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}

	type frame struct {
		v, next int
	}

	var (
		comps   [][]int
		stack   []int
		counter int
	)
	for root := 0; root < n; root++ {
		if index[root] >= 0 {
			continue
		}
		call := []frame{{v: root}}
		index[root], low[root] = counter, counter
		counter++
		stack = append(stack, root)
		onStack[root] = true

		for len(call) > 0 {
			top := &call[len(call)-1]
			v := top.v
			if top.next < len(g.Succ[v]) {
				w := g.Succ[v][top.next]
				top.next++
				if index[w] < 0 {
					index[w], low[w] = counter, counter
					counter++
					stack = append(stack, w)
					onStack[w] = true
					call = append(call, frame{v: w})
				} else if onStack[w] && index[w] < low[v] {
					low[v] = index[w]
				}
				continue
			}

			if low[v] == index[v] {
				var comp []int
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					comp = append(comp, w)
					if w == v {
						break
					}
				}
				comps = append(comps, comp)
			}
			call = call[:len(call)-1]
			if len(call) > 0 {
				parent := call[len(call)-1].v
				if low[v] < low[parent] {
					low[parent] = low[v]
				}
			}
		}
	}
	return comps
}

// IsCyclic reports whether the component carries a cycle: more than one
// vertex, or a single vertex with a self loop.
func IsCyclic(g *Graph, comp []int) bool {
	if len(comp) > 1 {
		return true
	}
	for _, w := range g.Succ[comp[0]] {
		if w == comp[0] {
			return true
		}
	}
	return false
}
