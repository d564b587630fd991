// Package depgraph derives the task dependency graph from a store snapshot.
//
// Nodes are distinct task names. An edge A -> B exists when a row of task B
// lists A, or a subtask of A, among its dependencies. A reference is matched
// against task names first and subtask names second; anything else is
// reported as unresolved. Cycles are tolerated and only reported.
package depgraph

import (
	"container/heap"
	"fmt"
	"sort"
	"strings"

	"github.com/harrisonrobin/taskplan/pkg/model"
)

// Link is one resolved dependency reference, positioned for a chart: it runs
// from the predecessor's end date to the successor row's start date.
type Link struct {
	Row         int        `json:"row"`
	Reference   string     `json:"reference"`
	Predecessor string     `json:"predecessor"`
	Successor   string     `json:"successor"`
	From        model.Date `json:"from"`
	To          model.Date `json:"to"`
}

// Unresolved is a dependency reference that matches no task or subtask.
// Row is the store index of the row that lists it.
type Unresolved struct {
	Row       int    `json:"row"`
	Task      string `json:"task"`
	Reference string `json:"reference"`
}

// Graph is an immutable view built from one snapshot. Rebuild it after any
// store mutation.
type Graph struct {
	names      []string
	index      map[string]int
	succ       [][]int
	pred       [][]int
	links      []Link
	unresolved []Unresolved
}

type subtaskRef struct {
	task string
	end  model.Date
}

// Build derives the graph from rows in store order.
func Build(rows []model.Task) *Graph {
	g := &Graph{index: make(map[string]int)}

	taskEnd := make(map[string]model.Date)
	subtasks := make(map[string]subtaskRef)
	for _, t := range rows {
		if _, ok := g.index[t.Name]; !ok {
			g.index[t.Name] = len(g.names)
			g.names = append(g.names, t.Name)
		}
		if end, ok := taskEnd[t.Name]; !ok || t.End.After(end) {
			taskEnd[t.Name] = t.End
		}
		if t.Subtask != "" {
			if _, ok := subtasks[t.Subtask]; !ok {
				subtasks[t.Subtask] = subtaskRef{task: t.Name, end: t.End}
			}
		}
	}

	succ := make([]map[int]bool, len(g.names))
	pred := make([]map[int]bool, len(g.names))
	for i := range g.names {
		succ[i] = make(map[int]bool)
		pred[i] = make(map[int]bool)
	}

	for row, t := range rows {
		to := g.index[t.Name]
		for _, ref := range t.Dependencies {
			var from string
			var fromEnd model.Date
			if _, ok := g.index[ref]; ok {
				from, fromEnd = ref, taskEnd[ref]
			} else if st, ok := subtasks[ref]; ok {
				from, fromEnd = st.task, st.end
			} else {
				g.unresolved = append(g.unresolved, Unresolved{Row: row, Task: t.Name, Reference: ref})
				continue
			}
			if from == t.Name {
				continue
			}
			fi := g.index[from]
			succ[fi][to] = true
			pred[to][fi] = true
			g.links = append(g.links, Link{
				Row:         row,
				Reference:   ref,
				Predecessor: from,
				Successor:   t.Name,
				From:        fromEnd,
				To:          t.Start,
			})
		}
	}

	g.succ = sortedSets(succ)
	g.pred = sortedSets(pred)
	return g
}

func sortedSets(sets []map[int]bool) [][]int {
	out := make([][]int, len(sets))
	for i, set := range sets {
		for n := range set {
			out[i] = append(out[i], n)
		}
		sort.Ints(out[i])
	}
	return out
}

// Nodes returns task names in first appearance order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.names...)
}

// Predecessors returns the tasks name depends on, in first appearance order.
func (g *Graph) Predecessors(name string) []string {
	i, ok := g.index[name]
	if !ok {
		return nil
	}
	return g.namesOf(g.pred[i])
}

// Successors returns the tasks that depend on name, in first appearance order.
func (g *Graph) Successors(name string) []string {
	i, ok := g.index[name]
	if !ok {
		return nil
	}
	return g.namesOf(g.succ[i])
}

func (g *Graph) namesOf(ids []int) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = g.names[id]
	}
	return out
}

// Links returns every resolved reference in store order.
func (g *Graph) Links() []Link {
	return append([]Link(nil), g.links...)
}

// Unresolved returns every reference that matched nothing, in store order.
func (g *Graph) Unresolved() []Unresolved {
	return append([]Unresolved(nil), g.unresolved...)
}

// HasCycle reports whether any dependency cycle exists.
func (g *Graph) HasCycle() bool {
	return g.Cycle() != nil
}

// Cycle returns one cycle as a closed path (first node repeated at the end),
// or nil. The witness is deterministic for a given snapshot.
func (g *Graph) Cycle() []string {
	const (
		white = iota
		gray
		black
	)
	color := make([]int, len(g.names))
	var stack []int
	var found []int

	var visit func(n int) bool
	visit = func(n int) bool {
		color[n] = gray
		stack = append(stack, n)
		for _, m := range g.succ[n] {
			switch color[m] {
			case gray:
				for i, s := range stack {
					if s == m {
						found = append(append([]int(nil), stack[i:]...), m)
						break
					}
				}
				return true
			case white:
				if visit(m) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return false
	}

	for n := range g.names {
		if color[n] == white && visit(n) {
			return g.namesOf(found)
		}
	}
	return nil
}

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopoOrder returns task names with predecessors before successors. Ties
// break by first appearance; tasks caught in a cycle follow in first
// appearance order.
func (g *Graph) TopoOrder() []string {
	indeg := make([]int, len(g.names))
	for i := range g.names {
		indeg[i] = len(g.pred[i])
	}

	ready := &intMinHeap{}
	for i, d := range indeg {
		if d == 0 {
			heap.Push(ready, i)
		}
	}

	placed := make([]bool, len(g.names))
	out := make([]string, 0, len(g.names))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(int)
		placed[n] = true
		out = append(out, g.names[n])
		for _, m := range g.succ[n] {
			indeg[m]--
			if indeg[m] == 0 {
				heap.Push(ready, m)
			}
		}
	}
	for i, ok := range placed {
		if !ok {
			out = append(out, g.names[i])
		}
	}
	return out
}

// Warnings reports unresolved references and a cycle, if any, as data
// quality findings.
func (g *Graph) Warnings() []model.Warning {
	var out []model.Warning
	for _, u := range g.unresolved {
		out = append(out, model.Warning{
			Kind:    model.WarnUnresolvedDep,
			Row:     u.Row + 1,
			Field:   model.ColDependencies,
			Message: fmt.Sprintf("task %q depends on %q, which matches no task or subtask", u.Task, u.Reference),
		})
	}
	if cycle := g.Cycle(); cycle != nil {
		out = append(out, model.Warning{
			Kind:    model.WarnDependencyCycle,
			Message: "dependency cycle: " + strings.Join(cycle, " -> "),
		})
	}
	return out
}
