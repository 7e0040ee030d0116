/*
 * graph.go, part of goqmmm
 *
 * Copyright 2025 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

//Package dep implements a lazy, dependency-tracked computation graph.
//
//Nodes live in an arena owned by a Graph and are referred to by typed handles.
//Each node holds a cached value. Leaves are written by the caller, derived
//nodes are recomputed, on demand, from their upstream nodes. Writing a leaf
//invalidates everything downstream of it, but nothing is recomputed until it is read.
//
//A Graph is not safe for concurrent use.
package dep

import (
	"fmt"
	"time"
)

//Observer is notified of recomputations and invalidations in a graph.
type Observer interface {
	Recomputed(name string, took time.Duration)
	Invalidated(name string)
}

//Handle is any node of a Graph, regardless of the type of its value.
type Handle interface {
	ref() (*Graph, int)
	Name() string
}

type slot struct {
	name      string
	value     any
	leaf      bool
	set       bool //leaves only
	valid     bool //derived nodes only
	recompute func() (any, error)
	deps      []int
	//dependents are plain arena indexes. Leaf slices share this
	//slice with their parent.
	dependents *[]int
	//parent is the arena index of the leaf this node is a slice of, or -1.
	parent  int
	version int
	seen    int //parent version the cached slice value corresponds to
	get     func(any) any
	put     func(any, any)
}

//Graph is an arena of nodes.
type Graph struct {
	nodes     []*slot
	observers []Observer
}

//NewGraph returns an empty graph, with the given observers attached.
func NewGraph(obs ...Observer) *Graph {
	return &Graph{observers: obs}
}

//Observe attaches o to the graph.
func (g *Graph) Observe(o Observer) {
	g.observers = append(g.observers, o)
}

//Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

func (g *Graph) add(s *slot) int {
	if s.dependents == nil {
		s.dependents = new([]int)
	}
	g.nodes = append(g.nodes, s)
	return len(g.nodes) - 1
}

//link registers id as a dependent of each dep, and returns the arena indexes of deps.
func (g *Graph) link(id int, deps []Handle) []int {
	ret := make([]int, 0, len(deps))
	for _, d := range deps {
		dg, di := d.ref()
		if dg != g {
			panic(ErrForeignNode)
		}
		ds := g.nodes[di]
		*ds.dependents = append(*ds.dependents, id)
		ret = append(ret, di)
	}
	return ret
}

//pull makes sure the node id holds a current value, recomputing it and
//its upstream nodes as needed.
func (g *Graph) pull(id int) error {
	s := g.nodes[id]
	if s.leaf {
		if s.parent >= 0 {
			return g.pull(s.parent)
		}
		if !s.set {
			return &Error{message: fmt.Sprintf("goqmmm/dep: leaf %q read before it was set", s.name), deco: []string{s.name}, critical: true, err: ErrUnset}
		}
		return nil
	}
	if s.valid {
		return nil
	}
	for _, d := range s.deps {
		if err := g.pull(d); err != nil {
			return errDecorate(err, s.name)
		}
	}
	t := time.Now()
	v, err := s.recompute()
	if err != nil {
		return errDecorate(err, s.name)
	}
	s.value = v
	s.valid = true
	took := time.Since(t)
	for _, o := range g.observers {
		o.Recomputed(s.name, took)
	}
	return nil
}

//invalidate marks id and, transitively, its dependents, as invalid.
//It stops at nodes that are already invalid.
func (g *Graph) invalidate(id int) {
	s := g.nodes[id]
	if !s.leaf {
		if !s.valid {
			return
		}
		s.valid = false
		for _, o := range g.observers {
			o.Invalidated(s.name)
		}
	}
	for _, d := range *s.dependents {
		g.invalidate(d)
	}
}

//value returns the current value of a node that has already been pulled.
func (g *Graph) value(id int) any {
	s := g.nodes[id]
	if s.leaf && s.parent >= 0 {
		p := g.nodes[s.parent]
		if !p.set {
			panic(ErrNotPulled)
		}
		if s.seen != p.version || s.value == nil {
			s.value = s.get(p.value)
			s.seen = p.version
		}
		return s.value
	}
	if s.leaf && !s.set {
		panic(ErrNotPulled)
	}
	if !s.leaf && !s.valid {
		panic(ErrNotPulled)
	}
	return s.value
}

//touch is called after a leaf, or a slice of a leaf, was written.
func (g *Graph) touch(id int) {
	s := g.nodes[id]
	if s.parent >= 0 {
		p := g.nodes[s.parent]
		p.version++
		s.seen = p.version
	} else {
		s.version++
	}
	g.invalidate(id)
}
