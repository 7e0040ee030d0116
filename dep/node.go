/*
 * node.go, part of goqmmm
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

package dep

//Node is a typed handle to a node of a Graph holding a value of type T.
//The zero Node is not usable.
type Node[T any] struct {
	g  *Graph
	id int
}

func (n Node[T]) ref() (*Graph, int) { return n.g, n.id }

//Name returns the name given to the node at creation.
func (n Node[T]) Name() string { return n.g.nodes[n.id].name }

//Leaf adds to g a leaf node without a value. Reading it before
//it is written gives an error wrapping ErrUnset.
func Leaf[T any](g *Graph, name string) Node[T] {
	id := g.add(&slot{name: name, leaf: true, parent: -1})
	return Node[T]{g: g, id: id}
}

//LeafOf adds to g a leaf node holding v.
func LeafOf[T any](g *Graph, name string, v T) Node[T] {
	id := g.add(&slot{name: name, leaf: true, set: true, value: v, parent: -1})
	return Node[T]{g: g, id: id}
}

//New adds to g a node whose value is computed by f. f is expected to
//obtain the values of deps with their Val method, which is only allowed
//for nodes declared in deps. Nothing is computed until the node is read.
func New[T any](g *Graph, name string, f func() (T, error), deps ...Handle) Node[T] {
	s := &slot{name: name, parent: -1}
	s.recompute = func() (any, error) {
		v, err := f()
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	id := g.add(s)
	s.deps = g.link(id, deps)
	return Node[T]{g: g, id: id}
}

//Slice returns a node with a view (given by get) of the value of parent.
//If parent is derived, the slice is a regular derived node depending only on
//parent. If parent is a leaf, the slice shares the dependents of the
//parent, so writing either of them invalidates the dependents of both. put,
//which can be nil, is used to write a new value for the slice back into the
//parent value.
func Slice[T, E any](parent Node[T], name string, get func(T) E, put func(T, E)) Node[E] {
	g := parent.g
	p := g.nodes[parent.id]
	if !p.leaf {
		return New(g, name, func() (E, error) {
			return get(parent.Val()), nil
		}, parent)
	}
	root := parent.id
	if p.parent >= 0 {
		root = p.parent
		pget := p.get
		//slices of slices are views of views of the root leaf.
		s := &slot{name: name, leaf: true, parent: root, dependents: p.dependents}
		s.get = func(v any) any { return get(pget(v).(T)) }
		if put != nil && p.put != nil {
			pput := p.put
			s.put = func(r any, e any) {
				t := pget(r).(T)
				put(t, e.(E))
				pput(r, t)
			}
		}
		s.seen = -1
		return Node[E]{g: g, id: g.add(s)}
	}
	s := &slot{name: name, leaf: true, parent: root, dependents: p.dependents, seen: -1}
	s.get = func(v any) any { return get(v.(T)) }
	if put != nil {
		s.put = func(r any, e any) { put(r.(T), e.(E)) }
	}
	return Node[E]{g: g, id: g.add(s)}
}

//Read returns the value of the node, recomputing whatever is needed.
//A recomputation error is returned decorated with the names of the nodes it
//went through.
func (n Node[T]) Read() (T, error) {
	var zero T
	if err := n.g.pull(n.id); err != nil {
		return zero, err
	}
	return n.g.value(n.id).(T), nil
}

//Val returns the current value of the node, without recomputing anything.
//It is meant to be called from the compute function of a node that
//declared n as a dependency. It panics if n has not been brought up to date.
func (n Node[T]) Val() T {
	return n.g.value(n.id).(T)
}

//Write sets the value of a leaf and invalidates its dependents. It panics if the
//node is derived.
func (n Node[T]) Write(v T) {
	s := n.g.nodes[n.id]
	if !s.leaf {
		panic(ErrDerivedWrite)
	}
	if s.parent >= 0 {
		if s.put == nil {
			panic(ErrReadOnlySlice)
		}
		p := n.g.nodes[s.parent]
		if !p.set {
			panic(ErrNotPulled)
		}
		s.put(p.value, v)
		s.value = nil
		n.g.touch(n.id)
		s.seen = -1
		return
	}
	s.value = v
	s.set = true
	n.g.touch(n.id)
}

//Update applies f to the value of a leaf, in place, and invalidates its dependents.
//It panics if the node is derived or unset.
func (n Node[T]) Update(f func(*T)) {
	s := n.g.nodes[n.id]
	if !s.leaf {
		panic(ErrDerivedWrite)
	}
	if s.parent >= 0 {
		v := n.g.value(n.id).(T)
		f(&v)
		if s.put != nil {
			s.put(n.g.nodes[s.parent].value, v)
		}
		s.value = v
		n.g.touch(n.id)
		return
	}
	if !s.set {
		panic(ErrNotPulled)
	}
	v := s.value.(T)
	f(&v)
	s.value = v
	n.g.touch(n.id)
}

//Invalidate marks the node, and everything downstream of it, as out of date.
func (n Node[T]) Invalidate() {
	n.g.invalidate(n.id)
}

//Valid reports whether the node currently holds an up-to-date value.
//Leaves are valid once set.
func (n Node[T]) Valid() bool {
	s := n.g.nodes[n.id]
	if s.leaf {
		if s.parent >= 0 {
			return n.g.nodes[s.parent].set
		}
		return s.set
	}
	return s.valid
}

//IsLeaf reports whether the node can be written.
func (n Node[T]) IsLeaf() bool {
	return n.g.nodes[n.id].leaf
}
