package apiset

import (
	"iter"

	"github.com/dhrdlicka/apisettool/internal/format"
)

// Dict is an insertion-ordered map keyed by case-insensitive names. The
// spelling of a key is the one used when it was first inserted. The zero
// value is an empty Dict ready to use.
//
// Iteration order matters: the authentic layout places strings in the order
// namespaces are visited, so a Dict fixes the physical layout of a schema.
type Dict[V any] struct {
	keys  []string
	vals  []V
	index map[string]int
}

// Len returns the number of entries.
func (d *Dict[V]) Len() int { return len(d.keys) }

// Get returns the value stored under name.
func (d *Dict[V]) Get(name string) (V, bool) {
	if i, ok := d.index[format.FoldKey(name)]; ok {
		return d.vals[i], true
	}
	var zero V
	return zero, false
}

// Has reports whether name is present.
func (d *Dict[V]) Has(name string) bool {
	_, ok := d.index[format.FoldKey(name)]
	return ok
}

// Add inserts name at the end. It reports false and leaves the Dict
// unchanged when name is already present.
func (d *Dict[V]) Add(name string, v V) bool {
	key := format.FoldKey(name)
	if _, ok := d.index[key]; ok {
		return false
	}
	if d.index == nil {
		d.index = make(map[string]int)
	}
	d.index[key] = len(d.keys)
	d.keys = append(d.keys, name)
	d.vals = append(d.vals, v)
	return true
}

// Set stores v under name, replacing an existing value in place or
// appending a new entry.
func (d *Dict[V]) Set(name string, v V) {
	if i, ok := d.index[format.FoldKey(name)]; ok {
		d.vals[i] = v
		return
	}
	d.Add(name, v)
}

// Delete removes name and reports whether it was present.
func (d *Dict[V]) Delete(name string) bool {
	i, ok := d.index[format.FoldKey(name)]
	if !ok {
		return false
	}
	d.keys = append(d.keys[:i], d.keys[i+1:]...)
	d.vals = append(d.vals[:i], d.vals[i+1:]...)
	delete(d.index, format.FoldKey(name))
	for j := i; j < len(d.keys); j++ {
		d.index[format.FoldKey(d.keys[j])] = j
	}
	return true
}

// Keys returns the names in insertion order.
func (d *Dict[V]) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// All iterates names and values in insertion order.
func (d *Dict[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for i, k := range d.keys {
			if !yield(k, d.vals[i]) {
				return
			}
		}
	}
}
