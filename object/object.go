// Package object implements ember's heap-allocated values. Today the
// only variant is StringObject; the allocation facade exists so a
// future garbage collector can be dropped in without the compiler or
// VM ever calling the host allocator directly (spec §4.5).
package object

import (
	"fmt"

	"ember/value"
)

// Kind discriminates the variant of a HeapObject.
type Kind byte

const (
	KindString Kind = iota
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// HeapObject is the discriminated record every heap-allocated ember
// value satisfies. StringObject is currently the only implementation.
type HeapObject interface {
	Kind() Kind
	Print() string
	ObjectKind() string
}

// StringObject is an immutable, heap-allocated byte buffer. Content
// cannot change after construction; ember strings are not interned by
// default, so two StringObjects with identical content are distinct
// heap allocations that compare equal by content, not by identity.
type StringObject struct {
	bytes []byte
}

// Heap is the single allocation facade every heap object is created
// through (spec §4.5). It owns every StringObject it has produced for
// the lifetime of the interpreter; nothing is ever freed from it,
// mirroring the "no reclamation" contract of the covered core.
type Heap struct {
	allocated []*StringObject
}

// NewHeap returns an empty allocation facade.
func NewHeap() *Heap {
	return &Heap{}
}

// AllocateString copies s into a new heap-owned StringObject and
// returns a reference to it. The caller never holds raw bytes directly;
// every string value in the running program is a *StringObject minted
// here.
func (h *Heap) AllocateString(s string) *StringObject {
	obj := &StringObject{bytes: []byte(s)}
	h.allocated = append(h.allocated, obj)
	return obj
}

// Concat allocates a new StringObject holding a followed by b, in that
// order. VM's Add opcode relies on this order to preserve left-to-right
// concatenation (spec §4.4 "Evaluation order").
func (h *Heap) Concat(a, b *StringObject) *StringObject {
	buf := make([]byte, 0, len(a.bytes)+len(b.bytes))
	buf = append(buf, a.bytes...)
	buf = append(buf, b.bytes...)
	obj := &StringObject{bytes: buf}
	h.allocated = append(h.allocated, obj)
	return obj
}

// Len reports how many objects the heap has ever allocated. Exposed
// for tests and for a future collector to know how much live data it
// would need to trace.
func (h *Heap) Len() int { return len(h.allocated) }

func (s *StringObject) Kind() Kind { return KindString }

// Go returns the string's content as a native Go string.
func (s *StringObject) Go() string { return string(s.bytes) }

// Print renders the string the way the VM prints any value: the raw
// content, unquoted.
func (s *StringObject) Print() string { return string(s.bytes) }

// ObjectKind identifies this as a "string" heap object for
// value.Equal's tag-strict comparison across Object implementations.
func (s *StringObject) ObjectKind() string { return KindString.String() }

// EqualObject implements content equality for strings. The parameter
// is typed as value.Object, not a structurally equivalent literal, so
// that value.Equal's type assertion against value.Object actually
// matches this method.
func (s *StringObject) EqualObject(other value.Object) bool {
	o, ok := other.(*StringObject)
	if !ok {
		return false
	}
	return string(s.bytes) == string(o.bytes)
}

func (s *StringObject) String() string {
	return fmt.Sprintf("StringObject(%q)", string(s.bytes))
}
