// Package scratch implements the reusable, pre-sized memory arena handed to every
// transform, product and rotation of the kernel.
//
// Each operation exposes an estimator returning a [Requirement]. The caller sizes
// its [Buffers] to at least [Requirement.UnalignedBytesRequired] once, and then
// runs the operation any number of times without heap allocations: every temporary
// slice is carved out of the arena with [Take].
package scratch

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/tuneinsight/torus/utils"
)

// Alignment is the byte alignment of every slice taken from a [Stack].
const Alignment = 64

// ErrScratchTooSmall is returned when a [Stack] cannot satisfy the requirement of an operation.
var ErrScratchTooSmall = errors.New("scratch buffer too small")

// Element is the set of types that can be taken from a [Stack].
// Only pointer-free numeric types are allowed since the arena is backed by a []byte.
type Element interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int | ~int32 | ~int64 | ~float64 | ~complex128
}

// Requirement is the amount of memory an operation borrows from a [Stack].
// Size already includes the per-take alignment padding, only the alignment
// of the very first take is not accounted for.
type Requirement struct {
	Size  int
	Align int
}

// Empty returns the requirement of an operation that borrows nothing.
func Empty() Requirement {
	return Requirement{Align: Alignment}
}

// ArrayOf returns the requirement of a single slice of n elements of type E.
func ArrayOf[E Element](n int) Requirement {
	var e E
	return Requirement{Size: roundUp(n*int(unsafe.Sizeof(e)), Alignment), Align: Alignment}
}

// And returns the requirement of holding both r and other at the same time.
func (r Requirement) And(other Requirement) Requirement {
	return Requirement{Size: r.Size + other.Size, Align: utils.Max(r.Align, other.Align)}
}

// Or returns the requirement of holding either r or other, but never both at the same time.
func (r Requirement) Or(other Requirement) Requirement {
	return Requirement{Size: utils.Max(r.Size, other.Size), Align: utils.Max(r.Align, other.Align)}
}

// UnalignedBytesRequired returns the size in bytes a buffer with no particular
// alignment must have to satisfy the requirement.
func (r Requirement) UnalignedBytesRequired() int {
	if r.Align <= 1 {
		return r.Size
	}
	return r.Size + r.Align - 1
}

// Stack is a bump allocator over a caller-owned byte buffer.
// A Stack must not be shared between concurrently running operations.
type Stack struct {
	buf  []byte
	off  int
	peak int
}

// NewStack returns a new [Stack] over buf.
func NewStack(buf []byte) *Stack {
	return &Stack{buf: buf}
}

// Check returns an error wrapping [ErrScratchTooSmall] if the remaining space
// of the stack cannot hold req.
func (s *Stack) Check(req Requirement) (err error) {
	have := len(s.buf) - s.off
	want := s.padding() + req.Size
	if have < want {
		return fmt.Errorf("%w: have %d bytes, want %d bytes", ErrScratchTooSmall, have, want)
	}
	return
}

// Take returns a slice of n elements of type E carved out of the stack.
// The content of the slice is undefined.
// The method panics if the stack is exhausted, which cannot happen after a
// successful [Stack.Check] against the requirement of the running operation.
func Take[E Element](s *Stack, n int) []E {
	if n == 0 {
		return nil
	}

	var e E
	start := s.off + s.padding()
	end := start + n*int(unsafe.Sizeof(e))

	if end > len(s.buf) {
		panic(fmt.Errorf("%w: cannot take %d bytes at offset %d from %d bytes", ErrScratchTooSmall, end-start, start, len(s.buf)))
	}

	s.off = end
	if end > s.peak {
		s.peak = end
	}

	return unsafe.Slice((*E)(unsafe.Pointer(&s.buf[start])), n)
}

// Mark returns the current position of the stack, to be used with [Stack.Release].
func (s *Stack) Mark() int {
	return s.off
}

// Release returns to the stack all the memory taken since mark.
func (s *Stack) Release(mark int) {
	if mark < 0 || mark > s.off {
		panic(fmt.Errorf("invalid mark %d: stack offset is %d", mark, s.off))
	}
	s.off = mark
}

// Reset returns all the memory of the stack.
func (s *Stack) Reset() {
	s.off = 0
}

// Peak returns the largest number of bytes, padding included, the stack has handed out.
func (s *Stack) Peak() int {
	return s.peak
}

// Len returns the size in bytes of the underlying buffer.
func (s *Stack) Len() int {
	return len(s.buf)
}

func (s *Stack) padding() int {
	if len(s.buf) == 0 {
		return 0
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(s.buf))) + uintptr(s.off)
	return int((Alignment - addr%Alignment) % Alignment)
}

func roundUp(n, a int) int {
	return (n + a - 1) / a * a
}

// Buffers is a growable arena owning its memory.
// Call [Buffers.Stack] to obtain a fresh [Stack] over the whole arena.
type Buffers struct {
	buf   []byte
	stack Stack
}

// NewBuffers allocates a new [Buffers] of the given size in bytes.
func NewBuffers(size int) *Buffers {
	return &Buffers{buf: make([]byte, size)}
}

// NewBuffersFor allocates a new [Buffers] large enough to satisfy req.
func NewBuffersFor(req Requirement) *Buffers {
	return NewBuffers(req.UnalignedBytesRequired())
}

// Resize grows the arena to at least size bytes. It never shrinks it.
func (b *Buffers) Resize(size int) {
	if size > len(b.buf) {
		b.buf = make([]byte, size)
	}
}

// Len returns the size in bytes of the arena.
func (b *Buffers) Len() int {
	return len(b.buf)
}

// Stack resets and returns the stack of the arena.
func (b *Buffers) Stack() *Stack {
	b.stack = Stack{buf: b.buf}
	return &b.stack
}
