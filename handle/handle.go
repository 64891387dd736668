// Package handle provides single-owner wrappers around foreign resource values.
//
// A Handle owns at most one value at a time. The Policy it is parameterized by
// names the "nothing owned" sentinel and the operation that releases a value.
// Handles must not be copied after first use; ownership moves only through
// Move, MoveFrom, Detach and Swap.
package handle

import "github.com/shrek82/jlite/internal/assert"

// Policy describes one kind of foreign resource.
type Policy[T comparable] interface {
	// Invalid returns the sentinel meaning "no resource".
	Invalid() T
	// Close releases value. It is never called with the sentinel.
	Close(value T) error
}

// noCopy lets go vet's copylocks check flag accidental copies of a Handle.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Handle owns one value of type T released through P.
//
// The zero Handle is empty when P.Invalid returns the zero value of T, which
// holds for every pointer-backed policy in this module.
type Handle[T comparable, P Policy[T]] struct {
	_      noCopy
	policy P
	value  T
}

// New returns a handle taking ownership of value. Passing the sentinel yields
// an empty handle.
func New[T comparable, P Policy[T]](policy P, value T) *Handle[T, P] {
	return &Handle[T, P]{policy: policy, value: value}
}

// Empty returns a handle owning nothing.
func Empty[T comparable, P Policy[T]](policy P) *Handle[T, P] {
	return New(policy, policy.Invalid())
}

// Init sets the policy of a zero Handle embedded by value and installs value.
// The handle must not own anything yet.
func (h *Handle[T, P]) Init(policy P, value T) {
	assert.That(!h.Valid(), "handle initialized while owning a value")
	h.policy = policy
	h.value = value
}

// Valid reports whether the handle owns a value.
func (h *Handle[T, P]) Valid() bool {
	return h.value != h.policy.Invalid()
}

// Get returns the owned value without giving up ownership.
func (h *Handle[T, P]) Get() T {
	return h.value
}

// SetSlot returns the address of the internal storage so that a factory can
// write a freshly created value into it. The handle must be empty.
func (h *Handle[T, P]) SetSlot() *T {
	assert.That(!h.Valid(), "handle slot requested while owning a value")
	return &h.value
}

// Detach gives up ownership of the value and returns it. The caller is now
// responsible for releasing it.
func (h *Handle[T, P]) Detach() T {
	value := h.value
	h.value = h.policy.Invalid()
	return value
}

// Reset releases the owned value, unless it equals value, and takes ownership
// of value. It reports whether the handle owns something afterwards.
func (h *Handle[T, P]) Reset(value T) bool {
	if h.value != value {
		h.close()
		h.value = value
	}
	return h.Valid()
}

// Close releases the owned value, if any. Calling Close on an empty handle
// does nothing.
func (h *Handle[T, P]) Close() {
	h.Reset(h.policy.Invalid())
}

// Swap exchanges the owned values of h and other without releasing either.
func (h *Handle[T, P]) Swap(other *Handle[T, P]) {
	h.value, other.value = other.value, h.value
}

// Move transfers ownership into a new handle and leaves h empty.
func (h *Handle[T, P]) Move() *Handle[T, P] {
	return New(h.policy, h.Detach())
}

// MoveFrom releases what h owns and takes over the value owned by other,
// leaving other empty. Moving a handle into itself is a no-op.
func (h *Handle[T, P]) MoveFrom(other *Handle[T, P]) {
	if h == other {
		return
	}
	h.Reset(other.Detach())
}

// Equal reports whether both handles hold the same raw value.
func (h *Handle[T, P]) Equal(other *Handle[T, P]) bool {
	return h.value == other.value
}

func (h *Handle[T, P]) close() {
	if !h.Valid() {
		return
	}
	assert.NoError(h.policy.Close(h.value), "close handle")
}

// Swap exchanges the values owned by left and right.
func Swap[T comparable, P Policy[T]](left, right *Handle[T, P]) {
	left.Swap(right)
}
