package engine

import "fmt"

// IndexEnv maps free index names to the concrete set member they are bound
// to during one equation instance's compilation. Bindings are transient:
// indexed sums and products push a binding for their loop index and remove
// it again before returning, so nothing leaks into sibling terms or into the
// caller's environment.
type IndexEnv struct {
	bindings map[string]string
}

// NewIndexEnv returns an empty environment.
func NewIndexEnv() *IndexEnv {
	return &IndexEnv{bindings: make(map[string]string)}
}

// Bind installs or overwrites a binding.
func (e *IndexEnv) Bind(name, value string) {
	e.bindings[name] = value
}

// Resolve returns the value bound to name, or ErrUnboundIndex.
func (e *IndexEnv) Resolve(name string) (string, error) {
	v, ok := e.bindings[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnboundIndex, name)
	}
	return v, nil
}

// Unbind removes a binding. Removing an absent binding is a no-op.
func (e *IndexEnv) Unbind(name string) {
	delete(e.bindings, name)
}

// Len returns the number of live bindings. Used by tests to assert that
// loop-index bindings were cleaned up.
func (e *IndexEnv) Len() int {
	return len(e.bindings)
}
