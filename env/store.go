// Package env provides the shell's variable store: a fixed table of
// name/value pairs with hard limits on slot count, name length, and value
// length. Nothing here touches the process environment.
package env

import "errors"

// Store capacity violations. Callers distinguish them so each failure can
// be reported precisely.
var (
	ErrStoreFull    = errors.New("env: variable store full")
	ErrNameTooLong  = errors.New("env: variable name too long")
	ErrValueTooLong = errors.New("env: variable value too long")
	ErrNotFound     = errors.New("env: variable not found")
)

// Variable is one name/value pair.
type Variable struct {
	Name  string
	Value string
}

// Store holds shell variables in a bounded table. Entries keep their
// insertion order; setting an existing name updates it in place.
type Store struct {
	vars     []Variable
	maxVars  int
	maxName  int
	maxValue int
}

// NewStore creates a store limited to maxVars entries, with per-entry name
// and value length caps.
func NewStore(maxVars, maxName, maxValue int) *Store {
	return &Store{
		vars:     make([]Variable, 0, maxVars),
		maxVars:  maxVars,
		maxName:  maxName,
		maxValue: maxValue,
	}
}

// Set creates or updates a variable. Updating an existing name never fails
// on slot exhaustion, only on the value cap.
func (s *Store) Set(name, value string) error {
	if len(name) > s.maxName {
		return ErrNameTooLong
	}
	if len(value) > s.maxValue {
		return ErrValueTooLong
	}
	for i := range s.vars {
		if s.vars[i].Name == name {
			s.vars[i].Value = value
			return nil
		}
	}
	if len(s.vars) >= s.maxVars {
		return ErrStoreFull
	}
	s.vars = append(s.vars, Variable{Name: name, Value: value})
	return nil
}

// Get looks up a variable by exact name.
func (s *Store) Get(name string) (string, bool) {
	for i := range s.vars {
		if s.vars[i].Name == name {
			return s.vars[i].Value, true
		}
	}
	return "", false
}

// Unset removes a variable; it reports ErrNotFound for unknown names.
func (s *Store) Unset(name string) error {
	for i := range s.vars {
		if s.vars[i].Name == name {
			s.vars = append(s.vars[:i], s.vars[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// List returns the variables in table order.
func (s *Store) List() []Variable {
	out := make([]Variable, len(s.vars))
	copy(out, s.vars)
	return out
}

// Len returns the number of stored variables.
func (s *Store) Len() int {
	return len(s.vars)
}

// Cap returns the slot limit.
func (s *Store) Cap() int {
	return s.maxVars
}
