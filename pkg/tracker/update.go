package tracker

import (
	"encoding/json"
	"fmt"
)

// updateOp is the wire name of a field update variant.
type updateOp string

const (
	opAdd     updateOp = "add"
	opRemove  updateOp = "remove"
	opSet     updateOp = "set"
	opReplace updateOp = "replace"
	opClear   updateOp = "clear"
)

// ReplacePair swaps one value for another within a collection field.
type ReplacePair struct {
	Target      interface{} `json:"target"`
	Replacement interface{} `json:"replacement"`
}

// FieldUpdate is one partial-update instruction for a single field.
// Construct values with Add, Remove, Set, Replace, or Clear; the zero
// value is invalid and fails to encode.
type FieldUpdate struct {
	op     updateOp
	values []interface{}
	pairs  []ReplacePair
}

// Add appends values to a collection field.
func Add(values ...interface{}) FieldUpdate {
	return FieldUpdate{op: opAdd, values: values}
}

// Remove deletes values from a collection field.
func Remove(values ...interface{}) FieldUpdate {
	return FieldUpdate{op: opRemove, values: values}
}

// Set replaces the whole value of a field.
func Set(values ...interface{}) FieldUpdate {
	return FieldUpdate{op: opSet, values: values}
}

// Replace swaps individual values within a collection field.
func Replace(pairs ...ReplacePair) FieldUpdate {
	return FieldUpdate{op: opReplace, pairs: pairs}
}

// Clear empties a field. It encodes as JSON null.
func Clear() FieldUpdate {
	return FieldUpdate{op: opClear}
}

// MarshalJSON encodes the update in the wire format, e.g.
// {"add":["user1","user2"]}. Encoding is deterministic: each variant
// produces a single-key object, and Clear produces null.
func (u FieldUpdate) MarshalJSON() ([]byte, error) {
	switch u.op {
	case opClear:
		return []byte("null"), nil
	case opReplace:
		if len(u.pairs) == 0 {
			return nil, ErrReplacePairRequired
		}

		return json.Marshal(map[string][]ReplacePair{string(opReplace): u.pairs})
	case opAdd, opRemove, opSet:
		values := u.values
		if values == nil {
			// An empty list must stay a list: null is reserved for Clear.
			values = []interface{}{}
		}

		return json.Marshal(map[string][]interface{}{string(u.op): values})
	default:
		return nil, fmt.Errorf("%w: empty field update", ErrNoUpdates)
	}
}

// UpdateBuilder accumulates field updates for a PATCH request. Invalid
// combinations are detected as they are added and surfaced by Build, so
// nothing malformed ever reaches the wire.
type UpdateBuilder struct {
	fields map[string]interface{}
	err    error
}

// NewUpdateBuilder creates an empty update builder.
func NewUpdateBuilder() *UpdateBuilder {
	return &UpdateBuilder{fields: make(map[string]interface{})}
}

// Field records an update for a named field. Recording a second update
// for the same field is an error: one request carries at most one
// variant per field.
func (b *UpdateBuilder) Field(name string, update FieldUpdate) *UpdateBuilder {
	if b.err != nil {
		return b
	}

	if _, exists := b.fields[name]; exists {
		b.err = fmt.Errorf("%w: %s", ErrConflictingUpdate, name)

		return b
	}

	if update.op == "" {
		b.err = fmt.Errorf("%w: field %s", ErrNoUpdates, name)

		return b
	}

	if update.op == opReplace && len(update.pairs) == 0 {
		b.err = fmt.Errorf("%w: field %s", ErrReplacePairRequired, name)

		return b
	}

	b.fields[name] = update

	return b
}

// Value records a plain scalar assignment, used for fields like summary
// and description that take their new value directly.
func (b *UpdateBuilder) Value(name string, value interface{}) *UpdateBuilder {
	if b.err != nil {
		return b
	}

	if _, exists := b.fields[name]; exists {
		b.err = fmt.Errorf("%w: %s", ErrConflictingUpdate, name)

		return b
	}

	b.fields[name] = value

	return b
}

// Summary assigns a new summary.
func (b *UpdateBuilder) Summary(summary string) *UpdateBuilder {
	return b.Value("summary", summary)
}

// Description assigns a new description.
func (b *UpdateBuilder) Description(description string) *UpdateBuilder {
	return b.Value("description", description)
}

// Build returns the PATCH body. An empty builder is an error rather
// than an empty request.
func (b *UpdateBuilder) Build() (map[string]interface{}, error) {
	if b.err != nil {
		return nil, b.err
	}

	if len(b.fields) == 0 {
		return nil, ErrNoUpdates
	}

	return b.fields, nil
}
