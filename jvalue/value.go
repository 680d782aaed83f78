// Package jvalue implements the tagged JSON value model shared by the
// parser and serializer: a single type with six variants (null, bool,
// number, string, array, object), each a precondition-checked view over
// a disjoint payload, plus construction, inspection, container
// mutation, and structural equality.
//
// A Value's zero value is a valid Null with status Ok. Values constructed
// programmatically always carry status Ok; values returned by a parser
// carry Ok on success or one of jverr's failure statuses, with the
// variant forced to Null (the payload is undefined in that case).
package jvalue

import (
	"fmt"

	"github.com/bracez/json/jverr"
)

// Kind identifies which variant a Value currently holds.
type Kind int

const (
	// KindNull identifies the null value.
	KindNull Kind = iota
	// KindBool identifies a boolean value.
	KindBool
	// KindNumber identifies an IEEE 754 binary64 value.
	KindNumber
	// KindString identifies a UTF-8 byte-string value.
	KindString
	// KindArray identifies an ordered sequence of values.
	KindArray
	// KindObject identifies a string-keyed mapping of values.
	KindObject
)

var kindNames = [...]string{"null", "bool", "number", "string", "array", "object"}

// String returns the variant's name.
func (k Kind) String() string {
	if k < KindNull || k > KindObject {
		return "unknown"
	}
	return kindNames[k]
}

// member is one key/value pair of an Object, in the order its key was
// first added; overwriting a key's value keeps its position
// (iteration/serialization order is
// decided by the caller, not stored — see jvser, which sorts at
// serialization time).
type member struct {
	key string
	val Value
}

// Value is the tagged union described above. The zero Value is Null.
type Value struct {
	kind   Kind
	status jverr.Status

	b   bool
	n   float64
	s   string
	arr []Value
	obj []member
}

// ---- Constructors ----

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value from a float64.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Int returns a numeric value from an integer, widened to binary64.
func Int(n int64) Value { return Value{kind: KindNumber, n: float64(n)} }

// String returns a string value. s may contain arbitrary bytes,
// including embedded NUL; the parser guarantees valid UTF-8 for values
// it produces, but this constructor trusts the caller.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns an array value containing a copy of elems, in order.
func Array(elems ...Value) Value {
	v := Value{kind: KindArray}
	if len(elems) > 0 {
		v.arr = append([]Value(nil), elems...)
	}
	return v
}

// Object returns an object value built from the given key/value pairs,
// applied in order (later duplicate keys overwrite earlier ones, same
// as the parser's last-wins rule).
func Object(pairs ...KV) Value {
	v := Value{kind: KindObject}
	for _, p := range pairs {
		v.Set(p.Key, p.Value)
	}
	return v
}

// KV is one key/value pair passed to Object.
type KV struct {
	Key   string
	Value Value
}

// errorValue constructs the Null-tagged, non-Ok value a parser returns
// on failure.
func errorValue(status jverr.Status) Value {
	return Value{kind: KindNull, status: status}
}

// ErrorValue is exported for jvparse: it builds the Null/non-Ok Value a
// failed parse produces.
func ErrorValue(status jverr.Status) Value {
	return errorValue(status)
}

// ---- Inspection ----

// Kind returns the variant currently held.
func (v Value) Kind() Kind { return v.kind }

// Status returns the parse status. Ok for all programmatically
// constructed values and for values successfully parsed.
func (v Value) Status() jverr.Status { return v.status }

// IsNull, IsBool, IsNumber, IsString, IsArray, IsObject are the
// per-variant predicates.
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsString() bool { return v.kind == KindString }
func (v Value) IsArray() bool  { return v.kind == KindArray }
func (v Value) IsObject() bool { return v.kind == KindObject }

func (v Value) requireKind(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("jvalue: value is %s, not %s", v.kind, k))
	}
}

// ---- Payload access (precondition-checked; panics on variant mismatch) ----

// Bool returns the boolean payload. Panics if Kind() != KindBool.
func (v Value) Bool() bool {
	v.requireKind(KindBool)
	return v.b
}

// Number returns the numeric payload. Panics if Kind() != KindNumber.
func (v Value) Number() float64 {
	v.requireKind(KindNumber)
	return v.n
}

// Str returns the string payload. Panics if Kind() != KindString.
//
// Named Str rather than String to avoid accidentally satisfying
// fmt.Stringer: a Value that is not currently a string would then panic
// whenever something tried to print it with %v or %s.
func (v Value) Str() string {
	v.requireKind(KindString)
	return v.s
}

// Len returns the number of elements (Array) or members (Object).
// Panics for any other variant.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj)
	default:
		panic(fmt.Sprintf("jvalue: value is %s, not array or object", v.kind))
	}
}

// ---- Array operations ----

// At returns the element at index i. Panics if Kind() != KindArray or i
// is out of range.
func (v Value) At(i int) Value {
	v.requireKind(KindArray)
	return v.arr[i]
}

// SetAt overwrites the element at index i. Panics if Kind() != KindArray
// or i is out of range.
func (v *Value) SetAt(i int, elem Value) {
	v.requireKind(KindArray)
	v.arr[i] = elem
}

// PushBack appends elem to the array. Panics if Kind() != KindArray.
func (v *Value) PushBack(elem Value) {
	v.requireKind(KindArray)
	v.arr = append(v.arr, elem)
}

// PopBack removes and returns the last element. Panics if Kind() !=
// KindArray or the array is empty.
func (v *Value) PopBack() Value {
	v.requireKind(KindArray)
	n := len(v.arr)
	last := v.arr[n-1]
	v.arr = v.arr[:n-1]
	return last
}

// InsertBefore inserts elem before index i (i == Len() appends). Panics
// if Kind() != KindArray or i is out of [0, Len()] range.
func (v *Value) InsertBefore(i int, elem Value) {
	v.requireKind(KindArray)
	v.arr = append(v.arr, Value{})
	copy(v.arr[i+1:], v.arr[i:])
	v.arr[i] = elem
}

// EraseAt removes the element at index i. Panics if Kind() != KindArray
// or i is out of range.
func (v *Value) EraseAt(i int) {
	v.requireKind(KindArray)
	v.arr = append(v.arr[:i], v.arr[i+1:]...)
}

// Clear empties an array or object in place. Panics for any other
// variant.
func (v *Value) Clear() {
	switch v.kind {
	case KindArray:
		v.arr = nil
	case KindObject:
		v.obj = nil
	default:
		panic(fmt.Sprintf("jvalue: value is %s, not array or object", v.kind))
	}
}

// Elements returns the array's elements. The returned slice aliases the
// value's storage; mutate it through the Value's methods instead of
// directly when possible. Panics if Kind() != KindArray.
func (v Value) Elements() []Value {
	v.requireKind(KindArray)
	return v.arr
}

// ---- Object operations ----

func (v *Value) indexOf(key string) int {
	for i := range v.obj {
		if v.obj[i].key == key {
			return i
		}
	}
	return -1
}

// Get returns the value mapped to key. Panics if Kind() != KindObject
// or key is not present (per spec.md §4.1, reading a missing key is a
// precondition violation; use Find to test for presence first).
func (v Value) Get(key string) Value {
	v.requireKind(KindObject)
	for i := range v.obj {
		if v.obj[i].key == key {
			return v.obj[i].val
		}
	}
	panic(fmt.Sprintf("jvalue: object has no member %q", key))
}

// Set creates or overwrites the member named key. Panics if Kind() !=
// KindObject.
func (v *Value) Set(key string, val Value) {
	v.requireKind(KindObject)
	if i := v.indexOf(key); i >= 0 {
		v.obj[i].val = val
		return
	}
	v.obj = append(v.obj, member{key: key, val: val})
}

// Find reports whether key is present and, if so, its value. Panics if
// Kind() != KindObject.
func (v Value) Find(key string) (Value, bool) {
	v.requireKind(KindObject)
	if i := v.indexOf(key); i >= 0 {
		return v.obj[i].val, true
	}
	return Value{}, false
}

// Erase removes the member named key, if present. Panics if Kind() !=
// KindObject.
func (v *Value) Erase(key string) {
	v.requireKind(KindObject)
	if i := v.indexOf(key); i >= 0 {
		v.obj = append(v.obj[:i], v.obj[i+1:]...)
	}
}

// Keys returns the object's member keys, in the order each key was
// first added (not sorted — jvser sorts at serialization time per spec.md §9).
func (v Value) Keys() []string {
	v.requireKind(KindObject)
	keys := make([]string, len(v.obj))
	for i := range v.obj {
		keys[i] = v.obj[i].key
	}
	return keys
}

// Reset releases the current payload and turns v into Null with status
// Ok, mirroring the original implementation's "re-parse into an
// existing handle" lifecycle (see SPEC_FULL.md §5).
func (v *Value) Reset() {
	*v = Value{}
}

// ---- Equality ----

// Equal reports whether v and other are structurally equal per
// spec.md §4.1: numbers by IEEE equality, strings byte-wise, arrays by
// length then elementwise, objects by key-set then valuewise
// (insertion order irrelevant).
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindArray:
		return equalArrays(v.arr, other.arr)
	case KindObject:
		return equalObjects(v.obj, other.obj)
	default:
		return false
	}
}

func equalArrays(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func equalObjects(a, b []member) bool {
	if len(a) != len(b) {
		return false
	}
	bIdx := make(map[string]int, len(b))
	for i := range b {
		bIdx[b[i].key] = i
	}
	for i := range a {
		j, ok := bIdx[a[i].key]
		if !ok {
			return false
		}
		if !a[i].val.Equal(b[j].val) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		cp := make([]Value, len(v.arr))
		for i := range v.arr {
			cp[i] = v.arr[i].Clone()
		}
		return Value{kind: KindArray, arr: cp, status: v.status}
	case KindObject:
		cp := make([]member, len(v.obj))
		for i := range v.obj {
			cp[i] = member{key: v.obj[i].key, val: v.obj[i].val.Clone()}
		}
		return Value{kind: KindObject, obj: cp, status: v.status}
	default:
		return v
	}
}
