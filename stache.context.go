package stache

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// Kind classifies a context value.
type Kind int

// Value kinds
const (
	KindAbsent Kind = iota
	KindScalar
	KindSingle
	KindSequence
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return KindNameScalar
	case KindSingle:
		return KindNameSingle
	case KindSequence:
		return KindNameSequence
	default:
		return KindNameAbsent
	}
}

// Value is a context value classified once, at construction:
// Absent, Scalar(string), Single(Context) or Sequence([]Context).
// The zero Value is Absent.
type Value struct {
	kind   Kind
	str    string
	truthy bool
	single Context
	items  []Context
}

// Absent returns the value of a missing or nil entry.
func Absent() Value {
	return Value{}
}

// Scalar returns a string value; it is truthy when non-empty.
func Scalar(s string) Value {
	return Value{kind: KindScalar, str: s, truthy: s != ""}
}

// ScalarWithTruth returns a string value with explicit truthiness, used for
// values whose string form differs from their truth (false, 0).
func ScalarWithTruth(s string, truthy bool) Value {
	return Value{kind: KindScalar, str: s, truthy: truthy}
}

// Single returns a mapping value; it is truthy when non-empty.
func Single(c Context) Value {
	return Value{kind: KindSingle, single: c, truthy: len(c) > 0}
}

// Sequence returns a list of item contexts; it is truthy when non-empty.
func Sequence(items ...Context) Value {
	return Value{kind: KindSequence, items: items, truthy: len(items) > 0}
}

// Kind returns the value kind.
func (v Value) Kind() Kind {
	return v.kind
}

// Truthy reports whether a section over this value renders its body.
func (v Value) Truthy() bool {
	return v.truthy
}

// String returns the substitution form. Only scalars have one; every other
// kind renders as the empty string.
func (v Value) String() string {
	if v.kind == KindScalar {
		return v.str
	}
	return ""
}

// Items returns the item contexts of a sequence.
func (v Value) Items() []Context {
	return v.items
}

// Mapping returns the context held by a single value.
func (v Value) Mapping() Context {
	return v.single
}

// Context maps names to classified values. Lookup is single-level.
type Context map[string]Value

// Get returns the value for name, or Absent when missing.
func (c Context) Get(name string) Value {
	if c == nil {
		return Absent()
	}
	return c[name]
}

// Names returns the context keys in sorted order.
func (c Context) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// With returns a copy of c with name set to v.
func (c Context) With(name string, v Value) Context {
	out := make(Context, len(c)+1)
	for k, existing := range c {
		out[k] = existing
	}
	out[name] = v
	return out
}

// NewContext classifies every entry of data.
func NewContext(data map[string]any) Context {
	return newContext(data, 0)
}

func newContext(data map[string]any, depth int) Context {
	ctx := make(Context, len(data))
	for k, v := range data {
		ctx[k] = valueOf(v, depth)
	}
	return ctx
}

// ValueOf classifies a Go value:
//   - nil -> Absent
//   - string, []byte -> Scalar, truthy when non-empty
//   - bool -> Scalar "true"/"false"
//   - numbers -> Scalar in decimal form, truthy when non-zero
//   - string-keyed maps and Context -> Single
//   - slices and arrays -> Sequence; scalar items are exposed as "."
//   - anything else -> Scalar via fmt.Sprint, truthy
//
// Typed nil pointers are Absent. Nesting deeper than MaxContextDepth is
// Absent, so cyclic data terminates.
func ValueOf(v any) Value {
	return valueOf(v, 0)
}

func valueOf(v any, depth int) Value {
	if depth > MaxContextDepth {
		return Absent()
	}
	if rv := reflect.ValueOf(v); (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return Absent()
	}

	switch t := v.(type) {
	case nil:
		return Absent()
	case Value:
		return t
	case Context:
		return Single(t)
	case string:
		return Scalar(t)
	case []byte:
		return Scalar(string(t))
	case bool:
		if t {
			return ScalarWithTruth(StrTrue, true)
		}
		return ScalarWithTruth(StrFalse, false)
	case int:
		return ScalarWithTruth(strconv.Itoa(t), t != 0)
	case int64:
		return ScalarWithTruth(strconv.FormatInt(t, 10), t != 0)
	case float64:
		return ScalarWithTruth(strconv.FormatFloat(t, 'f', -1, 64), t != 0)
	case map[string]any:
		return Single(newContext(t, depth+1))
	case []map[string]any:
		items := make([]Context, 0, len(t))
		for _, item := range t {
			items = append(items, newContext(item, depth+1))
		}
		return Sequence(items...)
	case []Context:
		return Sequence(t...)
	case fmt.Stringer:
		return Scalar(t.String())
	}
	return valueOfReflect(reflect.ValueOf(v), depth)
}

// valueOfReflect handles the kinds not covered by the type switch.
func valueOfReflect(rv reflect.Value, depth int) Value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Absent()
		}
		return valueOf(rv.Elem().Interface(), depth+1)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		return ScalarWithTruth(strconv.FormatInt(n, 10), n != 0)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n := rv.Uint()
		return ScalarWithTruth(strconv.FormatUint(n, 10), n != 0)
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return ScalarWithTruth(strconv.FormatFloat(f, 'f', -1, rv.Type().Bits()), f != 0)
	case reflect.String:
		return Scalar(rv.String())
	case reflect.Bool:
		return valueOf(rv.Bool(), depth)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		ctx := make(Context, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			ctx[iter.Key().String()] = valueOf(iter.Value().Interface(), depth+1)
		}
		return Single(ctx)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Sequence()
		}
		items := make([]Context, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items = append(items, itemContext(valueOf(rv.Index(i).Interface(), depth+1)))
		}
		return Sequence(items...)
	}
	return Scalar(fmt.Sprint(rv.Interface()))
}

// itemContext turns a sequence element into the context its iteration
// renders against.
func itemContext(v Value) Context {
	if v.kind == KindSingle {
		if v.single == nil {
			return Context{}
		}
		return v.single
	}
	return Context{ImplicitIteratorName: v}
}
