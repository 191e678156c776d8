package waypoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
)

// Value is one of the serialization-safe property variants:
// String, Number, Bool, Map or List.
type Value interface {
	// Interface returns the plain Go form used in property lists.
	Interface() any
	isValue()
}

type (
	String string
	Number float64
	Bool   bool
	Map    map[string]Value
	List   []Value
)

func (String) isValue() {}
func (Number) isValue() {}
func (Bool) isValue()   {}
func (Map) isValue()    {}
func (List) isValue()   {}

// Interface returns v as a string.
func (v String) Interface() any { return string(v) }

// Interface returns v as a float64.
func (v Number) Interface() any { return float64(v) }

// Interface returns v as a bool.
func (v Bool) Interface() any { return bool(v) }

// Interface returns a deep map[string]any copy of v. nil entries are left out.
func (v Map) Interface() any {
	out := make(map[string]any, len(v))
	for k, e := range v {
		if e != nil {
			out[k] = e.Interface()
		}
	}
	return out
}

// Interface returns a deep []any copy of v. nil elements are left out.
func (v List) Interface() any {
	out := make([]any, 0, len(v))
	for _, e := range v {
		if e != nil {
			out = append(out, e.Interface())
		}
	}
	return out
}

// ValueOf converts a decoded JSON or YAML value into a Value.
// nil, non-finite numbers and any other type are rejected.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case Value:
		return v, nil
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case float64:
		return number(v)
	case float32:
		return number(float64(v))
	case int:
		return Number(v), nil
	case int8:
		return Number(v), nil
	case int16:
		return Number(v), nil
	case int32:
		return Number(v), nil
	case int64:
		return Number(v), nil
	case uint:
		return Number(v), nil
	case uint8:
		return Number(v), nil
	case uint16:
		return Number(v), nil
	case uint32:
		return Number(v), nil
	case uint64:
		return Number(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %q: %w", v, err)
		}
		return number(f)
	case map[string]any:
		m := make(Map, len(v))
		for k, e := range v {
			ev, err := ValueOf(e)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			m[k] = ev
		}
		return m, nil
	case []any:
		l := make(List, len(v))
		for i, e := range v {
			ev, err := ValueOf(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			l[i] = ev
		}
		return l, nil
	case []string:
		l := make(List, len(v))
		for i, e := range v {
			l[i] = String(e)
		}
		return l, nil
	case nil:
		return nil, errors.New("null value")
	default:
		return nil, fmt.Errorf("unsupported value type %T", x)
	}
}

func number(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("number %v is not finite", f)
	}
	return Number(f), nil
}

// Equal reports deep equality of two values.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Map:
		bv, ok := b.(Map)
		if !ok || av.size() != bv.size() {
			return false
		}
		for k, e := range av {
			if e != nil && !Equal(e, bv[k]) {
				return false
			}
		}
		return true
	case List:
		bv, ok := b.(List)
		if !ok {
			return false
		}
		av, bv = av.compact(), bv.compact()
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}

// size counts the non-nil entries.
func (v Map) size() int {
	n := 0
	for _, e := range v {
		if e != nil {
			n++
		}
	}
	return n
}

func (v List) compact() List {
	out := make(List, 0, len(v))
	for _, e := range v {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Properties is the open-ended extension data attached to a waypoint.
// A nil Value is treated as an absent entry: it is not serialized and does
// not affect equality.
type Properties map[string]Value

// PropertiesOf converts a decoded map into Properties.
func PropertiesOf(m map[string]any) (Properties, error) {
	props := make(Properties, len(m))
	for k, x := range m {
		v, err := ValueOf(x)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", k, err)
		}
		props[k] = v
	}
	return props, nil
}

// Text returns the property as text when it holds a String.
func (p Properties) Text(key string) (string, bool) {
	s, ok := p[key].(String)
	return string(s), ok
}

// Keys returns the property names in sorted order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether p and o hold the same keys with equal values.
// nil and empty are equal.
func (p Properties) Equal(o Properties) bool {
	return Equal(Map(p), Map(o))
}

// Clone returns a deep copy of p.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v Value) Value {
	switch vv := v.(type) {
	case Map:
		m := make(Map, len(vv))
		for k, e := range vv {
			m[k] = cloneValue(e)
		}
		return m
	case List:
		l := make(List, len(vv))
		for i, e := range vv {
			l[i] = cloneValue(e)
		}
		return l
	default:
		return v
	}
}

func (p Properties) toMap() map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		if v != nil {
			out[k] = v.Interface()
		}
	}
	return out
}
