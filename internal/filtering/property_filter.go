package filtering

import (
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"
)

// ValueKind is the declared type of a desired property value
type ValueKind int

// Supported property value kinds
const (
	KindString ValueKind = iota
	KindUnsigned
	KindSigned
	KindFloat
	KindBool
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindUnsigned:
		return "unsigned"
	case KindSigned:
		return "signed"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	default:
		return "unknown"
	}
}

// PropertyValue is one typed desired value
type PropertyValue struct {
	Kind  ValueKind
	Str   string
	Uint  uint64
	Int   int64
	Float float64
	Bool  bool
}

// NewPropertyValue types a scalar decoded from YAML or JSON. Non-negative integers
// are unsigned and negative integers are signed.
func NewPropertyValue(v any) (PropertyValue, error) {
	switch val := v.(type) {
	case string:
		return PropertyValue{Kind: KindString, Str: val}, nil
	case bool:
		return PropertyValue{Kind: KindBool, Bool: val}, nil
	case int:
		return intValue(int64(val)), nil
	case int32:
		return intValue(int64(val)), nil
	case int64:
		return intValue(val), nil
	case uint:
		return PropertyValue{Kind: KindUnsigned, Uint: uint64(val)}, nil
	case uint32:
		return PropertyValue{Kind: KindUnsigned, Uint: uint64(val)}, nil
	case uint64:
		return PropertyValue{Kind: KindUnsigned, Uint: val}, nil
	case float32:
		return PropertyValue{Kind: KindFloat, Float: float64(val)}, nil
	case float64:
		return PropertyValue{Kind: KindFloat, Float: val}, nil
	default:
		return PropertyValue{}, fmt.Errorf("data type %T is not supported for filtering", v)
	}
}

func intValue(v int64) PropertyValue {
	if v < 0 {
		return PropertyValue{Kind: KindSigned, Int: v}
	}
	return PropertyValue{Kind: KindUnsigned, Uint: uint64(v)}
}

// Match compares an item property with the desired value using the desired kind
func (p PropertyValue) Match(v gjson.Result) bool {
	switch p.Kind {
	case KindString:
		return v.Type == gjson.String && v.Str == p.Str
	case KindBool:
		return (v.Type == gjson.True || v.Type == gjson.False) && v.Bool() == p.Bool
	case KindFloat:
		return v.Type == gjson.Number && v.Num == p.Float
	case KindUnsigned:
		if v.Type != gjson.Number {
			return false
		}
		if u, err := strconv.ParseUint(v.Raw, 10, 64); err == nil {
			return u == p.Uint
		}
		return isIntegral(v.Num) && v.Num >= 0 && v.Num == float64(p.Uint)
	case KindSigned:
		if v.Type != gjson.Number {
			return false
		}
		if i, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
			return i == p.Int
		}
		return isIntegral(v.Num) && v.Num == float64(p.Int)
	default:
		return false
	}
}

func (p PropertyValue) String() string {
	switch p.Kind {
	case KindString:
		return strconv.Quote(p.Str)
	case KindUnsigned:
		return strconv.FormatUint(p.Uint, 10)
	case KindSigned:
		return strconv.FormatInt(p.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(p.Float, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(p.Bool)
	default:
		return "?"
	}
}

func isIntegral(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
}

// PropertyFilter constrains one property key to any of a set of values
type PropertyFilter struct {
	Key    string
	Values []PropertyValue
}

// NewPropertyFilter types raw, which is a scalar or a list of scalars
func NewPropertyFilter(key string, raw any) (PropertyFilter, error) {
	pf := PropertyFilter{Key: key}

	list, isList := raw.([]any)
	if !isList {
		v, err := NewPropertyValue(raw)
		if err != nil {
			return PropertyFilter{}, err
		}
		pf.Values = []PropertyValue{v}
		return pf, nil
	}

	if len(list) == 0 {
		return PropertyFilter{}, fmt.Errorf("empty list of values")
	}
	for i, elem := range list {
		v, err := NewPropertyValue(elem)
		if err != nil {
			return PropertyFilter{}, fmt.Errorf("element %d: %w", i, err)
		}
		pf.Values = append(pf.Values, v)
	}
	return pf, nil
}

// Match reports whether the item property value matches any desired value
func (f PropertyFilter) Match(v gjson.Result) bool {
	if !v.Exists() {
		return false
	}
	for _, want := range f.Values {
		if want.Match(v) {
			return true
		}
	}
	return false
}

// MatchProperties evaluates every property constraint against the item properties
// object. lookup returns the value of one key in that object.
// Returns (matches bool, reason string)
func (s *Spec) MatchProperties(lookup func(key string) gjson.Result) (bool, string) {
	for _, f := range s.properties {
		v := lookup(f.Key)
		if !v.Exists() {
			return false, fmt.Sprintf("property %q is missing", f.Key)
		}
		if !f.Match(v) {
			return false, fmt.Sprintf("property %q value %s matches none of %v", f.Key, v.Raw, f.Values)
		}
	}
	return true, "all properties matched"
}
