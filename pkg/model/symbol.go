package model

import (
	"fmt"
	"reflect"
	"strings"
)

// Symbol is an interned-style name used as an enumerated value.
type Symbol string

func (s Symbol) String() string { return string(s) }

// Identifier returns s with hyphens replaced by underscores, suitable as a
// member name. The stored value keeps its hyphens.
func (s Symbol) Identifier() string {
	return strings.ReplaceAll(string(s), "-", "_")
}

// ToSymbol converts v to a Symbol: Symbols and strings verbatim, []byte as
// text, fmt.Stringer through String, anything else through fmt.Sprint.
func ToSymbol(v any) Symbol {
	switch x := v.(type) {
	case Symbol:
		return x
	case string:
		return Symbol(x)
	case []byte:
		return Symbol(x)
	case fmt.Stringer:
		return Symbol(x.String())
	default:
		return Symbol(fmt.Sprint(x))
	}
}

// ToSymbols flattens v one level into a sequence, drops nil entries and
// converts the rest with ToSymbol. nil yields an empty, non-nil slice and a
// non-slice value yields a one-element slice. Duplicates are kept.
func ToSymbols(v any) []Symbol {
	out := []Symbol{}
	if IsNil(v) {
		return out
	}
	switch x := v.(type) {
	case []Symbol:
		return append(out, x...)
	case []string:
		for _, s := range x {
			out = append(out, Symbol(s))
		}
		return out
	case []any:
		for _, e := range x {
			if !IsNil(e) {
				out = append(out, ToSymbol(e))
			}
		}
		return out
	case string, Symbol, []byte:
		return append(out, ToSymbol(x))
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return append(out, ToSymbol(v))
	}
	for i := 0; i < rv.Len(); i++ {
		e := rv.Index(i)
		if isNilValue(e) {
			continue
		}
		out = append(out, ToSymbol(e.Interface()))
	}
	return out
}

// IsNil reports whether v is nil or a typed nil such as (*string)(nil).
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	return isNilValue(reflect.ValueOf(v))
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Symbols converts strings to Symbols, keeping order.
func Symbols(values ...string) []Symbol {
	out := make([]Symbol, len(values))
	for i, v := range values {
		out[i] = Symbol(v)
	}
	return out
}

func containsSymbol(set []Symbol, s Symbol) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func joinSymbols(set []Symbol, sep string) string {
	parts := make([]string, len(set))
	for i, s := range set {
		parts[i] = string(s)
	}
	return strings.Join(parts, sep)
}
