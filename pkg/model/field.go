package model

// FieldType is the storage shape of a declared field.
type FieldType int

const (
	// TypeAny stores values untouched.
	TypeAny FieldType = iota
	// TypeSymbol stores a single Symbol or nil.
	TypeSymbol
	// TypeSymbols stores an ordered sequence of Symbols without nil entries.
	TypeSymbols
)

func (t FieldType) String() string {
	switch t {
	case TypeSymbol:
		return "symbol"
	case TypeSymbols:
		return "symbols"
	default:
		return "any"
	}
}

// Cast converts a raw value read from a store into the field's Go shape.
func (t FieldType) Cast(raw any) any {
	if raw == nil {
		return nil
	}
	switch t {
	case TypeSymbol:
		return ToSymbol(raw)
	case TypeSymbols:
		return ToSymbols(raw)
	default:
		return raw
	}
}

// Dump converts a field value into plain data for a store.
func (t FieldType) Dump(v any) any {
	if v == nil {
		return nil
	}
	switch t {
	case TypeSymbol:
		return string(ToSymbol(v))
	case TypeSymbols:
		syms := ToSymbols(v)
		out := make([]string, len(syms))
		for i, s := range syms {
			out[i] = string(s)
		}
		return out
	default:
		return v
	}
}

// FieldSpec describes a declared field.
type FieldSpec struct {
	Name    string
	Type    FieldType
	Default any
}

// DefaultValue returns a fresh copy of the default so documents never
// share a backing slice.
func (f FieldSpec) DefaultValue() any {
	switch d := f.Default.(type) {
	case []Symbol:
		return append([]Symbol{}, d...)
	default:
		return d
	}
}
