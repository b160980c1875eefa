package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Type defines the contract for field validation.
// Implementations determine how values are validated against a type.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "float", "int").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// --- Built-in Type Implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	_, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// IntType validates integer values, including whole floats and json.Number.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(value any) error {
	f, ok := AsFloat(value)
	if !ok {
		return fmt.Errorf("expected int, got %T", value)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return fmt.Errorf("expected int, got float (not a whole number)")
	}
	return nil
}

// FloatType validates finite numeric values.
type FloatType struct{}

func (t *FloatType) Name() string { return "float" }

func (t *FloatType) Validate(value any) error {
	f, ok := AsFloat(value)
	if !ok {
		return fmt.Errorf("expected float, got %T", value)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("expected finite float, got %v", f)
	}
	return nil
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	_, ok := value.(bool)
	if !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

// SliceType validates slices of a specific element type, optionally of a fixed length.
type SliceType struct {
	elemType Type
	length   int
}

func (t *SliceType) Name() string {
	if t.length > 0 {
		return fmt.Sprintf("[%d]%s", t.length, t.elemType.Name())
	}
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected slice, got %T", value)
	}
	if t.length > 0 && rv.Len() != t.length {
		return fmt.Errorf("expected %d elements, got %d", t.length, rv.Len())
	}

	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if err := t.elemType.Validate(elem); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// EnumType accepts one of a fixed set of strings.
type EnumType struct {
	values []string
}

func (t *EnumType) Name() string { return "enum(" + strings.Join(t.values, "|") + ")" }

func (t *EnumType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected one of %v, got %T", t.values, value)
	}
	for _, v := range t.values {
		if v == s {
			return nil
		}
	}
	return fmt.Errorf("expected one of %v, got %q", t.values, s)
}

// Values returns the accepted strings.
func (t *EnumType) Values() []string { return append([]string(nil), t.values...) }

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// Float creates a float type validator.
func Float() Type { return &FloatType{} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Slice creates a slice type validator for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

// Vector creates a validator for exactly n floats.
func Vector(n int) Type {
	return &SliceType{elemType: Float(), length: n}
}

// Enum creates a validator accepting only the given strings.
func Enum(values ...string) Type {
	return &EnumType{values: values}
}

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// PositiveFloat accepts finite numbers strictly greater than zero.
func PositiveFloat() Type {
	return Custom("positive_float", func(v any) error {
		if err := Float().Validate(v); err != nil {
			return err
		}
		if f, _ := AsFloat(v); f <= 0 {
			return fmt.Errorf("must be positive, got %v", f)
		}
		return nil
	})
}

// MinInt accepts integers greater than or equal to min.
func MinInt(min int) Type {
	return Custom(fmt.Sprintf("int>=%d", min), func(v any) error {
		if err := Int().Validate(v); err != nil {
			return err
		}
		if f, _ := AsFloat(v); f < float64(min) {
			return fmt.Errorf("must be at least %d, got %v", min, f)
		}
		return nil
	})
}

// AsFloat converts any Go numeric value or json.Number to float64.
func AsFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}

// ParseType converts a string type name to a Type.
// Supports "string", "int", "float", "bool", "positive_float", "int>=N",
// "[float]", "[3]float" and "enum(a|b)".
func ParseType(typeStr string) (Type, error) {
	if strings.HasPrefix(typeStr, "enum(") && strings.HasSuffix(typeStr, ")") {
		body := typeStr[len("enum(") : len(typeStr)-1]
		if body == "" {
			return nil, fmt.Errorf("empty enum: %s", typeStr)
		}
		return Enum(strings.Split(body, "|")...), nil
	}

	// Slice types: [float] or fixed length [3]float
	if len(typeStr) > 2 && typeStr[0] == '[' {
		end := strings.IndexByte(typeStr, ']')
		if end < 0 {
			return nil, fmt.Errorf("unsupported type: %s", typeStr)
		}
		if end == len(typeStr)-1 {
			elemType, err := ParseType(typeStr[1:end])
			if err != nil {
				return nil, err
			}
			return Slice(elemType), nil
		}
		n, err := strconv.Atoi(typeStr[1:end])
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("unsupported type: %s", typeStr)
		}
		elemType, err := ParseType(typeStr[end+1:])
		if err != nil {
			return nil, err
		}
		return &SliceType{elemType: elemType, length: n}, nil
	}

	switch typeStr {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	case "positive_float":
		return PositiveFloat(), nil
	}

	if rest, ok := strings.CutPrefix(typeStr, "int>="); ok {
		min, err := strconv.Atoi(rest)
		if err != nil {
			return nil, fmt.Errorf("unsupported type: %s", typeStr)
		}
		return MinInt(min), nil
	}
	return nil, fmt.Errorf("unsupported type: %s", typeStr)
}

// ParseTypeMap converts a map of field names to type strings into a Schema.
// Example: {"radius": "float", "segments": "int"}
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	result := make(Schema)
	for key, typeStr := range typeMap {
		t, err := ParseType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		result[key] = t
	}
	return result, nil
}
