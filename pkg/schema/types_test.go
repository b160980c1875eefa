package schema

import (
	"encoding/json"
	"testing"
)

func TestFloatType(t *testing.T) {
	typ := Float()

	if typ.Name() != "float" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "float")
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{3.14, false},
		{float32(3.14), false},
		{42, false},
		{uint8(3), false},
		{json.Number("0.25"), false},
		{json.Number("abc"), true},
		{"3.14", true},
		{true, true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestIntType(t *testing.T) {
	typ := Int()

	tests := []struct {
		value   any
		wantErr bool
	}{
		{42, false},
		{int64(42), false},
		{float64(42), false},
		{float64(42.5), true},
		{json.Number("16"), false},
		{json.Number("16.5"), true},
		{"42", true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestVectorType(t *testing.T) {
	typ := Vector(3)
	if typ.Name() != "[3]float" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "[3]float")
	}

	if err := typ.Validate([]any{1, 2.5, json.Number("3")}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := typ.Validate([3]float64{1, 2, 3}); err != nil {
		t.Errorf("unexpected error for array: %v", err)
	}
	if err := typ.Validate([]any{1, 2}); err == nil {
		t.Error("expected error for short vector")
	}
	if err := typ.Validate([]any{1, "2", 3}); err == nil {
		t.Error("expected error for non-numeric element")
	}
}

func TestEnumType(t *testing.T) {
	typ := Enum("NOTHING", "NGON", "TRIFAN")
	if typ.Name() != "enum(NOTHING|NGON|TRIFAN)" {
		t.Errorf("Name() = %q", typ.Name())
	}
	if err := typ.Validate("NGON"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := typ.Validate("ngon"); err == nil {
		t.Error("enum must be case sensitive")
	}
	if err := typ.Validate(1); err == nil {
		t.Error("expected error for non-string")
	}
}

func TestPositiveFloatAndMinInt(t *testing.T) {
	if err := PositiveFloat().Validate(0.5); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := PositiveFloat().Validate(0); err == nil {
		t.Error("zero is not positive")
	}
	if err := MinInt(3).Validate(3); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := MinInt(3).Validate(2); err == nil {
		t.Error("expected error below minimum")
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"float", "float", false},
		{"int", "int", false},
		{"[float]", "[float]", false},
		{"[3]float", "[3]float", false},
		{"enum(A|B)", "enum(A|B)", false},
		{"positive_float", "positive_float", false},
		{"int>=3", "int>=3", false},
		{"enum()", "", true},
		{"[x]float", "", true},
		{"complex", "", true},
	}

	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got.Name() != tt.want {
			t.Errorf("ParseType(%q).Name() = %q, want %q", tt.in, got.Name(), tt.want)
		}
	}
}

func TestSchemaJSONRoundTrip(t *testing.T) {
	s := Schema{
		"radius":    PositiveFloat(),
		"segments":  MinInt(3),
		"size":      Vector(3),
		"fill_type": Enum("NOTHING", "NGON"),
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Schema
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for k, typ := range s {
		if back[k] == nil || back[k].Name() != typ.Name() {
			t.Errorf("field %s: got %v, want %s", k, back[k], typ.Name())
		}
	}
}
