package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"friendsofmonika/masvalidator/pkg/config"
)

func TestResolveVariant(t *testing.T) {
	tests := []struct {
		name    string
		doc     any
		want    Variant
		wantErr string
	}{
		{name: "accessory", doc: map[string]any{"type": json.Number("0")}, want: VariantAccessoryCombined},
		{name: "split accessory", doc: map[string]any{"type": json.Number("0"), "arm_split": "both"}, want: VariantAccessorySplit},
		{name: "split marker on hair is ignored", doc: map[string]any{"type": json.Number("1"), "arm_split": "0"}, want: VariantHair},
		{name: "clothes", doc: map[string]any{"type": 2.0}, want: VariantClothes},
		{name: "float zero", doc: map[string]any{"type": json.Number("0.0")}, want: VariantAccessoryCombined},
		{name: "array", doc: []any{}, wantErr: ReasonNotObject},
		{name: "null", doc: nil, wantErr: ReasonNotObject},
		{name: "string", doc: "hair", wantErr: ReasonNotObject},
		{name: "no type", doc: map[string]any{"id": "x"}, wantErr: ReasonMissingType},
		{name: "string type", doc: map[string]any{"type": "1"}, wantErr: ReasonNonNumericType},
		{name: "null type", doc: map[string]any{"type": nil}, wantErr: ReasonNonNumericType},
		{name: "type out of range", doc: map[string]any{"type": json.Number("3")}, wantErr: ReasonUnknownType},
		{name: "overflowing type", doc: map[string]any{"type": json.Number("1e400")}, wantErr: ReasonUnknownType},
		{name: "negative overflowing type", doc: map[string]any{"type": json.Number("-1e400")}, wantErr: ReasonUnknownType},
		{name: "fractional type", doc: map[string]any{"type": json.Number("1.5")}, wantErr: ReasonUnknownType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveVariant(tt.doc)
			if tt.wantErr != "" {
				var pe *PreconditionError
				if !errors.As(err, &pe) {
					t.Fatalf("ResolveVariant() error = %v, want *PreconditionError", err)
				}
				if pe.Reason != tt.wantErr {
					t.Errorf("Reason = %q, want %q", pe.Reason, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveVariant() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveVariant() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPreconditionMessagesAreDistinct(t *testing.T) {
	seen := make(map[string]string)
	for _, reason := range []string{ReasonNotObject, ReasonMissingType, ReasonNonNumericType, ReasonUnknownType} {
		msg := newPreconditionError(reason).Error()
		if msg == "" {
			t.Errorf("reason %s has no message", reason)
		}
		if other, dup := seen[msg]; dup {
			t.Errorf("reasons %s and %s share message %q", reason, other, msg)
		}
		seen[msg] = reason
	}
}

func TestParseVariant(t *testing.T) {
	for _, v := range Variants {
		got, err := ParseVariant(string(v))
		if err != nil || got != v {
			t.Errorf("ParseVariant(%q) = %q, %v", v, got, err)
		}
	}
	if _, err := ParseVariant("shoes"); err == nil {
		t.Error("ParseVariant(shoes) succeeded")
	}
}

func TestFiles(t *testing.T) {
	def := DefaultFiles()
	if def[VariantAccessorySplit] != "acs-split.schema.json" {
		t.Errorf("split schema = %q", def[VariantAccessorySplit])
	}

	files := FilesFromConfig(config.SchemaFiles{
		AccessoryCombined: "a.json",
		AccessorySplit:    "b.json",
		Hair:              "c.json",
		Clothes:           "d.json",
	})
	if len(files) != len(Variants) || files[VariantHair] != "c.json" {
		t.Errorf("FilesFromConfig() = %v", files)
	}
}
