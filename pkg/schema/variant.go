package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"friendsofmonika/masvalidator/pkg/config"
)

// Variant is one of the closed set of sprite schema identities.
type Variant string

const (
	VariantAccessoryCombined Variant = "accessory-combined"
	VariantAccessorySplit    Variant = "accessory-split"
	VariantHair              Variant = "hair"
	VariantClothes           Variant = "clothes"
)

// Variants lists every variant.
var Variants = []Variant{VariantAccessoryCombined, VariantAccessorySplit, VariantHair, VariantClothes}

// Document type codes carried in the "type" field.
const (
	TypeAccessory = 0
	TypeHair      = 1
	TypeClothes   = 2
)

const (
	// TypeField is the discriminant field of every sprite document.
	TypeField = "type"

	// SplitField marks an accessory whose arms are split.
	SplitField = "arm_split"
)

// Files maps each variant to its schema document name.
type Files map[Variant]string

// DefaultFiles returns the upstream schema document names.
func DefaultFiles() Files {
	return Files{
		VariantAccessoryCombined: config.DefaultSchemaAccessoryCombined,
		VariantAccessorySplit:    config.DefaultSchemaAccessorySplit,
		VariantHair:              config.DefaultSchemaHair,
		VariantClothes:           config.DefaultSchemaClothes,
	}
}

// FilesFromConfig builds the variant map from configuration.
func FilesFromConfig(cfg config.SchemaFiles) Files {
	return Files{
		VariantAccessoryCombined: cfg.AccessoryCombined,
		VariantAccessorySplit:    cfg.AccessorySplit,
		VariantHair:              cfg.Hair,
		VariantClothes:           cfg.Clothes,
	}
}

// ResolveVariant picks the schema variant for a decoded document. The
// document must be an object with a numeric "type" of 0, 1 or 2; type 0
// selects the split accessory schema when "arm_split" is present.
//
// Numbers may be float64 or json.Number.
func ResolveVariant(doc any) (Variant, error) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return "", newPreconditionError(ReasonNotObject)
	}

	raw, ok := obj[TypeField]
	if !ok {
		return "", newPreconditionError(ReasonMissingType)
	}

	code, ok := numberValue(raw)
	if !ok {
		return "", newPreconditionError(ReasonNonNumericType)
	}

	switch code {
	case TypeAccessory:
		if _, split := obj[SplitField]; split {
			return VariantAccessorySplit, nil
		}
		return VariantAccessoryCombined, nil
	case TypeHair:
		return VariantHair, nil
	case TypeClothes:
		return VariantClothes, nil
	default:
		return "", newPreconditionError(ReasonUnknownType)
	}
}

// ParseVariant converts a variant name.
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown schema variant %q", s)
}

func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		// Out-of-range literals such as 1e400 are still numbers; they
		// parse to ±Inf and fall through to the unknown type check.
		f, err := n.Float64()
		return f, err == nil || errors.Is(err, strconv.ErrRange)
	case float64:
		return n, true
	default:
		return 0, false
	}
}
