// Package catalog holds the data-driven command table: every command the
// engine can dispatch, its argument schema and its result shape. Validation
// runs against the table before a command is ticketed or sent, so a schema
// violation never reaches the wire.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"actbot/internal/core/domain"

	"github.com/rs/zerolog/log"
)

type Registry struct {
	specs map[string]domain.CommandSpec
}

// NewRegistry builds a registry from a spec table and rejects incoherent
// entries up front: duplicate or empty names, defaults on required fields,
// defaults or constraints that contradict the field type.
func NewRegistry(specs []domain.CommandSpec) (*Registry, error) {
	r := &Registry{specs: make(map[string]domain.CommandSpec, len(specs))}

	for _, spec := range specs {
		if err := checkSpec(spec); err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", spec.Name, err)
		}

		if _, ok := r.specs[spec.Name]; ok {
			return nil, fmt.Errorf("catalog entry %q: duplicate name", spec.Name)
		}

		r.specs[spec.Name] = spec
	}

	log.Debug().Int("commands", len(r.specs)).Msg("command catalog initialized")

	return r, nil
}

// Default assembles the registry from the built-in command groups.
func Default() (*Registry, error) {
	var specs []domain.CommandSpec
	specs = append(specs, moderationCommands()...)
	specs = append(specs, messagingCommands()...)
	specs = append(specs, queryCommands()...)

	return NewRegistry(specs)
}

func (r *Registry) Spec(name string) (domain.CommandSpec, bool) {
	spec, ok := r.specs[name]
	return spec, ok
}

func (r *Registry) Names() []string {
	keys := make([]string, 0, len(r.specs))
	for k := range r.specs {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Validate checks args against the schema of the named command and returns
// the normalized bag: ints coerced to int64, defaults injected for absent
// optional fields, args the schema does not know dropped. The input map is
// not modified.
func (r *Registry) Validate(name string, args domain.Args) (domain.Args, error) {
	spec, ok := r.specs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCommand, name)
	}

	validated := make(domain.Args, len(spec.Fields))

	for _, field := range spec.Fields {
		raw, present := args[field.Name]
		if !present || raw == nil {
			if field.Required {
				return nil, fmt.Errorf("%w: %s.%s", domain.ErrMissingField, name, field.Name)
			}
			if field.Default == nil {
				continue
			}

			// Defaults take the same coercion path as caller values, so an
			// int default lands in the bag as int64 like everything else.
			raw = field.Default
		}

		value, err := coerce(field, raw)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, field.Name, err)
		}

		validated[field.Name] = value
	}

	return validated, nil
}

func checkSpec(spec domain.CommandSpec) error {
	if spec.Name == "" {
		return errors.New("empty name")
	}
	if spec.Action == "" {
		return errors.New("empty action")
	}

	seen := make(map[string]struct{}, len(spec.Fields))

	for _, field := range spec.Fields {
		if field.Name == "" {
			return errors.New("field with empty name")
		}
		if _, ok := seen[field.Name]; ok {
			return fmt.Errorf("duplicate field %q", field.Name)
		}
		seen[field.Name] = struct{}{}

		if err := checkField(field); err != nil {
			return fmt.Errorf("field %q: %w", field.Name, err)
		}
	}

	return nil
}

func checkField(field domain.FieldSpec) error {
	switch field.Type {
	case domain.FieldInt, domain.FieldString, domain.FieldBool, domain.FieldIntList:
	default:
		return fmt.Errorf("unknown type %q", field.Type)
	}

	if field.Required && field.Default != nil {
		return errors.New("default on required field")
	}

	if field.Default != nil {
		if _, err := coerce(field, field.Default); err != nil {
			return fmt.Errorf("default violates own schema: %w", err)
		}
	}

	if (field.Min != nil || field.Max != nil) &&
		field.Type != domain.FieldInt && field.Type != domain.FieldIntList {
		return errors.New("range constraint on non-int field")
	}
	if field.Min != nil && field.Max != nil && *field.Min > *field.Max {
		return errors.New("min above max")
	}

	if field.OneOf != nil {
		if field.Type != domain.FieldString {
			return errors.New("enum constraint on non-string field")
		}
		if len(field.OneOf) == 0 {
			return errors.New("empty enum")
		}
	}

	return nil
}

func coerce(field domain.FieldSpec, raw any) (any, error) {
	switch field.Type {
	case domain.FieldInt:
		return coerceInt(field, raw)
	case domain.FieldString:
		return coerceString(field, raw)
	case domain.FieldBool:
		value, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: want bool, got %T", domain.ErrTypeMismatch, raw)
		}
		return value, nil
	case domain.FieldIntList:
		return coerceIntList(field, raw)
	default:
		return nil, fmt.Errorf("%w: unhandled type %q", domain.ErrTypeMismatch, field.Type)
	}
}

func coerceInt(field domain.FieldSpec, raw any) (int64, error) {
	value, ok := toInt64(raw)
	if !ok {
		return 0, fmt.Errorf("%w: want int, got %T", domain.ErrTypeMismatch, raw)
	}

	if field.Min != nil && value < *field.Min {
		return 0, fmt.Errorf("%w: %d below minimum %d", domain.ErrInvalidValue, value, *field.Min)
	}
	if field.Max != nil && value > *field.Max {
		return 0, fmt.Errorf("%w: %d above maximum %d", domain.ErrInvalidValue, value, *field.Max)
	}

	return value, nil
}

func coerceString(field domain.FieldSpec, raw any) (string, error) {
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: want string, got %T", domain.ErrTypeMismatch, raw)
	}

	if field.NonEmpty && value == "" {
		return "", fmt.Errorf("%w: empty string", domain.ErrInvalidValue)
	}

	if field.OneOf != nil {
		value = strings.ToLower(value)
		for _, allowed := range field.OneOf {
			if value == allowed {
				return value, nil
			}
		}
		return "", fmt.Errorf("%w: %q not one of %v", domain.ErrInvalidValue, value, field.OneOf)
	}

	return value, nil
}

func coerceIntList(field domain.FieldSpec, raw any) ([]int64, error) {
	var values []int64

	switch list := raw.(type) {
	case []int64:
		values = append(values, list...)
	case []int:
		for _, v := range list {
			values = append(values, int64(v))
		}
	case []any:
		for _, elem := range list {
			v, ok := toInt64(elem)
			if !ok {
				return nil, fmt.Errorf("%w: list element %T", domain.ErrTypeMismatch, elem)
			}
			values = append(values, v)
		}
	default:
		return nil, fmt.Errorf("%w: want int list, got %T", domain.ErrTypeMismatch, raw)
	}

	if field.NonEmpty && len(values) == 0 {
		return nil, fmt.Errorf("%w: empty list", domain.ErrInvalidValue)
	}

	for _, v := range values {
		if field.Min != nil && v < *field.Min {
			return nil, fmt.Errorf("%w: element %d below minimum %d", domain.ErrInvalidValue, v, *field.Min)
		}
		if field.Max != nil && v > *field.Max {
			return nil, fmt.Errorf("%w: element %d above maximum %d", domain.ErrInvalidValue, v, *field.Max)
		}
	}

	return values, nil
}

func bound(v int64) *int64 {
	return &v
}

// requiredID declares a mandatory positive integer field, the shape of every
// user, group and message identifier in the catalog.
func requiredID(name string) domain.FieldSpec {
	return domain.FieldSpec{Name: name, Type: domain.FieldInt, Required: true, Min: bound(1)}
}

func optionalID(name string) domain.FieldSpec {
	return domain.FieldSpec{Name: name, Type: domain.FieldInt, Min: bound(1)}
}

// toInt64 accepts the integer shapes JSON decoding and Go callers produce.
// Floats pass only when they carry an integral value.
func toInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if math.Trunc(v) != v || v > math.MaxInt64 || v < math.MinInt64 {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}
