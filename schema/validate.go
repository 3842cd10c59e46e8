package schema

import (
	"fmt"

	"github.com/wippyai/bobject/errors"
)

// Validate checks that every field type resolves, field names are
// non-empty and unique within a record, and constants are primitive
// scalars carrying a value.
func Validate(m Map) error {
	for _, name := range m.Names() {
		rec := m[name]
		seen := make(map[string]bool, len(rec.Fields))
		for _, f := range rec.Fields {
			if f.Name == "" {
				return invalid(name, nil, "field with empty name")
			}
			if seen[f.Name] {
				return invalid(name, []string{f.Name}, "duplicate field")
			}
			seen[f.Name] = true

			if f.Type == "" {
				return invalid(name, []string{f.Name}, "field has no type")
			}
			if !IsPrimitive(f.Type) {
				if _, ok := m[f.Type]; !ok {
					return errors.UnknownType(errors.PhaseCompile, []string{name, f.Name}, f.Type)
				}
			}
			if f.ArrayLength != nil {
				if !f.IsArray {
					return invalid(name, []string{f.Name}, "arrayLength on a non-array field")
				}
				if *f.ArrayLength < 0 {
					return invalid(name, []string{f.Name}, fmt.Sprintf("negative arrayLength %d", *f.ArrayLength))
				}
			}
			if f.IsConstant {
				if f.IsArray || !IsPrimitive(f.Type) {
					return invalid(name, []string{f.Name}, "constant must be a primitive scalar")
				}
				if f.Value == nil {
					return invalid(name, []string{f.Name}, "constant has no value")
				}
			}
		}
	}
	return nil
}

func invalid(typeName string, path []string, detail string) error {
	return errors.New(errors.PhaseCompile, errors.KindInvalidData).
		TypeName(typeName).
		Path(path...).
		Detail("%s", detail).
		Build()
}

// Closure returns root followed by every record type reachable from it,
// in breadth-first order.
func Closure(m Map, root string) ([]string, error) {
	if _, ok := m[root]; !ok {
		return nil, errors.UnknownType(errors.PhaseCompile, nil, root)
	}
	order := []string{root}
	seen := map[string]bool{root: true}
	for i := 0; i < len(order); i++ {
		for _, f := range m[order[i]].Fields {
			if f.IsConstant || IsPrimitive(f.Type) || seen[f.Type] {
				continue
			}
			if _, ok := m[f.Type]; !ok {
				return nil, errors.UnknownType(errors.PhaseCompile, []string{order[i], f.Name}, f.Type)
			}
			seen[f.Type] = true
			order = append(order, f.Type)
		}
	}
	return order, nil
}
