package schema

import "sort"

// Schema is a map of field names to their expected types.
// Example: {"radius": Float(), "segments": Int(), "size": Vector(3)}
type Schema map[string]Type

// Fields returns the field names, sorted.
func (s Schema) Fields() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every field present in data is declared in the schema
// and conforms to its type. Absent fields are allowed; they take defaults.
// Returns an error with all validation failures found.
func Validate(schema Schema, data map[string]any) error {
	var errs ParamErrors

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, fieldName := range keys {
		value := data[fieldName]
		fieldType, ok := schema[fieldName]
		if !ok {
			errs = append(errs, &ParamError{
				Param:  fieldName,
				Reason: "not defined in schema",
				Value:  value,
			})
			continue
		}

		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ParamError{
				Param:  fieldName,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Require checks that every listed field is present in data.
func Require(data map[string]any, fields ...string) error {
	var errs ParamErrors
	for _, fieldName := range fields {
		if _, ok := data[fieldName]; !ok {
			errs = append(errs, &ParamError{
				Param:  fieldName,
				Reason: "required",
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
