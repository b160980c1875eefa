package schema

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON publishes the schema as parameter name -> type name, the form
// the HTTP and MCP adapters list shapes with.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	names := make(map[string]string, len(s))
	for _, param := range s.Fields() {
		typ := s[param]
		if typ == nil {
			return nil, fmt.Errorf("param %s: type is nil", param)
		}
		names[param] = typ.Name()
	}
	return json.Marshal(names)
}

// UnmarshalJSON reads the form written by MarshalJSON.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var names map[string]string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	if names == nil {
		*s = nil
		return nil
	}
	parsed, err := ParseTypeMap(names)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
