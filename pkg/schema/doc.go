// Package schema provides a small type system for validating shape parameters.
//
// A Schema maps parameter names to types. Every parameter is optional (shapes
// have defaults) but unknown names and mistyped values are rejected:
//
//	torus := schema.Schema{
//	    "major_radius": schema.PositiveFloat(),
//	    "minor_radius": schema.PositiveFloat(),
//	}
//
//	if err := schema.Validate(torus, params); err != nil {
//	    // Handle validation errors
//	}
//
// Numbers may arrive as any Go numeric type or as json.Number; whole floats
// are accepted where an int is expected.
//
// Schemas serialise to JSON as a map of field names to type strings
// ("float", "int", "[3]float", "enum(NOTHING|NGON|TRIFAN)") so they can be
// published by the HTTP and MCP adapters and parsed back with ParseTypeMap.
package schema
