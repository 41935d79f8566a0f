package tools

import (
	"reflect"
	"strings"
)

// schemaOf derives a JSON-schema object from an argument struct. Property
// names come from json tags, descriptions from desc tags, required and enum
// from the validate tag, so schema and validation cannot drift apart.
func schemaOf(args interface{}) map[string]interface{} {
	t := reflect.TypeOf(args)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	properties := map[string]interface{}{}
	required := []string{}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			continue
		}

		prop := propertyOf(f.Type)
		if desc := f.Tag.Get("desc"); desc != "" {
			prop["description"] = desc
		}

		for _, rule := range strings.Split(f.Tag.Get("validate"), ",") {
			switch {
			case rule == "required":
				required = append(required, name)
			case strings.HasPrefix(rule, "oneof="):
				values := strings.Fields(strings.TrimPrefix(rule, "oneof="))
				enum := make([]interface{}, len(values))
				for j, v := range values {
					enum[j] = v
				}
				prop["enum"] = enum
			}
		}
		properties[name] = prop
	}

	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func propertyOf(t reflect.Type) map[string]interface{} {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return map[string]interface{}{"type": "string"}
	case reflect.Bool:
		return map[string]interface{}{"type": "boolean"}
	case reflect.Int, reflect.Int32, reflect.Int64:
		return map[string]interface{}{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]interface{}{"type": "number"}
	case reflect.Slice:
		return map[string]interface{}{"type": "array", "items": propertyOf(t.Elem())}
	}
	return map[string]interface{}{"type": "object"}
}
