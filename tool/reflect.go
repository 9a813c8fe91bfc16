package tool

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// SchemaFor generates a JSON Schema object from a struct type T. Field
// names come from json tags, descriptions from desc tags, and fields
// tagged required:"true" land in the schema's required list. String
// fields may constrain their values with an enum tag:
//
//	type args struct {
//	    TaskType string `json:"task_type" desc:"Artifact kind" required:"true" enum:"vmcore,dmesg"`
//	}
func SchemaFor[T any]() (json.RawMessage, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema generation requires a struct type, got %v", t)
	}
	return json.Marshal(schemaFromStruct(t))
}

// MustSchemaFor is like SchemaFor but panics on error.
func MustSchemaFor[T any]() json.RawMessage {
	schema, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return schema
}

type property struct {
	Type        string         `json:"type"`
	Description string         `json:"description,omitempty"`
	Enum        []string       `json:"enum,omitempty"`
	Items       *property      `json:"items,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
	Required    []string       `json:"required,omitempty"`
}

func schemaFromStruct(t reflect.Type) map[string]any {
	properties := make(map[string]any)
	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name := strings.Split(jsonTag, ",")[0]
		if name == "" {
			name = field.Name
		}

		prop := typeToProperty(field.Type)
		if desc := field.Tag.Get("desc"); desc != "" {
			prop.Description = desc
		}
		if enum := field.Tag.Get("enum"); enum != "" && prop.Type == "string" {
			prop.Enum = strings.Split(enum, ",")
		}
		properties[name] = prop

		if field.Tag.Get("required") == "true" {
			required = append(required, name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func typeToProperty(t reflect.Type) *property {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return &property{Type: "string"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &property{Type: "integer"}

	case reflect.Float32, reflect.Float64:
		return &property{Type: "number"}

	case reflect.Bool:
		return &property{Type: "boolean"}

	case reflect.Slice, reflect.Array:
		return &property{Type: "array", Items: typeToProperty(t.Elem())}

	case reflect.Struct:
		nested := schemaFromStruct(t)
		prop := &property{Type: "object"}
		if props, ok := nested["properties"].(map[string]any); ok {
			prop.Properties = props
		}
		if req, ok := nested["required"].([]string); ok {
			prop.Required = req
		}
		return prop

	case reflect.Map:
		return &property{Type: "object"}

	default:
		return &property{Type: "string"}
	}
}
