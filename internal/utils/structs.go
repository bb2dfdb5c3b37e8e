package utils

import (
	"reflect"
)

// ColumnTag is the struct tag naming a field's database column.
var ColumnTag = "db"

type taggedField struct {
	column string
	value  reflect.Value
}

// taggedFields walks the exported fields of a struct (or pointer to struct)
// carrying a ColumnTag, in declaration order. It panics on any other input.
func taggedFields(input any) []taggedField {
	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	t := v.Type()
	fields := make([]taggedField, 0, v.NumField())

	for i := 0; i < v.NumField(); i++ {
		if !t.Field(i).IsExported() {
			continue
		}

		column := t.Field(i).Tag.Get(ColumnTag)
		if column == "" || column == "-" {
			continue
		}

		fields = append(fields, taggedField{column: column, value: v.Field(i)})
	}

	return fields
}

// StructTagValues returns the column names of input in declaration order.
func StructTagValues(input any) []string {
	fields := taggedFields(input)

	result := make([]string, 0, len(fields))
	for _, f := range fields {
		result = append(result, f.column)
	}

	return result
}

// StructToMap returns input's tagged fields keyed by column.
func StructToMap(input any) map[string]any {
	fields := taggedFields(input)

	result := make(map[string]any, len(fields))
	for _, f := range fields {
		result[f.column] = f.value.Interface()
	}

	return result
}
