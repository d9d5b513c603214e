package schema

import (
	"reflect"
)

// Tabler is a model that knows its table.
type Tabler interface {
	TableName() string
}

// Columns returns column names of a model from its `db` tags in field
// order.
func Columns(model any) []string {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	var res []string
	for i := range t.NumField() {
		if tag := t.Field(i).Tag.Get("db"); tag != "" {
			res = append(res, tag)
		}
	}
	return res
}

// Values returns field values of a model in the order of Columns.
func Values(model any) []any {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()

	var res []any
	for i := range t.NumField() {
		if t.Field(i).Tag.Get("db") != "" {
			res = append(res, v.Field(i).Interface())
		}
	}
	return res
}

// Rows converts models of the same type to CopyFrom rows.
func Rows[T any](models []T) [][]any {
	res := make([][]any, len(models))
	for i := range models {
		res[i] = Values(models[i])
	}
	return res
}
