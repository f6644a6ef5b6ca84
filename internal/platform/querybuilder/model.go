package querybuilder

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Columns lists the db-tagged columns of a struct type, in field order.
func Columns(model any) []string {
	cols, _, err := columnsAndValues(model)
	if err != nil {
		return nil
	}
	return cols
}

// InsertModel builds an INSERT for a db-tagged struct. When conflictTarget is set
// every non-target column is overwritten on conflict.
func InsertModel(table string, model any, conflictTarget ...string) (string, []any, error) {
	cols, vals, err := columnsAndValues(model)
	if err != nil {
		return "", nil, err
	}

	b := InsertInto(table).Columns(cols...).Values(vals...)
	if len(conflictTarget) > 0 {
		b.OnConflictUpdate(conflictTarget, without(cols, conflictTarget)...)
	}
	return b.ToSQL()
}

// InsertModels builds a multi-row INSERT; all models must share one struct type.
func InsertModels[T any](table string, models []T) (string, []any, error) {
	if len(models) == 0 {
		return "", nil, fmt.Errorf("insert models: empty batch")
	}

	b := InsertInto(table)
	for i := range models {
		cols, vals, err := columnsAndValues(&models[i])
		if err != nil {
			return "", nil, err
		}
		if i == 0 {
			b.Columns(cols...)
		}
		b.Values(vals...)
	}
	return b.ToSQL()
}

// UpdateModel builds an UPDATE that writes every column of a db-tagged struct
// and matches rows on keyColumns, which are not rewritten.
func UpdateModel(table string, model any, keyColumns ...string) (string, []any, error) {
	if len(keyColumns) == 0 {
		return "", nil, fmt.Errorf("update model: key columns are required")
	}
	cols, vals, err := columnsAndValues(model)
	if err != nil {
		return "", nil, err
	}

	b := Update(table)
	keys := make([]Condition, 0, len(keyColumns))
	for _, key := range keyColumns {
		found := false
		for i, col := range cols {
			if col == key {
				keys = append(keys, Eq(col, vals[i]))
				found = true
				break
			}
		}
		if !found {
			return "", nil, fmt.Errorf("update model: key column %s not in model", key)
		}
	}
	for i, col := range cols {
		if slices.Contains(keyColumns, col) {
			continue
		}
		b.Set(col, vals[i])
	}
	return b.Where(keys...).ToSQL()
}

func without(cols, drop []string) []string {
	out := make([]string, 0, len(cols))
	for _, col := range cols {
		skip := false
		for _, d := range drop {
			if col == d {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, col)
		}
	}
	return out
}

func columnsAndValues(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model %s has no db columns", typ.Name())
	}
	return cols, vals, nil
}
