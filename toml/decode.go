package toml

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
)

// UnknownFieldError reports a key with no matching struct field in strict mode
type UnknownFieldError struct {
	Path  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("toml: unknown field %q", e.Field)
	}
	return fmt.Sprintf("toml: unknown field %q in %s", e.Field, e.Path)
}

// Unmarshal parses TOML data and stores the result in the value pointed to by v
// Keys without a matching field are ignored
func Unmarshal(data []byte, v any) error {
	m, err := NewParser(data).Parse()
	if err != nil {
		return err
	}
	return Decode(m, v)
}

// UnmarshalStrict is Unmarshal rejecting unknown keys
func UnmarshalStrict(data []byte, v any) error {
	m, err := NewParser(data).Parse()
	if err != nil {
		return err
	}
	return DecodeStrict(m, v)
}

// Decode maps a parsed document onto v using `toml` tags, falling back to field names
func Decode(data any, v any) error {
	d := decoder{}
	return d.decodeRoot(data, v)
}

// DecodeStrict is Decode rejecting unknown keys
func DecodeStrict(data any, v any) error {
	d := decoder{strict: true}
	return d.decodeRoot(data, v)
}

type decoder struct {
	strict bool
}

func (d *decoder) decodeRoot(data any, v any) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("toml: target must be a non-nil pointer")
	}
	return d.decodeValue("", data, val.Elem())
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func (d *decoder) errorf(path string, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if path == "" {
		return fmt.Errorf("toml: %s", msg)
	}
	return fmt.Errorf("toml: %s: %s", path, msg)
}

func (d *decoder) decodeValue(path string, data any, val reflect.Value) error {
	if data == nil {
		return nil
	}

	switch val.Kind() {
	case reflect.Ptr:
		newVal := reflect.New(val.Type().Elem())
		if err := d.decodeValue(path, data, newVal.Elem()); err != nil {
			return err
		}
		val.Set(newVal)

	case reflect.Struct:
		dataMap, ok := data.(map[string]any)
		if !ok {
			return d.errorf(path, "expected table, got %s", typeName(data))
		}
		return d.decodeStruct(path, dataMap, val)

	case reflect.Slice:
		items, ok := asSlice(data)
		if !ok {
			return d.errorf(path, "expected array, got %s", typeName(data))
		}
		newSlice := reflect.MakeSlice(val.Type(), len(items), len(items))
		for i, item := range items {
			if err := d.decodeValue(fmt.Sprintf("%s[%d]", path, i), item, newSlice.Index(i)); err != nil {
				return err
			}
		}
		val.Set(newSlice)

	case reflect.Array:
		items, ok := asSlice(data)
		if !ok {
			return d.errorf(path, "expected array, got %s", typeName(data))
		}
		if len(items) != val.Len() {
			return d.errorf(path, "expected %d elements, got %d", val.Len(), len(items))
		}
		for i, item := range items {
			if err := d.decodeValue(fmt.Sprintf("%s[%d]", path, i), item, val.Index(i)); err != nil {
				return err
			}
		}

	case reflect.Map:
		if val.Type().Key().Kind() != reflect.String {
			return d.errorf(path, "only map[string]T is supported")
		}
		dataMap, ok := data.(map[string]any)
		if !ok {
			return d.errorf(path, "expected table, got %s", typeName(data))
		}
		newMap := reflect.MakeMapWithSize(val.Type(), len(dataMap))
		elemType := val.Type().Elem()
		for k, vData := range dataMap {
			newVal := reflect.New(elemType).Elem()
			if err := d.decodeValue(join(path, k), vData, newVal); err != nil {
				return err
			}
			newMap.SetMapIndex(reflect.ValueOf(k).Convert(val.Type().Key()), newVal)
		}
		val.Set(newMap)

	case reflect.Interface:
		if val.NumMethod() != 0 {
			return d.errorf(path, "cannot decode into %s", val.Type())
		}
		val.Set(reflect.ValueOf(data))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt(data)
		if err != nil {
			return d.errorf(path, "%v", err)
		}
		if val.OverflowInt(n) {
			return d.errorf(path, "%d overflows %s", n, val.Type())
		}
		val.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toInt(data)
		if err != nil {
			return d.errorf(path, "%v", err)
		}
		if n < 0 || val.OverflowUint(uint64(n)) {
			return d.errorf(path, "%d out of range for %s", n, val.Type())
		}
		val.SetUint(uint64(n))

	case reflect.Float32, reflect.Float64:
		f, ok := toFloat(data)
		if !ok {
			return d.errorf(path, "cannot convert %s to float", typeName(data))
		}
		val.SetFloat(f)

	case reflect.String:
		s, ok := data.(string)
		if !ok {
			return d.errorf(path, "cannot convert %s to string", typeName(data))
		}
		val.SetString(s)

	case reflect.Bool:
		b, ok := data.(bool)
		if !ok {
			return d.errorf(path, "cannot convert %s to bool", typeName(data))
		}
		val.SetBool(b)

	default:
		return d.errorf(path, "unsupported kind %s", val.Kind())
	}

	return nil
}

// fieldKey resolves the TOML key for a struct field, skip reports `toml:"-"` and unexported fields
func fieldKey(f reflect.StructField) (key string, skip bool) {
	if !f.IsExported() {
		return "", true
	}
	key = f.Name
	if tag := f.Tag.Get("toml"); tag != "" {
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return "", true
		}
		if name != "" {
			key = name
		}
	}
	return key, false
}

func (d *decoder) decodeStruct(path string, data map[string]any, val reflect.Value) error {
	typ := val.Type()
	seen := make(map[string]bool, typ.NumField())

	for i := 0; i < typ.NumField(); i++ {
		ft := typ.Field(i)
		key, skip := fieldKey(ft)
		if skip {
			continue
		}
		seen[key] = true
		if vData, ok := data[key]; ok {
			if err := d.decodeValue(join(path, key), vData, val.Field(i)); err != nil {
				return err
			}
		}
	}

	if d.strict {
		var unknown []string
		for k := range data {
			if !seen[k] {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return &UnknownFieldError{Path: path, Field: unknown[0]}
		}
	}
	return nil
}

func asSlice(data any) ([]any, bool) {
	switch s := data.(type) {
	case []any:
		return s, true
	case []map[string]any:
		out := make([]any, len(s))
		for i, m := range s {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

func typeName(v any) string {
	switch v.(type) {
	case map[string]any:
		return "table"
	case []any, []map[string]any:
		return "array"
	case string:
		return "string"
	case bool:
		return "bool"
	case int64:
		return "integer"
	case float64:
		return "float"
	}
	return fmt.Sprintf("%T", v)
}

// toInt accepts any integer kind and integral floats
// Documents decoded by other codecs carry sized integers, so kinds are matched by reflection
func toInt(v any) (int64, error) {
	if f, ok := v.(float64); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return 0, fmt.Errorf("%v is not an integer", f)
		}
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, fmt.Errorf("%v overflows int64", f)
		}
		return int64(f), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", rv.Uint())
		}
		return int64(rv.Uint()), nil
	}
	return 0, fmt.Errorf("cannot convert %s to integer", typeName(v))
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	}
	return 0, false
}
