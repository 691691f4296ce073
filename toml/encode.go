package toml

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Marshal returns the TOML encoding of v
//
// The root must be a struct or map:
//   - Struct fields are written in declaration order, map keys sorted
//   - Nil pointers and unexported fields are skipped
//   - Fields tagged `omitempty` are skipped when zero
//   - Scalars precede sub-tables within each table
func Marshal(v any) ([]byte, error) {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, fmt.Errorf("toml: cannot marshal nil pointer")
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct && val.Kind() != reflect.Map {
		return nil, fmt.Errorf("toml: root must be struct or map, got %v", val.Kind())
	}

	enc := &encoder{w: new(bytes.Buffer)}
	if err := enc.encodeTable(val, nil); err != nil {
		return nil, err
	}
	return enc.w.Bytes(), nil
}

type encoder struct {
	w *bytes.Buffer
}

// entry is one key of a table being written
type entry struct {
	key string
	val reflect.Value
}

// entries lists the writable keys of a struct or map in output order
func (e *encoder) entries(rv reflect.Value) ([]entry, error) {
	var out []entry
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("toml: map key must be string, got %v", rv.Type().Key().Kind())
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		for _, k := range keys {
			v := deref(rv.MapIndex(k))
			if !v.IsValid() {
				continue
			}
			out = append(out, entry{key: k.String(), val: v})
		}
	case reflect.Struct:
		typ := rv.Type()
		for i := 0; i < typ.NumField(); i++ {
			ft := typ.Field(i)
			key, skip := fieldKey(ft)
			if skip {
				continue
			}
			v := deref(rv.Field(i))
			if !v.IsValid() {
				continue
			}
			if strings.Contains(ft.Tag.Get("toml"), "omitempty") && isEmptyValue(v) {
				continue
			}
			out = append(out, entry{key: key, val: v})
		}
	}
	return out, nil
}

// deref unwraps interfaces and pointers, returning the zero Value for nil
func deref(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// encodeTable writes scalars first, then nested tables and arrays of tables
func (e *encoder) encodeTable(rv reflect.Value, path []string) error {
	list, err := e.entries(rv)
	if err != nil {
		return err
	}

	var tables []entry
	for _, en := range list {
		if isTable(en.val) {
			tables = append(tables, en)
			continue
		}
		e.writeKey(en.key)
		e.w.WriteString(" = ")
		if err := e.encodeValue(en.val); err != nil {
			return fmt.Errorf("toml: key %q: %w", en.key, err)
		}
		e.w.WriteByte('\n')
	}

	for _, en := range tables {
		sub := append(path[:len(path):len(path)], en.key)
		header := e.headerPath(sub)

		switch en.val.Kind() {
		case reflect.Struct, reflect.Map:
			e.w.WriteString("\n[" + header + "]\n")
			if err := e.encodeTable(en.val, sub); err != nil {
				return err
			}
		case reflect.Slice, reflect.Array:
			for i := 0; i < en.val.Len(); i++ {
				elem := deref(en.val.Index(i))
				if !elem.IsValid() {
					continue
				}
				e.w.WriteString("\n[[" + header + "]]\n")
				if err := e.encodeTable(elem, sub); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (e *encoder) headerPath(path []string) string {
	parts := make([]string, len(path))
	for i, k := range path {
		if isBareKey(k) {
			parts[i] = k
		} else {
			parts[i] = quote(k)
		}
	}
	return strings.Join(parts, ".")
}

// encodeValue writes a single primitive value or inline array
func (e *encoder) encodeValue(v reflect.Value) error {
	v = deref(v)
	if !v.IsValid() {
		return fmt.Errorf("nil value")
	}

	switch v.Kind() {
	case reflect.Bool:
		e.w.WriteString(strconv.FormatBool(v.Bool()))

	case reflect.String:
		e.w.WriteString(quote(v.String()))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.w.WriteString(strconv.FormatInt(v.Int(), 10))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v.Uint() > math.MaxInt64 {
			return fmt.Errorf("%d overflows int64", v.Uint())
		}
		e.w.WriteString(strconv.FormatUint(v.Uint(), 10))

	case reflect.Float32, reflect.Float64:
		e.w.WriteString(formatFloat(v.Float()))

	case reflect.Slice, reflect.Array:
		e.w.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				e.w.WriteString(", ")
			}
			if err := e.encodeValue(v.Index(i)); err != nil {
				return err
			}
		}
		e.w.WriteByte(']')

	case reflect.Struct, reflect.Map:
		// Tables nested in inline arrays
		list, err := e.entries(v)
		if err != nil {
			return err
		}
		e.w.WriteByte('{')
		for i, en := range list {
			if i > 0 {
				e.w.WriteString(", ")
			}
			e.writeKey(en.key)
			e.w.WriteString(" = ")
			if err := e.encodeValue(en.val); err != nil {
				return err
			}
		}
		e.w.WriteByte('}')

	default:
		return fmt.Errorf("unsupported type %v", v.Kind())
	}
	return nil
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// isTable reports whether v renders as [table] or [[array of tables]]
func isTable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Struct, reflect.Map:
		return true
	case reflect.Slice:
		if v.Len() == 0 {
			return false
		}
		elem := deref(v.Index(0))
		return elem.Kind() == reflect.Struct || elem.Kind() == reflect.Map
	}
	// Fixed arrays such as vectors stay inline
	return false
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Array:
		return v.IsZero()
	}
	return false
}

func (e *encoder) writeKey(s string) {
	if isBareKey(s) {
		e.w.WriteString(s)
		return
	}
	e.w.WriteString(quote(s))
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7F {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// isBareKey reports whether s can be written unquoted and read back as a key
// Words the lexer reads as booleans, floats or numbers must be quoted
func isBareKey(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(isAlpha(r) || isDigit(r) || r == '_' || r == '-') {
			return false
		}
	}
	switch s {
	case "true", "false", "inf", "nan", "-inf", "-nan":
		return false
	}
	c0 := s[0]
	if isDigit(rune(c0)) {
		return false
	}
	if c0 == '-' && len(s) > 1 && isDigit(rune(s[1])) {
		return false
	}
	return true
}
