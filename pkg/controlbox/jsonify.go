package controlbox

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// CircularMarker replaces values that reference one of their ancestors.
const CircularMarker = "[Circular]"

// Jsonify renders value as indented JSON. References back to an enclosing
// pointer, map or slice are replaced by CircularMarker instead of failing.
func Jsonify(value any) string {
	tree := toJSONTree(reflect.ValueOf(value), make(map[visitKey]struct{}))
	out, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Sprintf("%T", value)
	}
	return string(out)
}

type jsonField struct {
	key   string
	value any
}

// jsonObject keeps struct field order when marshalled.
type jsonObject []jsonField

func (o jsonObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, field := range o {
		if idx > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(field.value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

var (
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
)

func toJSONTree(v reflect.Value, ancestors map[visitKey]struct{}) any {
	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return toJSONTree(v.Elem(), ancestors)
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return nil
		}
	}

	if v.CanInterface() {
		if v.Type().Implements(marshalerType) {
			if raw, err := json.Marshal(v.Interface()); err == nil {
				return json.RawMessage(raw)
			}
		}
		if v.Type().Implements(errorType) {
			return v.Interface().(error).Error()
		}
	}

	switch v.Kind() {
	case reflect.Pointer:
		return visit(v, ancestors, func() any {
			return toJSONTree(v.Elem(), ancestors)
		})
	case reflect.Map:
		return visit(v, ancestors, func() any {
			out := make(map[string]any, v.Len())
			iter := v.MapRange()
			for iter.Next() {
				out[fmt.Sprint(iter.Key().Interface())] = toJSONTree(iter.Value(), ancestors)
			}
			return out
		})
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Bytes()
		}
		if v.Len() == 0 {
			return []any{}
		}
		return visit(v, ancestors, func() any {
			return sequence(v, ancestors)
		})
	case reflect.Array:
		return sequence(v, ancestors)
	case reflect.Struct:
		return structObject(v, ancestors)
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case reflect.Complex64, reflect.Complex128:
		return fmt.Sprint(v.Complex())
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return nil
	default:
		if v.CanInterface() {
			return v.Interface()
		}
		return fmt.Sprint(v)
	}
}

// visitKey pairs an address with its type so a struct and its first field
// are not mistaken for each other.
type visitKey struct {
	addr uintptr
	typ  reflect.Type
}

func visit(v reflect.Value, ancestors map[visitKey]struct{}, walk func() any) any {
	key := visitKey{addr: v.Pointer(), typ: v.Type()}
	if _, seen := ancestors[key]; seen {
		return CircularMarker
	}
	ancestors[key] = struct{}{}
	defer delete(ancestors, key)
	return walk()
}

func sequence(v reflect.Value, ancestors map[visitKey]struct{}) []any {
	out := make([]any, v.Len())
	for idx := 0; idx < v.Len(); idx++ {
		out[idx] = toJSONTree(v.Index(idx), ancestors)
	}
	return out
}

func structObject(v reflect.Value, ancestors map[visitKey]struct{}) jsonObject {
	typ := v.Type()
	out := make(jsonObject, 0, typ.NumField())
	for idx := 0; idx < typ.NumField(); idx++ {
		field := typ.Field(idx)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag, ok := field.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		out = append(out, jsonField{key: name, value: toJSONTree(v.Field(idx), ancestors)})
	}
	return out
}
