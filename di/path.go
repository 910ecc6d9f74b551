package di

import (
	"reflect"
	"strconv"
	"strings"
)

// structTags are consulted, in order, when a path segment does not match a
// Go field name.
var structTags = []string{"json", "yaml", "mapstructure"}

// walkPath follows segments into v. Each step descends into a map entry, an
// exported struct field or a slice/array element, looking through pointers
// and interfaces on the way. It reports false as soon as a segment is absent.
func walkPath(v any, segments []string) (any, bool) {
	cur := reflect.ValueOf(v)
	for _, seg := range segments {
		next, ok := step(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	if !cur.IsValid() {
		return nil, true
	}
	return cur.Interface(), true
}

func step(v reflect.Value, seg string) (reflect.Value, bool) {
	v = indirect(v)
	if !v.IsValid() || seg == "" {
		return reflect.Value{}, false
	}

	switch v.Kind() {
	case reflect.Map:
		key, ok := mapKey(v.Type().Key(), seg)
		if !ok {
			return reflect.Value{}, false
		}
		val := v.MapIndex(key)
		return val, val.IsValid()
	case reflect.Struct:
		return field(v, seg)
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= v.Len() {
			return reflect.Value{}, false
		}
		return v.Index(i), true
	default:
		return reflect.Value{}, false
	}
}

// mapKey builds a key of type kt for seg. String-kinded keys are converted;
// interface keys that a string satisfies, as in map[any]any, take seg as is.
func mapKey(kt reflect.Type, seg string) (reflect.Value, bool) {
	switch {
	case kt.Kind() == reflect.String:
		return reflect.ValueOf(seg).Convert(kt), true
	case kt.Kind() == reflect.Interface && reflect.TypeFor[string]().Implements(kt):
		return reflect.ValueOf(seg), true
	default:
		return reflect.Value{}, false
	}
}

// indirect unwraps pointers and interfaces. A nil along the way yields the
// zero Value.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func field(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	if sf, ok := t.FieldByName(name); ok && sf.IsExported() {
		return fieldByIndex(v, sf.Index)
	}
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() {
			continue
		}
		for _, tag := range structTags {
			tagName, _, _ := strings.Cut(sf.Tag.Get(tag), ",")
			if tagName != "-" && tagName == name {
				return fieldByIndex(v, sf.Index)
			}
		}
	}
	return reflect.Value{}, false
}

// fieldByIndex fails instead of panicking when an embedded pointer is nil or
// the field is only reachable through an unexported embedded struct.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	f, err := v.FieldByIndexErr(index)
	if err != nil || !f.CanInterface() {
		return reflect.Value{}, false
	}
	return f, true
}
