// Package jvser implements the canonical serializer of spec.md §4.4: the
// inverse of jvparse on the subset of inputs jvparse accepts, including
// escape handling, control-character hex-escape emission, shortest
// round-trip double formatting, and lexicographically ordered object
// emission.
//
// Serialize never fails and is pure with respect to its input value.
package jvser

import (
	"sort"

	"github.com/bracez/json/jvalue"
	"github.com/bracez/json/jvnum"
)

// Serialize renders v as compliant JSON text.
func Serialize(v jvalue.Value) string {
	return string(appendValue(nil, v))
}

func appendValue(buf []byte, v jvalue.Value) []byte {
	switch v.Kind() {
	case jvalue.KindNull:
		return append(buf, "null"...)
	case jvalue.KindBool:
		if v.Bool() {
			return append(buf, "true"...)
		}
		return append(buf, "false"...)
	case jvalue.KindNumber:
		return append(buf, jvnum.Format(v.Number())...)
	case jvalue.KindString:
		return appendString(buf, v.Str())
	case jvalue.KindArray:
		return appendArray(buf, v)
	case jvalue.KindObject:
		return appendObject(buf, v)
	default:
		return buf
	}
}

func appendArray(buf []byte, v jvalue.Value) []byte {
	buf = append(buf, '[')
	elems := v.Elements()
	for i := range elems {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendValue(buf, elems[i])
	}
	return append(buf, ']')
}

// appendObject emits members in ascending byte-lexicographic key order
// per spec.md §4.4, regardless of insertion order.
func appendObject(buf []byte, v jvalue.Value) []byte {
	keys := v.Keys()
	sort.Strings(keys)

	buf = append(buf, '{')
	for i, key := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendString(buf, key)
		buf = append(buf, ':')
		buf = appendValue(buf, v.Get(key))
	}
	return append(buf, '}')
}

func appendString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch b {
		case '"':
			buf = append(buf, '\\', '"')
		case '\\':
			buf = append(buf, '\\', '\\')
		case 0x08:
			buf = append(buf, '\\', 'b')
		case 0x0C:
			buf = append(buf, '\\', 'f')
		case 0x0A:
			buf = append(buf, '\\', 'n')
		case 0x0D:
			buf = append(buf, '\\', 'r')
		case 0x09:
			buf = append(buf, '\\', 't')
		default:
			if b < 0x20 {
				buf = append(buf, '\\', 'u', '0', '0', hexDigitUpper(b>>4), hexDigitUpper(b&0x0F))
				continue
			}
			buf = append(buf, b)
		}
	}
	return append(buf, '"')
}

func hexDigitUpper(b byte) byte {
	if b < 10 {
		return '0' + b
	}
	return 'A' + (b - 10)
}
