// Package encode provides a deterministic binary encoding for widget
// configuration values, suitable for deriving stable hashed identities.
//
// The encoding is canonical: identical values always produce identical
// bytes. Struct fields are visited in declaration order, map keys are
// sorted, integers are written fixed-width big-endian, and every string
// or sequence is length-prefixed so that adjacent values cannot alias.
package encode

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Hash64 returns the 64-bit xxhash of the canonical encoding of value,
// mixed with the supplied domain tag. Two values hash equal iff their
// canonical encodings are equal; the 64-bit width keeps the collision
// probability negligible for realistic widget counts and is accepted
// rather than mitigated.
func Hash64(tag string, value any) (uint64, error) {
	digest := xxhash.New()
	writeString(digest, tag)
	if err := writeValue(digest, reflect.ValueOf(value)); err != nil {
		return 0, err
	}
	return digest.Sum64(), nil
}

type byteWriter interface {
	Write(p []byte) (int, error)
	WriteString(s string) (int, error)
}

func writeString(w byteWriter, s string) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(len(s)))
	w.Write(buf[:])
	w.WriteString(s)
}

func writeUint64(w byteWriter, v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	w.Write(buf[:])
}

// writeValue appends the canonical encoding of v. Each value is written
// as a one-byte kind marker followed by a fixed-width or length-prefixed
// payload.
func writeValue(w byteWriter, v reflect.Value) error {
	if !v.IsValid() {
		w.Write([]byte{0x00})
		return nil
	}

	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			w.Write([]byte{0x01, 0x01})
		} else {
			w.Write([]byte{0x01, 0x00})
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		w.Write([]byte{0x02})
		writeUint64(w, uint64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		w.Write([]byte{0x03})
		writeUint64(w, v.Uint())
	case reflect.Float32, reflect.Float64:
		w.Write([]byte{0x04})
		writeUint64(w, math.Float64bits(v.Float()))
	case reflect.String:
		w.Write([]byte{0x05})
		writeString(w, v.String())
	case reflect.Slice, reflect.Array:
		w.Write([]byte{0x06})
		writeUint64(w, uint64(v.Len()))
		for i := 0; i < v.Len(); i++ {
			if err := writeValue(w, v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		w.Write([]byte{0x07})
		writeUint64(w, uint64(v.Len()))
		keys, err := sortedMapKeys(v)
		if err != nil {
			return err
		}
		for _, key := range keys {
			writeString(w, key.label)
			if err := writeValue(w, v.MapIndex(key.value)); err != nil {
				return err
			}
		}
	case reflect.Struct:
		w.Write([]byte{0x08})
		t := v.Type()
		writeString(w, t.Name())
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			writeString(w, field.Name)
			if err := writeValue(w, v.Field(i)); err != nil {
				return err
			}
		}
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			w.Write([]byte{0x00})
			return nil
		}
		return writeValue(w, v.Elem())
	default:
		return fmt.Errorf("encode: unsupported kind %s", v.Kind())
	}
	return nil
}

type mapKey struct {
	label string
	value reflect.Value
}

func sortedMapKeys(v reflect.Value) ([]mapKey, error) {
	keys := make([]mapKey, 0, v.Len())
	for _, key := range v.MapKeys() {
		label, err := keyLabel(key)
		if err != nil {
			return nil, err
		}
		keys = append(keys, mapKey{label: label, value: key})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].label < keys[j].label })
	return keys, nil
}

func keyLabel(key reflect.Value) (string, error) {
	switch key.Kind() {
	case reflect.String:
		return key.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%020d", key.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%020d", key.Uint()), nil
	default:
		return "", fmt.Errorf("encode: unsupported map key kind %s", key.Kind())
	}
}
