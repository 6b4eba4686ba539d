// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package qir

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/AleutianAI/AleutianQIR/pkg/symb"
)

// BloqKey returns a deterministic structural hash of a bloq value.
//
// Description:
//
//	The hash covers the dynamic type and every exported field reachable
//	from the value, so two bloqs constructed with identical arguments hash
//	equally regardless of where they were built. Before hashing, the value
//	is rewritten into a shadow tree: symb.Int parameters become their
//	canonical text (their own fields are unexported and would otherwise be
//	invisible to the hash) and interface fields record their dynamic type.
//	Bloq values may carry slice fields (shapes, sub-registers), which Go's
//	native map hashing rejects; identity-keyed lookups therefore go through
//	BloqKey/BloqsEqual via BloqMap instead of interface equality.
//
// Outputs:
//
//	uint64 - The structural hash.
//	error - A bloq whose fields fall outside the flat interchange shape
//	(functions, channels) cannot be hashed; that is a declaration bug
//	surfaced eagerly.
func BloqKey(b Bloq) (uint64, error) {
	shadow := []any{fmt.Sprintf("%T", b), hashShadow(reflect.ValueOf(b))}
	h, err := hashstructure.Hash(shadow, hashstructure.FormatV2, nil)
	if err != nil {
		return 0, fmt.Errorf("hash %s: %w", b, err)
	}
	return h, nil
}

var symIntType = reflect.TypeOf(symb.Int{})

func hashShadow(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	if v.Type() == symIntType {
		return v.Interface().(symb.Int).String()
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return []any{v.Elem().Type().String(), hashShadow(v.Elem())}
	case reflect.Struct:
		t := v.Type()
		m := make(map[string]any, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			if f := t.Field(i); f.IsExported() {
				m[f.Name] = hashShadow(v.Field(i))
			}
		}
		return m
	case reflect.Slice, reflect.Array:
		out := make([]any, v.Len())
		for i := range out {
			out[i] = hashShadow(v.Index(i))
		}
		return out
	default:
		return v.Interface()
	}
}

// BloqsEqual reports structural equality: same dynamic type, deeply equal
// fields. Symbolic parameters compare correctly because symb expressions
// are interned.
func BloqsEqual(a, b Bloq) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// BloqMap is a map keyed by structural bloq identity with deterministic
// insertion-order iteration. The zero value is not usable; call NewBloqMap.
//
// Thread Safety: not safe for concurrent mutation; engines keep one per
// query.
type BloqMap[V any] struct {
	buckets map[uint64][]bloqEntry[V]
	order   []Bloq
}

type bloqEntry[V any] struct {
	b Bloq
	v V
}

// NewBloqMap returns an empty map.
func NewBloqMap[V any]() *BloqMap[V] {
	return &BloqMap[V]{buckets: make(map[uint64][]bloqEntry[V])}
}

// Get returns the value stored for a structurally equal key.
func (m *BloqMap[V]) Get(b Bloq) (V, bool, error) {
	var zero V
	h, err := BloqKey(b)
	if err != nil {
		return zero, false, err
	}
	for _, e := range m.buckets[h] {
		if BloqsEqual(e.b, b) {
			return e.v, true, nil
		}
	}
	return zero, false, nil
}

// Put stores v under b's structural identity, replacing any previous value.
func (m *BloqMap[V]) Put(b Bloq, v V) error {
	h, err := BloqKey(b)
	if err != nil {
		return err
	}
	bucket := m.buckets[h]
	for i, e := range bucket {
		if BloqsEqual(e.b, b) {
			bucket[i].v = v
			return nil
		}
	}
	m.buckets[h] = append(bucket, bloqEntry[V]{b: b, v: v})
	m.order = append(m.order, b)
	return nil
}

// Len returns the number of distinct keys.
func (m *BloqMap[V]) Len() int { return len(m.order) }

// Keys returns the keys in first-insertion order.
func (m *BloqMap[V]) Keys() []Bloq {
	out := make([]Bloq, len(m.order))
	copy(out, m.order)
	return out
}
