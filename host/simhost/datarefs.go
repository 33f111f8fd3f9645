// host/simhost/datarefs.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package simhost

import (
	"fmt"

	"github.com/mmp/rds81/host"
)

type dataRefKind int

const (
	kindInt dataRefKind = iota
	kindFloat
	kindFloats
	kindInts
)

// DataRef is a dataref stored by the Host. Published datarefs forward to
// the accessors supplied by the plugin; all others hold their value
// directly.
type DataRef struct {
	name   string
	kind   dataRefKind
	i      int
	f      float32
	floats []float32
	ints   []int32

	getInt   func() int
	setInt   func(int)
	getFloat func() float32
	setFloat func(float32)

	published bool
	// Writes counts the number of Set calls, so tests can check that a
	// value was forced rather than merely left alone.
	Writes int
}

func (d *DataRef) Name() string { return d.name }

func (d *DataRef) Int() int {
	switch d.kind {
	case kindInt:
		if d.getInt != nil {
			return d.getInt()
		}
		return d.i
	case kindFloat:
		return int(d.Float())
	default:
		return 0
	}
}

func (d *DataRef) SetInt(v int) {
	d.Writes++
	switch d.kind {
	case kindInt:
		if d.published {
			if d.setInt != nil {
				d.setInt(v)
			}
			return
		}
		d.i = v
	case kindFloat:
		d.Writes--
		d.SetFloat(float32(v))
	}
}

func (d *DataRef) Float() float32 {
	switch d.kind {
	case kindFloat:
		if d.getFloat != nil {
			return d.getFloat()
		}
		return d.f
	case kindInt:
		return float32(d.Int())
	default:
		return 0
	}
}

func (d *DataRef) SetFloat(v float32) {
	d.Writes++
	switch d.kind {
	case kindFloat:
		if d.published {
			if d.setFloat != nil {
				d.setFloat(v)
			}
			return
		}
		d.f = v
	case kindInt:
		d.Writes--
		d.SetInt(int(v))
	}
}

func (d *DataRef) Floats(dst []float32) int {
	if d.kind != kindFloats {
		return 0
	}
	return copy(dst, d.floats)
}

func (d *DataRef) Ints(dst []int32) int {
	if d.kind != kindInts {
		return 0
	}
	return copy(dst, d.ints)
}

// SetFloats replaces the first len(v) elements of a float vector
// dataref.
func (d *DataRef) SetFloats(v []float32) {
	d.Writes++
	copy(d.floats, v)
}

// SetInts replaces the first len(v) elements of an int vector dataref.
func (d *DataRef) SetInts(v []int32) {
	d.Writes++
	copy(d.ints, v)
}

func (h *Host) define(d *DataRef) *DataRef {
	h.datarefs[d.name] = d
	return d
}

func (h *Host) DefineInt(name string, v int) *DataRef {
	return h.define(&DataRef{name: name, kind: kindInt, i: v})
}

func (h *Host) DefineFloat(name string, v float32) *DataRef {
	return h.define(&DataRef{name: name, kind: kindFloat, f: v})
}

func (h *Host) DefineFloats(name string, v []float32) *DataRef {
	return h.define(&DataRef{name: name, kind: kindFloats, floats: append([]float32(nil), v...)})
}

func (h *Host) DefineInts(name string, v []int32) *DataRef {
	return h.define(&DataRef{name: name, kind: kindInts, ints: append([]int32(nil), v...)})
}

// Remove deletes a dataref, as happens when the plugin that owns it is
// unloaded.
func (h *Host) Remove(name string) {
	delete(h.datarefs, name)
}

// DataRef returns the named dataref or nil.
func (h *Host) DataRef(name string) *DataRef {
	return h.datarefs[name]
}

func (h *Host) FindDataRef(name string) (host.DataRef, error) {
	if d, ok := h.datarefs[name]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%s: %w", name, host.ErrNotFound)
}

func (h *Host) PublishInt(name string, get func() int, set func(int)) (host.DataRef, error) {
	if _, ok := h.datarefs[name]; ok {
		return nil, fmt.Errorf("%s: %w", name, host.ErrAlreadyExists)
	}
	return h.define(&DataRef{name: name, kind: kindInt, getInt: get, setInt: set, published: true}), nil
}

func (h *Host) PublishFloat(name string, get func() float32, set func(float32)) (host.DataRef, error) {
	if _, ok := h.datarefs[name]; ok {
		return nil, fmt.Errorf("%s: %w", name, host.ErrAlreadyExists)
	}
	return h.define(&DataRef{name: name, kind: kindFloat, getFloat: get, setFloat: set, published: true}), nil
}

func (h *Host) Unpublish(ref host.DataRef) {
	if d, ok := h.datarefs[ref.Name()]; ok && d.published {
		delete(h.datarefs, ref.Name())
	}
}
