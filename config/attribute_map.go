// Package config holds the already-parsed ini-file configuration spec.md §6 describes the core
// as consuming: per-servo link/limit parameters, traj home/kinematics/tool-transform, profile
// maxima, cycle times, and debug/log settings. AttributeMap is grounded directly on the teacher's
// own `go.viam.com/rdk/config` AttributeMap: a loosely-typed map with typed, panicking accessors,
// used for the handful of driver-specific "opaque pass-through" values spec.md §6 calls out
// (ext_set_parameters's values, kinematics set_parameters's implementation-specific knobs).
package config

import "fmt"

// AttributeMap is a loosely-typed bag of configuration values, for opaque driver/implementation-
// specific parameters that don't warrant a dedicated struct field (spec.md §4.4 set_parameters,
// §6 ext_set_parameters).
type AttributeMap map[string]interface{}

// Bool returns the named key as a bool, or def if absent. Panics if present but not a bool,
// matching the teacher's AttributeMap idiom of treating a type mismatch as a configuration-author
// error worth crashing loudly on at startup rather than silently misbehaving at runtime.
func (a AttributeMap) Bool(name string, def bool) bool {
	v, ok := a[name]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		panic(fmt.Sprintf("config: value for (%s) wanted a bool, got %T", name, v))
	}
	return b
}

func (a AttributeMap) Int(name string, def int) int {
	v, ok := a[name]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		panic(fmt.Sprintf("config: value for (%s) wanted an int, got %T", name, v))
	}
}

func (a AttributeMap) Float64(name string, def float64) float64 {
	v, ok := a[name]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		panic(fmt.Sprintf("config: value for (%s) wanted a float64, got %T", name, v))
	}
}

func (a AttributeMap) String(name, def string) string {
	v, ok := a[name]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		panic(fmt.Sprintf("config: value for (%s) wanted a string, got %T", name, v))
	}
	return s
}

// IntSlice returns the named key, which must be a []interface{} of all ints (as produced by
// generic JSON/ini decoding), as a []int.
func (a AttributeMap) IntSlice(name string) []int {
	v, ok := a[name]
	if !ok {
		return nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		panic(fmt.Sprintf("config: value for (%s) wanted a []int, got %T", name, v))
	}
	out := make([]int, len(raw))
	for i, r := range raw {
		n, ok := r.(int)
		if !ok {
			panic(fmt.Sprintf("config: values in (%s) need to be ints", name))
		}
		out[i] = n
	}
	return out
}

// StringSlice returns the named key, which must be a []interface{} of all strings, as a
// []string.
func (a AttributeMap) StringSlice(name string) []string {
	v, ok := a[name]
	if !ok {
		return nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		panic(fmt.Sprintf("config: value for (%s) wanted a []string, got %T", name, v))
	}
	out := make([]string, len(raw))
	for i, r := range raw {
		s, ok := r.(string)
		if !ok {
			panic(fmt.Sprintf("config: values in (%s) need to be strings", name))
		}
		out[i] = s
	}
	return out
}

// Float64Slice returns the named key as a []float64, accepting either float64 or int elements
// (e.g. the per-joint max_vel/acc/jerk triples of spec.md §6).
func (a AttributeMap) Float64Slice(name string) []float64 {
	v, ok := a[name]
	if !ok {
		return nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		panic(fmt.Sprintf("config: value for (%s) wanted a []float64, got %T", name, v))
	}
	out := make([]float64, len(raw))
	for i, r := range raw {
		switch n := r.(type) {
		case float64:
			out[i] = n
		case int:
			out[i] = float64(n)
		default:
			panic(fmt.Sprintf("config: values in (%s) need to be numbers", name))
		}
	}
	return out
}
