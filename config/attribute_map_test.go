package config

import (
	"testing"

	"go.viam.com/test"
)

var sampleAttributeMap = AttributeMap{
	"ok_boolean_true":   true,
	"ok_boolean_false":  false,
	"bad_boolean":       "true",
	"good_int_slice":    []interface{}{1, 2, 3},
	"bad_int_slice":     "not a slice",
	"good_string_slice": []interface{}{"1", "2", "3"},
	"good_float_slice":  []interface{}{1.0, 2, 3.5},
}

func runForPanic(f func()) (didPanic bool, recovered interface{}) {
	defer func() {
		if r := recover(); r != nil {
			didPanic = true
			recovered = r
		}
	}()
	f()
	return false, nil
}

func TestAttributeMapBool(t *testing.T) {
	test.That(t, sampleAttributeMap.Bool("ok_boolean_true", false), test.ShouldBeTrue)
	test.That(t, sampleAttributeMap.Bool("ok_boolean_false", true), test.ShouldBeFalse)
	test.That(t, sampleAttributeMap.Bool("missing_key", true), test.ShouldBeTrue)

	didPanic, _ := runForPanic(func() { sampleAttributeMap.Bool("bad_boolean", false) })
	test.That(t, didPanic, test.ShouldBeTrue)
}

func TestAttributeMapIntSlice(t *testing.T) {
	test.That(t, sampleAttributeMap.IntSlice("good_int_slice"), test.ShouldResemble, []int{1, 2, 3})

	didPanic, _ := runForPanic(func() { sampleAttributeMap.IntSlice("bad_int_slice") })
	test.That(t, didPanic, test.ShouldBeTrue)
}

func TestAttributeMapStringSlice(t *testing.T) {
	test.That(t, sampleAttributeMap.StringSlice("good_string_slice"), test.ShouldResemble, []string{"1", "2", "3"})
}

func TestAttributeMapFloat64Slice(t *testing.T) {
	test.That(t, sampleAttributeMap.Float64Slice("good_float_slice"), test.ShouldResemble, []float64{1.0, 2.0, 3.5})
}

func TestAttributeMapFloat64AndStringDefaults(t *testing.T) {
	test.That(t, sampleAttributeMap.Float64("missing", 3.2), test.ShouldAlmostEqual, 3.2)
	test.That(t, sampleAttributeMap.String("missing", "fallback"), test.ShouldEqual, "fallback")
	test.That(t, sampleAttributeMap.Int("missing", 7), test.ShouldEqual, 7)
}
