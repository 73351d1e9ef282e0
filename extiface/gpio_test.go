package extiface

import (
	"testing"

	"github.com/gomotion-project/gomotion/result"
	"go.viam.com/test"
)

func TestNewGPIORejectsMismatchedLineCounts(t *testing.T) {
	_, code := NewGPIO([]string{"GPIO1"}, []string{"GPIO2", "GPIO3"}, []string{"GPIO4"}, nil, nil)
	test.That(t, code, test.ShouldEqual, result.BadArgs)
}

func TestNewGPIORejectsUnknownPinNames(t *testing.T) {
	_, code := NewGPIO(
		[]string{"NOT_A_REAL_PIN_0"},
		[]string{"NOT_A_REAL_PIN_1"},
		[]string{"NOT_A_REAL_PIN_2"},
		nil, nil,
	)
	test.That(t, code, test.ShouldEqual, result.BadArgs)
}
