// Package extiface is the external actuator/sensor contract Servo consumes (spec.md §6's
// ext_* table): process-wide init/quit, per-joint lifecycle, raw position read and
// pass-through/closed-loop writes, homing, and boolean/analog IO. Grounded on the teacher's
// components/board hardware-abstraction idiom (a small interface plus a Simulated/fake backend
// and a real GPIO-backed backend), generalized from "board" to this spec's narrower per-joint
// actuator contract.
package extiface

import "github.com/gomotion-project/gomotion/result"

// Ext is one process-wide external actuator/sensor driver serving every joint plus shared IO
// (spec.md §6).
type Ext interface {
	// Init is process-wide and idempotent.
	Init(initString string) result.Code
	Quit() result.Code

	JointInit(j int, dt float64) result.Code
	JointEnable(j int) result.Code
	JointDisable(j int) result.Code
	JointQuit(j int) result.Code

	// ReadPos returns joint j's raw position in servo coordinates (counts or linear units).
	ReadPos(j int) (pos float64, code result.Code)
	// WritePos is the pass-through-mode setpoint write; a driver without a position-mode
	// amplifier may return ImplError.
	WritePos(j int, pos float64) result.Code
	// WriteVel is the closed-loop output (voltage, current, or step rate).
	WriteVel(j int, vel float64) result.Code

	// JointHome requests homing; IsHome reports once the home condition has been met;
	// HomeLatch returns the raw position latched at that moment.
	JointHome(j int) result.Code
	IsHome(j int) bool
	HomeLatch(j int) (pos float64, code result.Code)

	// TriggerIn performs one one-shot ADC sample across all configured analog/digital inputs.
	TriggerIn() result.Code
	ReadAin(ch int) (float64, result.Code)
	ReadDin(ch int) (bool, result.Code)
	WriteAout(ch int, v float64) result.Code
	WriteDout(ch int, v bool) result.Code

	NumAin() int
	NumAout() int
	NumDin() int
	NumDout() int

	// SetParameters is an opaque pass-through for driver-specific tuning (spec.md §6
	// ext_set_parameters).
	SetParameters(j int, values []float64) result.Code
}
