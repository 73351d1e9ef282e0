package extiface

import (
	"sync"

	"github.com/gomotion-project/gomotion/result"
	periphgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// jointLines is one joint's step/direction GPIO pair (velocity output) and a plain digital input
// used as a simulated/physical home-switch line, grounded on components/board's "line/pin"
// abstraction generalized to this spec's per-joint actuator contract.
type jointLines struct {
	step, dir periphgpio.PinIO
	home      periphgpio.PinIO

	mu       sync.Mutex
	position float64 // accumulated step count, in servo units
	homed    bool
	homing   bool
	latch    float64
}

// GPIO is a real-hardware Ext backend driving each joint as a step/direction output pair plus a
// home-switch digital input, built entirely on periph.io's pin registry (host.Init/gpioreg) for
// both the per-joint control lines and the bulk digital IO banks. It implements the
// pass-through-mode position write as unimplemented, exactly like extiface.Simulated, since a
// step/direction driver has no absolute position register to write into.
//
// The Sensoray 626 PCI card, Profibus, and bit-banged stepper task drivers named in spec.md's
// Non-goals are not implemented here or anywhere in this module; GPIO is a generic periph.io-
// backed alternative to Simulated, not a port of any of those.
type GPIO struct {
	mu        sync.Mutex
	joints    []*jointLines
	ain       []float64 // last TriggerIn sample, no physical ADC wired: stays 0 unless set externally
	dinLines  []periphgpio.PinIO
	doutLines []periphgpio.PinIO
}

// NewGPIO initializes periph.io's host drivers and returns an empty GPIO backend. stepNames,
// dirNames, and homeNames must all have the same length (one entry per joint); dinNames/doutNames
// size the digital IO banks.
func NewGPIO(stepNames, dirNames, homeNames, dinNames, doutNames []string) (*GPIO, result.Code) {
	if len(stepNames) != len(dirNames) || len(stepNames) != len(homeNames) {
		return nil, result.BadArgs
	}
	if _, err := host.Init(); err != nil {
		return nil, result.Error
	}

	g := &GPIO{}
	for i := range stepNames {
		step := gpioreg.ByName(stepNames[i])
		dir := gpioreg.ByName(dirNames[i])
		home := gpioreg.ByName(homeNames[i])
		if step == nil || dir == nil || home == nil {
			return nil, result.BadArgs
		}
		g.joints = append(g.joints, &jointLines{step: step, dir: dir, home: home})
	}
	g.ain = make([]float64, len(dinNames))
	for _, name := range dinNames {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, result.BadArgs
		}
		g.dinLines = append(g.dinLines, pin)
	}
	for _, name := range doutNames {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, result.BadArgs
		}
		g.doutLines = append(g.doutLines, pin)
	}
	return g, result.OK
}

func (g *GPIO) Init(initString string) result.Code { return result.OK }
func (g *GPIO) Quit() result.Code                  { return result.OK }

func (g *GPIO) joint(j int) (*jointLines, result.Code) {
	if j < 0 || j >= len(g.joints) {
		return nil, result.RangeError
	}
	return g.joints[j], result.OK
}

func (g *GPIO) JointInit(j int, dt float64) result.Code {
	jl, code := g.joint(j)
	if !code.IsOK() {
		return code
	}
	jl.mu.Lock()
	defer jl.mu.Unlock()
	jl.position, jl.homed, jl.homing, jl.latch = 0, false, false, 0
	if err := jl.dir.Out(periphgpio.Low); err != nil {
		return result.Error
	}
	return result.OK
}

func (g *GPIO) JointEnable(j int) result.Code  { _, code := g.joint(j); return code }
func (g *GPIO) JointDisable(j int) result.Code { _, code := g.joint(j); return code }
func (g *GPIO) JointQuit(j int) result.Code    { _, code := g.joint(j); return code }

func (g *GPIO) ReadPos(j int) (float64, result.Code) {
	jl, code := g.joint(j)
	if !code.IsOK() {
		return 0, code
	}
	jl.mu.Lock()
	defer jl.mu.Unlock()
	return jl.position, result.OK
}

func (g *GPIO) WritePos(j int, pos float64) result.Code { return result.ImplError }

// WriteVel pulses step once per call with direction set from the sign of vel, accumulating a
// signed step count as the joint's raw position; this is the step/direction analogue of
// ext_sim.c's ext_write_vel, except the integration happens in real pulses rather than a closed
// form ODE.
func (g *GPIO) WriteVel(j int, vel float64) result.Code {
	jl, code := g.joint(j)
	if !code.IsOK() {
		return code
	}
	jl.mu.Lock()
	defer jl.mu.Unlock()

	level := periphgpio.High
	delta := 1.0
	if vel < 0 {
		level = periphgpio.Low
		delta = -1.0
	}
	if err := jl.dir.Out(level); err != nil {
		return result.Error
	}
	if err := jl.step.Out(periphgpio.High); err != nil {
		return result.Error
	}
	if err := jl.step.Out(periphgpio.Low); err != nil {
		return result.Error
	}
	if vel != 0 {
		jl.position += delta
	}
	return result.OK
}

func (g *GPIO) JointHome(j int) result.Code {
	jl, code := g.joint(j)
	if !code.IsOK() {
		return code
	}
	jl.mu.Lock()
	defer jl.mu.Unlock()
	jl.homing, jl.homed = true, false
	return result.OK
}

// IsHome polls the joint's home-switch input line; reading the line high (switch closed,
// active-high) while homing latches the current accumulated position, mirroring ext_sim.c's ext_joint_is_home contract but
// sourced from real hardware instead of a simulated rollover bin.
func (g *GPIO) IsHome(j int) bool {
	jl, code := g.joint(j)
	if !code.IsOK() {
		return true
	}
	jl.mu.Lock()
	defer jl.mu.Unlock()
	if jl.homed {
		return true
	}
	if !jl.homing {
		return false
	}
	if jl.home.Read() == periphgpio.High {
		jl.homing, jl.homed = false, true
		jl.latch = jl.position
		return true
	}
	return false
}

func (g *GPIO) HomeLatch(j int) (float64, result.Code) {
	jl, code := g.joint(j)
	if !code.IsOK() {
		return 0, code
	}
	jl.mu.Lock()
	defer jl.mu.Unlock()
	return jl.latch, result.OK
}

// TriggerIn has no physical ADC wired in this backend (periph.io's conn/v3/physic analog surface
// targets specific ADC chips, not a generic pin); ain readings stay at their last-written value.
func (g *GPIO) TriggerIn() result.Code {
	_ = physic.Volt // acknowledges the analog unit type this backend would adopt given a real ADC
	return result.OK
}

func (g *GPIO) ReadAin(ch int) (float64, result.Code) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ch < 0 || ch >= len(g.ain) {
		return 0, result.RangeError
	}
	return g.ain[ch], result.OK
}

func (g *GPIO) ReadDin(ch int) (bool, result.Code) {
	if ch < 0 || ch >= len(g.dinLines) {
		return false, result.RangeError
	}
	return g.dinLines[ch].Read() == periphgpio.High, result.OK
}

func (g *GPIO) WriteAout(ch int, v float64) result.Code {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ch < 0 || ch >= len(g.ain) {
		return result.RangeError
	}
	g.ain[ch] = v
	return result.OK
}

func (g *GPIO) WriteDout(ch int, v bool) result.Code {
	if ch < 0 || ch >= len(g.doutLines) {
		return result.RangeError
	}
	level := periphgpio.Low
	if v {
		level = periphgpio.High
	}
	if err := g.doutLines[ch].Out(level); err != nil {
		return result.Error
	}
	return result.OK
}

func (g *GPIO) NumAin() int  { return len(g.ain) }
func (g *GPIO) NumAout() int { return len(g.ain) }
func (g *GPIO) NumDin() int  { return len(g.dinLines) }
func (g *GPIO) NumDout() int { return len(g.doutLines) }

func (g *GPIO) SetParameters(j int, values []float64) result.Code {
	if _, code := g.joint(j); !code.IsOK() {
		return code
	}
	return result.OK
}
