package extiface

import (
	"math"

	"github.com/gomotion-project/gomotion/motorsim"
	"github.com/gomotion-project/gomotion/result"
)

const (
	simNumJoints = 8
	simAinNum    = 8
	simAoutNum   = 8
	simDinNum    = 16
	simDoutNum   = 16
	rollover     = 0.1
)

// Simulated is a wholly in-process external-interface backend driving each joint with its own
// motorsim.Motor, transliterated from original_source/src/ext_sim.c: homing is detected by
// watching the simulated position cross a rollover-bin boundary (or immediately, if the init
// string requests it), and analog inputs cycle back and forth between -10 and 10 for exercising
// IO plumbing without real hardware.
type Simulated struct {
	motors        [simNumJoints]*motorsim.Motor
	oldPos        [simNumJoints]float64
	isHoming      [simNumJoints]bool
	isHomed       [simNumJoints]bool
	homeLatch     [simNumJoints]float64
	homeImmediate bool

	ain     [simAinNum]float64
	ainIncr [simAinNum]float64
	din     [simDinNum]bool
}

// NewSimulated builds a Simulated backend. Call Init before use.
func NewSimulated() *Simulated {
	return &Simulated{}
}

// Init mirrors ext_sim.c's ext_init: initString[0]=='I' requests immediate homing for every
// joint, and the analog inputs are seeded with per-channel increments.
func (s *Simulated) Init(initString string) result.Code {
	s.homeImmediate = len(initString) > 0 && initString[0] == 'I'
	for i := range s.ain {
		s.ain[i] = 0
		s.ainIncr[i] = float64(i+1) * 0.001
	}
	for i := range s.din {
		s.din[i] = false
	}
	return result.OK
}

func (s *Simulated) Quit() result.Code { return result.OK }

// JointInit seeds joint j's motor with the Inland Motor BM-3503 parameters used by the reference
// simulator, starting position equal to the joint index (ext_sim.c's "something random, in this
// case the joint number").
func (s *Simulated) JointInit(j int, dt float64) result.Code {
	if j < 0 || j >= simNumJoints {
		return result.RangeError
	}
	m, code := motorsim.Init(motorsim.Params{
		Bm: 6.129, La: 0.00035, Ra: 0.028, Jm: 0.00707, K: 0.414,
		Tl: 0, Tk: 0, Ts: 0, T: dt,
	})
	if !code.IsOK() {
		return code
	}
	m.SetTheta(float64(j))
	s.motors[j] = m
	s.oldPos[j] = float64(j)
	s.isHoming[j] = false
	s.isHomed[j] = false
	s.homeLatch[j] = 0
	return result.OK
}

func (s *Simulated) JointEnable(j int) result.Code  { return result.OK }
func (s *Simulated) JointDisable(j int) result.Code { return result.OK }
func (s *Simulated) JointQuit(j int) result.Code    { return result.OK }

func (s *Simulated) ReadPos(j int) (float64, result.Code) {
	if j < 0 || j >= simNumJoints || s.motors[j] == nil {
		return 0, result.RangeError
	}
	theta, _, _ := s.motors[j].Get()
	return theta, result.OK
}

func (s *Simulated) WritePos(j int, pos float64) result.Code { return result.ImplError }

// WriteVel clocks the underlying motor simulation one cycle, treating vel as a commanded current
// (ext_sim.c's ext_write_vel drives dcmotor_run_current_cycle).
func (s *Simulated) WriteVel(j int, vel float64) result.Code {
	if j < 0 || j >= simNumJoints || s.motors[j] == nil {
		return result.RangeError
	}
	old, code := s.ReadPos(j)
	if !code.IsOK() {
		return code
	}
	s.oldPos[j] = old
	return s.motors[j].RunCurrentCycle(vel)
}

func (s *Simulated) JointHome(j int) result.Code {
	if j < 0 || j >= simNumJoints {
		return result.RangeError
	}
	s.isHoming[j] = true
	s.isHomed[j] = false
	return result.OK
}

// IsHome mirrors ext_sim.c's rollover-bin detection: homing completes the cycle the simulated
// position crosses from one ROLLOVER-wide bin into another.
func (s *Simulated) IsHome(j int) bool {
	if j < 0 || j >= simNumJoints {
		return true
	}
	if s.isHomed[j] {
		return true
	}
	if !s.isHoming[j] {
		return false
	}
	if s.homeImmediate {
		s.isHoming[j] = false
		s.isHomed[j] = true
		return true
	}

	oldBin := s.oldPos[j] - floorMod(s.oldPos[j], rollover)
	now, code := s.ReadPos(j)
	if !code.IsOK() {
		return false
	}
	nowBin := now - floorMod(now, rollover)
	if oldBin != nowBin {
		s.isHoming[j] = false
		s.isHomed[j] = true
		s.homeLatch[j] = nowBin
		return true
	}
	return false
}

func floorMod(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	return r
}

func (s *Simulated) HomeLatch(j int) (float64, result.Code) {
	if j < 0 || j >= simNumJoints {
		return 0, result.RangeError
	}
	return s.homeLatch[j], result.OK
}

// TriggerIn cycles every analog input back and forth between -10 and 10, and derives each
// available digital input from the sign of its analog channel's increment, exactly as
// ext_sim.c's ext_trigger_in does.
func (s *Simulated) TriggerIn() result.Code {
	for i := range s.ain {
		s.ain[i] += s.ainIncr[i]
		if s.ain[i] > 10 {
			s.ain[i] = 10
			s.ainIncr[i] = -s.ainIncr[i]
		} else if s.ain[i] < -10 {
			s.ain[i] = -10
			s.ainIncr[i] = -s.ainIncr[i]
		}
	}
	for i := range s.din {
		if i < simAinNum {
			s.din[i] = s.ainIncr[i] >= 0
		}
	}
	return result.OK
}

func (s *Simulated) ReadAin(ch int) (float64, result.Code) {
	if ch < 0 || ch >= simAinNum {
		return 0, result.RangeError
	}
	return s.ain[ch], result.OK
}

func (s *Simulated) ReadDin(ch int) (bool, result.Code) {
	if ch < 0 || ch >= simDinNum {
		return false, result.RangeError
	}
	return s.din[ch], result.OK
}

func (s *Simulated) WriteAout(ch int, v float64) result.Code {
	if ch < 0 || ch >= simAoutNum {
		return result.RangeError
	}
	return result.OK
}

func (s *Simulated) WriteDout(ch int, v bool) result.Code {
	if ch < 0 || ch >= simDoutNum {
		return result.RangeError
	}
	return result.OK
}

func (s *Simulated) NumAin() int  { return simAinNum }
func (s *Simulated) NumAout() int { return simAoutNum }
func (s *Simulated) NumDin() int  { return simDinNum }
func (s *Simulated) NumDout() int { return simDoutNum }

func (s *Simulated) SetParameters(j int, values []float64) result.Code { return result.OK }
