// Command gomotion-sim wires one coordinated Traj task over a fixed number of simulated Servo
// tasks and runs them at a fixed cycle rate, demonstrating the runtime topology spec.md §5
// describes (independent periodic tasks cooperating only through comm channels, no locks). The
// ini-file configuration parser spec.md places outside the core is out of scope here too; this
// harness builds its Config literally instead.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/gomotion-project/gomotion/comm"
	"github.com/gomotion-project/gomotion/config"
	"github.com/gomotion-project/gomotion/extiface"
	"github.com/gomotion-project/gomotion/kinematics"
	"github.com/gomotion-project/gomotion/logging"
	"github.com/gomotion-project/gomotion/motionqueue"
	"github.com/gomotion-project/gomotion/referenceframe"
	"github.com/gomotion-project/gomotion/result"
	"github.com/gomotion-project/gomotion/servoloop"
	"github.com/gomotion-project/gomotion/spatialmath"
	"github.com/gomotion-project/gomotion/trajloop"
)

const numJoints = 3
const cycleTime = 10 * time.Millisecond

func main() {
	logger := logging.NewLogger("gomotion-sim")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, clock.New()); err != nil {
		logger.Errorf("exiting: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *logging.Logger, cl clock.Clock) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	chain, code := referenceframe.NewChain(links(cfg))
	if !code.IsOK() {
		return errors.Wrap(code.Err(), "build chain")
	}
	kin, code := kinematics.Select(cfg.Traj.Kinematics.Name, chain)
	if !code.IsOK() {
		return errors.Wrap(code.Err(), "select kinematics")
	}
	queue, code := motionqueue.Init(64, cfg.Traj.CycleTime)
	if !code.IsOK() {
		return errors.Wrap(code.Err(), "init queue")
	}

	ext := extiface.NewSimulated()
	if code := ext.Init("I"); !code.IsOK() {
		return errors.Wrap(code.Err(), "init extiface")
	}

	servoCmds := make([]*comm.Channel[comm.ServoCommand], numJoints)
	servoStats := make([]*comm.Channel[comm.ServoStatus], numJoints)
	servos := make([]*servoloop.Servo, numJoints)
	for i := 0; i < numJoints; i++ {
		servoCmds[i] = comm.NewChannel(comm.ServoCommand{})
		servoStats[i] = comm.NewChannel(comm.ServoStatus{})
		servos[i] = servoloop.New(i, ext, cfg.Servo[i], servoCmds[i], servoStats[i], logger.Named(fmt.Sprintf("servo.%d", i)))
		if code := servos[i].Init(); !code.IsOK() {
			return errors.Wrapf(code.Err(), "init servo %d", i)
		}
		if code := servos[i].Enable(); !code.IsOK() {
			return errors.Wrapf(code.Err(), "enable servo %d", i)
		}
	}

	trajCmdCh := comm.NewChannel(comm.TrajCommand{})
	trajStatusCh := comm.NewChannel(comm.TrajStatus{})
	xinvCh := comm.NewXinvChannel()
	traj, code := trajloop.New(cfg.Traj, chain, kin, queue, trajCmdCh, trajStatusCh, servoCmds, servoStats, xinvCh, logger.Named("traj"))
	if !code.IsOK() {
		return errors.Wrap(code.Err(), "build traj")
	}
	if code := traj.Init(); !code.IsOK() {
		return errors.Wrap(code.Err(), "init traj")
	}

	trajCmdCh.Publish(comm.TrajCommand{
		Kind:   comm.CmdMoveJoint,
		Joints: []float64{0.5, -0.3, 0.2},
		VMax:   1, AMax: 2, JMax: 10,
	})

	g, gctx := errgroup.WithContext(ctx)

	// one ticker per task: a ticker channel hands each tick to only one receiver.
	for i := range servos {
		s := servos[i]
		joint := i
		ticker := cl.Ticker(cycleTime)
		defer ticker.Stop()
		g.Go(func() error {
			return runPeriodic(gctx, ticker.C, func() result.Code {
				return s.Tick()
			}, fmt.Sprintf("servo %d", joint))
		})
	}
	trajTicker := cl.Ticker(cycleTime)
	defer trajTicker.Stop()
	g.Go(func() error {
		return runPeriodic(gctx, trajTicker.C, traj.Tick, "traj")
	})

	waitErr := g.Wait()

	// Traj never calls Servo directly (spec.md §5: tasks cooperate only through comm channels), so
	// this process boundary is the one place that crosses the two task types to tear them down.
	if traj.State() == trajloop.StateShutdown || ctx.Err() != nil {
		for i, s := range servos {
			if code := s.Shutdown(); !code.IsOK() {
				logger.Warnf("servo %d shutdown: %s", i, code)
			}
		}
	}

	if waitErr != nil && ctx.Err() == nil {
		return waitErr
	}
	logger.Infof("shutdown complete, final state: %s", traj.State())
	return nil
}

// runPeriodic drives one Tick-shaped function off its own ticker channel until ctx is canceled,
// wrapping any non-OK result.Code as an error so errgroup cancels every sibling task (spec.md's
// core functions themselves never do this; only this process boundary does, per result's own
// doc comment).
func runPeriodic(ctx context.Context, tick <-chan time.Time, fn func() result.Code, name string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			if code := fn(); !code.IsOK() {
				return errors.Wrapf(code.Err(), "%s tick", name)
			}
		}
	}
}

func buildConfig() (config.Config, error) {
	profile := config.ProfileConfig{MaxVel: 1, MaxAccel: 2, MaxJerk: 10}
	servos := make([]config.ServoConfig, numJoints)
	for i := range servos {
		servos[i] = config.ServoConfig{
			Profile:         profile,
			CycleTime:       cycleTime.Seconds(),
			FollowingErrMax: 0.5,
			OvertravelMin:   -3.2,
			OvertravelMax:   3.2,
		}
		servos[i].Gains.Kp = 20
		servos[i].Gains.Ki = 2
		servos[i].Gains.Kd = 0.5
		servos[i].Gains.KffV = 1
		servos[i].Gains.IMax = 10
		servos[i].Gains.DerivFilter = 0.01
	}
	cfg := config.Config{
		Traj: config.TrajConfig{
			Home:          make([]float64, numJoints),
			Kinematics:    config.KinematicsConfig{Name: "dh-serial"},
			ToolTransform: spatialmath.IdentityPose(),
			Profile:       profile,
			CycleTime:     cycleTime.Seconds(),
			LogBufferSize: 1024,
		},
		Servo: servos,
	}
	return cfg, nil
}

func links(cfg config.Config) []referenceframe.Link {
	dh := []spatialmath.Dh{
		{A: 0, Alpha: 1.5707963267948966, D: 0.3, Theta: 0},
		{A: 0.25, Alpha: 0, D: 0, Theta: 0},
		{A: 0.2, Alpha: 0, D: 0, Theta: 0},
	}
	links := make([]referenceframe.Link, len(dh))
	for i, d := range dh {
		links[i] = referenceframe.Link{
			Name:     fmt.Sprintf("joint_%d", i),
			Quantity: referenceframe.Angle,
			Type:     referenceframe.DHLink,
			DH:       d,
			Min:      -3.14,
			Max:      3.14,
		}
	}
	return links
}
