// Copyright 2026 The cpufreqd Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cppc

import (
	"github.com/pkg/errors"

	"github.com/cpufreqd/cpufreqd/pkg/cpufreq"
	logger "github.com/cpufreqd/cpufreqd/pkg/log"
)

// defaultEPP is the balanced midpoint of the preference scale.
const defaultEPP = 50

var log = logger.NewLogger("cppc")

// RegisterIO accesses the private control registers of one CPU. Register
// access is synchronous and bounded-latency; implementations must execute
// it on the CPU the registers belong to.
type RegisterIO interface {
	Read(reg uint32) (uint64, error)
	Write(reg uint32, val uint64) error
}

// Core holds the CPPC control state of one CPU: the capability bounds,
// the frequency anchor and the last-requested performance values. A Core
// performs no locking; callers must serialize access per Core.
type Core struct {
	cpu     int
	io      RegisterIO
	caps    Capabilities
	baseMHz int

	// Last-requested performance values, valid while enabled.
	maxPerf uint8
	minPerf uint8
	desPerf uint8 // 0 = autonomous, hardware picks within [min, max]
	hwEPP   uint8

	epp     int // user-facing preference, the value of record
	enabled bool
}

// NewCore reads and validates the capability bounds of the given CPU and
// returns a Core in the disabled state with default request values.
func NewCore(cpu int, io RegisterIO, baseMHz int) (*Core, error) {
	caps, err := readCapabilities(io)
	if err != nil {
		return nil, errors.Wrapf(err, "cpu %d", cpu)
	}

	c := &Core{
		cpu:     cpu,
		io:      io,
		caps:    caps,
		baseMHz: baseMHz,
		epp:     defaultEPP,
	}
	c.resetRequest()

	log.Info("cpu %d: highest=%d(%d MHz) nominal=%d(%d MHz) lowest_nl=%d(%d MHz) lowest=%d(%d MHz)",
		cpu,
		caps.Highest, PerfToMHz(caps, caps.Highest, baseMHz),
		caps.Nominal, PerfToMHz(caps, caps.Nominal, baseMHz),
		caps.LowestNonlinear, PerfToMHz(caps, caps.LowestNonlinear, baseMHz),
		caps.Lowest, PerfToMHz(caps, caps.Lowest, baseMHz))

	return c, nil
}

// resetRequest restores the default request: full performance window,
// autonomous mode, current preference.
func (c *Core) resetRequest() {
	c.maxPerf = c.caps.Highest
	c.minPerf = c.caps.Lowest
	c.desPerf = 0
	c.hwEPP = EPPToHW(c.epp)
}

// CPU returns the CPU this Core controls.
func (c *Core) CPU() int {
	return c.cpu
}

// Capabilities returns the capability bounds of this Core.
func (c *Core) Capabilities() Capabilities {
	return c.caps
}

// BaseMHz returns the nominal frequency anchor of this Core.
func (c *Core) BaseMHz() int {
	return c.baseMHz
}

// Enabled returns true while CPPC control is enabled on this CPU.
func (c *Core) Enabled() bool {
	return c.enabled
}

// Enable turns on CPPC control. A no-op when already enabled. The enable
// bit is read back to verify the hardware latched it. A Core coming out
// of the disabled state has its request restored to the defaults and the
// restored request is written out, so the hardware never runs with a
// stale or zeroed request while enabled.
func (c *Core) Enable() error {
	if c.enabled {
		return nil
	}

	val, err := c.io.Read(regEnable)
	if err != nil {
		return errors.Wrapf(err, "cpu %d", c.cpu)
	}
	if val&enableBit == 0 {
		if err := c.io.Write(regEnable, val|enableBit); err != nil {
			return errors.Wrapf(err, "cpu %d", c.cpu)
		}
		// Verify it took.
		val, err = c.io.Read(regEnable)
		if err != nil {
			return errors.Wrapf(err, "cpu %d", c.cpu)
		}
		if val&enableBit == 0 {
			return errors.Wrapf(cpufreq.ErrEnableFailed, "cpu %d", c.cpu)
		}
	}

	c.enabled = true
	if c.maxPerf == 0 {
		c.resetRequest()
	}
	if err := c.writeRequest(); err != nil {
		return err
	}

	log.Debug("cpu %d: CPPC enabled", c.cpu)
	return nil
}

// Disable turns off CPPC control, returning the CPU to hardware-only
// autonomy. A no-op when already disabled. The request register is zeroed
// before the enable bit is cleared so the hardware is never left
// referencing stale request values. The in-memory request state is
// cleared; the user preference survives.
func (c *Core) Disable() error {
	if !c.enabled {
		return nil
	}

	if err := c.io.Write(regRequest, 0); err != nil {
		return errors.Wrapf(err, "cpu %d", c.cpu)
	}

	val, err := c.io.Read(regEnable)
	if err != nil {
		return errors.Wrapf(err, "cpu %d", c.cpu)
	}
	if err := c.io.Write(regEnable, val&^enableBit); err != nil {
		return errors.Wrapf(err, "cpu %d", c.cpu)
	}

	c.maxPerf = 0
	c.minPerf = 0
	c.desPerf = 0
	c.hwEPP = 0
	c.enabled = false

	log.Debug("cpu %d: CPPC disabled", c.cpu)
	return nil
}

// SetTarget requests a target frequency. The target becomes the maximum
// performance cap; the CPU manages its actual frequency autonomously
// between the lowest bound and the cap, guided by the preference.
func (c *Core) SetTarget(mhz int) error {
	if !c.enabled {
		return errors.Wrapf(cpufreq.ErrNotEnabled, "cpu %d", c.cpu)
	}

	c.maxPerf = MHzToPerf(c.caps, mhz, c.baseMHz)
	c.minPerf = c.caps.Lowest
	c.desPerf = 0

	if err := c.writeRequest(); err != nil {
		return err
	}

	log.Debug("cpu %d: set max_perf=%d (%d MHz), epp=%d", c.cpu, c.maxPerf, mhz, c.hwEPP)
	return nil
}

// SetPreference sets the energy/performance preference, 0 (max
// performance) to 100 (max efficiency). While enabled the combined
// request is rewritten immediately so the change takes effect without
// waiting for the next target update.
func (c *Core) SetPreference(epp int) error {
	if epp < 0 || epp > 100 {
		return errors.Wrapf(cpufreq.ErrOutOfRange, "preference %d", epp)
	}

	c.epp = epp
	c.hwEPP = EPPToHW(epp)
	if c.enabled {
		if err := c.writeRequest(); err != nil {
			return err
		}
	}

	log.Debug("cpu %d: preference set to %d (hw %d)", c.cpu, epp, EPPToHW(epp))
	return nil
}

// Preference returns the energy/performance preference.
func (c *Core) Preference() int {
	return c.epp
}

// Current returns the last-requested maximum performance as MHz. There is
// no current target to report while disabled.
func (c *Core) Current() (int, error) {
	if !c.enabled {
		return 0, errors.Wrapf(cpufreq.ErrNotEnabled, "cpu %d", c.cpu)
	}
	return PerfToMHz(c.caps, c.maxPerf, c.baseMHz), nil
}

// refreshCapabilities re-reads and revalidates the capability bounds, in
// case firmware changed them across a suspend cycle.
func (c *Core) refreshCapabilities() error {
	caps, err := readCapabilities(c.io)
	if err != nil {
		return errors.Wrapf(err, "cpu %d", c.cpu)
	}
	c.caps = caps
	return nil
}

// writeRequest writes the combined request register in one atomic write.
func (c *Core) writeRequest() error {
	val := requestValue(c.maxPerf, c.minPerf, c.desPerf, c.hwEPP)
	if err := c.io.Write(regRequest, val); err != nil {
		return errors.Wrapf(err, "cpu %d", c.cpu)
	}
	return nil
}
