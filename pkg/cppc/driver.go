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

// Package cppc implements per-CPU frequency control on AMD processors
// through the collaborative performance control (CPPC) register
// interface. The OS bounds each CPU's autonomous frequency scaling with
// abstract performance levels and an energy/performance preference
// instead of discrete fixed frequency steps.
package cppc

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/cpufreqd/cpufreqd/pkg/cpufreq"
	"github.com/cpufreqd/cpufreqd/pkg/cpuid"
	"github.com/cpufreqd/cpufreqd/pkg/msr"
)

// DriverName is the name this backend registers itself under.
const DriverName = "amd-cppc"

const (
	vendorAMD = "AuthenticAMD"
	minFamily = 0x17 // Zen
	cppcFlag  = "cppc"
	mhzPerKHz = 1000
)

// baseFreqPath is the sysfs nominal-frequency source, in kHz. A variable
// so tests can point it at fixture data.
var baseFreqPath = "/sys/devices/system/cpu/cpu%d/cpufreq/base_frequency"

type driver struct{}

func init() {
	cpufreq.Register(&driver{})
}

// Name returns the name of this driver.
func (d *driver) Name() string {
	return DriverName
}

// Probe returns true if the running processor supports CPPC and the
// register interface is accessible.
func (d *driver) Probe() bool {
	p, err := cpuid.Identify()
	if err != nil {
		log.Error("failed to identify processor: %v", err)
		return false
	}
	if p.VendorID != vendorAMD {
		return false
	}
	if p.Family < minFamily {
		return false
	}
	if !p.HasFlag(cppcFlag) {
		return false
	}
	return msr.Available()
}

// instance couples a Core with the register device backing it.
type instance struct {
	*Core
	dev *msr.Device
}

// Attach takes CPPC control of the given CPU: establish the frequency
// anchor, read and validate the capability bounds, enable CPPC and write
// the initial full-window autonomous request.
func (d *driver) Attach(cpu int) (cpufreq.Instance, error) {
	dev, err := msr.Open(cpu)
	if err != nil {
		return nil, err
	}

	baseMHz, err := baseFrequencyMHz(cpu)
	if err != nil {
		dev.Close()
		return nil, errors.Wrapf(err, "cpu %d: unable to determine base frequency", cpu)
	}

	core, err := NewCore(cpu, dev, baseMHz)
	if err != nil {
		dev.Close()
		return nil, err
	}

	if err := core.Enable(); err != nil {
		dev.Close()
		return nil, err
	}

	return &instance{Core: core, dev: dev}, nil
}

// Detach disables CPPC control and releases the register device.
func (i *instance) Detach() error {
	err := i.Disable()
	if cerr := i.dev.Close(); err == nil {
		err = cerr
	}
	return err
}

// Suspend disables CPPC control ahead of a system suspend.
func (i *instance) Suspend() error {
	return i.Disable()
}

// Resume revalidates the capability bounds in case firmware changed them,
// then re-enables CPPC and restores the request.
func (i *instance) Resume() error {
	if err := i.refreshCapabilities(); err != nil {
		return err
	}
	return i.Enable()
}

// Bounds returns the reported capability bounds for diagnostic exposure.
func (i *instance) Bounds() cpufreq.Bounds {
	caps := i.Capabilities()
	return cpufreq.Bounds{
		Highest: caps.Highest,
		Nominal: caps.Nominal,
		Lowest:  caps.Lowest,
	}
}

// baseFrequencyMHz establishes the nominal-frequency anchor of one CPU.
// Preferred source is the cpufreq base_frequency sysfs attribute; when
// the attribute is absent the kernel-reported clock rate from the
// processor identification is used instead.
func baseFrequencyMHz(cpu int) (int, error) {
	path := fmt.Sprintf(baseFreqPath, cpu)
	if data, err := os.ReadFile(path); err == nil {
		khz, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil {
			return 0, errors.Wrapf(err, "failed to parse %q", path)
		}
		if khz > 0 {
			return khz / mhzPerKHz, nil
		}
	}

	p, err := cpuid.Identify()
	if err != nil {
		return 0, err
	}
	if p.MHz == 0 {
		return 0, errors.New("no frequency anchor available")
	}
	return p.MHz, nil
}
