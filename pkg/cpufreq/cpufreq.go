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

// Package cpufreq defines the pluggable per-CPU frequency-control backend
// interface and a manager for driving one backend instance per CPU.
package cpufreq

import (
	"sort"

	logger "github.com/cpufreqd/cpufreqd/pkg/log"
)

// ValUnknown marks a Setting field with no modeled value.
const ValUnknown = -1

// Setting is one representative frequency step exposed to a frequency
// selection policy. Voltage and power are not modeled and stay unknown.
type Setting struct {
	FreqMHz   int
	LatencyUS int
	Volts     int
	PowerMW   int
}

// Bounds are the reported hardware capability bounds of one CPU, in
// abstract performance-level units.
type Bounds struct {
	Highest uint8
	Nominal uint8
	Lowest  uint8
}

// Driver is a frequency-control mechanism selectable at discovery time.
type Driver interface {
	// Name returns the name of this driver.
	Name() string
	// Probe returns true if this mechanism is available on the running processor.
	Probe() bool
	// Attach takes control of the given CPU, returning the per-CPU instance.
	Attach(cpu int) (Instance, error)
}

// Instance controls the frequency of a single CPU. Instances perform no
// internal locking; callers must serialize access per instance.
type Instance interface {
	// CPU returns the CPU this instance controls.
	CPU() int
	// Detach relinquishes control of the CPU and releases its resources.
	Detach() error
	// Suspend relinquishes control ahead of a system suspend.
	Suspend() error
	// Resume revalidates hardware state and re-takes control after resume.
	Resume() error
	// Settings enumerates up to maxCount representative frequency steps,
	// in descending frequency order.
	Settings(maxCount int) ([]Setting, error)
	// SetTarget requests the given target frequency in MHz.
	SetTarget(mhz int) error
	// Current returns the last-requested target frequency in MHz.
	Current() (int, error)
	// Preference returns the energy/performance preference, 0 (max
	// performance) to 100 (max efficiency).
	Preference() int
	// SetPreference sets the energy/performance preference.
	SetPreference(epp int) error
	// Bounds returns the reported hardware capability bounds.
	Bounds() Bounds
}

var (
	log     = logger.NewLogger("cpufreq")
	drivers = make(map[string]Driver)
)

// Register registers a named frequency-control driver.
func Register(d Driver) {
	name := d.Name()
	if _, ok := drivers[name]; ok {
		log.Warn("driver %q already registered, ignoring duplicate", name)
		return
	}
	drivers[name] = d
}

// Drivers returns the names of all registered drivers.
func Drivers() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect probes the registered drivers and returns the first one that
// supports the running processor.
func Detect() (Driver, error) {
	for _, name := range Drivers() {
		d := drivers[name]
		if d.Probe() {
			log.Info("using frequency-control driver %q", name)
			return d, nil
		}
		log.Debug("driver %q does not support this processor", name)
	}
	return nil, ErrUnsupported
}
