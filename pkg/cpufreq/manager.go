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

package cpufreq

import (
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Manager drives one backend instance per CPU, serializing operations on
// each instance. Instances themselves do no locking.
type Manager struct {
	driver    Driver
	instances map[int]*managed
}

type managed struct {
	sync.Mutex
	instance Instance
}

// NewManager creates a manager for the given driver.
func NewManager(d Driver) *Manager {
	return &Manager{
		driver:    d,
		instances: make(map[int]*managed),
	}
}

// Attach attaches the driver to one CPU.
func (m *Manager) Attach(cpu int) error {
	if _, ok := m.instances[cpu]; ok {
		return errors.Errorf("cpu %d already attached", cpu)
	}
	instance, err := m.driver.Attach(cpu)
	if err != nil {
		return errors.Wrapf(err, "failed to attach cpu %d", cpu)
	}
	m.instances[cpu] = &managed{instance: instance}
	return nil
}

// AttachAll attaches the driver to the given CPUs, collecting per-CPU
// failures. CPUs that fail to attach are simply left uncontrolled.
func (m *Manager) AttachAll(cpus []int) error {
	var errs *multierror.Error
	for _, cpu := range cpus {
		if err := m.Attach(cpu); err != nil {
			log.Error("%v", err)
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// DetachAll detaches all attached CPUs.
func (m *Manager) DetachAll() error {
	var errs *multierror.Error
	for _, cpu := range m.CPUs() {
		err := m.with(cpu, func(i Instance) error { return i.Detach() })
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "cpu %d", cpu))
		}
		delete(m.instances, cpu)
	}
	return errs.ErrorOrNil()
}

// SuspendAll suspends all attached CPUs.
func (m *Manager) SuspendAll() error {
	var errs *multierror.Error
	for _, cpu := range m.CPUs() {
		err := m.with(cpu, func(i Instance) error { return i.Suspend() })
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "cpu %d", cpu))
		}
	}
	return errs.ErrorOrNil()
}

// ResumeAll resumes all attached CPUs.
func (m *Manager) ResumeAll() error {
	var errs *multierror.Error
	for _, cpu := range m.CPUs() {
		err := m.with(cpu, func(i Instance) error { return i.Resume() })
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "cpu %d", cpu))
		}
	}
	return errs.ErrorOrNil()
}

// CPUs returns the attached CPUs in ascending order.
func (m *Manager) CPUs() []int {
	cpus := make([]int, 0, len(m.instances))
	for cpu := range m.instances {
		cpus = append(cpus, cpu)
	}
	sort.Ints(cpus)
	return cpus
}

// SetTarget requests a target frequency on one CPU.
func (m *Manager) SetTarget(cpu, mhz int) error {
	return m.with(cpu, func(i Instance) error { return i.SetTarget(mhz) })
}

// Current returns the last-requested target frequency of one CPU.
func (m *Manager) Current(cpu int) (int, error) {
	var mhz int
	err := m.with(cpu, func(i Instance) error {
		var err error
		mhz, err = i.Current()
		return err
	})
	return mhz, err
}

// SetPreference sets the energy/performance preference of one CPU.
func (m *Manager) SetPreference(cpu, epp int) error {
	return m.with(cpu, func(i Instance) error { return i.SetPreference(epp) })
}

// Preference returns the energy/performance preference of one CPU.
func (m *Manager) Preference(cpu int) (int, error) {
	var epp int
	err := m.with(cpu, func(i Instance) error {
		epp = i.Preference()
		return nil
	})
	return epp, err
}

// Settings enumerates the representative frequency steps of one CPU.
func (m *Manager) Settings(cpu, maxCount int) ([]Setting, error) {
	var settings []Setting
	err := m.with(cpu, func(i Instance) error {
		var err error
		settings, err = i.Settings(maxCount)
		return err
	})
	return settings, err
}

// Bounds returns the hardware capability bounds of one CPU.
func (m *Manager) Bounds(cpu int) (Bounds, error) {
	var bounds Bounds
	err := m.with(cpu, func(i Instance) error {
		bounds = i.Bounds()
		return nil
	})
	return bounds, err
}

func (m *Manager) with(cpu int, fn func(Instance) error) error {
	mgd, ok := m.instances[cpu]
	if !ok {
		return errors.Errorf("cpu %d not attached", cpu)
	}
	mgd.Lock()
	defer mgd.Unlock()
	return fn(mgd.instance)
}
