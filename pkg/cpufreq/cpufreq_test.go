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
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// stubDriver is a minimal in-memory backend for manager tests.
type stubDriver struct {
	name      string
	supported bool
	failCPUs  map[int]bool
}

func (d *stubDriver) Name() string { return d.name }
func (d *stubDriver) Probe() bool { return d.supported }

func (d *stubDriver) Attach(cpu int) (Instance, error) {
	if d.failCPUs[cpu] {
		return nil, errors.Errorf("stub attach failure on cpu %d", cpu)
	}
	return &stubInstance{cpu: cpu, epp: 50, target: 3600}, nil
}

type stubInstance struct {
	cpu       int
	target    int
	epp       int
	detached  bool
	suspended bool
}

func (i *stubInstance) CPU() int { return i.cpu }
func (i *stubInstance) Detach() error {
	i.detached = true
	return nil
}
func (i *stubInstance) Suspend() error {
	i.suspended = true
	return nil
}
func (i *stubInstance) Resume() error { i.suspended = false; return nil }
func (i *stubInstance) Settings(maxCount int) ([]Setting, error) {
	return []Setting{{FreqMHz: i.target, LatencyUS: 1, Volts: ValUnknown, PowerMW: ValUnknown}}, nil
}
func (i *stubInstance) SetTarget(mhz int) error {
	if i.suspended {
		return ErrNotEnabled
	}
	i.target = mhz
	return nil
}
func (i *stubInstance) Current() (int, error) { return i.target, nil }
func (i *stubInstance) Preference() int { return i.epp }
func (i *stubInstance) SetPreference(epp int) error {
	if epp < 0 || epp > 100 {
		return ErrOutOfRange
	}
	i.epp = epp
	return nil
}
func (i *stubInstance) Bounds() Bounds {
	return Bounds{Highest: 180, Nominal: 100, Lowest: 20}
}

func TestRegisterAndDetect(t *testing.T) {
	saved := drivers
	drivers = make(map[string]Driver)
	defer func() { drivers = saved }()

	_, err := Detect()
	require.True(t, errors.Is(err, ErrUnsupported))

	Register(&stubDriver{name: "stub-a", supported: false})
	Register(&stubDriver{name: "stub-b", supported: true})
	require.Equal(t, []string{"stub-a", "stub-b"}, Drivers())

	d, err := Detect()
	require.Nil(t, err)
	require.Equal(t, "stub-b", d.Name())

	// Duplicate registration is ignored.
	Register(&stubDriver{name: "stub-b", supported: false})
	d, err = Detect()
	require.Nil(t, err)
	require.True(t, d.Probe())
}

func TestManagerAttachAll(t *testing.T) {
	m := NewManager(&stubDriver{name: "stub", failCPUs: map[int]bool{2: true}})

	err := m.AttachAll([]int{0, 1, 2, 3})
	require.NotNil(t, err)

	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	require.Len(t, merr.Errors, 1)

	// The failing CPU is left uncontrolled, the rest stay attached.
	require.Equal(t, []int{0, 1, 3}, m.CPUs())
}

func TestManagerOperations(t *testing.T) {
	m := NewManager(&stubDriver{name: "stub"})
	require.Nil(t, m.AttachAll([]int{0, 1}))

	require.Nil(t, m.SetTarget(0, 2800))
	mhz, err := m.Current(0)
	require.Nil(t, err)
	require.Equal(t, 2800, mhz)

	// Other cores are independent.
	mhz, err = m.Current(1)
	require.Nil(t, err)
	require.Equal(t, 3600, mhz)

	require.Nil(t, m.SetPreference(1, 80))
	epp, err := m.Preference(1)
	require.Nil(t, err)
	require.Equal(t, 80, epp)

	settings, err := m.Settings(0, 30)
	require.Nil(t, err)
	require.Len(t, settings, 1)

	bounds, err := m.Bounds(0)
	require.Nil(t, err)
	require.Equal(t, Bounds{Highest: 180, Nominal: 100, Lowest: 20}, bounds)

	// Operations on unattached CPUs fail.
	require.NotNil(t, m.SetTarget(7, 2800))

	require.Nil(t, m.SuspendAll())
	require.True(t, errors.Is(m.SetTarget(0, 1000), ErrNotEnabled))
	require.Nil(t, m.ResumeAll())
	require.Nil(t, m.SetTarget(0, 1000))

	require.Nil(t, m.DetachAll())
	require.Empty(t, m.CPUs())
}

func TestManagerDoubleAttach(t *testing.T) {
	m := NewManager(&stubDriver{name: "stub"})
	require.Nil(t, m.Attach(0))
	require.NotNil(t, m.Attach(0))
}
