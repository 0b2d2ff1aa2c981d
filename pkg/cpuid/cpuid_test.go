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

package cpuid

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const zen3CPUInfo = `processor	: 0
vendor_id	: AuthenticAMD
cpu family	: 25
model		: 33
model name	: AMD Ryzen 9 5950X 16-Core Processor
stepping	: 0
cpu MHz		: 3386.682
cache size	: 512 KB
flags		: fpu vme de pse tsc msr pae mce cx8 apic sep mtrr cppc ibrs ibpb
bogomips	: 6800.14

processor	: 1
vendor_id	: AuthenticAMD
cpu family	: 25
model		: 33
cpu MHz		: 2200.000
flags		: fpu vme de pse tsc msr cppc
`

const intelCPUInfo = `processor	: 0
vendor_id	: GenuineIntel
cpu family	: 6
model		: 85
model name	: Intel(R) Xeon(R) Platinum 8260 CPU @ 2.40GHz
cpu MHz		: 2400.000
flags		: fpu vme de pse tsc msr pae mce hwp hwp_epp
`

const preZenCPUInfo = `processor	: 0
vendor_id	: AuthenticAMD
cpu family	: 21
model		: 2
cpu MHz		: 4000.000
flags		: fpu vme de pse tsc msr
`

func TestParseProcessor(t *testing.T) {
	cases := []struct {
		name    string
		cpuinfo string
		vendor  string
		family  int
		mhz     int
		hasCPPC bool
	}{
		{
			name:    "zen3 with cppc",
			cpuinfo: zen3CPUInfo,
			vendor:  "AuthenticAMD",
			family:  25,
			mhz:     3386,
			hasCPPC: true,
		},
		{
			name:    "intel",
			cpuinfo: intelCPUInfo,
			vendor:  "GenuineIntel",
			family:  6,
			mhz:     2400,
			hasCPPC: false,
		},
		{
			name:    "pre-zen amd",
			cpuinfo: preZenCPUInfo,
			vendor:  "AuthenticAMD",
			family:  21,
			mhz:     4000,
			hasCPPC: false,
		},
	}

	for _, tc := range cases {
		test := tc
		t.Run(test.name, func(t *testing.T) {
			p, err := parseProcessor(strings.NewReader(test.cpuinfo))
			require.Nil(t, err)
			require.Equal(t, test.vendor, p.VendorID)
			require.Equal(t, test.family, p.Family)
			require.Equal(t, test.mhz, p.MHz)
			require.Equal(t, test.hasCPPC, p.HasFlag("cppc"))
		})
	}
}

func TestParseProcessorEmpty(t *testing.T) {
	_, err := parseProcessor(strings.NewReader(""))
	require.NotNil(t, err)
}

func TestIdentify(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cpuinfo")
	require.Nil(t, os.WriteFile(path, []byte(zen3CPUInfo), 0644))

	saved := procCPUInfo
	procCPUInfo = path
	defer func() { procCPUInfo = saved }()

	p, err := Identify()
	require.Nil(t, err)
	require.Equal(t, "AuthenticAMD", p.VendorID)
	require.True(t, p.HasFlag("cppc"))
}

func TestPresentCPUs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"cpu0", "cpu1", "cpu12", "cpufreq", "cpuidle", "online"} {
		require.Nil(t, os.Mkdir(filepath.Join(dir, name), 0755))
	}

	saved := sysCPUPath
	sysCPUPath = dir
	defer func() { sysCPUPath = saved }()

	cpus, err := PresentCPUs()
	require.Nil(t, err)
	require.Equal(t, []int{0, 1, 12}, cpus)
}
