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

// Package cpuid detects processor identity and feature flags from the
// kernel-exported processor information.
package cpuid

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Overridable in tests.
var (
	procCPUInfo = "/proc/cpuinfo"
	sysCPUPath  = "/sys/devices/system/cpu"
)

// Processor is the identity of the running processor as reported by the
// first processor entry of /proc/cpuinfo.
type Processor struct {
	VendorID string
	Family   int
	Model    int
	MHz      int
	flags    map[string]struct{}
}

// HasFlag returns true if the processor reports the given feature flag.
func (p *Processor) HasFlag(flag string) bool {
	_, ok := p.flags[flag]
	return ok
}

// Identify reads and parses the identity of the running processor.
func Identify() (*Processor, error) {
	f, err := os.Open(procCPUInfo)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %q", procCPUInfo)
	}
	defer f.Close()

	return parseProcessor(f)
}

// parseProcessor parses the first processor entry of cpuinfo data.
func parseProcessor(r io.Reader) (*Processor, error) {
	p := &Processor{flags: map[string]struct{}{}}
	seen := false

	s := bufio.NewScanner(r)
	// flags lines run long
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		line := s.Text()
		if line == "" {
			if seen {
				break
			}
			continue
		}

		split := strings.SplitN(line, ":", 2)
		if len(split) != 2 {
			continue
		}
		key := strings.TrimSpace(split[0])
		value := strings.TrimSpace(split[1])

		switch key {
		case "processor":
			seen = true
		case "vendor_id":
			p.VendorID = value
		case "cpu family":
			family, err := strconv.Atoi(value)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to parse cpu family %q", value)
			}
			p.Family = family
		case "model":
			model, err := strconv.Atoi(value)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to parse cpu model %q", value)
			}
			p.Model = model
		case "cpu MHz":
			mhz, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to parse cpu MHz %q", value)
			}
			p.MHz = int(mhz)
		case "flags":
			for _, flag := range strings.Fields(value) {
				p.flags[flag] = struct{}{}
			}
		}
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to scan cpuinfo")
	}
	if !seen {
		return nil, errors.New("no processor entries found in cpuinfo")
	}

	return p, nil
}

// PresentCPUs returns the CPUs present in the system, in ascending order.
func PresentCPUs() ([]int, error) {
	entries, err := os.ReadDir(sysCPUPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %q", sysCPUPath)
	}

	var cpus []int
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "cpu") {
			continue
		}
		cpu, err := strconv.Atoi(name[3:])
		if err != nil {
			// cpufreq, cpuidle and friends
			continue
		}
		cpus = append(cpus, cpu)
	}
	sort.Ints(cpus)

	return cpus, nil
}
