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

package main

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// config holds the host-side defaults of the daemon and CLI. Flags
// override file values.
type config struct {
	// CPUs to control, e.g. "0-3,8". All present CPUs when empty.
	CPUs string `yaml:"cpus"`
	// Preference is the energy/performance preference applied at
	// startup, 0-100. Negative means leave the hardware default.
	Preference int `yaml:"preference"`
	// MaxSettings bounds the enumerated frequency steps.
	MaxSettings int `yaml:"maxSettings"`
	// Listen is the metrics listen address of the serve command.
	Listen string `yaml:"listen"`
	// Debug lists the log sources to enable debug logging for.
	Debug []string `yaml:"debug"`
}

func defaultConfig() *config {
	return &config{
		Preference:  -1,
		MaxSettings: 30,
		Listen:      ":8891",
	}
}

// loadConfig reads a YAML configuration file on top of the defaults.
func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read configuration %q", path)
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse configuration %q", path)
	}

	if cfg.Preference > 100 {
		return nil, errors.Errorf("preference %d out of range", cfg.Preference)
	}
	if cfg.MaxSettings < 1 {
		return nil, errors.Errorf("maxSettings %d out of range", cfg.MaxSettings)
	}

	return cfg, nil
}

// parseCPUList parses a CPU list in kernel list format, e.g. "0-3,8,10".
func parseCPUList(list string) ([]int, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}

	seen := map[int]struct{}{}
	for _, chunk := range strings.Split(list, ",") {
		chunk = strings.TrimSpace(chunk)
		lo, hi, found := chunk, chunk, false
		if idx := strings.IndexByte(chunk, '-'); idx >= 0 {
			lo, hi, found = chunk[:idx], chunk[idx+1:], true
		}

		first, err := strconv.Atoi(lo)
		if err != nil {
			return nil, errors.Errorf("invalid cpu list %q", list)
		}
		last := first
		if found {
			if last, err = strconv.Atoi(hi); err != nil {
				return nil, errors.Errorf("invalid cpu list %q", list)
			}
		}
		if first < 0 || last < first {
			return nil, errors.Errorf("invalid cpu range %q", chunk)
		}

		for cpu := first; cpu <= last; cpu++ {
			seen[cpu] = struct{}{}
		}
	}

	cpus := make([]int, 0, len(seen))
	for cpu := range seen {
		cpus = append(cpus, cpu)
	}
	sort.Ints(cpus)
	return cpus, nil
}
