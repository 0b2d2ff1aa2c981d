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
)

const (
	// maxSettings is the absolute cap on enumerated frequency steps.
	maxSettings = 64
	// targetSettings is the rough number of steps to aim for.
	targetSettings = 30
	// transitionLatencyUS is the advertised transition latency. The real
	// hardware transition is sub-microsecond; a fixed nominal value is
	// reported instead of modeling it.
	transitionLatencyUS = 1
)

// Settings enumerates up to maxCount evenly spaced frequency steps
// between the capability bounds, in descending frequency order. Callers
// are expected to prefer the first entry satisfying their minimum
// performance constraint. The lowest bound is always included as the
// final entry if the count budget allows, even when the stride would
// skip it.
func (c *Core) Settings(maxCount int) ([]cpufreq.Setting, error) {
	if !c.enabled {
		return nil, errors.Wrapf(cpufreq.ErrNotEnabled, "cpu %d", c.cpu)
	}

	if maxCount > maxSettings {
		maxCount = maxSettings
	}

	perfRange := int(c.caps.Highest) - int(c.caps.Lowest)
	if perfRange <= 0 || maxCount <= 0 {
		return nil, nil
	}

	step := perfRange / targetSettings
	if step < 1 {
		step = 1
	}

	var settings []cpufreq.Setting
	for perf := int(c.caps.Highest); perf > int(c.caps.Lowest); perf -= step {
		if len(settings) >= maxCount {
			break
		}
		settings = append(settings, c.setting(uint8(perf)))
	}

	if len(settings) < maxCount {
		settings = append(settings, c.setting(c.caps.Lowest))
	}

	return settings, nil
}

func (c *Core) setting(perf uint8) cpufreq.Setting {
	return cpufreq.Setting{
		FreqMHz:   PerfToMHz(c.caps, perf, c.baseMHz),
		LatencyUS: transitionLatencyUS,
		Volts:     cpufreq.ValUnknown,
		PowerMW:   cpufreq.ValUnknown,
	}
}
