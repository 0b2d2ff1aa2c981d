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

// Capabilities are the per-CPU performance bounds reported by the
// read-only CPPC capability register. Immutable once read; re-read and
// revalidated on resume from suspend.
type Capabilities struct {
	Lowest          uint8
	LowestNonlinear uint8
	Nominal         uint8
	Highest         uint8
}

// ParseCapabilities extracts and validates the performance bounds from a
// raw CPPC_CAP1 register value.
func ParseCapabilities(cap1 uint64) (Capabilities, error) {
	caps := Capabilities{
		Lowest:          capField(cap1, capLowestShift),
		LowestNonlinear: capField(cap1, capLowestNonlinearShift),
		Nominal:         capField(cap1, capNominalShift),
		Highest:         capField(cap1, capHighestShift),
	}

	if caps.Highest == 0 || caps.Nominal == 0 || caps.Lowest == 0 {
		return caps, errors.Wrapf(cpufreq.ErrInvalidCapabilities,
			"highest=%d nominal=%d lowest_nl=%d lowest=%d",
			caps.Highest, caps.Nominal, caps.LowestNonlinear, caps.Lowest)
	}

	if caps.Lowest > caps.LowestNonlinear ||
		caps.LowestNonlinear > caps.Nominal ||
		caps.Nominal > caps.Highest {
		return caps, errors.Wrapf(cpufreq.ErrInconsistentCapabilities,
			"highest=%d nominal=%d lowest_nl=%d lowest=%d",
			caps.Highest, caps.Nominal, caps.LowestNonlinear, caps.Lowest)
	}

	return caps, nil
}

// readCapabilities reads and validates the capability bounds of one CPU.
// Used both at attach and at resume.
func readCapabilities(io RegisterIO) (Capabilities, error) {
	cap1, err := io.Read(regCapabilities)
	if err != nil {
		return Capabilities{}, errors.Wrap(err, "failed to read capability register")
	}
	return ParseCapabilities(cap1)
}
