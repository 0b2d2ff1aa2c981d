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
	"errors"
	"testing"

	"github.com/cpufreqd/cpufreqd/pkg/cpufreq"
)

func capValue(lowest, lowestNL, nominal, highest uint8) uint64 {
	return uint64(lowest)<<capLowestShift |
		uint64(lowestNL)<<capLowestNonlinearShift |
		uint64(nominal)<<capNominalShift |
		uint64(highest)<<capHighestShift
}

func TestParseCapabilities(t *testing.T) {
	cases := []struct {
		name        string
		cap1        uint64
		caps        Capabilities
		expectedErr error
	}{
		{
			name: "valid",
			cap1: capValue(20, 40, 100, 180),
			caps: Capabilities{Lowest: 20, LowestNonlinear: 40, Nominal: 100, Highest: 180},
		},
		{
			name: "valid degenerate single level",
			cap1: capValue(1, 1, 1, 1),
			caps: Capabilities{Lowest: 1, LowestNonlinear: 1, Nominal: 1, Highest: 1},
		},
		{
			name:        "zero highest",
			cap1:        capValue(20, 40, 100, 0),
			expectedErr: cpufreq.ErrInvalidCapabilities,
		},
		{
			name:        "zero nominal",
			cap1:        capValue(20, 40, 0, 180),
			expectedErr: cpufreq.ErrInvalidCapabilities,
		},
		{
			name:        "zero lowest",
			cap1:        capValue(0, 40, 100, 180),
			expectedErr: cpufreq.ErrInvalidCapabilities,
		},
		{
			name:        "all zero",
			cap1:        0,
			expectedErr: cpufreq.ErrInvalidCapabilities,
		},
		{
			name:        "lowest above lowest nonlinear",
			cap1:        capValue(50, 40, 100, 180),
			expectedErr: cpufreq.ErrInconsistentCapabilities,
		},
		{
			name:        "lowest nonlinear above nominal",
			cap1:        capValue(20, 120, 100, 180),
			expectedErr: cpufreq.ErrInconsistentCapabilities,
		},
		{
			name:        "nominal above highest",
			cap1:        capValue(20, 40, 200, 180),
			expectedErr: cpufreq.ErrInconsistentCapabilities,
		},
	}

	for _, tc := range cases {
		test := tc
		t.Run(test.name, func(t *testing.T) {
			caps, err := ParseCapabilities(test.cap1)
			if test.expectedErr != nil {
				if !errors.Is(err, test.expectedErr) {
					t.Fatalf("expected error %v, got %v", test.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if caps != test.caps {
				t.Fatalf("expected capabilities %+v, got %+v", test.caps, caps)
			}
		})
	}
}
