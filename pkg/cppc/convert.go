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

// Conversions between abstract performance levels, MHz, and the
// energy/performance preference scales. All arithmetic is exact integer
// arithmetic with truncating division.

// PerfToMHz converts a performance level to MHz, anchored at the nominal
// frequency: mhz = baseMHz * perf / nominal.
func PerfToMHz(caps Capabilities, perf uint8, baseMHz int) int {
	if caps.Nominal == 0 {
		return 0
	}
	return int(uint64(baseMHz) * uint64(perf) / uint64(caps.Nominal))
}

// MHzToPerf converts MHz to a performance level, clamped to the
// [lowest, highest] capability window.
func MHzToPerf(caps Capabilities, mhz int, baseMHz int) uint8 {
	if baseMHz == 0 {
		return caps.Nominal
	}
	if mhz < 0 {
		mhz = 0
	}
	perf := int(uint64(mhz) * uint64(caps.Nominal) / uint64(baseMHz))
	if perf < int(caps.Lowest) {
		perf = int(caps.Lowest)
	}
	if perf > int(caps.Highest) {
		perf = int(caps.Highest)
	}
	return uint8(perf)
}

// EPPToHW converts a user-facing energy/performance preference (0 = max
// performance, 100 = max efficiency) to the hardware 0-255 scale. One-way
// mapping; the user-facing value is the value of record.
func EPPToHW(epp int) uint8 {
	if epp < 0 {
		epp = 0
	}
	if epp > 100 {
		epp = 100
	}
	return uint8(epp * 255 / 100)
}
