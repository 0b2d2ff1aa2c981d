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

// AMD CPPC register selectors.
const (
	regCapabilities = 0xC00102B0 // CPPC_CAP1, read-only
	regEnable       = 0xC00102B1 // CPPC_ENABLE
	regRequest      = 0xC00102B3 // CPPC_REQ
)

// CPPC_CAP1 fields, 8 bits each.
const (
	capLowestShift          = 0
	capLowestNonlinearShift = 8
	capNominalShift         = 16
	capHighestShift         = 24
)

// CPPC_REQ fields, 8 bits each.
const (
	reqMaxPerfShift = 0
	reqMinPerfShift = 8
	reqDesPerfShift = 16
	reqEPPShift     = 24
)

const enableBit = uint64(1) << 0

// capField extracts one 8-bit capability bound from a CAP1 value.
func capField(cap1 uint64, shift uint) uint8 {
	return uint8((cap1 >> shift) & 0xFF)
}

// requestValue packs one combined CPPC_REQ value. The request register is
// always written whole; partial updates are never observable to hardware.
func requestValue(maxPerf, minPerf, desPerf, epp uint8) uint64 {
	return uint64(maxPerf)<<reqMaxPerfShift |
		uint64(minPerf)<<reqMinPerfShift |
		uint64(desPerf)<<reqDesPerfShift |
		uint64(epp)<<reqEPPShift
}
