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
	"github.com/pkg/errors"
)

// Error kinds shared by all frequency-control backends. Backends wrap
// these with per-CPU context; callers match them with errors.Is.
var (
	// ErrUnsupported indicates that no backend supports the running processor.
	ErrUnsupported = errors.New("frequency control not supported")
	// ErrInvalidCapabilities indicates a zero hardware capability bound.
	ErrInvalidCapabilities = errors.New("invalid hardware capabilities")
	// ErrInconsistentCapabilities indicates misordered capability bounds.
	ErrInconsistentCapabilities = errors.New("inconsistent hardware capabilities")
	// ErrEnableFailed indicates the hardware did not latch the enable request.
	ErrEnableFailed = errors.New("failed to enable frequency control")
	// ErrNotEnabled indicates an operation on a disabled instance.
	ErrNotEnabled = errors.New("frequency control not enabled")
	// ErrOutOfRange indicates a caller-supplied value outside its valid range.
	ErrOutOfRange = errors.New("value out of range")
)
