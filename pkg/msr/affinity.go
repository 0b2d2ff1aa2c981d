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

package msr

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// withAffinity runs fn with the calling thread pinned to the given CPU.
// The previous affinity mask is restored on every exit path, including
// when fn fails.
func withAffinity(cpu int, fn func() error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var old unix.CPUSet
	if err := unix.SchedGetaffinity(0, &old); err != nil {
		return errors.Wrap(err, "failed to get thread affinity")
	}

	var pinned unix.CPUSet
	pinned.Zero()
	pinned.Set(cpu)
	if err := unix.SchedSetaffinity(0, &pinned); err != nil {
		return errors.Wrapf(err, "failed to pin thread to cpu %d", cpu)
	}
	defer func() {
		if err := unix.SchedSetaffinity(0, &old); err != nil {
			log.Error("failed to restore thread affinity: %v", err)
		}
	}()

	return fn()
}
