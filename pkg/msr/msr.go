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

// Package msr provides model-specific register access for a single CPU
// through the Linux msr device driver.
package msr

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	logger "github.com/cpufreqd/cpufreqd/pkg/log"
)

// devPath is the per-CPU msr device node pattern. A variable so tests can
// redirect register access to a plain file.
var devPath = "/dev/cpu/%d/msr"

var log = logger.NewLogger("msr")

// Device provides register access bound to one CPU.
type Device struct {
	cpu int
	f   *os.File
}

// Available returns true if the msr device driver is loaded and the
// msr device node of the first CPU can be accessed.
func Available() bool {
	path := fmt.Sprintf(devPath, 0)
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			log.Warn("failed to access msr device %q: %v", path, err)
		} else {
			log.Debug("msr device %q does not exist", path)
		}
		return false
	}
	return true
}

// Open opens the msr device of the given CPU.
func Open(cpu int) (*Device, error) {
	path := fmt.Sprintf(devPath, cpu)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open msr device %q", path)
	}
	return &Device{cpu: cpu, f: f}, nil
}

// CPU returns the CPU this device is bound to.
func (d *Device) CPU() int {
	return d.cpu
}

// Read reads one 64-bit register. The read executes while pinned to the
// CPU this device is bound to.
func (d *Device) Read(reg uint32) (uint64, error) {
	var val uint64

	err := withAffinity(d.cpu, func() error {
		buf := make([]byte, 8)
		n, err := unix.Pread(int(d.f.Fd()), buf, int64(reg))
		if err != nil {
			return errors.Wrapf(err, "cpu %d: failed to read register %#x", d.cpu, reg)
		}
		if n != 8 {
			return errors.Errorf("cpu %d: short read of register %#x: %d bytes", d.cpu, reg, n)
		}
		val = binary.LittleEndian.Uint64(buf)
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Debug("cpu %d: read %#x => %#x", d.cpu, reg, val)
	return val, nil
}

// Write writes one 64-bit register. The write executes while pinned to
// the CPU this device is bound to.
func (d *Device) Write(reg uint32, val uint64) error {
	log.Debug("cpu %d: write %#x <= %#x", d.cpu, reg, val)

	return withAffinity(d.cpu, func() error {
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, val)
		n, err := unix.Pwrite(int(d.f.Fd()), buf, int64(reg))
		if err != nil {
			return errors.Wrapf(err, "cpu %d: failed to write register %#x", d.cpu, reg)
		}
		if n != 8 {
			return errors.Errorf("cpu %d: short write of register %#x: %d bytes", d.cpu, reg, n)
		}
		return nil
	})
}

// Close closes the msr device.
func (d *Device) Close() error {
	return d.f.Close()
}
