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

// Package metrics exports the per-CPU frequency-control request state for
// metrics collection.
package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cpufreqd/cpufreqd/pkg/cpufreq"
	logger "github.com/cpufreqd/cpufreqd/pkg/log"
)

var log = logger.NewLogger("metrics")

var (
	targetDesc = prometheus.NewDesc(
		"cpufreqd_target_mhz",
		"Last-requested target frequency in MHz.",
		[]string{"cpu"}, nil,
	)
	preferenceDesc = prometheus.NewDesc(
		"cpufreqd_energy_performance_preference",
		"Energy/performance preference, 0 (max performance) to 100 (max efficiency).",
		[]string{"cpu"}, nil,
	)
	enabledDesc = prometheus.NewDesc(
		"cpufreqd_enabled",
		"Whether frequency control is enabled, per CPU.",
		[]string{"cpu"}, nil,
	)
)

// collector collects the request state of all managed CPUs.
type collector struct {
	manager *cpufreq.Manager
}

// NewCollector creates a prometheus collector for the given manager.
func NewCollector(m *cpufreq.Manager) prometheus.Collector {
	return &collector{manager: m}
}

// NewGatherer creates a prometheus gatherer with the manager's collector
// registered.
func NewGatherer(m *cpufreq.Manager) (prometheus.Gatherer, error) {
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(NewCollector(m)); err != nil {
		return nil, err
	}
	return reg, nil
}

// Describe implements prometheus.Collector.
func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- targetDesc
	ch <- preferenceDesc
	ch <- enabledDesc
}

// Collect implements prometheus.Collector.
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	for _, cpu := range c.manager.CPUs() {
		label := strconv.Itoa(cpu)

		enabled := 1.0
		mhz, err := c.manager.Current(cpu)
		switch {
		case errors.Is(err, cpufreq.ErrNotEnabled):
			enabled = 0.0
		case err != nil:
			log.Error("cpu %d: failed to collect target frequency: %v", cpu, err)
			continue
		default:
			ch <- prometheus.MustNewConstMetric(targetDesc,
				prometheus.GaugeValue, float64(mhz), label)
		}

		ch <- prometheus.MustNewConstMetric(enabledDesc,
			prometheus.GaugeValue, enabled, label)

		epp, err := c.manager.Preference(cpu)
		if err != nil {
			log.Error("cpu %d: failed to collect preference: %v", cpu, err)
			continue
		}
		ch <- prometheus.MustNewConstMetric(preferenceDesc,
			prometheus.GaugeValue, float64(epp), label)
	}
}
