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
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cpufreqd/cpufreqd/pkg/cpufreq"
	"github.com/cpufreqd/cpufreqd/pkg/cpuid"
	"github.com/cpufreqd/cpufreqd/pkg/metrics"

	// frequency-control backends
	_ "github.com/cpufreqd/cpufreqd/pkg/cppc"

	logger "github.com/cpufreqd/cpufreqd/pkg/log"
)

var log = logger.Default()

var (
	configFile = flag.String("config", "", "configuration file")
	cpuList    = flag.String("cpus", "", "CPUs to control, e.g. 0-3,8 (default: all present CPUs)")
	listen     = flag.String("listen", "", "metrics listen address for the serve command")
	debug      = flag.String("debug", "", "comma-separated log sources to debug, or 'all'")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(),
		"usage: %s [options] probe|status|settings|set-target <MHz>|set-epp <0-100>|serve\n\noptions:\n",
		os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatal("%v", err)
	}
	if *cpuList != "" {
		cfg.CPUs = *cpuList
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *debug != "" {
		cfg.Debug = append(cfg.Debug, *debug)
	}
	logger.EnableDebug(cfg.Debug...)

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(2)
	}

	if args[0] == "probe" {
		if _, err := cpufreq.Detect(); err != nil {
			fmt.Println("frequency control: not supported")
			os.Exit(1)
		}
		fmt.Println("frequency control: supported")
		return
	}

	driver, err := cpufreq.Detect()
	if err != nil {
		log.Fatal("%v", err)
	}

	cpus, err := parseCPUList(cfg.CPUs)
	if err != nil {
		log.Fatal("%v", err)
	}
	if cpus == nil {
		if cpus, err = cpuid.PresentCPUs(); err != nil {
			log.Fatal("%v", err)
		}
	}

	m := cpufreq.NewManager(driver)
	if err := m.AttachAll(cpus); err != nil {
		log.Error("some CPUs could not be attached: %v", err)
	}
	if len(m.CPUs()) == 0 {
		log.Fatal("no CPUs attached")
	}
	defer func() {
		if err := m.DetachAll(); err != nil {
			log.Error("detach failed: %v", err)
		}
	}()

	if cfg.Preference >= 0 {
		for _, cpu := range m.CPUs() {
			if err := m.SetPreference(cpu, cfg.Preference); err != nil {
				log.Error("%v", err)
			}
		}
	}

	if err := run(m, cfg, args); err != nil {
		m.DetachAll()
		log.Fatal("%v", err)
	}
}

func run(m *cpufreq.Manager, cfg *config, args []string) error {
	switch args[0] {
	case "status":
		return status(m)
	case "settings":
		return settings(m, cfg.MaxSettings)
	case "set-target":
		if len(args) != 2 {
			return fmt.Errorf("set-target needs a target frequency in MHz")
		}
		mhz, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid target frequency %q", args[1])
		}
		return forEachCPU(m, func(cpu int) error { return m.SetTarget(cpu, mhz) })
	case "set-epp":
		if len(args) != 2 {
			return fmt.Errorf("set-epp needs a preference between 0 and 100")
		}
		epp, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid preference %q", args[1])
		}
		return forEachCPU(m, func(cpu int) error { return m.SetPreference(cpu, epp) })
	case "serve":
		return serve(m, cfg.Listen)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func forEachCPU(m *cpufreq.Manager, fn func(cpu int) error) error {
	for _, cpu := range m.CPUs() {
		if err := fn(cpu); err != nil {
			return err
		}
	}
	return nil
}

func status(m *cpufreq.Manager) error {
	for _, cpu := range m.CPUs() {
		bounds, err := m.Bounds(cpu)
		if err != nil {
			return err
		}
		mhz, err := m.Current(cpu)
		if err != nil {
			return err
		}
		epp, err := m.Preference(cpu)
		if err != nil {
			return err
		}
		fmt.Printf("cpu %d: target %d MHz, epp %d, perf bounds highest=%d nominal=%d lowest=%d\n",
			cpu, mhz, epp, bounds.Highest, bounds.Nominal, bounds.Lowest)
	}
	return nil
}

func settings(m *cpufreq.Manager, maxCount int) error {
	for _, cpu := range m.CPUs() {
		steps, err := m.Settings(cpu, maxCount)
		if err != nil {
			return err
		}
		fmt.Printf("cpu %d:", cpu)
		for _, s := range steps {
			fmt.Printf(" %d", s.FreqMHz)
		}
		fmt.Println(" MHz")
	}
	return nil
}

func serve(m *cpufreq.Manager, addr string) error {
	gatherer, err := metrics.NewGatherer(m)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux}
	errs := make(chan error, 1)
	go func() { errs <- srv.ListenAndServe() }()
	log.Info("serving metrics on %s", addr)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errs:
		return err
	case sig := <-sigs:
		log.Info("received %v, shutting down", sig)
		return srv.Close()
	}
}
