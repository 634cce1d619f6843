// zinput hub
// Copyright (c) 2026 zinput contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Command zinputd wires a Registry and a Pipeline together and loads
// virtual devices from config. It carries no hardware driver, GUI, or
// wire protocol of its own — those live outside this engine — so the
// input devices it registers are synthetic stand-ins that flip their own
// state on a timer, just enough to drive the pipeline and prove the wiring
// works end to end.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/zinput/hub/config"
	"github.com/zinput/hub/logger"
	"github.com/zinput/hub/pipeline"
	"github.com/zinput/hub/registry"
)

func main() {
	configDir := flag.String("config-dir", ".", "directory to search for zinputd's config file")
	flag.Parse()

	loader := config.New("zinputd", *configDir)
	if err := loader.Load(); err != nil {
		logger.Fatalf("[zinputd] loading configuration: %v", err)
	}

	var cfg config.Config
	if err := loader.Scan(&cfg); err != nil {
		logger.Fatalf("[zinputd] scanning configuration: %v", err)
	}
	logger.SetLevel(cfg.Log.Level == "debug")

	reg := registry.New(registry.WithSweepInterval(cfg.Registry.SweepInterval))
	defer reg.Close()

	pl := pipeline.New(pipeline.WithChannelCapacity(cfg.Pipeline.DispatchChannelCapacity))

	pipelineStop := make(chan struct{})
	pipelineDone := make(chan struct{})
	go func() {
		pl.Run(pipelineStop)
		close(pipelineDone)
	}()

	demoStop := make(chan struct{})
	defer close(demoStop)

	devices, err := wireVirtualDevices(&cfg, reg, pl, demoStop)
	if err != nil {
		logger.Fatalf("[zinputd] wiring virtual devices: %v", err)
	}
	logger.WithFields(logger.Fields{"count": len(cfg.VirtualDevices)}).Info("[zinputd] virtual devices wired")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	logger.Info("[zinputd] running")
	<-sig

	logger.Info("[zinputd] shutting down")
	close(pipelineStop)
	<-pipelineDone
	for _, d := range devices {
		d.Close()
	}
}
