/*
 * Copyright (C) 2019-Present Pivotal Software, Inc. All rights reserved.
 *
 * This program and the accompanying materials are made available under the terms
 * of the Apache License, Version 2.0 (the "License”); you may not use this file
 * except in compliance with the License. You may obtain a copy of the License at:
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed
 * under the License is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR
 * CONDITIONS OF ANY KIND, either express or implied. See the License for the
 * specific language governing permissions and limitations under the License.
 */

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/logrusorgru/aurora"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"fillcell/pkg/control"
	"fillcell/pkg/logging"
	"fillcell/pkg/model"
	"fillcell/pkg/serve"
	"fillcell/pkg/simulator"
)

var (
	startRunning       = time.Now()
	au                 = aurora.NewAurora(true)
	fillTimeMin        = flag.Duration("fillTimeMin", 2*time.Second, "Shortest time a FillingMachine takes to fill")
	fillTimeMax        = flag.Duration("fillTimeMax", 5*time.Second, "Longest time a FillingMachine takes to fill")
	workerLatencyMin   = flag.Duration("workerLatencyMin", time.Second, "Shortest time the Worker takes to load or unload")
	workerLatencyMax   = flag.Duration("workerLatencyMax", 2*time.Second, "Longest time the Worker takes to load or unload")
	pollInterval       = flag.Duration("pollInterval", model.DefaultPollInterval, "First wait of the Worker between two scans that found no machine")
	maxPollInterval    = flag.Duration("maxPollInterval", model.DefaultMaxPollInterval, "Longest wait of the Worker between two scans")
	numberOfMachines   = flag.Int("numberOfMachines", 3, "Number of FillingMachines in the cell")
	conveyor           = flag.Bool("conveyor", true, "Feed empty containers and collect full ones automatically")
	feedIntervalMin    = flag.Duration("feedIntervalMin", 3*time.Second, "Shortest time between two conveyor feeds")
	feedIntervalMax    = flag.Duration("feedIntervalMax", 6*time.Second, "Longest time between two conveyor feeds")
	collectIntervalMin = flag.Duration("collectIntervalMin", 3*time.Second, "Shortest time between two conveyor collections")
	collectIntervalMax = flag.Duration("collectIntervalMax", 6*time.Second, "Longest time between two conveyor collections")
	seed               = flag.Int64("seed", 0, "Seed of the random source, 0 seeds from the clock")
	listen             = flag.String("listen", "127.0.0.1:3000", "Address of the HTTP server, empty disables it")
	showTrace          = flag.Bool("showTrace", true, "Show simulation trace")
	logLevel           = flag.String("logLevel", "INFO", "Log level, overridden by LOGGING_LEVEL")
	logFormat          = flag.String("logFormat", string(logging.FormatConsole), "Log format (CONSOLE or JSON), overridden by LOGGING_FORMAT")
)

var errTerminated = errors.New("simulation terminated by user")

func main() {
	flag.Parse()
	if *configFile != "" {
		cfg, err := loadConfigFile(*configFile)
		if err != nil {
			logging.Default().Fatalf("could not load %s: %s", *configFile, err.Error())
		}
		cfg.apply(explicitFlags(flag.CommandLine))
	}

	r := NewRunner(logging.FromEnv(*logLevel, logging.ParseFormat(*logFormat), os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, r, os.Stdin, os.Stdout)
	if err != nil {
		r.Logger().Errorf("there was an error during simulation: %s", err.Error())
		os.Exit(1)
	}
}

type Runner interface {
	Env() simulator.Environment
	Logger() *zap.SugaredLogger
	MachineConfig() model.FillingMachineConfig
	WorkerConfig() model.WorkerConfig
	ConveyorConfig() control.ConveyorConfig
	Report(movements []simulator.Movement, writer io.Writer) error
}

type runner struct {
	env    simulator.Environment
	logger *zap.SugaredLogger
}

func (r *runner) Env() simulator.Environment {
	return r.env
}

func (r *runner) Logger() *zap.SugaredLogger {
	return r.logger
}

func (r *runner) MachineConfig() model.FillingMachineConfig {
	return model.FillingMachineConfig{
		FillTime: simulator.NewInterval(*fillTimeMin, *fillTimeMax),
	}
}

func (r *runner) WorkerConfig() model.WorkerConfig {
	return model.WorkerConfig{
		Latency:         simulator.NewInterval(*workerLatencyMin, *workerLatencyMax),
		PollInterval:    *pollInterval,
		MaxPollInterval: *maxPollInterval,
	}
}

func (r *runner) ConveyorConfig() control.ConveyorConfig {
	return control.ConveyorConfig{
		FeedInterval:    simulator.NewInterval(*feedIntervalMin, *feedIntervalMax),
		CollectInterval: simulator.NewInterval(*collectIntervalMin, *collectIntervalMax),
	}
}

func (r *runner) Report(movements []simulator.Movement, writer io.Writer) error {
	printer := message.NewPrinter(language.AmericanEnglish)

	fmt.Fprintf(writer,
		"\n%5s %s      %12s %-8s  %20s %-10s\n\n",
		au.Bold("Done."),
		au.Bold("#"+r.env.RunID()),
		au.BgGreen("Movements"),
		au.Bold(printer.Sprintf("%d", len(movements))),
		au.Cyan("Running time:"),
		time.Since(startRunning).Round(time.Millisecond).String(),
	)

	fmt.Fprintln(writer, au.BgGreen(fmt.Sprintf("%-12s  %-16s %-20s %-16s ⟶   %-16s  %-30s", "Time", "Movement Name", "Entity Name", "From State", "To State", "Notes")).Bold())

	counts := make(map[simulator.MovementKind]int)
	for _, mv := range movements {
		counts[mv.Kind()]++

		eName := "<nil>"
		if e := mv.Moved(); e != nil {
			eName = string(e.Name())
		}

		fmt.Fprintf(writer,
			"%-12s  %-16s %-20s %-16s ⟶   %-16s  %s\n",
			mv.OccursAt().Format(logging.TimeLayout),
			mv.Kind(),
			eName,
			mv.From(),
			mv.To(),
			strings.Join(mv.Notes(), fmt.Sprintf("\n%-93s", " ")),
		)
	}

	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	fmt.Fprint(writer, "\n")
	fmt.Fprintln(writer, au.BgBlue(fmt.Sprintf("%-16s %10s", "Movement Name", "Count")).Bold())
	for _, k := range kinds {
		fmt.Fprintln(writer, printer.Sprintf("%-16s %10d", k, counts[simulator.MovementKind(k)]))
	}

	return nil
}

func NewRunner(logger *zap.SugaredLogger) Runner {
	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}

	return &runner{
		env:    simulator.NewEnvironment(context.Background(), logger, simulator.NewRandomSource(s)),
		logger: logger,
	}
}

type cell struct {
	controlSystem *control.System
	machines      []model.FillingMachine
	worker        model.Worker
	conveyor      *control.Conveyor
	server        *serve.CellServer
}

var initialStates = []model.MachineState{
	model.StateFilling,
	model.StateFillingComplete,
	model.StateReadyToFill,
}

func buildCell(r Runner, machineCount int, withConveyor bool, addr string) (*cell, error) {
	if machineCount < 1 {
		return nil, fmt.Errorf("a cell needs at least one filling machine, got %d", machineCount)
	}
	if err := r.MachineConfig().Validate(); err != nil {
		return nil, err
	}
	if err := r.WorkerConfig().Validate(); err != nil {
		return nil, err
	}

	logger := r.Logger()
	c := &cell{
		controlSystem: control.NewSystem(r.Env(), logger.Named("control")),
		machines:      make([]model.FillingMachine, machineCount),
	}

	for i := range c.machines {
		c.machines[i] = model.NewFillingMachine(r.Env(), i+1, r.MachineConfig(), initialStates[i%len(initialStates)], logger.Named("machine"))
	}

	c.worker = model.NewWorker(r.Env(), c.controlSystem, c.machines, r.WorkerConfig(), logger.Named("worker"))
	c.controlSystem.Subscribe(c.worker)

	if withConveyor {
		if err := r.ConveyorConfig().Validate(); err != nil {
			return nil, err
		}
		c.conveyor = control.NewConveyor(c.controlSystem, r.Env().Rand(), r.ConveyorConfig(), logger.Named("conveyor"))
	}

	if addr != "" {
		c.server = serve.NewCellServer(addr, c.controlSystem, c.machines, logger.Named("serve"))
	}

	return c, nil
}

func (c *cell) start() {
	c.controlSystem.Announce()
	if c.conveyor != nil {
		c.conveyor.Start()
	}
}

func (c *cell) stop() {
	if c.conveyor != nil {
		c.conveyor.Stop()
	}
	for _, m := range c.machines {
		m.Stop()
	}
}

func run(ctx context.Context, r Runner, stdin io.Reader, stdout io.Writer) error {
	logger := r.Logger()

	logger.Infof("Simulation run %s", r.Env().RunID())
	logger.Info("Creating simulation objects...")
	c, err := buildCell(r, *numberOfMachines, *conveyor, *listen)
	if err != nil {
		return err
	}
	logger.Info("Simulation objects creation complete!")

	if err = r.Env().Start(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if c.server != nil {
		if _, err = c.server.Listen(); err != nil {
			_ = r.Env().Halt()
			return err
		}
		g.Go(c.server.Serve)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return c.server.Shutdown(shutdownCtx)
		})
	}

	logger.Info("Starting simulation, press 'c' to terminate the simulation...")
	c.start()

	g.Go(func() error {
		return awaitTermination(gctx, stdin, logger)
	})
	err = g.Wait()

	c.stop()
	_ = r.Env().Halt()
	r.Env().Wait()
	logger.Info("Simulation terminated!")

	if errors.Is(err, errTerminated) || errors.Is(err, context.Canceled) {
		err = nil
	}

	if *showTrace {
		if reportErr := r.Report(r.Env().Movements(), stdout); reportErr != nil {
			logger.Errorf("could not print the trace: %s", reportErr.Error())
		}
	}

	return err
}

// awaitTermination returns errTerminated once a line reading "c" arrives on
// stdin. At end of input it waits for ctx instead.
func awaitTermination(ctx context.Context, stdin io.Reader, logger *zap.SugaredLogger) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				logger.Debug("Standard input closed, waiting for a signal to terminate")
				<-ctx.Done()
				return ctx.Err()
			}
			if isTermination(line) {
				return errTerminated
			}
		}
	}
}

func isTermination(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), "c")
}
