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

package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"fillcell/pkg/metrics"
	"fillcell/pkg/simulator"
)

const (
	emptyPlaceHandler = "empty_place"
	fullPlaceHandler  = "full_place"
)

// Worker loads and unloads filling machines in reaction to the control
// system's sensors.
type Worker interface {
	SensorListener
	Machines() []FillingMachine
	SimulateWorkerLatency(ctx context.Context) error
}

type worker struct {
	env           simulator.Environment
	controlSystem ControlSystem
	machines      []FillingMachine
	config        WorkerConfig
	logger        *zap.SugaredLogger

	// One handler per sensor runs at a time; later calls queue and then
	// re-read the sensor.
	emptyPlace *semaphore.Weighted
	fullPlace  *semaphore.Weighted
}

func (w *worker) Machines() []FillingMachine {
	machines := make([]FillingMachine, len(w.machines))
	copy(machines, w.machines)
	return machines
}

// OnEmptyPlaceSensorChanged loads a ReadyToFill machine with the waiting
// empty container. If no machine is ready it waits until one is. The
// sensor is cleared before the machine is loaded.
func (w *worker) OnEmptyPlaceSensorChanged(ctx context.Context) (err error) {
	defer w.observeError(emptyPlaceHandler, &err)

	if err = w.emptyPlace.Acquire(ctx, 1); err != nil {
		return err
	}
	defer w.emptyPlace.Release(1)

	if !w.controlSystem.GetEmptyPlaceSensor() {
		return nil
	}
	w.logger.Info("EmptyPlaceSensor switched to true.")

	machine, err := w.awaitMachine(ctx, StateReadyToFill)
	if err != nil {
		return err
	}

	if err = w.SimulateWorkerLatency(ctx); err != nil {
		return err
	}

	w.controlSystem.SetEmptyPlaceSensor(false)
	w.logger.Info("EmptyPlaceSensor switched to false.")

	if err = machine.Load(); err != nil {
		return fmt.Errorf("worker could not load %s: %w", machine.Name(), err)
	}
	metrics.ObserveWorkerAction(EventLoad)

	return nil
}

// OnFullPlaceSensorChanged moves a full container from a FillingComplete
// machine to the free full place, waiting for such a machine if needed.
func (w *worker) OnFullPlaceSensorChanged(ctx context.Context) (err error) {
	defer w.observeError(fullPlaceHandler, &err)

	if err = w.fullPlace.Acquire(ctx, 1); err != nil {
		return err
	}
	defer w.fullPlace.Release(1)

	if w.controlSystem.GetFullPlaceSensor() {
		return nil
	}
	w.logger.Info("FullPlaceSensor switched to false.")

	machine, err := w.awaitMachine(ctx, StateFillingComplete)
	if err != nil {
		return err
	}

	if err = w.SimulateWorkerLatency(ctx); err != nil {
		return err
	}

	if err = machine.Unload(); err != nil {
		return fmt.Errorf("worker could not unload %s: %w", machine.Name(), err)
	}
	metrics.ObserveWorkerAction(EventUnload)

	w.controlSystem.SetFullPlaceSensor(true)
	w.logger.Info("FullPlaceSensor switched to true.")

	return nil
}

// SimulateWorkerLatency blocks the caller for a latency drawn from the
// configured interval. Only the caller waits.
func (w *worker) SimulateWorkerLatency(ctx context.Context) error {
	latency := w.config.Latency.Draw(w.env.Rand())
	metrics.ObserveWorkerLatency(latency)
	w.logger.Debugf("Worker takes %s", latency)

	timer := time.NewTimer(latency)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// awaitMachine scans the machines in order and returns the first one in the
// wanted state. While none is, it sleeps until the environment records a
// change or the backoff interval passes, then scans again.
func (w *worker) awaitMachine(ctx context.Context, state MachineState) (FillingMachine, error) {
	b := w.newBackOff(ctx)

	for {
		// fetched before scanning so a change during the scan is not missed
		changed := w.env.Changed()

		if machine := w.scan(state); machine != nil {
			return machine, nil
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("gave up waiting for a filling machine in State %s", state)
		}
		w.logger.Debugf("No filling machine in State %s, rescanning within %s", state, wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-changed:
			timer.Stop()
		case <-timer.C:
		}
	}
}

func (w *worker) scan(state MachineState) FillingMachine {
	metrics.ObserveWorkerScan(string(state))

	for _, machine := range w.machines {
		if machine.State() == state {
			return machine
		}
	}

	return nil
}

func (w *worker) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.config.PollInterval
	b.MaxInterval = w.config.MaxPollInterval
	b.MaxElapsedTime = 0
	b.Reset()

	return backoff.WithContext(b, ctx)
}

func (w *worker) observeError(handler string, err *error) {
	if *err == nil || errors.Is(*err, context.Canceled) {
		return
	}
	metrics.ObserveWorkerError(handler)
}

// NewWorker creates a worker operating the given machines. Machines are
// scanned in the order given.
func NewWorker(env simulator.Environment, controlSystem ControlSystem, machines []FillingMachine, config WorkerConfig, logger *zap.SugaredLogger) Worker {
	ms := make([]FillingMachine, len(machines))
	copy(ms, machines)

	return &worker{
		env:           env,
		controlSystem: controlSystem,
		machines:      ms,
		config:        config.withDefaults(),
		logger:        logger,
		emptyPlace:    semaphore.NewWeighted(1),
		fullPlace:     semaphore.NewWeighted(1),
	}
}
