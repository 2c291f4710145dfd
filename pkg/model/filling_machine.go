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
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"fillcell/pkg/metrics"
	"fillcell/pkg/simulator"
)

const FillingMachineKind simulator.EntityKind = "FillingMachine"

type FillingMachine interface {
	simulator.Entity
	ID() int
	State() MachineState
	Load() error
	Unload() error
	// Stop abandons a fill that is still in progress.
	Stop()
}

type fillingMachine struct {
	env      simulator.Environment
	id       int
	fillTime simulator.Interval
	logger   *zap.SugaredLogger
	fsm      *fsm.FSM

	mu      sync.Mutex
	pending simulator.Timer
}

func (m *fillingMachine) ID() int {
	return m.id
}

func (m *fillingMachine) Name() simulator.EntityName {
	return simulator.EntityName(fmt.Sprintf("filling-machine-%d", m.id))
}

func (m *fillingMachine) Kind() simulator.EntityKind {
	return FillingMachineKind
}

func (m *fillingMachine) State() MachineState {
	return MachineState(m.fsm.Current())
}

// Load moves a ReadyToFill machine to Filling and starts the fill. The fill
// completes on its own after a duration drawn from the fill time interval.
func (m *fillingMachine) Load() error {
	return m.transition(EventLoad)
}

// Unload moves a FillingComplete machine back to ReadyToFill.
func (m *fillingMachine) Unload() error {
	return m.transition(EventUnload)
}

func (m *fillingMachine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending != nil {
		m.pending.Stop()
		m.pending = nil
	}
}

func (m *fillingMachine) transition(event string) error {
	err := m.fsm.Event(context.Background(), event)
	if err != nil {
		return &InvalidStateTransitionError{
			Machine: m.id,
			Event:   event,
			State:   m.State(),
			Cause:   err,
		}
	}

	return nil
}

func (m *fillingMachine) onTransition(_ context.Context, e *fsm.Event) {
	movement := simulator.NewMovement(
		simulator.MovementKind(e.Event),
		m.env.Now(),
		m,
		simulator.StateName(e.Src),
		simulator.StateName(e.Dst),
	)

	var fillFor time.Duration
	if MachineState(e.Dst) == StateFilling {
		fillFor = m.fillTime.Draw(m.env.Rand())
		movement.AddNote(fmt.Sprintf("fills for %s", fillFor))
	}

	m.logger.Infof("FillingMachine %d changed State from %s to %s.", m.id, e.Src, e.Dst)
	metrics.ObserveMachineTransition(string(m.Name()), e.Src, e.Dst)
	m.env.Record(movement)

	if MachineState(e.Dst) == StateFilling {
		m.scheduleCompletion(fillFor)
	}
}

func (m *fillingMachine) scheduleCompletion(fillFor time.Duration) {
	metrics.ObserveFillDuration(fillFor)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = m.env.Schedule(fmt.Sprintf("%s fill complete", m.Name()), fillFor, m.completeFill)
}

func (m *fillingMachine) completeFill() {
	m.mu.Lock()
	m.pending = nil
	m.mu.Unlock()

	if err := m.fsm.Event(context.Background(), EventComplete); err != nil {
		m.logger.Errorf("FillingMachine %d could not complete filling: %s", m.id, err.Error())
	}
}

// NewFillingMachine creates a machine in the given initial state; the zero
// MachineState means ReadyToFill. A machine created in Filling starts its
// fill immediately, as if it had just been loaded.
func NewFillingMachine(env simulator.Environment, id int, config FillingMachineConfig, initial MachineState, logger *zap.SugaredLogger) FillingMachine {
	if initial == "" {
		initial = StateReadyToFill
	}
	if !initial.Valid() {
		panic(fmt.Sprintf("could not create filling machine %d in unknown state '%s'", id, initial))
	}

	m := &fillingMachine{
		env:      env,
		id:       id,
		fillTime: config.FillTime,
		logger:   logger,
	}

	m.fsm = fsm.NewFSM(
		string(initial),
		fsm.Events{
			{Name: EventLoad, Src: []string{string(StateReadyToFill)}, Dst: string(StateFilling)},
			{Name: EventComplete, Src: []string{string(StateFilling)}, Dst: string(StateFillingComplete)},
			{Name: EventUnload, Src: []string{string(StateFillingComplete)}, Dst: string(StateReadyToFill)},
		},
		fsm.Callbacks{
			"enter_state": m.onTransition,
		},
	)

	metrics.InitMachineState(string(m.Name()), string(initial), machineStateNames())

	if initial == StateFilling {
		fillFor := config.FillTime.Draw(env.Rand())
		logger.Infof("FillingMachine %d starts in State %s, fills for %s.", id, initial, fillFor)
		m.scheduleCompletion(fillFor)
	}

	return m
}
