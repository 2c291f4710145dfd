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

package simulator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

const (
	StateStarting = "STARTING"
	StateRunning  = "RUNNING"
	StateHalted   = "HALTED"

	eventStart = "start"
	eventHalt  = "halt"
)

var ErrHalted = errors.New("environment has halted")

type Environment interface {
	RunID() string
	Context() context.Context
	Now() time.Time
	Rand() RandomSource
	State() string

	Start() error
	Halt() error
	Wait()

	Schedule(name string, delay time.Duration, fn func()) Timer
	Go(fn func()) error

	Record(movement Movement)
	AddMovementListener(listener MovementListener) error
	Movements() []Movement
	Changed() <-chan struct{}
}

type environment struct {
	runID  string
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.SugaredLogger
	source RandomSource
	fsm    *fsm.FSM

	mu        sync.Mutex
	halted    bool
	nextID    uint64
	pending   map[uint64]*scheduledEvent
	running   sync.WaitGroup
	movements []Movement
	listeners []MovementListener
	changed   chan struct{}
}

func (env *environment) RunID() string {
	return env.runID
}

func (env *environment) Context() context.Context {
	return env.ctx
}

func (env *environment) Now() time.Time {
	return time.Now()
}

func (env *environment) Rand() RandomSource {
	return env.source
}

func (env *environment) State() string {
	return env.fsm.Current()
}

func (env *environment) Start() error {
	err := env.fsm.Event(context.Background(), eventStart)
	if err != nil {
		return fmt.Errorf("could not start environment: %w", err)
	}

	return nil
}

func (env *environment) Halt() error {
	err := env.fsm.Event(context.Background(), eventHalt)
	if err != nil {
		return fmt.Errorf("could not halt environment: %w", err)
	}

	return nil
}

// Wait blocks until every tracked goroutine and every fired timer callback
// has returned.
func (env *environment) Wait() {
	env.running.Wait()
}

func (env *environment) Schedule(name string, delay time.Duration, fn func()) Timer {
	env.mu.Lock()
	defer env.mu.Unlock()

	if env.halted {
		env.logger.Debugf("Ignoring event scheduled after halt: %s", name)
		return &scheduledEvent{name: name, delay: delay, env: env}
	}

	env.nextID++
	se := &scheduledEvent{
		id:    env.nextID,
		name:  name,
		delay: delay,
		env:   env,
	}
	env.pending[se.id] = se

	se.timer = time.AfterFunc(delay, func() {
		env.mu.Lock()
		if env.halted {
			env.mu.Unlock()
			return
		}
		if _, ok := env.pending[se.id]; !ok {
			env.mu.Unlock()
			return
		}
		delete(env.pending, se.id)
		env.running.Add(1)
		env.mu.Unlock()

		defer env.running.Done()
		fn()
	})

	return se
}

func (env *environment) unschedule(id uint64) bool {
	env.mu.Lock()
	defer env.mu.Unlock()

	if _, ok := env.pending[id]; !ok {
		return false
	}
	delete(env.pending, id)

	return true
}

func (env *environment) Go(fn func()) error {
	env.mu.Lock()
	if env.halted {
		env.mu.Unlock()
		return ErrHalted
	}
	env.running.Add(1)
	env.mu.Unlock()

	go func() {
		defer env.running.Done()
		fn()
	}()

	return nil
}

func (env *environment) Record(movement Movement) {
	env.mu.Lock()
	env.movements = append(env.movements, movement)
	listeners := make([]MovementListener, len(env.listeners))
	copy(listeners, env.listeners)

	close(env.changed)
	env.changed = make(chan struct{})
	env.mu.Unlock()

	for _, l := range listeners {
		if err := l.OnMovement(movement); err != nil {
			env.logger.Errorf("movement listener failed on '%s' of %s: %s", movement.Kind(), movement.Moved().Name(), err.Error())
		}
	}
}

func (env *environment) AddMovementListener(listener MovementListener) error {
	if listener == nil {
		return fmt.Errorf("could not add movement listener, as it was nil")
	}

	env.mu.Lock()
	defer env.mu.Unlock()

	env.listeners = append(env.listeners, listener)
	return nil
}

func (env *environment) Movements() []Movement {
	env.mu.Lock()
	defer env.mu.Unlock()

	movements := make([]Movement, len(env.movements))
	copy(movements, env.movements)
	return movements
}

// Changed returns a channel that is closed on the next Record. Callers must
// fetch a fresh channel after each wakeup.
func (env *environment) Changed() <-chan struct{} {
	env.mu.Lock()
	defer env.mu.Unlock()

	return env.changed
}

func (env *environment) onHalt(_ context.Context, _ *fsm.Event) {
	env.mu.Lock()
	env.halted = true
	pending := env.pending
	env.pending = make(map[uint64]*scheduledEvent)
	env.mu.Unlock()

	for _, se := range pending {
		se.timer.Stop()
	}
	env.cancel()

	env.logger.Infof("Halted simulation, abandoned %d pending events", len(pending))
}

func NewEnvironment(ctx context.Context, logger *zap.SugaredLogger, source RandomSource) Environment {
	ctx, cancel := context.WithCancel(ctx)

	env := &environment{
		runID:     uuid.New().String(),
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger,
		source:    source,
		pending:   make(map[uint64]*scheduledEvent),
		movements: make([]Movement, 0),
		changed:   make(chan struct{}),
	}

	env.fsm = fsm.NewFSM(
		StateStarting,
		fsm.Events{
			{Name: eventStart, Src: []string{StateStarting}, Dst: StateRunning},
			{Name: eventHalt, Src: []string{StateStarting, StateRunning}, Dst: StateHalted},
		},
		fsm.Callbacks{
			"enter_" + StateHalted: env.onHalt,
			"enter_" + StateRunning: func(_ context.Context, _ *fsm.Event) {
				env.logger.Info("Started simulation")
			},
		},
	)

	return env
}
