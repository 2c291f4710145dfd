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

package control

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"fillcell/pkg/metrics"
	"fillcell/pkg/model"
	"fillcell/pkg/simulator"
)

const (
	SensorKind   simulator.EntityKind   = "Sensor"
	SensorChange simulator.MovementKind = "sensor change"
)

const (
	EmptyPlaceSensorName = "EmptyPlaceSensor"
	FullPlaceSensorName  = "FullPlaceSensor"
)

type notifyFunc func(ctx context.Context, listener model.SensorListener) error

// System is an in-memory control system. Sensor changes are delivered to
// the subscribed listener on their own goroutine, so a listener may set
// sensors from inside a callback.
type System struct {
	env    simulator.Environment
	logger *zap.SugaredLogger

	emptyPlaceSensor simulator.Entity
	fullPlaceSensor  simulator.Entity

	mu         sync.Mutex
	emptyPlace bool
	fullPlace  bool
	listener   model.SensorListener
	nextHandle model.TimerHandle
	timers     map[model.TimerHandle]simulator.Timer
}

func (cs *System) Subscribe(listener model.SensorListener) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.listener = listener
}

// Announce delivers both sensor callbacks once, so a fresh listener can act
// on the current sensor values.
func (cs *System) Announce() {
	cs.mu.Lock()
	listener := cs.listener
	cs.mu.Unlock()

	if listener == nil {
		return
	}

	cs.deliver(cs.emptyPlaceSensor, listener, onEmptyPlace)
	cs.deliver(cs.fullPlaceSensor, listener, onFullPlace)
}

func (cs *System) GetEmptyPlaceSensor() bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	return cs.emptyPlace
}

func (cs *System) SetEmptyPlaceSensor(value bool) {
	cs.set(cs.emptyPlaceSensor, &cs.emptyPlace, value, onEmptyPlace)
}

func (cs *System) GetFullPlaceSensor() bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	return cs.fullPlace
}

func (cs *System) SetFullPlaceSensor(value bool) {
	cs.set(cs.fullPlaceSensor, &cs.fullPlace, value, onFullPlace)
}

func (cs *System) StartTimer(delay time.Duration, callback func()) model.TimerHandle {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.nextHandle++
	handle := cs.nextHandle

	// The callback takes cs.mu before running, so it cannot observe the
	// map before the handle is stored.
	cs.timers[handle] = cs.env.Schedule(fmt.Sprintf("control timer %d", handle), delay, func() {
		cs.mu.Lock()
		_, live := cs.timers[handle]
		delete(cs.timers, handle)
		cs.mu.Unlock()

		if live {
			callback()
		}
	})

	return handle
}

func (cs *System) KillTimer(handle model.TimerHandle) {
	cs.mu.Lock()
	timer, ok := cs.timers[handle]
	delete(cs.timers, handle)
	cs.mu.Unlock()

	if ok {
		timer.Stop()
	}
}

func (cs *System) set(sensor simulator.Entity, field *bool, value bool, notify notifyFunc) {
	cs.mu.Lock()
	previous := *field
	*field = value
	listener := cs.listener
	cs.mu.Unlock()

	if previous == value {
		return
	}

	cs.env.Record(simulator.NewMovement(
		SensorChange,
		cs.env.Now(),
		sensor,
		simulator.StateName(strconv.FormatBool(previous)),
		simulator.StateName(strconv.FormatBool(value)),
	))
	metrics.ObserveSensorChange(string(sensor.Name()), value)
	cs.logger.Debugf("%s changed to %t", sensor.Name(), value)

	if listener != nil {
		cs.deliver(sensor, listener, notify)
	}
}

func (cs *System) deliver(sensor simulator.Entity, listener model.SensorListener, notify notifyFunc) {
	err := cs.env.Go(func() {
		err := notify(cs.env.Context(), listener)
		if err != nil && !errors.Is(err, context.Canceled) {
			cs.logger.Errorf("%s listener failed: %s", sensor.Name(), err.Error())
		}
	})
	if err != nil {
		cs.logger.Debugf("Dropped %s notification: %s", sensor.Name(), err.Error())
	}
}

func onEmptyPlace(ctx context.Context, listener model.SensorListener) error {
	return listener.OnEmptyPlaceSensorChanged(ctx)
}

func onFullPlace(ctx context.Context, listener model.SensorListener) error {
	return listener.OnFullPlaceSensorChanged(ctx)
}

// NewSystem creates a control system with both sensors reading false.
func NewSystem(env simulator.Environment, logger *zap.SugaredLogger) *System {
	return &System{
		env:              env,
		logger:           logger,
		emptyPlaceSensor: simulator.NewEntity(EmptyPlaceSensorName, SensorKind),
		fullPlaceSensor:  simulator.NewEntity(FullPlaceSensorName, SensorKind),
		timers:           make(map[model.TimerHandle]simulator.Timer),
	}
}
