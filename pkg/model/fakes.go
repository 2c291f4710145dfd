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
	"sync"
	"time"

	"fillcell/pkg/simulator"
)

// FakeControlSystem keeps sensor values in memory and records every Set.
// It never notifies a listener.
type FakeControlSystem struct {
	mu           sync.Mutex
	EmptyPlace   bool
	FullPlace    bool
	SetCalls     []string
	OnSet        func(sensor string, value bool)
	TimersKilled []TimerHandle
	nextTimer    TimerHandle
}

func (fcs *FakeControlSystem) GetEmptyPlaceSensor() bool {
	fcs.mu.Lock()
	defer fcs.mu.Unlock()
	return fcs.EmptyPlace
}

func (fcs *FakeControlSystem) SetEmptyPlaceSensor(value bool) {
	fcs.set("EmptyPlaceSensor", &fcs.EmptyPlace, value)
}

func (fcs *FakeControlSystem) GetFullPlaceSensor() bool {
	fcs.mu.Lock()
	defer fcs.mu.Unlock()
	return fcs.FullPlace
}

func (fcs *FakeControlSystem) SetFullPlaceSensor(value bool) {
	fcs.set("FullPlaceSensor", &fcs.FullPlace, value)
}

func (fcs *FakeControlSystem) StartTimer(delay time.Duration, callback func()) TimerHandle {
	fcs.mu.Lock()
	defer fcs.mu.Unlock()
	fcs.nextTimer++
	return fcs.nextTimer
}

func (fcs *FakeControlSystem) KillTimer(handle TimerHandle) {
	fcs.mu.Lock()
	defer fcs.mu.Unlock()
	fcs.TimersKilled = append(fcs.TimersKilled, handle)
}

func (fcs *FakeControlSystem) Calls() []string {
	fcs.mu.Lock()
	defer fcs.mu.Unlock()

	calls := make([]string, len(fcs.SetCalls))
	copy(calls, fcs.SetCalls)
	return calls
}

func (fcs *FakeControlSystem) set(sensor string, field *bool, value bool) {
	fcs.mu.Lock()
	*field = value
	if value {
		fcs.SetCalls = append(fcs.SetCalls, sensor+"=true")
	} else {
		fcs.SetCalls = append(fcs.SetCalls, sensor+"=false")
	}
	onSet := fcs.OnSet
	fcs.mu.Unlock()

	if onSet != nil {
		onSet(sensor, value)
	}
}

// FakeFillingMachine reports a fixed state and returns canned errors.
type FakeFillingMachine struct {
	mu           sync.Mutex
	FakeID       int
	FakeState    MachineState
	LoadErr      error
	UnloadErr    error
	LoadCalled   bool
	UnloadCalled bool
	StopCalled   bool
}

func (ffm *FakeFillingMachine) Name() simulator.EntityName {
	return "fake-filling-machine"
}

func (ffm *FakeFillingMachine) Kind() simulator.EntityKind {
	return FillingMachineKind
}

func (ffm *FakeFillingMachine) ID() int {
	return ffm.FakeID
}

func (ffm *FakeFillingMachine) State() MachineState {
	ffm.mu.Lock()
	defer ffm.mu.Unlock()
	return ffm.FakeState
}

func (ffm *FakeFillingMachine) Load() error {
	ffm.mu.Lock()
	defer ffm.mu.Unlock()
	ffm.LoadCalled = true
	return ffm.LoadErr
}

func (ffm *FakeFillingMachine) Unload() error {
	ffm.mu.Lock()
	defer ffm.mu.Unlock()
	ffm.UnloadCalled = true
	return ffm.UnloadErr
}

func (ffm *FakeFillingMachine) Stop() {
	ffm.mu.Lock()
	defer ffm.mu.Unlock()
	ffm.StopCalled = true
}
