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
	"sync"
)

// FakeSensorListener counts callbacks and forwards them on buffered channels.
type FakeSensorListener struct {
	mu          sync.Mutex
	EmptyCalls  int
	FullCalls   int
	Err         error
	OnEmpty     func()
	emptyCalled chan struct{}
	fullCalled  chan struct{}
}

func NewFakeSensorListener() *FakeSensorListener {
	return &FakeSensorListener{
		emptyCalled: make(chan struct{}, 100),
		fullCalled:  make(chan struct{}, 100),
	}
}

func (fsl *FakeSensorListener) OnEmptyPlaceSensorChanged(ctx context.Context) error {
	fsl.mu.Lock()
	fsl.EmptyCalls++
	onEmpty := fsl.OnEmpty
	err := fsl.Err
	fsl.mu.Unlock()

	if onEmpty != nil {
		onEmpty()
	}
	fsl.emptyCalled <- struct{}{}
	return err
}

func (fsl *FakeSensorListener) OnFullPlaceSensorChanged(ctx context.Context) error {
	fsl.mu.Lock()
	fsl.FullCalls++
	err := fsl.Err
	fsl.mu.Unlock()

	fsl.fullCalled <- struct{}{}
	return err
}

func (fsl *FakeSensorListener) EmptyCalled() <-chan struct{} {
	return fsl.emptyCalled
}

func (fsl *FakeSensorListener) FullCalled() <-chan struct{} {
	return fsl.fullCalled
}

func (fsl *FakeSensorListener) Counts() (empty, full int) {
	fsl.mu.Lock()
	defer fsl.mu.Unlock()
	return fsl.EmptyCalls, fsl.FullCalls
}
