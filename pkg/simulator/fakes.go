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
	"sync"

	"github.com/stretchr/testify/mock"
)

type MockRandomSource struct {
	mock.Mock
}

func (mrs *MockRandomSource) Int63n(n int64) int64 {
	args := mrs.Called(n)
	return args.Get(0).(int64)
}

// FakeMovementListener collects every movement it is told about.
type FakeMovementListener struct {
	mu        sync.Mutex
	movements []Movement
	Err       error
}

func (fml *FakeMovementListener) OnMovement(movement Movement) error {
	fml.mu.Lock()
	defer fml.mu.Unlock()

	fml.movements = append(fml.movements, movement)
	return fml.Err
}

func (fml *FakeMovementListener) Movements() []Movement {
	fml.mu.Lock()
	defer fml.mu.Unlock()

	movements := make([]Movement, len(fml.movements))
	copy(movements, fml.movements)
	return movements
}
