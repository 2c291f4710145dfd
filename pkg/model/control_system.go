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
	"time"
)

type TimerHandle int

// ControlSystem is the sensor and timer API of the cell's control system.
type ControlSystem interface {
	GetEmptyPlaceSensor() bool
	SetEmptyPlaceSensor(value bool)
	GetFullPlaceSensor() bool
	SetFullPlaceSensor(value bool)
	StartTimer(delay time.Duration, callback func()) TimerHandle
	KillTimer(handle TimerHandle)
}

// SensorListener is notified by a ControlSystem whenever a sensor value
// changes. Implementations read the current value themselves.
type SensorListener interface {
	OnEmptyPlaceSensorChanged(ctx context.Context) error
	OnFullPlaceSensorChanged(ctx context.Context) error
}
