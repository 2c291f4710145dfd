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

import "time"

// Timer is a handle to a callback scheduled on an Environment.
type Timer interface {
	Name() string
	Delay() time.Duration
	// Stop cancels the callback. It returns false if the callback already
	// ran, was already stopped, or was never scheduled.
	Stop() bool
}

type scheduledEvent struct {
	id    uint64
	name  string
	delay time.Duration
	env   *environment
	timer *time.Timer
}

func (se *scheduledEvent) Name() string {
	return se.name
}

func (se *scheduledEvent) Delay() time.Duration {
	return se.delay
}

func (se *scheduledEvent) Stop() bool {
	if se.timer == nil {
		return false
	}

	if !se.env.unschedule(se.id) {
		return false
	}

	return se.timer.Stop()
}
