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
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/stretchr/testify/assert"

	"fillcell/pkg/simulator"
)

func TestErrorsAndConfig(t *testing.T) {
	spec.Run(t, "Errors and config", testErrorsAndConfig, spec.Report(report.Terminal{}))
}

func testErrorsAndConfig(t *testing.T, describe spec.G, it spec.S) {
	describe("InvalidStateTransitionError", func() {
		var subject *InvalidStateTransitionError
		var cause error

		it.Before(func() {
			cause = errors.New("event load inappropriate in current state Filling")
			subject = &InvalidStateTransitionError{Machine: 4, Event: EventLoad, State: StateFilling, Cause: cause}
		})

		it("matches ErrInvalidStateTransition", func() {
			assert.True(t, errors.Is(subject, ErrInvalidStateTransition))
			assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", subject), ErrInvalidStateTransition))
		})

		it("unwraps to its cause", func() {
			assert.Equal(t, cause, errors.Unwrap(subject))
		})

		it("names the machine, event and state", func() {
			assert.Equal(t, "filling machine 4 cannot load in State Filling: invalid state transition", subject.Error())
		})
	})

	describe("MachineState", func() {
		it("knows its states", func() {
			assert.True(t, StateReadyToFill.Valid())
			assert.True(t, StateFilling.Valid())
			assert.True(t, StateFillingComplete.Valid())
			assert.False(t, MachineState("Idle").Valid())
		})
	})

	describe("FillingMachineConfig", func() {
		it("rejects an inverted fill time", func() {
			config := FillingMachineConfig{FillTime: simulator.NewInterval(5*time.Second, 2*time.Second)}
			assert.Error(t, config.Validate())
		})
	})

	describe("WorkerConfig", func() {
		it("accepts unset poll intervals", func() {
			config := WorkerConfig{Latency: simulator.NewInterval(time.Second, 2*time.Second)}
			assert.NoError(t, config.Validate())
		})

		it("rejects a poll interval above the maximum", func() {
			config := WorkerConfig{
				Latency:         simulator.NewInterval(time.Second, 2*time.Second),
				PollInterval:    time.Second,
				MaxPollInterval: time.Millisecond,
			}
			assert.Error(t, config.Validate())
		})

		it("rejects an invalid latency", func() {
			config := WorkerConfig{Latency: simulator.NewInterval(-time.Second, time.Second)}
			assert.Error(t, config.Validate())
		})
	})
}
