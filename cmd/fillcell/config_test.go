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

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFile(t *testing.T) {
	spec.Run(t, "config file", testConfigFile, spec.Report(report.Terminal{}), spec.Sequential())
}

func testConfigFile(t *testing.T, describe spec.G, it spec.S) {
	var (
		savedFillMin, savedFillMax time.Duration
		savedMachines              int
		savedListen                string
		savedConveyor              bool
	)

	it.Before(func() {
		savedFillMin, savedFillMax = *fillTimeMin, *fillTimeMax
		savedMachines, savedListen, savedConveyor = *numberOfMachines, *listen, *conveyor
	})

	it.After(func() {
		*fillTimeMin, *fillTimeMax = savedFillMin, savedFillMax
		*numberOfMachines, *listen, *conveyor = savedMachines, savedListen, savedConveyor
	})

	describe("parseConfig()", func() {
		it("reads durations, numbers and switches", func() {
			cfg, err := parseConfig(strings.NewReader(`
fillTime:
  min: 1s
  max: 1500ms
numberOfMachines: 5
conveyor: false
listen: ""
`))
			require.NoError(t, err)

			require.NotNil(t, cfg.FillTime)
			assert.Equal(t, time.Second, *cfg.FillTime.Min)
			assert.Equal(t, 1500*time.Millisecond, *cfg.FillTime.Max)
			assert.Equal(t, 5, *cfg.NumberOfMachines)
			assert.False(t, *cfg.Conveyor)
			assert.Equal(t, "", *cfg.Listen)
			assert.Nil(t, cfg.WorkerLatency)
		})

		it("accepts an empty file", func() {
			cfg, err := parseConfig(strings.NewReader(""))
			require.NoError(t, err)
			assert.Nil(t, cfg.FillTime)
		})

		it("rejects unknown settings", func() {
			_, err := parseConfig(strings.NewReader("fillTimes: 3s\n"))
			assert.Error(t, err)
		})
	})

	describe("apply()", func() {
		var cfg *fileConfig

		it.Before(func() {
			var err error
			cfg, err = parseConfig(strings.NewReader(`
fillTime:
  min: 1s
numberOfMachines: 7
listen: ""
`))
			require.NoError(t, err)
		})

		it("overrides flags that were not given", func() {
			cfg.apply(map[string]bool{})

			assert.Equal(t, time.Second, *fillTimeMin)
			assert.Equal(t, savedFillMax, *fillTimeMax)
			assert.Equal(t, 7, *numberOfMachines)
			assert.Equal(t, "", *listen)
			assert.Equal(t, savedConveyor, *conveyor)
		})

		it("leaves explicit flags alone", func() {
			cfg.apply(map[string]bool{"fillTimeMin": true, "numberOfMachines": true})

			assert.Equal(t, savedFillMin, *fillTimeMin)
			assert.Equal(t, savedMachines, *numberOfMachines)
			assert.Equal(t, "", *listen)
		})
	})
}
