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
	"testing"
	"time"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/stretchr/testify/assert"
)

func TestInterval(t *testing.T) {
	spec.Run(t, "Interval spec", testInterval, spec.Report(report.Terminal{}))
}

func testInterval(t *testing.T, describe spec.G, it spec.S) {
	describe("Validate()", func() {
		it("accepts an ordered interval", func() {
			assert.NoError(t, NewInterval(time.Second, 2*time.Second).Validate())
		})

		it("accepts an empty-width interval", func() {
			assert.NoError(t, NewInterval(time.Second, time.Second).Validate())
		})

		it("rejects an inverted interval", func() {
			assert.Error(t, NewInterval(2*time.Second, time.Second).Validate())
		})

		it("rejects negative bounds", func() {
			assert.Error(t, NewInterval(-time.Second, time.Second).Validate())
		})
	})

	describe("Draw()", func() {
		it("offsets the source draw from the floored lower bound", func() {
			source := new(MockRandomSource)
			source.On("Int63n", int64(1000)).Return(int64(250))

			drawn := NewInterval(1000*time.Millisecond+700*time.Microsecond, 2000*time.Millisecond).Draw(source)

			assert.Equal(t, 1250*time.Millisecond, drawn)
			source.AssertExpectations(t)
		})

		it("returns the lower bound when the bounds floor to the same millisecond", func() {
			source := new(MockRandomSource)

			drawn := NewInterval(5*time.Millisecond, 5*time.Millisecond+900*time.Microsecond).Draw(source)

			assert.Equal(t, 5*time.Millisecond, drawn)
			source.AssertNotCalled(t, "Int63n", int64(0))
		})

		it("stays within [min, max) across repeated draws", func() {
			interval := NewInterval(1000*time.Millisecond, 2000*time.Millisecond)
			source := NewRandomSource(42)

			var seenMin, seenNearMax bool
			for i := 0; i < 20000; i++ {
				d := interval.Draw(source)
				assert.True(t, d >= interval.Min, "draw %s below %s", d, interval.Min)
				assert.True(t, d < interval.Max, "draw %s not below %s", d, interval.Max)
				assert.Equal(t, time.Duration(0), d%time.Millisecond)

				if d == interval.Min {
					seenMin = true
				}
				if d >= interval.Max-10*time.Millisecond {
					seenNearMax = true
				}
			}

			assert.True(t, seenMin, "lower bound never drawn")
			assert.True(t, seenNearMax, "upper region never drawn")
		})
	})
}
