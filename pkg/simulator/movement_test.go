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

func TestEntity(t *testing.T) {
	spec.Run(t, "Entity spec", testEntity, spec.Report(report.Terminal{}))
}

func testEntity(t *testing.T, describe spec.G, it spec.S) {
	var subject Entity

	it.Before(func() {
		subject = NewEntity("test entity name", "test entity kind")
	})

	it("creates an entity", func() {
		assert.Equal(t, subject.Name(), EntityName("test entity name"))
		assert.Equal(t, subject.Kind(), EntityKind("test entity kind"))
	})
}

func TestMovement(t *testing.T) {
	spec.Run(t, "Movement spec", testMovement, spec.Report(report.Terminal{}))
}

func testMovement(t *testing.T, describe spec.G, it spec.S) {
	var subject Movement
	var moved Entity
	var occursAt time.Time

	it.Before(func() {
		moved = NewEntity("test entity", "test kind")
		occursAt = time.Unix(123, 0)
		subject = NewMovement("test movement kind", occursAt, moved, "from state", "to state")
	})

	it("has a kind", func() {
		assert.Equal(t, MovementKind("test movement kind"), subject.Kind())
	})

	it("has an OccursAt", func() {
		assert.Equal(t, occursAt, subject.OccursAt())
	})

	it("has the moved entity", func() {
		assert.Equal(t, moved, subject.Moved())
	})

	it("has a From and To state", func() {
		assert.Equal(t, StateName("from state"), subject.From())
		assert.Equal(t, StateName("to state"), subject.To())
	})

	describe("notes", func() {
		it("starts with no notes", func() {
			assert.Empty(t, subject.Notes())
		})

		it("keeps added notes in order", func() {
			subject.AddNote("first")
			subject.AddNote("second")
			assert.Equal(t, []string{"first", "second"}, subject.Notes())
		})
	})
}
