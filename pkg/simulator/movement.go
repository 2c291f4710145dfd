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

type MovementKind string
type StateName string

type Annotateable interface {
	Notes() []string
	AddNote(note string)
}

type coreMovement interface {
	Kind() MovementKind
	OccursAt() time.Time
	Moved() Entity
	From() StateName
	To() StateName
}

// Movement records a single entity changing from one state to another.
type Movement interface {
	coreMovement
	Annotateable
}

type MovementListener interface {
	OnMovement(movement Movement) error
}

type move struct {
	kind     MovementKind
	occursAt time.Time
	moved    Entity
	from     StateName
	to       StateName
	notes    []string
}

func (mv *move) Kind() MovementKind {
	return mv.kind
}

func (mv *move) OccursAt() time.Time {
	return mv.occursAt
}

func (mv *move) Moved() Entity {
	return mv.moved
}

func (mv *move) From() StateName {
	return mv.from
}

func (mv *move) To() StateName {
	return mv.to
}

func (mv *move) Notes() []string {
	return mv.notes
}

func (mv *move) AddNote(note string) {
	mv.notes = append(mv.notes, note)
}

func NewMovement(kind MovementKind, occursAt time.Time, moved Entity, from, to StateName) Movement {
	return &move{
		kind:     kind,
		occursAt: occursAt,
		moved:    moved,
		from:     from,
		to:       to,
		notes:    make([]string, 0),
	}
}
