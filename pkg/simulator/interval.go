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
	"fmt"
	"math/rand"
	"sync"
	"time"
)

type RandomSource interface {
	Int63n(n int64) int64
}

// Interval is a closed [Min, Max] range of durations. Draws are taken in
// whole milliseconds from the half-open range [floor(Min), floor(Max)).
type Interval struct {
	Min time.Duration
	Max time.Duration
}

func NewInterval(min, max time.Duration) Interval {
	return Interval{Min: min, Max: max}
}

func (i Interval) Validate() error {
	if i.Min < 0 || i.Max < 0 {
		return fmt.Errorf("interval [%s, %s] must not be negative", i.Min, i.Max)
	}
	if i.Min > i.Max {
		return fmt.Errorf("interval lower bound %s is greater than upper bound %s", i.Min, i.Max)
	}

	return nil
}

func (i Interval) Draw(source RandomSource) time.Duration {
	minMs := int64(i.Min / time.Millisecond)
	maxMs := int64(i.Max / time.Millisecond)

	if maxMs <= minMs {
		return time.Duration(minMs) * time.Millisecond
	}

	return time.Duration(minMs+source.Int63n(maxMs-minMs)) * time.Millisecond
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s]", i.Min, i.Max)
}

type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (ls *lockedSource) Int63n(n int64) int64 {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	return ls.rnd.Int63n(n)
}

// NewRandomSource returns a RandomSource that is safe for concurrent use.
func NewRandomSource(seed int64) RandomSource {
	return &lockedSource{rnd: rand.New(rand.NewSource(seed))}
}
