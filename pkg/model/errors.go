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
)

var ErrInvalidStateTransition = errors.New("invalid state transition")

// InvalidStateTransitionError is returned when a filling machine is asked to
// load or unload in a state that does not allow it.
type InvalidStateTransitionError struct {
	Machine int
	Event   string
	State   MachineState
	Cause   error
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("filling machine %d cannot %s in State %s: %s", e.Machine, e.Event, e.State, ErrInvalidStateTransition)
}

func (e *InvalidStateTransitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}

func (e *InvalidStateTransitionError) Unwrap() error {
	return e.Cause
}
