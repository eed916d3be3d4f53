// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tickwheel

import (
	"errors"
)

var ErrActiveTimer = errors.New("called on active timer event")
var ErrInvalidTimer = errors.New("called on invalid timer event")
var ErrDelayTooShort = errors.New("delay smaller then one tick")
var ErrTicksTooHigh = errors.New("ticks delta too high")
var ErrInvalidRange = errors.New("invalid delay range")
var ErrInvalidParameters = errors.New("invalid parameters")
