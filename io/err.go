package io

import (
	"errors"

	"github.com/ezrec/bcpu/translate"
)

var f = translate.From

var (
	// Device errors
	ErrChannelFull   = errors.New(f("channel full"))
	ErrChannelClosed = errors.New(f("channel closed"))
)
