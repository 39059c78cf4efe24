// Package io provides the character devices attached to the basic
// computer's input and output latches: sequential tape over an io.Reader
// and io.Writer (Tape), a fixed byte FIFO (Temporary) and a read-only byte
// string (Rom).
package io

// Device is a character device. The emulator feeds INPR from Receive and
// drains OUTR into Send, one byte at a time.
type Device interface {
	// Rewind resets the device to its initial state.
	Rewind()
	// Receive returns the next input byte, or false if none is available.
	Receive() (value byte, ok bool)
	// Send writes a single byte to the device.
	Send(value byte) error
}
