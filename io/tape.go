package io

import (
	"errors"
	"io"
	"sync"
)

const (
	TAPE_BUFFER      = 256 // Input bytes read ahead of the machine.
	TAPE_EMPTY_READS = 100 // Consecutive empty reads before giving up.
)

// Tape provides sequential character I/O over an io.Reader for input and an
// io.Writer for output. Either side may be nil.
//
// Input is read by a goroutine, started on the first Receive, that feeds a
// buffered channel; Receive never blocks. Close stops the goroutine once its
// pending read returns.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	mutex  sync.Mutex
	feed   chan byte
	stopCh chan struct{}
	err    error
}

var _ Device = (*Tape)(nil)

// Rewind is not possible on a tape.
func (tc *Tape) Rewind() {
}

// read copies the input into feed until the input fails or the tape is
// closed.
func (tc *Tape) read(input io.Reader, feed chan<- byte, stopCh <-chan struct{}) {
	defer close(feed)

	var one [1]byte
	empty := 0
	for {
		n, err := input.Read(one[:])
		if n == 1 {
			empty = 0
			select {
			case feed <- one[0]:
			case <-stopCh:
				return
			}
		} else if err == nil {
			empty++
			if empty >= TAPE_EMPTY_READS {
				err = io.ErrNoProgress
			}
		}

		if err != nil {
			tc.mutex.Lock()
			tc.err = err
			tc.mutex.Unlock()
			return
		}

		select {
		case <-stopCh:
			return
		default:
		}
	}
}

// Receive returns the next byte read from the input stream, if one has
// arrived.
func (tc *Tape) Receive() (value byte, ok bool) {
	tc.mutex.Lock()
	if tc.Input == nil {
		tc.mutex.Unlock()
		return
	}
	if tc.feed == nil {
		tc.feed = make(chan byte, TAPE_BUFFER)
		tc.stopCh = make(chan struct{})
		go tc.read(tc.Input, tc.feed, tc.stopCh)
	}
	feed := tc.feed
	tc.mutex.Unlock()

	select {
	case value, ok = <-feed:
	default:
	}

	return
}

// Err returns the error that ended the input, other than io.EOF.
func (tc *Tape) Err() (err error) {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	if !errors.Is(tc.err, io.EOF) {
		err = tc.err
	}

	return
}

// Close stops reading the input stream. Bytes already read remain
// available to Receive.
func (tc *Tape) Close() (err error) {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	if tc.stopCh != nil {
		close(tc.stopCh)
		tc.stopCh = nil
	}

	return
}

// Send writes one byte to the output stream.
func (tc *Tape) Send(value byte) (err error) {
	if tc.Output == nil {
		err = ErrChannelClosed
		return
	}

	_, err = tc.Output.Write([]byte{value})
	return
}
