package io

// Rom is a read-only input device that replays a fixed byte string.
type Rom struct {
	Data []byte

	index int
}

var _ Device = (*Rom)(nil)

// Rewind restarts the byte string from the beginning.
func (rc *Rom) Rewind() {
	rc.index = 0
}

func (rc *Rom) Receive() (value byte, ok bool) {
	if rc.index >= len(rc.Data) {
		return
	}

	value = rc.Data[rc.index]
	rc.index++

	return value, true
}

func (rc *Rom) Send(value byte) error {
	return ErrChannelFull
}
