// SPDX-License-Identifier: ISC

package archiver

import (
	"github.com/bitmark-inc/logger"
)

// ArchiverState - the serialisable part of the archiver
//
// the archive instances themselves live outside the snapshot; the
// factory reattaches them by sequence number on restore
type ArchiverState struct {
	State    State        `json:"state"`
	Sequence int          `json:"sequence"`
	Index    []IndexEntry `json:"index"`
}

// Export - snapshot the trigger state and archive index
func (a *Archiver) Export() ArchiverState {
	a.Lock()
	defer a.Unlock()

	return ArchiverState{
		State:    a.state,
		Sequence: a.sequence,
		Index:    append([]IndexEntry{}, a.index...),
	}
}

// FromState - rebuild an archiver from a snapshot, reattaching every
// previously created archive instance through the factory
func FromState(state ArchiverState, options Options, factory Factory, log *logger.L) (*Archiver, error) {

	a := New(options, factory, log)
	a.state = state.State
	a.sequence = state.Sequence
	a.index = append([]IndexEntry{}, state.Index...)

	for i := 0; i < state.Sequence; i += 1 {
		store, err := factory(i)
		if nil != err {
			return nil, err
		}
		a.stores[store.Ident()] = store
		a.current = store
	}
	return a, nil
}
