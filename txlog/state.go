// SPDX-License-Identifier: ISC

package txlog

import (
	"github.com/av1ctor/icrc7-launchpad/blockdigest"
	"github.com/av1ctor/icrc7-launchpad/blockrecord"
	"github.com/av1ctor/icrc7-launchpad/fault"
)

// LogState - the serialisable form of the live log
type LogState struct {
	First  uint64              `json:"first"`
	Latest blockdigest.Digest  `json:"latest"`
	Blocks []blockrecord.Block `json:"blocks,omitempty"`
}

// Export - produce the serialisable state
func (log *Log) Export() LogState {
	blocks := make([]blockrecord.Block, len(log.blocks))
	copy(blocks, log.blocks)
	return LogState{
		First:  log.first,
		Latest: log.latest,
		Blocks: blocks,
	}
}

// FromState - rebuild a log from exported state, verifying the chain
func FromState(state LogState) (*Log, error) {
	log := &Log{
		first:  state.First,
		blocks: state.Blocks,
		latest: state.Latest,
	}

	// verify internal linkage; the first block's phash belongs to an
	// archived block so only the forward links are checkable here
	for i := 1; i < len(log.blocks); i += 1 {
		previous := log.blocks[i-1].Digest()
		if log.blocks[i].PHash != previous {
			return nil, fault.ErrCorruptSnapshot
		}
	}
	if n := len(log.blocks); n > 0 {
		if log.latest != log.blocks[n-1].Digest() {
			return nil, fault.ErrCorruptSnapshot
		}
	}
	return log, nil
}
