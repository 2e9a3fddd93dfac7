// SPDX-License-Identifier: ISC

package ledger

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/bitmark-inc/logger"

	"github.com/av1ctor/icrc7-launchpad/approval"
	"github.com/av1ctor/icrc7-launchpad/archiver"
	"github.com/av1ctor/icrc7-launchpad/fault"
	"github.com/av1ctor/icrc7-launchpad/token"
	"github.com/av1ctor/icrc7-launchpad/txlog"
)

// snapshot layout version
const snapshotVersion = 1

// ledgerState - the whole engine state as one serialisable unit
type ledgerState struct {
	Version     int                    `cbor:"version"`
	Options     Options                `cbor:"options"`
	Tokens      token.StoreState       `cbor:"tokens"`
	Approvals   approval.StoreState    `cbor:"approvals"`
	Log         txlog.LogState         `cbor:"log"`
	Archiver    archiver.ArchiverState `cbor:"archiver"`
	TotalSupply uint64                 `cbor:"totalSupply"`
}

// Snapshot - serialise the whole engine state to one byte sequence
//
// invoked by the host around process-lifetime boundaries; the engine
// does not decide when
func (l *Ledger) Snapshot() ([]byte, error) {
	l.RLock()
	defer l.RUnlock()

	state := ledgerState{
		Version:     snapshotVersion,
		Options:     l.options,
		Tokens:      l.tokens.Export(),
		Approvals:   l.approvals.Export(),
		Log:         l.chain.Export(),
		Archiver:    l.trigger.Export(),
		TotalSupply: l.supply.Uint64(),
	}
	return cbor.Marshal(state)
}

// Restore - rebuild a ledger from a snapshot
//
// corrupt input is fatal: the host must not continue with a partial
// state
func Restore(data []byte, factory archiver.Factory) (*Ledger, error) {

	var state ledgerState
	if err := cbor.Unmarshal(data, &state); nil != err {
		return nil, fault.ErrCorruptSnapshot
	}
	if snapshotVersion != state.Version {
		return nil, fault.ErrCorruptSnapshot
	}

	options := state.Options
	options.applyDefaults()

	tokens, err := token.FromState(state.Tokens)
	if nil != err {
		return nil, fault.ErrCorruptSnapshot
	}
	chain, err := txlog.FromState(state.Log)
	if nil != err {
		return nil, fault.ErrCorruptSnapshot
	}
	trigger, err := archiver.FromState(state.Archiver, options.archiverOptions(), factory, logger.New("archiver"))
	if nil != err {
		return nil, err
	}

	l := &Ledger{
		log:     logger.New(logCategory),
		options: options,
		tokens:  tokens,
		approvals: approval.FromState(
			state.Approvals,
			options.MaxApprovalsPerTokenOrCollection,
			options.MaxApprovals,
			options.SettleToApprovals,
		),
		chain:   chain,
		trigger: trigger,
	}
	l.supply.Set(state.TotalSupply)
	l.log.Infof("restored ledger %q: %d tokens, %d live blocks", options.Name, tokens.Count(), chain.Size())
	return l, nil
}
