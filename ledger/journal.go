// SPDX-License-Identifier: ISC

package ledger

import (
	"github.com/av1ctor/icrc7-launchpad/blockdigest"
	"github.com/av1ctor/icrc7-launchpad/txlog"
)

// journal - undo log for atomic batches
//
// each committed item registers the steps that reverse its store
// mutations; rollback runs them newest first and truncates the
// transaction log back to the batch start.  When atomic-batch mode is
// off the journal records nothing.
type journal struct {
	active  bool
	chain   *txlog.Log
	nextTid uint64
	latest  blockdigest.Digest
	steps   []func()
}

func newJournal(chain *txlog.Log, active bool) *journal {
	return &journal{
		active:  active,
		chain:   chain,
		nextTid: chain.NextTid(),
		latest:  chain.LatestHash(),
	}
}

// add - register one undo step
func (j *journal) add(step func()) {
	if j.active {
		j.steps = append(j.steps, step)
	}
}

// rollback - reverse every committed item of the batch
func (j *journal) rollback() {
	for i := len(j.steps) - 1; i >= 0; i -= 1 {
		j.steps[i]()
	}
	j.steps = nil
	j.chain.Truncate(j.nextTid, j.latest)
}
