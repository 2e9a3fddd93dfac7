// SPDX-License-Identifier: ISC

// ledger engine
//
// orchestrates the token store, the approval store, the hash-chained
// transaction log and the archival trigger into the batch operation
// surface.  The engine is the only writer of its stores; the hosting
// boundary serialises update calls, queries run under a shared lock.
package ledger

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/approval"
	"github.com/av1ctor/icrc7-launchpad/archiver"
	"github.com/av1ctor/icrc7-launchpad/counter"
	"github.com/av1ctor/icrc7-launchpad/fault"
	"github.com/av1ctor/icrc7-launchpad/token"
	"github.com/av1ctor/icrc7-launchpad/txlog"
)

// logging channel
const logCategory = "ledger"

// ItemResult - outcome of one batch item
//
// a nil *ItemResult slot in a batch response marks an item that was
// skipped before evaluation, e.g. a token id repeated inside one mint
// batch, or items after the aborting failure of an atomic batch
type ItemResult struct {
	Tid       uint64 // assigned transaction id, or the original on a duplicate
	Duplicate bool   // replay of an identical recent request
	Noop      bool   // nothing to do, e.g. revoking an absent approval
	Err       error  // nil on success
}

// Ledger - one NFT collection
type Ledger struct {
	sync.RWMutex

	log       *logger.L
	options   Options
	tokens    *token.Store
	approvals *approval.Store
	chain     *txlog.Log
	trigger   *archiver.Archiver
	supply    counter.Counter
}

// New - create an empty ledger
//
// the factory provides archive instances on demand; the logging system
// must already be initialised
func New(options Options, factory archiver.Factory) *Ledger {
	options.applyDefaults()
	if nil != options.MintingAuthority {
		options.MintingAuthority = options.MintingAuthority.Normalised()
	}
	log := logger.New(logCategory)

	l := &Ledger{
		log:     log,
		options: options,
		tokens:  token.NewStore(),
		approvals: approval.NewStore(
			options.MaxApprovalsPerTokenOrCollection,
			options.MaxApprovals,
			options.SettleToApprovals,
		),
		chain:   txlog.NewLog(),
		trigger: archiver.New(options.archiverOptions(), factory, logger.New("archiver")),
	}
	log.Infof("created ledger %q (%s)", options.Name, options.Symbol)
	return l
}

// ArchivePass - run one archival trigger pass outside of any batch
//
// used by the hosting process to retry a pending export without
// waiting for the next update call
func (l *Ledger) ArchivePass() error {
	l.Lock()
	defer l.Unlock()
	return l.trigger.Check(l.chain)
}

// SetMintingAuthority - replace the minting authority
//
// controller gating happens at the hosting boundary
func (l *Ledger) SetMintingAuthority(authority *account.Account) error {
	if nil == authority {
		return fault.ErrInvalidRecipient
	}
	if err := authority.IsValid(); nil != err {
		return err
	}

	l.Lock()
	defer l.Unlock()
	l.options.MintingAuthority = authority.Normalised()
	l.log.Infof("minting authority set to %s", authority)
	return nil
}

// update - shared driver for all batch update operations
//
// checks the batch size, runs the items in index order so item i+1
// sees item i's committed effects, rolls the whole batch back on the
// first error when atomic-batch mode is on, and finally runs one
// archival trigger pass
func (l *Ledger) update(count int, item func(i int, j *journal) *ItemResult) ([]*ItemResult, error) {
	if count > l.options.MaxUpdateBatchSize {
		return nil, fault.ErrBatchTooLarge
	}

	l.Lock()
	defer l.Unlock()

	results := make([]*ItemResult, count)
	j := newJournal(l.chain, l.options.AtomicBatchTransfers)

	for i := 0; i < count; i += 1 {
		r := item(i, j)
		results[i] = r
		if nil != r && nil != r.Err && j.active {
			j.rollback()
			l.log.Warnf("atomic batch aborted at item %d: %s", i, r.Err)
			break
		}
	}

	if err := l.trigger.Check(l.chain); nil != err {
		// a failed export never fails the batch; it is retried later
		l.log.Warnf("archival pass failed: %s", err)
	}
	return results, nil
}

// checkMemo - enforce the configured memo size limit
func (l *Ledger) checkMemo(memo []byte) error {
	if len(memo) > l.options.MaxMemoSize {
		return fault.ErrMemoTooLarge
	}
	return nil
}

// checkWindow - enforce the created-at deduplication window
//
// a zero createdAt means the caller did not supply one and the window
// does not apply
func (l *Ledger) checkWindow(now uint64, createdAt uint64) error {
	if 0 == createdAt {
		return nil
	}
	if createdAt > now+l.options.PermittedDrift {
		return fault.ErrCreatedInFuture
	}
	if createdAt+l.options.TxWindow+l.options.PermittedDrift < now {
		return fault.ErrTooOld
	}
	return nil
}

// checkRecipient - a transfer or mint destination must be a wellformed
// account
func checkRecipient(to *account.Account) error {
	if nil == to {
		return fault.ErrInvalidRecipient
	}
	if err := to.IsValid(); nil != err {
		return fault.ErrInvalidRecipient
	}
	return nil
}

// authorisationError - the refusal cause for a caller that failed the
// authorisation check: a grant that exists but is expired is reported
// as such, any other miss as not authorised
func (l *Ledger) authorisationError(id token.ID, owner *account.Account, caller *account.Account, now uint64) error {
	if a, ok := l.approvals.FindTokenApproval(id, caller); ok && a.IsExpired(now) {
		return fault.ErrApprovalExpired
	}
	if a, ok := l.approvals.FindCollectionApproval(owner, caller); ok && a.IsExpired(now) {
		return fault.ErrApprovalExpired
	}
	return fault.ErrNotAuthorised
}

// accountsEqual - nil-safe account comparison
func accountsEqual(a *account.Account, b *account.Account) bool {
	if nil == a || nil == b {
		return a == b
	}
	return a.Equal(b)
}
