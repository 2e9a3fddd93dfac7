// SPDX-License-Identifier: ISC

package ledger

import (
	"github.com/holiman/uint256"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/approval"
	"github.com/av1ctor/icrc7-launchpad/archiver"
	"github.com/av1ctor/icrc7-launchpad/blockdigest"
	"github.com/av1ctor/icrc7-launchpad/blockrecord"
	"github.com/av1ctor/icrc7-launchpad/fault"
	"github.com/av1ctor/icrc7-launchpad/token"
	"github.com/av1ctor/icrc7-launchpad/value"
)

// Standard - one supported standard
type Standard struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// the standards this ledger implements
var supportedStandards = []Standard{
	{Name: "ICRC-7", URL: "https://github.com/dfinity/ICRC/tree/main/ICRCs/ICRC-7"},
	{Name: "ICRC-10", URL: "https://github.com/dfinity/ICRC/tree/main/ICRCs/ICRC-10"},
	{Name: "ICRC-37", URL: "https://github.com/dfinity/ICRC/tree/main/ICRCs/ICRC-37"},
	{Name: "ICRC-3", URL: "https://github.com/dfinity/ICRC/tree/main/ICRCs/ICRC-3"},
}

// SupportedStandards - the standards this ledger implements
func (l *Ledger) SupportedStandards() []Standard {
	return append([]Standard{}, supportedStandards...)
}

// Symbol - collection symbol
func (l *Ledger) Symbol() string {
	l.RLock()
	defer l.RUnlock()
	return l.options.Symbol
}

// Name - collection name
func (l *Ledger) Name() string {
	l.RLock()
	defer l.RUnlock()
	return l.options.Name
}

// Description - collection description
func (l *Ledger) Description() string {
	l.RLock()
	defer l.RUnlock()
	return l.options.Description
}

// Logo - collection logo
func (l *Ledger) Logo() string {
	l.RLock()
	defer l.RUnlock()
	return l.options.Logo
}

// TotalSupply - count of live tokens
func (l *Ledger) TotalSupply() *uint256.Int {
	return uint256.NewInt(l.supply.Uint64())
}

// SupplyCap - configured supply limit, nil when unlimited
func (l *Ledger) SupplyCap() *uint256.Int {
	l.RLock()
	defer l.RUnlock()
	if nil == l.options.SupplyCap {
		return nil
	}
	return l.options.SupplyCap.Clone()
}

// MintingAuthority - the account allowed to mint
func (l *Ledger) MintingAuthority() *account.Account {
	l.RLock()
	defer l.RUnlock()
	return l.options.MintingAuthority
}

// MaxQueryBatchSize - per-call limit on query batches
func (l *Ledger) MaxQueryBatchSize() int {
	return l.options.MaxQueryBatchSize
}

// MaxUpdateBatchSize - per-call limit on update batches
func (l *Ledger) MaxUpdateBatchSize() int {
	return l.options.MaxUpdateBatchSize
}

// MaxMemoSize - memo size limit in bytes
func (l *Ledger) MaxMemoSize() int {
	return l.options.MaxMemoSize
}

// DefaultTakeValue - page size applied when take is absent
func (l *Ledger) DefaultTakeValue() int {
	return l.options.DefaultTakeValue
}

// MaxTakeValue - largest permitted page size
func (l *Ledger) MaxTakeValue() int {
	return l.options.MaxTakeValue
}

// AtomicBatchTransfers - whether update batches are all-or-nothing
func (l *Ledger) AtomicBatchTransfers() bool {
	return l.options.AtomicBatchTransfers
}

// checkQueryBatch - enforce the query batch size limit
func (l *Ledger) checkQueryBatch(n int) error {
	if n > l.options.MaxQueryBatchSize {
		return fault.ErrBatchTooLarge
	}
	return nil
}

// clampTake - apply the default and maximum page sizes
func (l *Ledger) clampTake(take int) int {
	if take <= 0 {
		return l.options.DefaultTakeValue
	}
	if take > l.options.MaxTakeValue {
		return l.options.MaxTakeValue
	}
	return take
}

// OwnerOf - owners of a batch of token ids, nil slot for unknown ids
func (l *Ledger) OwnerOf(ids []*uint256.Int) ([]*account.Account, error) {
	if err := l.checkQueryBatch(len(ids)); nil != err {
		return nil, err
	}

	l.RLock()
	defer l.RUnlock()

	owners := make([]*account.Account, len(ids))
	for i, id := range ids {
		if nil == id {
			continue
		}
		if owner, ok := l.tokens.OwnerOf(token.ID(*id)); ok {
			owners[i] = owner
		}
	}
	return owners, nil
}

// BalanceOf - token counts of a batch of accounts
func (l *Ledger) BalanceOf(owners []*account.Account) ([]*uint256.Int, error) {
	if err := l.checkQueryBatch(len(owners)); nil != err {
		return nil, err
	}

	l.RLock()
	defer l.RUnlock()

	balances := make([]*uint256.Int, len(owners))
	for i, owner := range owners {
		if nil == owner {
			balances[i] = uint256.NewInt(0)
			continue
		}
		balances[i] = uint256.NewInt(l.tokens.BalanceOf(owner))
	}
	return balances, nil
}

// Tokens - page through all live token ids in ascending order
//
// prev is an exclusive lower bound
func (l *Ledger) Tokens(prev *uint256.Int, take int) []*uint256.Int {
	l.RLock()
	defer l.RUnlock()
	return idPointers(l.tokens.Tokens(idCursor(prev), l.clampTake(take)))
}

// TokensOf - page through one owner's token ids in ascending order
func (l *Ledger) TokensOf(owner *account.Account, prev *uint256.Int, take int) []*uint256.Int {
	l.RLock()
	defer l.RUnlock()
	return idPointers(l.tokens.TokensOf(owner, idCursor(prev), l.clampTake(take)))
}

// TokenMetadata - metadata of a batch of token ids, nil slot for
// unknown ids
func (l *Ledger) TokenMetadata(ids []*uint256.Int) ([]value.Map, error) {
	if err := l.checkQueryBatch(len(ids)); nil != err {
		return nil, err
	}

	l.RLock()
	defer l.RUnlock()

	metadata := make([]value.Map, len(ids))
	for i, id := range ids {
		if nil == id {
			continue
		}
		if record, ok := l.tokens.Get(token.ID(*id)); ok {
			metadata[i] = record.Metadata
		}
	}
	return metadata, nil
}

// IsApprovedBySpender - whether spender may currently transfer the
// token on behalf of from
func (l *Ledger) IsApprovedBySpender(spender *account.Account, from *account.Account, id *uint256.Int, now uint64) bool {
	if nil == spender || nil == from || nil == id {
		return false
	}

	l.RLock()
	defer l.RUnlock()
	return l.approvals.HasLiveApproval(token.ID(*id), from, spender, now)
}

// TokenApprovals - live and expired approvals of one token
func (l *Ledger) TokenApprovals(id *uint256.Int) []approval.Approval {
	if nil == id {
		return nil
	}

	l.RLock()
	defer l.RUnlock()
	return l.approvals.TokenApprovals(token.ID(*id))
}

// CollectionApprovals - collection approvals granted by one owner
func (l *Ledger) CollectionApprovals(owner *account.Account) []approval.Approval {
	if nil == owner {
		return nil
	}

	l.RLock()
	defer l.RUnlock()
	return l.approvals.CollectionApprovals(owner)
}

// Archives - the archive index, oldest range first
func (l *Ledger) Archives() []archiver.IndexEntry {
	return l.trigger.Index()
}

// LatestHash - content hash of the most recent block
func (l *Ledger) LatestHash() blockdigest.Digest {
	l.RLock()
	defer l.RUnlock()
	return l.chain.LatestHash()
}

// NextTid - tid the next committed operation will receive
func (l *Ledger) NextTid() uint64 {
	l.RLock()
	defer l.RUnlock()
	return l.chain.NextTid()
}

// Blocks - read the logical block sequence starting at tid start
//
// archived prefixes are stitched in from the archive instances so the
// caller sees one contiguous range regardless of physical location
func (l *Ledger) Blocks(start uint64, count int) ([]blockrecord.Block, error) {
	l.RLock()
	defer l.RUnlock()

	if count <= 0 {
		return nil, nil
	}

	blocks := make([]blockrecord.Block, 0, count)
	if start < l.chain.FirstTid() {
		archived, err := l.trigger.Range(start, count)
		if nil != err {
			return nil, err
		}
		blocks = append(blocks, archived...)
	}

	if len(blocks) < count {
		at := start + uint64(len(blocks))
		if at >= l.chain.FirstTid() {
			live, err := l.chain.Range(at, count-len(blocks))
			if nil != err {
				return nil, err
			}
			blocks = append(blocks, live...)
		}
	}
	return blocks, nil
}

// TxnLogs - page through the logical block sequence, pages numbered
// from one
func (l *Ledger) TxnLogs(page int, size int) ([]blockrecord.Block, error) {
	if page < 1 || size <= 0 {
		return nil, nil
	}
	size = l.clampTake(size)
	return l.Blocks(uint64(page-1)*uint64(size), size)
}

func idCursor(prev *uint256.Int) *token.ID {
	if nil == prev {
		return nil
	}
	id := token.ID(*prev)
	return &id
}

func idPointers(ids []token.ID) []*uint256.Int {
	result := make([]*uint256.Int, len(ids))
	for i := range ids {
		id := uint256.Int(ids[i])
		result[i] = &id
	}
	return result
}
