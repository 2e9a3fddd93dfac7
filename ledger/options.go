// SPDX-License-Identifier: ISC

package ledger

import (
	"github.com/holiman/uint256"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/archiver"
)

// ArchiveOptions - archival settings of the collection
type ArchiveOptions struct {
	ArchiveCycles               uint64 `json:"archiveCycles"`
	MaxActiveRecords            uint64 `json:"maxActiveRecords"`
	MaxArchivePages             uint64 `json:"maxArchivePages"`
	MaxRecordsInArchiveInstance uint64 `json:"maxRecordsInArchiveInstance"`
	MaxRecordsToArchive         uint64 `json:"maxRecordsToArchive"`
	SettleToRecords             uint64 `json:"settleToRecords"`
}

// Options - the full configuration surface of one ledger
//
// zero values are replaced by the defaults below when the ledger is
// created
type Options struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo"`

	// nil means unlimited
	SupplyCap *uint256.Int `json:"supplyCap,omitempty"`

	MaxQueryBatchSize  int `json:"maxQueryBatchSize"`
	MaxUpdateBatchSize int `json:"maxUpdateBatchSize"`
	DefaultTakeValue   int `json:"defaultTakeValue"`
	MaxTakeValue       int `json:"maxTakeValue"`
	MaxMemoSize        int `json:"maxMemoSize"`

	AtomicBatchTransfers bool `json:"atomicBatchTransfers"`

	// deduplication window, nanoseconds
	TxWindow       uint64 `json:"txWindow"`
	PermittedDrift uint64 `json:"permittedDrift"`

	MintingAuthority *account.Account `json:"mintingAuthority,omitempty"`

	// principal owning the burn account that burn blocks pay to
	LedgerPrincipal []byte `json:"ledgerPrincipal,omitempty"`

	MaxApprovalsPerTokenOrCollection uint64 `json:"maxApprovalsPerTokenOrCollection"`
	MaxApprovals                     uint64 `json:"maxApprovals"`
	MaxRevokeApprovals               uint64 `json:"maxRevokeApprovals"`
	SettleToApprovals                uint64 `json:"settleToApprovals"`
	CollectionApprovalRequiresToken  bool   `json:"collectionApprovalRequiresToken"`

	Archive ArchiveOptions `json:"archive"`
}

// default limits matching the original deployment
const (
	defaultMaxQueryBatchSize  = 32
	defaultMaxUpdateBatchSize = 32
	defaultDefaultTakeValue   = 32
	defaultMaxTakeValue       = 256
	defaultMaxMemoSize        = 32 * 1024

	defaultTxWindow       = 24 * 60 * 60 * 1_000_000_000 // 24 h in ns
	defaultPermittedDrift = 2 * 60 * 1_000_000_000       // 2 min in ns

	defaultMaxApprovalsPerTarget = 10_000
	defaultMaxApprovals          = 10_000
	defaultMaxRevokeApprovals    = 10_000
	defaultSettleToApprovals     = 9975
)

// the anonymous principal, used for the burn account when no ledger
// principal is configured
var anonymousPrincipal = []byte{0x04}

// DefaultOptions - a fully populated option set
func DefaultOptions() Options {
	return Options{
		MaxQueryBatchSize:  defaultMaxQueryBatchSize,
		MaxUpdateBatchSize: defaultMaxUpdateBatchSize,
		DefaultTakeValue:   defaultDefaultTakeValue,
		MaxTakeValue:       defaultMaxTakeValue,
		MaxMemoSize:        defaultMaxMemoSize,
		TxWindow:           defaultTxWindow,
		PermittedDrift:     defaultPermittedDrift,
		LedgerPrincipal:    anonymousPrincipal,

		MaxApprovalsPerTokenOrCollection: defaultMaxApprovalsPerTarget,
		MaxApprovals:                     defaultMaxApprovals,
		MaxRevokeApprovals:               defaultMaxRevokeApprovals,
		SettleToApprovals:                defaultSettleToApprovals,
		CollectionApprovalRequiresToken:  true,

		Archive: ArchiveOptions{
			MaxActiveRecords:            2000,
			MaxArchivePages:             62_500,
			MaxRecordsInArchiveInstance: 10_000_000,
			MaxRecordsToArchive:         10_000,
			SettleToRecords:             1000,
		},
	}
}

// applyDefaults - replace zero values by defaults
func (options *Options) applyDefaults() {
	defaults := DefaultOptions()

	if 0 == options.MaxQueryBatchSize {
		options.MaxQueryBatchSize = defaults.MaxQueryBatchSize
	}
	if 0 == options.MaxUpdateBatchSize {
		options.MaxUpdateBatchSize = defaults.MaxUpdateBatchSize
	}
	if 0 == options.DefaultTakeValue {
		options.DefaultTakeValue = defaults.DefaultTakeValue
	}
	if 0 == options.MaxTakeValue {
		options.MaxTakeValue = defaults.MaxTakeValue
	}
	if 0 == options.MaxMemoSize {
		options.MaxMemoSize = defaults.MaxMemoSize
	}
	if 0 == options.TxWindow {
		options.TxWindow = defaults.TxWindow
	}
	if 0 == options.PermittedDrift {
		options.PermittedDrift = defaults.PermittedDrift
	}
	if 0 == len(options.LedgerPrincipal) {
		options.LedgerPrincipal = defaults.LedgerPrincipal
	}
	if 0 == options.MaxApprovalsPerTokenOrCollection {
		options.MaxApprovalsPerTokenOrCollection = defaults.MaxApprovalsPerTokenOrCollection
	}
	if 0 == options.MaxApprovals {
		options.MaxApprovals = defaults.MaxApprovals
	}
	if 0 == options.MaxRevokeApprovals {
		options.MaxRevokeApprovals = defaults.MaxRevokeApprovals
	}
	if 0 == options.SettleToApprovals {
		options.SettleToApprovals = defaults.SettleToApprovals
	}
	if 0 == options.Archive.MaxActiveRecords {
		options.Archive.MaxActiveRecords = defaults.Archive.MaxActiveRecords
	}
	if 0 == options.Archive.MaxArchivePages {
		options.Archive.MaxArchivePages = defaults.Archive.MaxArchivePages
	}
	if 0 == options.Archive.MaxRecordsInArchiveInstance {
		options.Archive.MaxRecordsInArchiveInstance = defaults.Archive.MaxRecordsInArchiveInstance
	}
	if 0 == options.Archive.MaxRecordsToArchive {
		options.Archive.MaxRecordsToArchive = defaults.Archive.MaxRecordsToArchive
	}
	if 0 == options.Archive.SettleToRecords {
		options.Archive.SettleToRecords = defaults.Archive.SettleToRecords
	}
}

// archiverOptions - the subset handed to the trigger state machine
func (options *Options) archiverOptions() archiver.Options {
	return archiver.Options{
		MaxActiveRecords:            options.Archive.MaxActiveRecords,
		MaxRecordsToArchive:         options.Archive.MaxRecordsToArchive,
		MaxRecordsInArchiveInstance: options.Archive.MaxRecordsInArchiveInstance,
		SettleToRecords:             options.Archive.SettleToRecords,
	}
}

// burnAccount - the account burn blocks pay to
func (options *Options) burnAccount() *account.Account {
	return account.BurnAccount(options.LedgerPrincipal)
}
