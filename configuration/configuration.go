// SPDX-License-Identifier: ISC

package configuration

import (
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/holiman/uint256"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/ledger"
)

// basic defaults (directories and files are relative to the
// "data_directory" from the configuration file)
const (
	defaultArchiveDirectory = "archive"
	defaultSnapshotFile     = "ledger.snapshot"

	defaultLogDirectory = "log"
	defaultLogFile      = "icrc7d.log"
	defaultLogCount     = 10
	defaultLogSize      = 1024 * 1024
)

// ArchiveSettings - archival thresholds from the configuration file
type ArchiveSettings struct {
	ArchiveCycles               uint64 `gluamapper:"archive_cycles" json:"archive_cycles"`
	MaxActiveRecords            uint64 `gluamapper:"max_active_records" json:"max_active_records"`
	MaxArchivePages             uint64 `gluamapper:"max_archive_pages" json:"max_archive_pages"`
	MaxRecordsInArchiveInstance uint64 `gluamapper:"max_records_in_archive_instance" json:"max_records_in_archive_instance"`
	MaxRecordsToArchive         uint64 `gluamapper:"max_records_to_archive" json:"max_records_to_archive"`
	SettleToRecords             uint64 `gluamapper:"settle_to_records" json:"settle_to_records"`
}

// LedgerSettings - collection parameters from the configuration file
type LedgerSettings struct {
	Symbol      string `gluamapper:"symbol" json:"symbol"`
	Name        string `gluamapper:"name" json:"name"`
	Description string `gluamapper:"description" json:"description"`
	Logo        string `gluamapper:"logo" json:"logo"`

	// zero means unlimited
	SupplyCap uint64 `gluamapper:"supply_cap" json:"supply_cap"`

	MaxQueryBatchSize  int `gluamapper:"max_query_batch_size" json:"max_query_batch_size"`
	MaxUpdateBatchSize int `gluamapper:"max_update_batch_size" json:"max_update_batch_size"`
	DefaultTakeValue   int `gluamapper:"default_take_value" json:"default_take_value"`
	MaxTakeValue       int `gluamapper:"max_take_value" json:"max_take_value"`
	MaxMemoSize        int `gluamapper:"max_memo_size" json:"max_memo_size"`

	AtomicBatchTransfers bool `gluamapper:"atomic_batch_transfers" json:"atomic_batch_transfers"`

	// nanoseconds
	TxWindow       uint64 `gluamapper:"tx_window" json:"tx_window"`
	PermittedDrift uint64 `gluamapper:"permitted_drift" json:"permitted_drift"`

	// base58 encoded account
	MintingAuthority string `gluamapper:"minting_authority" json:"minting_authority"`

	MaxApprovalsPerTokenOrCollection uint64 `gluamapper:"max_approvals_per_token_or_collection" json:"max_approvals_per_token_or_collection"`
	MaxApprovals                     uint64 `gluamapper:"max_approvals" json:"max_approvals"`
	MaxRevokeApprovals               uint64 `gluamapper:"max_revoke_approvals" json:"max_revoke_approvals"`
	SettleToApprovals                uint64 `gluamapper:"settle_to_approvals" json:"settle_to_approvals"`
	CollectionApprovalRequiresToken  bool   `gluamapper:"collection_approval_requires_token" json:"collection_approval_requires_token"`

	Archive ArchiveSettings `gluamapper:"archive" json:"archive"`
}

// Configuration - the full daemon configuration
type Configuration struct {
	DataDirectory    string               `gluamapper:"data_directory" json:"data_directory"`
	PidFile          string               `gluamapper:"pidfile" json:"pidfile"`
	ArchiveDirectory string               `gluamapper:"archive_directory" json:"archive_directory"`
	SnapshotFile     string               `gluamapper:"snapshot_file" json:"snapshot_file"`
	Ledger           LedgerSettings       `gluamapper:"ledger" json:"ledger"`
	Logging          logger.Configuration `gluamapper:"logging" json:"logging"`
}

// GetConfiguration - read and verify a configuration file
func GetConfiguration(fileName string) (*Configuration, error) {

	fileName, err := filepath.Abs(filepath.Clean(fileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the configuration directory, the default
	// for relative paths below
	dataDirectory, _ := filepath.Split(fileName)

	options := &Configuration{
		DataDirectory:    dataDirectory,
		ArchiveDirectory: defaultArchiveDirectory,
		SnapshotFile:     defaultSnapshotFile,
		Ledger: LedgerSettings{
			CollectionApprovalRequiresToken: true,
		},
		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels: map[string]string{
				logger.DefaultTag: "critical",
			},
		},
	}

	if err := ParseConfigurationFile(fileName, options); nil != err {
		return nil, err
	}

	// require absolute data directory, expand the others from it
	if !filepath.IsAbs(options.DataDirectory) {
		options.DataDirectory, err = filepath.Abs(filepath.Join(dataDirectory, options.DataDirectory))
		if nil != err {
			return nil, err
		}
	}
	options.ArchiveDirectory = ensureAbsolute(options.DataDirectory, options.ArchiveDirectory)
	options.SnapshotFile = ensureAbsolute(options.DataDirectory, options.SnapshotFile)
	options.Logging.Directory = ensureAbsolute(options.DataDirectory, options.Logging.Directory)
	if "" != options.PidFile {
		options.PidFile = ensureAbsolute(options.DataDirectory, options.PidFile)
	}

	return options, nil
}

// LedgerOptions - convert the parsed settings to engine options
//
// unset values stay zero here; the engine applies its own defaults
func (configuration *Configuration) LedgerOptions() (ledger.Options, error) {
	settings := &configuration.Ledger

	options := ledger.Options{
		Symbol:               settings.Symbol,
		Name:                 settings.Name,
		Description:          settings.Description,
		Logo:                 settings.Logo,
		MaxQueryBatchSize:    settings.MaxQueryBatchSize,
		MaxUpdateBatchSize:   settings.MaxUpdateBatchSize,
		DefaultTakeValue:     settings.DefaultTakeValue,
		MaxTakeValue:         settings.MaxTakeValue,
		MaxMemoSize:          settings.MaxMemoSize,
		AtomicBatchTransfers: settings.AtomicBatchTransfers,
		TxWindow:             settings.TxWindow,
		PermittedDrift:       settings.PermittedDrift,

		MaxApprovalsPerTokenOrCollection: settings.MaxApprovalsPerTokenOrCollection,
		MaxApprovals:                     settings.MaxApprovals,
		MaxRevokeApprovals:               settings.MaxRevokeApprovals,
		SettleToApprovals:                settings.SettleToApprovals,
		CollectionApprovalRequiresToken:  settings.CollectionApprovalRequiresToken,

		Archive: ledger.ArchiveOptions{
			ArchiveCycles:               settings.Archive.ArchiveCycles,
			MaxActiveRecords:            settings.Archive.MaxActiveRecords,
			MaxArchivePages:             settings.Archive.MaxArchivePages,
			MaxRecordsInArchiveInstance: settings.Archive.MaxRecordsInArchiveInstance,
			MaxRecordsToArchive:         settings.Archive.MaxRecordsToArchive,
			SettleToRecords:             settings.Archive.SettleToRecords,
		},
	}

	if 0 != settings.SupplyCap {
		options.SupplyCap = uint256.NewInt(settings.SupplyCap)
	}
	if "" != settings.MintingAuthority {
		authority, err := account.AccountFromBase58(settings.MintingAuthority)
		if nil != err {
			return options, err
		}
		options.MintingAuthority = authority
	}
	return options, nil
}

// EnsureDirectories - create the runtime directories
func (configuration *Configuration) EnsureDirectories() error {
	for _, directory := range []string{
		configuration.DataDirectory,
		configuration.ArchiveDirectory,
		configuration.Logging.Directory,
	} {
		if err := os.MkdirAll(directory, 0700); nil != err {
			return err
		}
	}
	return nil
}

// ensureAbsolute - expand a relative path against a directory
func ensureAbsolute(directory string, filePath string) string {
	if filepath.IsAbs(filePath) {
		return filepath.Clean(filePath)
	}
	return filepath.Clean(filepath.Join(directory, filePath))
}
