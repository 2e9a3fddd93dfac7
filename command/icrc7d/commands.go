// SPDX-License-Identifier: ISC

package main

import (
	"fmt"

	"github.com/bitmark-inc/exitwithstatus"
)

const sampleConfiguration = `-- icrc7d.conf  -*- mode: lua -*-

local M = {}

-- all relative paths are resolved against this directory
M.data_directory = arg[0]:match("^(.*/)[^/]*$")

-- optional PID file
-- M.pidfile = "icrc7d.pid"

-- archive instances are created below this directory
M.archive_directory = "archive"

-- the whole engine state is saved here across restarts
M.snapshot_file = "ledger.snapshot"

M.ledger = {
    symbol = "EXM",
    name = "example collection",
    description = "",
    logo = "",

    -- 0 = unlimited
    supply_cap = 0,

    -- base58 encoded account allowed to mint
    -- minting_authority = "...",

    max_query_batch_size = 32,
    max_update_batch_size = 32,
    default_take_value = 32,
    max_take_value = 256,
    max_memo_size = 32768,

    atomic_batch_transfers = false,

    -- nanoseconds
    tx_window = 24 * 60 * 60 * 1000000000,
    permitted_drift = 2 * 60 * 1000000000,

    max_approvals_per_token_or_collection = 10000,
    max_approvals = 10000,
    max_revoke_approvals = 10000,
    settle_to_approvals = 9975,
    collection_approval_requires_token = true,

    archive = {
        max_active_records = 2000,
        max_records_to_archive = 10000,
        max_records_in_archive_instance = 10000000,
        settle_to_records = 1000,
    },
}

M.logging = {
    directory = "log",
    file = "icrc7d.log",
    size = 1048576,
    count = 10,
    console = false,
    levels = {
        DEFAULT = "info",
    },
}

return M
`

// processSetupCommand - handle commands that run before the
// configuration is loaded; returns true when one was handled
func processSetupCommand(program string, arguments []string) bool {

	switch arguments[0] {
	case "version":
		fmt.Println(version)

	case "sample-config":
		fmt.Print(sampleConfiguration)

	case "help", "h", "-h", "--help":
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [command]\n", program)
		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                 show this message\n")
		fmt.Printf("  version              show version\n")
		fmt.Printf("  sample-config        print a sample configuration file\n")

	default:
		exitwithstatus.Message("%s: unknown command: %q, see: %s help", program, arguments[0], program)
	}
	return true
}
