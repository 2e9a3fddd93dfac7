// SPDX-License-Identifier: ISC

package main

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/av1ctor/icrc7-launchpad/ledger"
)

// how often pending exports are retried and the snapshot is refreshed
const (
	archiveInterval  = 1 * time.Minute
	snapshotInterval = 15 * time.Minute
)

// archivePump - background process retrying pending archive exports
// and writing periodic snapshots
type archivePump struct {
	log          *logger.L
	engine       *ledger.Ledger
	snapshotFile string
}

func newArchivePump(engine *ledger.Ledger, snapshotFile string) *archivePump {
	return &archivePump{
		log:          logger.New("pump"),
		engine:       engine,
		snapshotFile: snapshotFile,
	}
}

// run - background process entry point
func (pump *archivePump) run(args interface{}, shutdown <-chan struct{}) {
	pump.log.Info("starting…")

	archiveTicker := time.NewTicker(archiveInterval)
	defer archiveTicker.Stop()
	snapshotTicker := time.NewTicker(snapshotInterval)
	defer snapshotTicker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case <-archiveTicker.C:
			if err := pump.engine.ArchivePass(); nil != err {
				pump.log.Warnf("archival pass failed: %s", err)
			}

		case <-snapshotTicker.C:
			if err := saveSnapshot(pump.engine, pump.snapshotFile); nil != err {
				pump.log.Errorf("snapshot failed: %s", err)
			} else {
				pump.log.Debug("snapshot saved")
			}
		}
	}

	pump.log.Info("shutting down…")
}
