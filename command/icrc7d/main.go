// SPDX-License-Identifier: ISC

package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/av1ctor/icrc7-launchpad/archive"
	"github.com/av1ctor/icrc7-launchpad/background"
	"github.com/av1ctor/icrc7-launchpad/configuration"
	"github.com/av1ctor/icrc7-launchpad/ledger"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: exactly one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	configurationFile := options["config-file"][0]
	theConfiguration, err := configuration.GetConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	if err = theConfiguration.EnsureDirectories(); nil != err {
		exitwithstatus.Message("%s: cannot create runtime directories: %s", program, err)
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if nil != err {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	ledgerOptions, err := theConfiguration.LedgerOptions()
	if nil != err {
		exitwithstatus.Message("%s: invalid ledger settings: %s", program, err)
	}

	// archive instances live in per-sequence leveldb directories
	opened := make(map[int]*archive.LevelDB)
	factory := func(sequence int) (archive.Store, error) {
		if store, ok := opened[sequence]; ok {
			return store, nil
		}
		ident := fmt.Sprintf("archive-%d", sequence)
		store, err := archive.OpenLevelDB(ident, filepath.Join(theConfiguration.ArchiveDirectory, ident))
		if nil != err {
			return nil, err
		}
		opened[sequence] = store
		return store, nil
	}
	defer func() {
		for _, store := range opened {
			if err := store.Close(); nil != err {
				log.Errorf("archive close error: %s", err)
			}
		}
	}()

	// restore the engine from the last snapshot, or start empty
	engine, err := openLedger(theConfiguration.SnapshotFile, ledgerOptions, factory, log)
	if nil != err {
		exitwithstatus.Message("%s: cannot open ledger: %s", program, err)
	}

	// start the archive pump and periodic snapshots
	pump := newArchivePump(engine, theConfiguration.SnapshotFile)
	processes := background.Start(background.Processes{pump.run}, nil)
	defer processes.Stop()

	// wait for termination
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)

	// final snapshot before exit
	if err := saveSnapshot(engine, theConfiguration.SnapshotFile); nil != err {
		log.Criticalf("final snapshot failed: %s", err)
	} else {
		log.Info("final snapshot saved")
	}
}

// openLedger - restore from a snapshot when one exists
func openLedger(snapshotFile string, options ledger.Options, factory func(int) (archive.Store, error), log *logger.L) (*ledger.Ledger, error) {

	data, err := ioutil.ReadFile(snapshotFile)
	if os.IsNotExist(err) {
		log.Info("no snapshot, starting empty")
		return ledger.New(options, factory), nil
	} else if nil != err {
		return nil, err
	}

	engine, err := ledger.Restore(data, factory)
	if nil != err {
		return nil, err
	}
	log.Infof("restored from snapshot: %q", snapshotFile)
	return engine, nil
}

// saveSnapshot - write the engine state atomically
func saveSnapshot(engine *ledger.Ledger, snapshotFile string) error {

	data, err := engine.Snapshot()
	if nil != err {
		return err
	}

	temporary := snapshotFile + ".new"
	if err := ioutil.WriteFile(temporary, data, 0600); nil != err {
		return err
	}
	return os.Rename(temporary, snapshotFile)
}
