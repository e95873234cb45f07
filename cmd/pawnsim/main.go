package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"pawnpool/config"
	"pawnpool/explorer"
	"pawnpool/native/pawn"
	"pawnpool/observability/logging"
	"pawnpool/observability/metrics"
	"pawnpool/storage"
)

// pawnsim mirrors a deployed pawn pool off chain: it replays a journal of
// pool transactions through the deterministic ledger engine, indexes the
// emitted events and snapshots the resulting state. Transfers in the journal
// already settled on chain, so the capability hooks only acknowledge them.

type mirrorAsset struct{}

func (mirrorAsset) TransferIn(common.Address, *big.Int) error  { return nil }
func (mirrorAsset) TransferOut(common.Address, *big.Int) error { return nil }
func (mirrorAsset) Allowance(common.Address, common.Address) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), 255)
}

type mirrorCustody struct{}

func (mirrorCustody) TakeCustody(common.Address, *big.Int) error    { return nil }
func (mirrorCustody) ReleaseCustody(common.Address, *big.Int) error { return nil }
func (mirrorCustody) OwnerOf(*big.Int) (common.Address, error)      { return common.Address{}, nil }

func main() {
	configFile := flag.String("config", "./pawnpool.toml", "Path to the configuration file")
	journalFlag := flag.String("journal", "", "Path to the command journal (overrides config JournalPath)")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("PAWN_ENV"))
	logger := logging.Setup("pawnsim", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	journalPath := cfg.JournalPath
	if *journalFlag != "" {
		journalPath = *journalFlag
	}
	if strings.TrimSpace(journalPath) == "" {
		logger.Error("no journal configured; set JournalPath or pass -journal")
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("failed to open state database", "error", err, "dataDir", cfg.DataDir)
		os.Exit(1)
	}
	defer db.Close()

	owner := common.HexToAddress(cfg.OwnerAddress)
	engine := pawn.NewEngine(owner, cfg.Params())
	engine.SetAsset(mirrorAsset{})
	engine.SetCustody(mirrorCustody{})

	if prior, err := storage.LoadState(db); err != nil {
		logger.Error("failed to load prior state", "error", err)
		os.Exit(1)
	} else if prior != nil {
		engine.Restore(prior)
		logger.Info("resumed from snapshot",
			"deposits", len(prior.Deposits),
			"loans", len(prior.Loans))
	}

	if strings.TrimSpace(cfg.IndexPath) != "" {
		indexer, err := explorer.Open(cfg.IndexPath)
		if err != nil {
			logger.Error("failed to open event index", "error", err, "indexPath", cfg.IndexPath)
			os.Exit(1)
		}
		defer indexer.Close()
		engine.SetEmitter(indexer)
	}

	journal, err := os.Open(journalPath)
	if err != nil {
		logger.Error("failed to open journal", "error", err, "journalPath", journalPath)
		os.Exit(1)
	}
	defer journal.Close()

	replayer := NewReplayer(engine)
	replayer.metrics = metrics.Pawn()
	applied, skipped, replayErr := replayer.Replay(journal)
	if replayErr != nil {
		logger.Error("replay aborted", "error", replayErr, "applied", applied, "skipped", skipped)
		os.Exit(1)
	}

	snapshot := engine.Snapshot()
	if err := storage.SaveState(db, snapshot); err != nil {
		logger.Error("failed to persist snapshot", "error", err)
		os.Exit(1)
	}
	metrics.Pawn().SetAggregates(snapshot.TotalLiquidity, snapshot.TotalBorrowed, snapshot.TotalPlatformFees)

	logger.Info("replay complete",
		"applied", applied,
		"skipped", skipped,
		"totalLiquidity", snapshot.TotalLiquidity.String(),
		"totalBorrowed", snapshot.TotalBorrowed.String(),
		"platformFees", snapshot.TotalPlatformFees.String(),
	)
	fmt.Printf("replayed %d commands (%d duplicates skipped)\n", applied, skipped)
}
