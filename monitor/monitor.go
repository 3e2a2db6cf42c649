package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"gorm.io/gorm"

	"github.com/yashgajera132/blockchain-voting-system/alert"
	"github.com/yashgajera132/blockchain-voting-system/common"
	"github.com/yashgajera132/blockchain-voting-system/config"
	"github.com/yashgajera132/blockchain-voting-system/db/dao"
	"github.com/yashgajera132/blockchain-voting-system/ledger"
	"github.com/yashgajera132/blockchain-voting-system/logging"
	"github.com/yashgajera132/blockchain-voting-system/metrics"
)

// MaxBackfillBlocks bounds one log filter range so a cold start does not
// request the whole chain at once.
const MaxBackfillBlocks = 512

// AlertAfterFailures is the consecutive poll failure count that triggers a
// telegram alert.
const AlertAfterFailures = 10

// LedgerReader is the contract surface the monitor needs.
type LedgerReader interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
	FilterEvents(ctx context.Context, fromBlock, toBlock uint64) ([]*ledger.ContractEvent, error)
	GetElection(ctx context.Context, ledgerId uint64) (*ledger.ElectionView, error)
	GetCandidate(ctx context.Context, electionId, candidateId uint64) (*ledger.CandidateView, error)
	ListCandidates(ctx context.Context, electionId uint64) ([]*ledger.CandidateView, error)
}

// Monitor walks the contract log from the last checkpoint and backfills store
// rows that are missing, repairing degraded mirrors and votes abandoned
// before confirmation.
type Monitor struct {
	config         *config.Config
	ledgerReader   LedgerReader
	dataProvider   DataProvider
	metricsService *metrics.MetricService

	failures int
}

func NewMonitor(cfg *config.Config, ledgerReader LedgerReader, dataProvider DataProvider,
	metricsService *metrics.MetricService) *Monitor {
	return &Monitor{
		config:         cfg,
		ledgerReader:   ledgerReader,
		dataProvider:   dataProvider,
		metricsService: metricsService,
	}
}

func (m *Monitor) ListenEventLoop() {
	for {
		err := m.poll()
		if err != nil {
			m.metricsService.IncMonitorErr()
			m.failures++
			if m.failures == AlertAfterFailures {
				alert.SendTelegramMessage(&m.config.AlertConfig,
					fmt.Sprintf("monitor failing for %d polls, last err: %s", m.failures, err.Error()))
			}
			time.Sleep(common.RetryInterval)
			continue
		}
		m.failures = 0
	}
}

func (m *Monitor) poll() error {
	ctx := context.Background()
	fromBlock, toBlock, caughtUp, err := m.nextRange(ctx)
	if err != nil {
		return err
	}
	if caughtUp {
		time.Sleep(time.Duration(m.config.LedgerConfig.MonitorInterval) * time.Second)
		return nil
	}

	logging.Logger.Infof("backfilling contract events from block %d to %d", fromBlock, toBlock)
	var events []*ledger.ContractEvent
	err = retry.Do(func() error {
		events, err = m.ledgerReader.FilterEvents(ctx, fromBlock, toBlock)
		return err
	}, common.RetryAttempts, common.RetryDelay, common.RetryErr)
	if err != nil {
		logging.Logger.Errorf("failed to fetch contract events, err=%s", err.Error())
		return err
	}

	for _, event := range events {
		if err := m.applyEvent(ctx, event); err != nil {
			logging.Logger.Errorf("failed to apply event at block %d tx %s, err=%s",
				event.BlockNumber, event.TxHash, err.Error())
			return err
		}
	}

	if err := m.dataProvider.SaveCheckpoint(m.config.LedgerConfig.ChainId, toBlock); err != nil {
		return err
	}
	m.metricsService.SetSavedBlock(toBlock)
	return nil
}

func (m *Monitor) nextRange(ctx context.Context) (fromBlock, toBlock uint64, caughtUp bool, err error) {
	checkpoint, err := m.dataProvider.GetLatestCheckpoint(m.config.LedgerConfig.ChainId)
	if err != nil {
		logging.Logger.Errorf("failed to load checkpoint, err=%s", err.Error())
		return 0, 0, false, err
	}
	fromBlock = m.config.LedgerConfig.StartBlock
	if checkpoint.Height >= fromBlock {
		fromBlock = checkpoint.Height + 1
	}

	latest, err := m.ledgerReader.LatestBlockNumber(ctx)
	if err != nil {
		logging.Logger.Errorf("failed to get latest block height, err=%s", err.Error())
		return 0, 0, false, err
	}
	if fromBlock > latest {
		return 0, 0, true, nil
	}

	toBlock = latest
	if toBlock-fromBlock >= MaxBackfillBlocks {
		toBlock = fromBlock + MaxBackfillBlocks - 1
	}
	return fromBlock, toBlock, false, nil
}

// applyEvent mirrors a single contract event into the store. Inserts are
// idempotent: anything already mirrored is skipped.
func (m *Monitor) applyEvent(ctx context.Context, event *ledger.ContractEvent) error {
	switch event.Kind {
	case ledger.KindElectionCreated:
		return m.backfillElection(ctx, event)
	case ledger.KindCandidateAdded:
		return m.backfillCandidate(ctx, event)
	case ledger.KindVoteCast:
		return m.backfillVote(event)
	}
	return nil
}

func (m *Monitor) backfillElection(ctx context.Context, event *ledger.ContractEvent) error {
	mirrored, err := m.dataProvider.IsLedgerIdMirrored(event.ElectionId)
	if err != nil || mirrored {
		return err
	}

	view, err := m.ledgerReader.GetElection(ctx, event.ElectionId)
	if err != nil {
		return err
	}
	candidateViews, err := m.ledgerReader.ListCandidates(ctx, event.ElectionId)
	if err != nil {
		return err
	}

	err = m.dataProvider.SaveElectionAndCandidates(
		ElectionViewToEntity(view, event.TxHash),
		CandidateViewsToEntities(candidateViews))
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	if err != nil {
		return err
	}
	logging.Logger.Infof("backfilled election %d from ledger", event.ElectionId)
	m.metricsService.IncBackfilledRecords()
	return nil
}

func (m *Monitor) backfillCandidate(ctx context.Context, event *ledger.ContractEvent) error {
	election, err := m.dataProvider.GetElectionByLedgerId(event.ElectionId)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// election itself not mirrored yet, its own event will carry the candidates
		return nil
	}
	if err != nil {
		return err
	}

	_, err = m.dataProvider.GetCandidateByLedgerId(election.Id, event.CandidateId)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	view, err := m.ledgerReader.GetCandidate(ctx, event.ElectionId, event.CandidateId)
	if err != nil {
		return err
	}
	err = m.dataProvider.SaveCandidate(CandidateViewToEntity(view, election.Id))
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	if err != nil {
		return err
	}
	m.metricsService.IncBackfilledRecords()
	return nil
}

// backfillVote mirrors a confirmed on-chain vote. The voter column carries
// the wallet address; a session-cast vote for the same pair was mirrored
// under the same tx hash already, so the hash check keeps this idempotent.
func (m *Monitor) backfillVote(event *ledger.ContractEvent) error {
	mirrored, err := m.dataProvider.IsTxHashMirrored(event.TxHash)
	if err != nil || mirrored {
		return err
	}

	election, err := m.dataProvider.GetElectionByLedgerId(event.ElectionId)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	candidate, err := m.dataProvider.GetCandidateByLedgerId(election.Id, event.CandidateId)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	vote := dao.NewVoteRecord(event.Voter, election.Id, candidate.Id, event.TxHash, event.BlockNumber)
	err = m.dataProvider.SaveVoteAndMarkRoster(vote)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	if err != nil {
		return err
	}
	logging.Logger.Infof("backfilled vote %s for election %d", event.TxHash, event.ElectionId)
	m.metricsService.IncBackfilledRecords()
	return nil
}
