package wiper

import (
	"time"

	"github.com/yashgajera132/blockchain-voting-system/common"
	"github.com/yashgajera132/blockchain-voting-system/config"
	"github.com/yashgajera132/blockchain-voting-system/db/dao"
	"github.com/yashgajera132/blockchain-voting-system/logging"
)

const DBWipeInterval = time.Hour

// DBWiper prunes superseded monitor checkpoints. Only the latest checkpoint
// per chain is needed to resume the backfill.
type DBWiper struct {
	config     *config.Config
	daoManager *dao.DaoManager
}

func NewDBWiper(cfg *config.Config, dao *dao.DaoManager) *DBWiper {
	return &DBWiper{
		config:     cfg,
		daoManager: dao,
	}
}

func (w *DBWiper) DBWipeLoop() {
	ticker := time.NewTicker(DBWipeInterval)
	for range ticker.C {
		err := w.DBWipe()
		if err != nil {
			time.Sleep(common.RetryInterval)
		}
	}
}

func (w *DBWiper) DBWipe() error {
	chainId := w.config.LedgerConfig.ChainId
	latest, err := w.daoManager.CheckpointDao.GetLatestCheckpoint(chainId)
	if err != nil {
		logging.Logger.Errorf("failed to load latest checkpoint for wipe, err=%s", err.Error())
		return err
	}
	if latest.Height == 0 {
		return nil
	}
	return w.daoManager.CheckpointDao.DeleteCheckpointsBelow(chainId, latest.Height)
}
