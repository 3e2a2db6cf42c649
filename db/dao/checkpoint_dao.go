package dao

import (
	"time"

	"github.com/yashgajera132/blockchain-voting-system/db/model"
	"gorm.io/gorm"
)

type CheckpointDao struct {
	DB *gorm.DB
}

func NewCheckpointDao(db *gorm.DB) *CheckpointDao {
	return &CheckpointDao{
		DB: db,
	}
}

func (d *CheckpointDao) GetLatestCheckpoint(chainId int64) (*model.Checkpoint, error) {
	cp := model.Checkpoint{}
	err := d.DB.Where("chain_id = ?", chainId).Order("height desc").Take(&cp).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return &cp, nil
}

func (d *CheckpointDao) SaveCheckpoint(chainId int64, height uint64) error {
	return d.DB.Create(&model.Checkpoint{
		ChainId:     chainId,
		Height:      height,
		CreatedTime: time.Now().Unix(),
	}).Error
}

// DeleteCheckpointsBelow drops superseded checkpoint rows, keeping everything
// at or above the given height.
func (d *CheckpointDao) DeleteCheckpointsBelow(chainId int64, height uint64) error {
	return d.DB.Where("chain_id = ?", chainId).
		Where("height < ?", height).
		Delete(&model.Checkpoint{}).
		Error
}
