package mysql

import (
	"context"

	"firstbite/internal/domain"
	"firstbite/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type counterRepo struct {
	db *gorm.DB
}

func NewCounterRepository(db *gorm.DB) repository.CounterRepository {
	return &counterRepo{db: db}
}

// Next upserts the (channel, day) row with seq = seq + 1 and reads the result
// back inside the same transaction. The unique index makes the increment
// atomic under concurrent order creation.
func (r *counterRepo) Next(ctx context.Context, channel domain.Channel, day string) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counter := domain.OrderCounter{Channel: channel, Day: day, Seq: 1}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "channel"}, {Name: "day"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"seq": gorm.Expr("seq + 1")}),
		}).Create(&counter).Error
		if err != nil {
			return err
		}

		var current domain.OrderCounter
		if err := tx.Where("channel = ? AND day = ?", channel, day).Take(&current).Error; err != nil {
			return err
		}
		seq = current.Seq
		return nil
	})
	if err != nil {
		return 0, err
	}
	return seq, nil
}
