package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Entry struct {
	Namespace string    `gorm:"primaryKey;size:128"`
	Key       string    `gorm:"column:entry_key;primaryKey;size:128"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Entry) TableName() string { return "storefront_entries" }

type GormRepo struct {
	DB        *gorm.DB
	Namespace string
}

func NewGormRepo(ctx context.Context, db *gorm.DB, namespace string) (*GormRepo, error) {
	if err := db.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate entries: %w", err)
	}
	return &GormRepo{DB: db, Namespace: namespace}, nil
}

func (r *GormRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var e Entry
	err := r.DB.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", r.Namespace, key).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return e.Value, true, nil
}

func (r *GormRepo) Set(ctx context.Context, key, value string) error {
	e := Entry{Namespace: r.Namespace, Key: key, Value: value}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (r *GormRepo) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).
		Where("namespace = ? AND entry_key IN ?", r.Namespace, keys).
		Delete(&Entry{}).Error
}

func (r *GormRepo) Close() error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
