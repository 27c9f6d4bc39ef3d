package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/gobblego/models"
	"github.com/yeremiapane/gobblego/utils"
	"gorm.io/gorm"
)

// SessionRecord is one persisted identity, keyed by store namespace.
type SessionRecord struct {
	Namespace string    `gorm:"primaryKey;type:varchar(64)"`
	UserID    string    `gorm:"type:varchar(64);not null"`
	UserName  string    `gorm:"type:varchar(255);not null"`
	CartID    string    `gorm:"type:varchar(64);not null"`
	TableID   string    `gorm:"type:varchar(64)"`
	IsLeader  bool      `gorm:"not null;default:false"`
	UpdatedAt time.Time `gorm:"not null"`
}

// CartSnapshotRecord keeps the last fetched cart for instant badge counts.
type CartSnapshotRecord struct {
	Namespace  string    `gorm:"primaryKey;type:varchar(64)"`
	CartID     string    `gorm:"type:varchar(64)"`
	Items      string    `gorm:"type:text"`
	ItemCount  int       `gorm:"not null;default:0"`
	CapturedAt time.Time `gorm:"not null"`
}

type GormStore struct {
	db        *gorm.DB
	namespace string
}

// NewGormStore migrates the two client tables and returns the store.
func NewGormStore(db *gorm.DB, namespace string) (*GormStore, error) {
	if namespace == "" {
		namespace = "default"
	}
	if err := db.AutoMigrate(&SessionRecord{}, &CartSnapshotRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate client store: %w", err)
	}
	utils.InfoLogger.Println("Client store AutoMigrate completed.")
	return &GormStore{db: db, namespace: namespace}, nil
}

func (s *GormStore) SaveSession(ctx context.Context, session models.Session) error {
	record := SessionRecord{
		Namespace: s.namespace,
		UserID:    session.UserID,
		UserName:  session.UserName,
		CartID:    session.CartID,
		TableID:   session.TableID,
		IsLeader:  session.IsLeader,
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Save(&record).Error
}

func (s *GormStore) LoadSession(ctx context.Context) (*models.Session, error) {
	var record SessionRecord
	err := s.db.WithContext(ctx).Where("namespace = ?", s.namespace).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &models.Session{
		UserID:   record.UserID,
		UserName: record.UserName,
		CartID:   record.CartID,
		TableID:  record.TableID,
		IsLeader: record.IsLeader,
	}, nil
}

// ClearSession drops the identity and the snapshot that belonged to it.
func (s *GormStore) ClearSession(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("namespace = ?", s.namespace).Delete(&SessionRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("namespace = ?", s.namespace).Delete(&CartSnapshotRecord{}).Error
	})
}

func (s *GormStore) SaveCartSnapshot(ctx context.Context, snapshot models.CartSnapshot) error {
	items, err := json.Marshal(snapshot.Items)
	if err != nil {
		return err
	}
	record := CartSnapshotRecord{
		Namespace:  s.namespace,
		CartID:     snapshot.CartID,
		Items:      string(items),
		ItemCount:  snapshot.ItemCount,
		CapturedAt: snapshot.CapturedAt,
	}
	return s.db.WithContext(ctx).Save(&record).Error
}

func (s *GormStore) LoadCartSnapshot(ctx context.Context) (*models.CartSnapshot, error) {
	var record CartSnapshotRecord
	err := s.db.WithContext(ctx).Where("namespace = ?", s.namespace).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	snapshot := &models.CartSnapshot{
		CartID:     record.CartID,
		ItemCount:  record.ItemCount,
		CapturedAt: record.CapturedAt,
	}
	if record.Items != "" {
		if err := json.Unmarshal([]byte(record.Items), &snapshot.Items); err != nil {
			return nil, fmt.Errorf("corrupt cart snapshot: %w", err)
		}
	}
	return snapshot, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
