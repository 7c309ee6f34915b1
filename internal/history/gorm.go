package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SearchHistory is the relational row for one recorded search.
type SearchHistory struct {
	gorm.Model
	SearchID    string         `gorm:"type:uuid;uniqueIndex;not null"`
	UserID      string         `gorm:"type:varchar(128);not null;index"`
	Origin      string         `gorm:"type:char(3);not null"`
	Destination string         `gorm:"type:char(3);not null"`
	DepartDate  datatypes.Date `gorm:"not null"`
	ReturnDate  *datatypes.Date
	Passengers  int            `gorm:"not null;default:1"`
	TripType    string         `gorm:"type:varchar(16);not null"`
	Filters     datatypes.JSON `gorm:"type:jsonb"`
	Mock        bool           `gorm:"not null;default:false"`
	ResultCount int            `gorm:"not null;default:0"`
}

func (SearchHistory) TableName() string {
	return "search_history"
}

type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens Postgres and migrates the history table.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewGormStoreFromDB(db)
}

func NewGormStoreFromDB(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&SearchHistory{}); err != nil {
		return nil, fmt.Errorf("migrate search_history: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Record(ctx context.Context, e Entry) error {
	row, err := toRow(e)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert search history: %w", err)
	}
	return nil
}

func (s *GormStore) Backend() string {
	return BackendPostgres
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRow(e Entry) (SearchHistory, error) {
	depart, err := time.Parse(time.DateOnly, e.DepartDate)
	if err != nil {
		return SearchHistory{}, fmt.Errorf("depart date: %w", err)
	}

	row := SearchHistory{
		SearchID:    e.ID,
		UserID:      e.UserID,
		Origin:      e.Origin,
		Destination: e.Destination,
		DepartDate:  datatypes.Date(depart),
		Passengers:  e.Passengers,
		TripType:    e.TripType,
		Mock:        e.Mock,
		ResultCount: e.ResultCount,
	}
	row.CreatedAt = e.CreatedAt

	if e.ReturnDate != nil {
		ret, err := time.Parse(time.DateOnly, *e.ReturnDate)
		if err != nil {
			return SearchHistory{}, fmt.Errorf("return date: %w", err)
		}
		d := datatypes.Date(ret)
		row.ReturnDate = &d
	}

	if e.Filters != nil {
		raw, err := json.Marshal(e.Filters)
		if err != nil {
			return SearchHistory{}, fmt.Errorf("encode filters: %w", err)
		}
		row.Filters = datatypes.JSON(raw)
	}

	return row, nil
}
