package index

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/credlens/credlens/internal/model"
)

// store persists the index through gorm/sqlite. The in-memory maps stay the
// read path; the database is a write-through replica loaded once at open.
type store struct {
	db *gorm.DB
}

// Open loads (or creates) a sqlite-backed index at the given path
func Open(path string) (*Index, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&model.Announcement{}, &model.CompanyFinancial{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	ix := NewInMemory()
	ix.store = &store{db: db}

	var announcements []model.Announcement
	if err := db.Find(&announcements).Error; err != nil {
		return nil, fmt.Errorf("load announcements: %w", err)
	}
	for i := range announcements {
		a := announcements[i]
		ix.byID[a.ID] = &a
		if key := a.Identity(); key != "" {
			ix.byIdentity[key] = a.ID
		}
		if a.ID >= ix.nextID {
			ix.nextID = a.ID + 1
		}
	}

	var financials []model.CompanyFinancial
	if err := db.Find(&financials).Error; err != nil {
		return nil, fmt.Errorf("load financials: %w", err)
	}
	for _, f := range financials {
		ix.financials[strings.ToUpper(f.CompanySymbol)] = f
	}

	return ix, nil
}

// Close releases the underlying database handle
func (ix *Index) Close() error {
	if ix.store == nil {
		return nil
	}
	sqlDB, err := ix.store.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *store) saveAnnouncement(a *model.Announcement) error {
	return s.db.Save(a).Error
}

func (s *store) saveFinancial(f *model.CompanyFinancial) error {
	return s.db.Save(f).Error
}
