package mock

import (
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var once sync.Once
var db *Db

// Table pairs a table name with the model that owns it.
type Table struct {
	Name  string
	Model any
}

type Db struct {
	DbConn *gorm.DB
	tables []Table
}

// NewDb opens a shared in-memory sqlite database, migrates the given tables
// and returns the same instance on every call. Tables are cleared in reverse
// order, so parents must come first.
func NewDb(tables ...Table) *Db {
	once.Do(func() {
		db = open(tables)
	})
	return db
}

func open(tables []Table) *Db {
	dbConn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	sqlDB, err := dbConn.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	models := make([]any, 0, len(tables))
	for _, t := range tables {
		models = append(models, t.Model)
	}
	if err := dbConn.AutoMigrate(models...); err != nil {
		panic(fmt.Sprintf("failed to migrate database. err: %s", err.Error()))
	}

	return &Db{DbConn: dbConn, tables: tables}
}

// ClearDB deletes every row, children first.
func (d *Db) ClearDB() error {
	for i := len(d.tables) - 1; i >= 0; i-- {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().
			Delete(d.tables[i].Model).Error
		if err != nil {
			return fmt.Errorf("failed to clear %s: %w", d.tables[i].Name, err)
		}
	}
	return nil
}

// Count returns the number of rows in table matching where. A nil where
// counts every row.
func (d *Db) Count(table string, where map[string]any) (int64, error) {
	if _, ok := d.GetModel(table); !ok {
		return 0, fmt.Errorf("unknown table %q", table)
	}

	var count int64
	query := d.DbConn.Table(table)
	if len(where) > 0 {
		query = query.Where(where)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (d *Db) GetModel(table string) (any, bool) {
	for _, t := range d.tables {
		if t.Name == table {
			return t.Model, true
		}
	}
	return nil, false
}
