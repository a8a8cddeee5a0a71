// Package store persists walk trails with gorm.
//
// Two tables are managed: a points table per walk (Latitude, Longitude,
// AppMask) and a shared Sessions table naming each walk and the points
// table it was written to.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var ErrUnknownDriver = errors.New("store: unknown driver")

// byID orders rows by the dialect-quoted ID column.
var byID = clause.OrderByColumn{Column: clause.Column{Name: "ID"}}

// SessionsTable is the name of the table listing recorded walks.
const SessionsTable = "Sessions"

// Point is one trail row.
type Point struct {
	ID        uint    `gorm:"column:ID;primaryKey;autoIncrement"`
	Latitude  float64 `gorm:"column:Latitude"`
	Longitude float64 `gorm:"column:Longitude"`
	AppMask   int     `gorm:"column:AppMask"`
}

// Session records one walk run.
type Session struct {
	ID          uint      `gorm:"column:ID;primaryKey;autoIncrement"`
	RunID       string    `gorm:"column:RunID;size:36"`
	Name        string    `gorm:"column:Name;size:191;uniqueIndex"`
	PointsTable string    `gorm:"column:PointsTable;size:191"`
	Samples     int       `gorm:"column:Samples"`
	CreatedAt   time.Time `gorm:"column:CreatedAt"`
}

func (Session) TableName() string { return SessionsTable }

type Store struct {
	db *gorm.DB
}

// Open connects using driver ("sqlite", "postgres" or "mysql") and dsn.
func Open(driver, dsn string) (*Store, error) {
	var dial gorm.Dialector
	switch strings.ToLower(driver) {
	case "sqlite", "":
		dial = sqlite.Open(dsn)
	case "postgres":
		dial = postgres.Open(dsn)
	case "mysql":
		dial = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return &Store{db: db}, nil
}

// New wraps an existing gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// EnsurePointsTable creates table if it does not exist.
func (s *Store) EnsurePointsTable(ctx context.Context, table string) error {
	if table == "" {
		return errors.New("store: points table name is empty")
	}
	return s.db.WithContext(ctx).Table(table).AutoMigrate(&Point{})
}

// InsertPoints appends pts to table in batches of batchSize.
func (s *Store) InsertPoints(ctx context.Context, table string, pts []Point, batchSize int) error {
	if len(pts) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = len(pts)
	}
	return s.db.WithContext(ctx).Table(table).CreateInBatches(pts, batchSize).Error
}

// LoadPoints returns every row of table in insertion order.
func (s *Store) LoadPoints(ctx context.Context, table string) ([]Point, error) {
	var out []Point
	if err := s.db.WithContext(ctx).Table(table).Order(byID).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	return out, nil
}

// OpenSession registers a session called name writing to table. When a
// session with that name exists it is returned with existed=true.
func (s *Store) OpenSession(ctx context.Context, name, table string) (Session, bool, error) {
	if name == "" {
		return Session{}, false, errors.New("store: session name is empty")
	}
	var sess Session
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&Session{}); err != nil {
		return Session{}, false, fmt.Errorf("migrate sessions: %w", err)
	}

	res := db.Where(&Session{Name: name}).Limit(1).Find(&sess)
	if res.Error != nil {
		return Session{}, false, res.Error
	}
	if res.RowsAffected > 0 {
		return sess, true, nil
	}

	sess = Session{RunID: uuid.NewString(), Name: name, PointsTable: table}
	if err := db.Create(&sess).Error; err != nil {
		return Session{}, false, fmt.Errorf("create session %q: %w", name, err)
	}
	return sess, false, nil
}

// AddSamples increments the sample counter of the session with id.
func (s *Store) AddSamples(ctx context.Context, id uint, n int) error {
	return s.db.WithContext(ctx).Model(&Session{ID: id}).
		UpdateColumn("Samples", gorm.Expr("? + ?", clause.Column{Name: "Samples"}, n)).Error
}

// ListSessions returns all sessions ordered by ID.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	db := s.db.WithContext(ctx)
	if !db.Migrator().HasTable(&Session{}) {
		return nil, nil
	}
	var out []Session
	if err := db.Order(byID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
