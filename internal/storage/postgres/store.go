package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	defaultConnTimeout     = 5 * time.Second
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
)

// Store оборачивает SQL-подключение к PostgreSQL и ORM-сессию поверх него.
type Store struct {
	db     *sql.DB
	orm    *gorm.DB
	logger *log.Entry
}

// Option настраивает Store.
type Option func(*Store)

// WithLogger задаёт logger для хранилища и ORM.
func WithLogger(logger *log.Entry) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open открывает подключение к PostgreSQL и проверяет доступность базы.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	store := &Store{logger: log.WithField("component", "postgres")}
	for _, opt := range opts {
		opt(store)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	// ORM работает поверх того же пула, миграции и ORM видят одно подключение.
	orm, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db}), newGormConfig(store.logger))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open gorm session: %w", err)
	}

	store.db = db
	store.orm = orm
	return store, nil
}

func newGormConfig(logger *log.Entry) *gorm.Config {
	return &gorm.Config{
		Logger:         newGormLogger(logger.WithField("layer", "gorm")),
		TranslateError: true,
	}
}

// DB возвращает raw SQL DB, когда нужен низкоуровневый доступ.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Gorm возвращает ORM-сессию, разделяющую пул с DB().
func (s *Store) Gorm() *gorm.DB {
	if s == nil {
		return nil
	}
	return s.orm
}

// Ping проверяет доступность подключения.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("postgres store is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	return s.db.PingContext(pingCtx)
}

// EnsureSchema применяет все up-миграции.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return s.MigrateUp(ctx, 0)
}

// Close закрывает подключение к БД.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
