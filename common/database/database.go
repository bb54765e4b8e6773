// Package database opens the ClickHouse connection used for the admin audit
// log and its schema migrations.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"go.uber.org/zap"
)

type Options struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Username        string
	Password        string
	Database        string
}

type Database struct {
	conn   clickhouse.Conn
	logger *zap.Logger
}

// ClientOptions turns opts into clickhouse-go options. The DSN supplies the
// address and any settings it carries; explicit credentials and pool sizes
// in opts override whatever the DSN says.
func ClientOptions(opts Options) (*clickhouse.Options, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("clickhouse dsn is required")
	}

	chOpts, err := clickhouse.ParseDSN(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid clickhouse dsn: %w", err)
	}

	if opts.Database != "" {
		chOpts.Auth.Database = opts.Database
	}
	if opts.Username != "" {
		chOpts.Auth.Username = opts.Username
	}
	if opts.Password != "" {
		chOpts.Auth.Password = opts.Password
	}
	if opts.MaxOpenConns > 0 {
		chOpts.MaxOpenConns = opts.MaxOpenConns
	}
	if opts.MaxIdleConns > 0 {
		chOpts.MaxIdleConns = opts.MaxIdleConns
	}
	if opts.ConnMaxLifetime > 0 {
		chOpts.ConnMaxLifetime = opts.ConnMaxLifetime
	}
	if chOpts.Settings == nil {
		chOpts.Settings = clickhouse.Settings{}
	}
	if _, ok := chOpts.Settings["max_execution_time"]; !ok {
		chOpts.Settings["max_execution_time"] = 60
	}
	chOpts.DialTimeout = 30 * time.Second

	return chOpts, nil
}

func New(ctx context.Context, opts Options, logger *zap.Logger) (*Database, error) {
	chOpts, err := ClientOptions(opts)
	if err != nil {
		return nil, err
	}

	conn, err := clickhouse.Open(chOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create clickhouse connection: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	logger.Info("connected to clickhouse",
		zap.Strings("addr", chOpts.Addr),
		zap.String("database", chOpts.Auth.Database))

	return &Database{
		conn:   conn,
		logger: logger,
	}, nil
}

func (db *Database) Close() error {
	return db.conn.Close()
}

func (db *Database) Conn() clickhouse.Conn {
	return db.conn
}
