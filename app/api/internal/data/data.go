package data

import (
	"database/sql"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	_ "github.com/lib/pq"

	"github.com/iWorld-y/adverse_media/app/api/internal/conf"
)

const defaultDriver = "postgres"

// schema 启动时建表
var schema = []string{
	`CREATE TABLE IF NOT EXISTS adverse_media_reports (
		id UUID PRIMARY KEY,
		entity_name TEXT NOT NULL,
		date_range TEXT NOT NULL,
		search_date TEXT NOT NULL,
		findings_count INT NOT NULL DEFAULT 0,
		risk_level TEXT NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS adverse_media_findings (
		id SERIAL PRIMARY KEY,
		report_id UUID NOT NULL REFERENCES adverse_media_reports(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		finding_date TEXT NOT NULL,
		source TEXT NOT NULL,
		severity TEXT NOT NULL,
		category TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_adverse_media_reports_entity ON adverse_media_reports (lower(entity_name))`,
}

// Data 数据访问资源；db 为 nil 表示未启用归档
type Data struct {
	db *sql.DB
}

func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(logger)
	if c == nil || c.Database == nil || c.Database.Source == "" {
		helper.Info("database source not configured, report archive disabled")
		return &Data{}, func() {}, nil
	}

	driver := c.Database.Driver
	if driver == "" {
		driver = defaultDriver
	}
	db, err := sql.Open(driver, c.Database.Source)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, err
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to init report tables: %w", err)
		}
	}

	cleanup := func() {
		helper.Info("closing the data resources")
		db.Close()
	}
	return &Data{db: db}, cleanup, nil
}
