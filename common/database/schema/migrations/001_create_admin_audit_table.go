package migrations

import "github.com/Jannatul-Ferdauss/PathX-sub001/common/database/schema"

var CreateAdminAuditTable = schema.Migration{
	Version:     1,
	Description: "Create admin_audit table",
	Up: `
		CREATE TABLE IF NOT EXISTS admin_audit (
			run_id String,
			operation LowCardinality(String),
			actor String,
			success Bool,
			count Int32,
			error String,
			created_at DateTime64(3, 'UTC')
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(created_at)
		ORDER BY (operation, created_at)
		SETTINGS index_granularity = 8192
	`,
	Down: `DROP TABLE IF EXISTS admin_audit`,
}

// All lists every migration in the order it must be applied.
var All = []schema.Migration{
	CreateAdminAuditTable,
}
