package db

import (
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteCreatesSchema(t *testing.T) {
	gormDB, err := NewSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)

	for _, table := range []string{"categories", "transactions", "budgets"} {
		require.True(t, gormDB.Migrator().HasTable(table), table)
	}
	require.True(t, gormDB.Migrator().HasIndex("categories", "idx_categories_owner_name_kind"))
	require.True(t, gormDB.Migrator().HasIndex("budgets", "idx_budgets_owner_category_period"))
}

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	loaded, err := loadMigrations(migrations)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.Equal(t, "0001_init.sql", loaded[0].name)
	require.Equal(t, "0002_budgets.sql", loaded[1].name)
	require.Contains(t, loaded[1].sql, "budgets")
}

func TestLoadMigrationsSkipsEmptyAndForeignFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0002_b.sql":   {Data: []byte("CREATE TABLE b (id TEXT);")},
		"migrations/0001_a.sql":   {Data: []byte("CREATE TABLE a (id TEXT);")},
		"migrations/0003_c.sql":   {Data: []byte("  \n ")},
		"migrations/README.md":    {Data: []byte("notes")},
		"migrations/old/0000.sql": {Data: []byte("DROP TABLE a;")},
	}

	loaded, err := loadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.Equal(t, "0001_a.sql", loaded[0].name)
	require.Equal(t, "0002_b.sql", loaded[1].name)
}

func TestSQLiteLowerFoldsUnicode(t *testing.T) {
	gormDB, err := NewSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)

	var lowered string
	require.NoError(t, gormDB.Raw("SELECT lower(?)", "ĂN TRƯA Đi").Scan(&lowered).Error)
	require.Equal(t, "ăn trưa đi", lowered)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	var null sql.NullString
	require.NoError(t, sqlDB.QueryRow("SELECT lower(NULL)").Scan(&null))
	require.False(t, null.Valid)
}
