package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "tx.db")+"?_txlock=immediate")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec("CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)")
	require.NoError(t, err)
	return db
}

func count(t *testing.T, db *sql.DB) int {
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM kv").Scan(&n))
	return n
}

func TestWithTransaction_Commit(t *testing.T) {
	db := openDB(t)
	m := NewTxManager(db, zap.NewNop())

	err := m.WithTransaction(context.Background(), func(ctx context.Context) error {
		require.NotNil(t, TxFrom(ctx))
		_, err := ExecutorFor(ctx, db).ExecContext(ctx, "INSERT INTO kv VALUES ('a', '1')")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count(t, db))
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	db := openDB(t)
	m := NewTxManager(db, zap.NewNop())
	boom := errors.New("boom")

	err := m.WithTransaction(context.Background(), func(ctx context.Context) error {
		_, err := ExecutorFor(ctx, db).ExecContext(ctx, "INSERT INTO kv VALUES ('a', '1')")
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, count(t, db))
}

func TestWithTransaction_RollbackOnPanic(t *testing.T) {
	db := openDB(t)
	m := NewTxManager(db, zap.NewNop())

	assert.Panics(t, func() {
		_ = m.WithTransaction(context.Background(), func(ctx context.Context) error {
			_, _ = ExecutorFor(ctx, db).ExecContext(ctx, "INSERT INTO kv VALUES ('a', '1')")
			panic("oops")
		})
	})
	assert.Equal(t, 0, count(t, db))
}

func TestWithTransaction_NestedJoinsOuter(t *testing.T) {
	db := openDB(t)
	m := NewTxManager(db, zap.NewNop())

	err := m.WithTransaction(context.Background(), func(outer context.Context) error {
		return m.WithTransaction(outer, func(inner context.Context) error {
			assert.Same(t, TxFrom(outer), TxFrom(inner))
			return nil
		})
	})
	require.NoError(t, err)
}

func TestExecutorFor_OutsideTransaction(t *testing.T) {
	db := openDB(t)
	assert.Equal(t, Executor(db), ExecutorFor(context.Background(), db))
}
