package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func readRows(t *testing.T, data []byte) [][]string {
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVRecorder_Rows(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewCSVRecorder(&buf, nil, true)
	require.NoError(t, err)

	r.Append(Outcome{Username: "alice", Roles: []string{"teacher"}})
	r.Append(Outcome{Username: "bob", Roles: nil, Err: errors.New("no roles found")})
	r.Append(Outcome{Username: "carol", Roles: []string{"student", "teacher"}, Err: errors.New("group not found")})
	require.NoError(t, r.Close())

	rows := readRows(t, buf.Bytes())
	assert.Equal(t, [][]string{
		{"username", "roles", "error"},
		{"alice", "teacher", ""},
		{"bob", "", "no roles found"},
		{"carol", "student,teacher", "group not found"},
	}, rows)
}

func TestCSVRecorder_ConcurrentAppends(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewCSVRecorder(&buf, nil, false)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Append(Outcome{Username: fmt.Sprintf("user-%d", i), Roles: []string{"student", "teacher"}})
		}(i)
	}
	wg.Wait()
	require.NoError(t, r.Close())

	rows := readRows(t, buf.Bytes())
	assert.Len(t, rows, 200)
	seen := make(map[string]bool)
	for _, row := range rows {
		require.Len(t, row, 3)
		assert.False(t, seen[row[0]], "duplicate row for %s", row[0])
		seen[row[0]] = true
	}
}

func TestCSVRecorder_CloseTwice(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewCSVRecorder(&buf, nil, true)
	require.NoError(t, err)

	require.NoError(t, r.Close())
	assert.ErrorIs(t, r.Close(), ErrNotOpen)

	// Appends after close are dropped
	r.Append(Outcome{Username: "late"})
	assert.NotContains(t, buf.String(), "late")
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	t.Run("Disabled", func(t *testing.T) {
		rec, err := Open(Config{Path: filepath.Join(dir, "unused.csv")}, false)
		require.NoError(t, err)
		assert.IsType(t, Nop{}, rec)
		_, statErr := os.Stat(filepath.Join(dir, "unused.csv"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("Truncates", func(t *testing.T) {
		path := filepath.Join(dir, "truncate.csv")
		require.NoError(t, os.WriteFile(path, []byte("stale,row,here\n"), 0o644))

		rec, err := Open(Config{Path: path}, true)
		require.NoError(t, err)
		rec.Append(Outcome{Username: "alice", Roles: []string{"teacher"}})
		require.NoError(t, rec.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"username", "roles", "error"}, {"alice", "teacher", ""}}, readRows(t, data))
	})

	t.Run("Appends", func(t *testing.T) {
		path := filepath.Join(dir, "append.csv")
		for _, name := range []string{"alice", "bob"} {
			rec, err := Open(Config{Path: path, Append: true}, true)
			require.NoError(t, err)
			rec.Append(Outcome{Username: name, Roles: []string{"student"}})
			require.NoError(t, rec.Close())
		}

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"username", "roles", "error"},
			{"alice", "student", ""},
			{"bob", "student", ""},
		}, readRows(t, data))
	})

	t.Run("BadPath", func(t *testing.T) {
		_, err := Open(Config{Path: filepath.Join(dir, "missing", "dir", "r.csv")}, true)
		assert.Error(t, err)
	})
}

func TestFinalize(t *testing.T) {
	t.Run("OpenRecorder", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		var buf bytes.Buffer
		rec, err := NewCSVRecorder(&buf, nil, true)
		require.NoError(t, err)

		assert.NoError(t, Finalize(zap.New(core), rec))
		assert.Equal(t, 0, logs.Len())
		assert.Equal(t, "username,roles,error\n", buf.String())
	})

	t.Run("NotOpenWarns", func(t *testing.T) {
		for name, rec := range map[string]Recorder{"nil": nil, "nop": Nop{}} {
			core, logs := observer.New(zapcore.WarnLevel)
			assert.NoError(t, Finalize(zap.New(core), rec), name)
			assert.Equal(t, 1, logs.Len(), name)
		}
	})

	t.Run("SecondFinalizeWarns", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		var buf bytes.Buffer
		rec, err := NewCSVRecorder(&buf, nil, true)
		require.NoError(t, err)

		assert.NoError(t, Finalize(zap.New(core), rec))
		assert.NoError(t, Finalize(zap.New(core), rec))
		assert.Equal(t, 1, logs.Len())
	})
}
