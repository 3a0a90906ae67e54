package reconcile_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"group-sync/core/directory"
	"group-sync/core/pacing"
	"group-sync/core/reconcile"
	"group-sync/core/report"
	"group-sync/feature/groupsync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// poolDirectory is an in-memory directory with fixed-size pages.
type poolDirectory struct {
	mu       sync.Mutex
	users    []string
	pageSize int
	adds     map[string]int
	failOn   map[string]error
}

func (p *poolDirectory) ListUsers(_ context.Context, cursor *string, limit int32) (*directory.Page, error) {
	start := 0
	if cursor != nil {
		fmt.Sscanf(*cursor, "offset-%d", &start)
	}
	size := p.pageSize
	if size > int(limit) {
		size = int(limit)
	}
	end := start + size
	if end > len(p.users) {
		end = len(p.users)
	}

	page := &directory.Page{}
	for _, u := range p.users[start:end] {
		page.Users = append(page.Users, directory.User{Username: u})
	}
	if end < len(p.users) {
		next := fmt.Sprintf("offset-%d", end)
		page.NextCursor = &next
	}
	return page, nil
}

func (p *poolDirectory) AddUserToGroup(_ context.Context, username, group string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.adds == nil {
		p.adds = make(map[string]int)
	}
	p.adds[username+"|"+group]++
	return p.failOn[username+"|"+group]
}

type staticResolver map[string][]string

func (s staticResolver) Resolve(_ context.Context, userID string) []string {
	return s[userID]
}

func runWithCSV(t *testing.T, dir directory.Directory, resolver reconcile.RoleResolver, opsPerSec float64) (*reconcile.Summary, [][]string) {
	t.Helper()

	var buf bytes.Buffer
	rec, err := report.NewCSVRecorder(&buf, nil, true)
	require.NoError(t, err)

	syncer := groupsync.NewSynchronizer(dir, rec, zap.NewNop())
	d := reconcile.NewDriver(dir, resolver, syncer, pacing.NewGate(opsPerSec), reconcile.Options{}, zap.NewNop())

	summary, err := d.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, report.Finalize(zap.NewNop(), rec))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, report.Header, rows[0])
	return summary, rows[1:]
}

func TestScenario_AliceAndBob(t *testing.T) {
	dir := &poolDirectory{users: []string{"alice"}, pageSize: 60}
	_, rows := runWithCSV(t, dir, staticResolver{"alice": {"teacher"}}, 0)
	assert.Equal(t, [][]string{{"alice", "teacher", ""}}, rows)
	assert.Equal(t, 1, dir.adds["alice|teacher"])

	dir = &poolDirectory{users: []string{"bob"}, pageSize: 60}
	_, rows = runWithCSV(t, dir, staticResolver{}, 0)
	assert.Equal(t, [][]string{{"bob", "", "no roles found"}}, rows)
	assert.Empty(t, dir.adds, "no directory calls for bob")
}

func TestCompletenessAndNoDuplicates(t *testing.T) {
	vocabulary := []string{"student", "teacher", "school-admin", "district-admin"}
	resolver := staticResolver{}
	var names []string
	expected := 0
	for i := 0; i < 137; i++ {
		name := fmt.Sprintf("user-%03d", i)
		names = append(names, name)
		roles := vocabulary[:i%5] // 0..4 roles
		if len(roles) > 0 {
			resolver[name] = roles
			expected += len(roles)
		} else {
			expected++
		}
	}

	boom := errors.New("group not found")
	dir := &poolDirectory{
		users:    names,
		pageSize: 60,
		failOn:   map[string]error{"user-007|teacher": boom},
	}

	summary, rows := runWithCSV(t, dir, resolver, 0)

	assert.Equal(t, 3, summary.Pages)
	assert.Equal(t, 137, summary.Users)
	assert.Equal(t, expected, summary.Outcomes)
	assert.Len(t, rows, expected)
	assert.Equal(t, 1, summary.Failures)

	for pair, n := range dir.adds {
		assert.Equal(t, 1, n, "assignment %s issued more than once", pair)
	}

	// As rows carry the full role list, count rows per user against it.
	perUser := make(map[string]int)
	for _, row := range rows {
		perUser[row[0]]++
		if row[0] == "user-007" && row[2] != "" {
			assert.Equal(t, "group not found", row[2])
		}
	}
	for _, name := range names {
		want := len(resolver[name])
		if want == 0 {
			want = 1
		}
		assert.Equal(t, want, perUser[name], name)
		if want > 1 {
			assert.Equal(t, strings.Join(resolver[name], ","), findRoles(rows, name))
		}
	}
}

func findRoles(rows [][]string, user string) string {
	for _, row := range rows {
		if row[0] == user {
			return row[1]
		}
	}
	return ""
}
