package history

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// memConnector поднимает *sql.DB поверх таблицы в памяти: те запросы,
// что шлёт pgStore, исполняются семантически, без настоящего postgres.
// Порядок строк держит монотонный id — как BIGSERIAL в схеме.
type memTable struct {
	mu     sync.Mutex
	nextID int64
	rows   []memRow
}

type memRow struct {
	id   int64
	turn Turn
}

type memConnector struct {
	table *memTable
}

func (c *memConnector) Connect(context.Context) (driver.Conn, error) {
	return &memConn{table: c.table}, nil
}

func (c *memConnector) Driver() driver.Driver { return nil }

type memConn struct {
	table *memTable
}

func (c *memConn) Prepare(string) (driver.Stmt, error) {
	return nil, fmt.Errorf("prepared statements are not supported")
}

func (c *memConn) Close() error { return nil }

func (c *memConn) Begin() (driver.Tx, error) {
	return nil, fmt.Errorf("transactions are not supported")
}

func (c *memConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	q := strings.TrimSpace(query)
	switch {
	case strings.HasPrefix(q, "CREATE"):
		return driver.RowsAffected(0), nil

	case strings.HasPrefix(q, "INSERT"):
		c.table.mu.Lock()
		defer c.table.mu.Unlock()

		c.table.nextID++
		c.table.rows = append(c.table.rows, memRow{
			id: c.table.nextID,
			turn: Turn{
				ID:               args[0].Value.(string),
				CallerKey:        args[1].Value.(string),
				TopicKey:         args[2].Value.(string),
				Model:            args[3].Value.(string),
				SystemPrompt:     args[4].Value.(string),
				UserMessage:      args[5].Value.(string),
				AssistantMessage: args[6].Value.(string),
				CreatedAt:        args[7].Value.(time.Time),
			},
		})
		return driver.RowsAffected(1), nil
	}
	return nil, fmt.Errorf("unexpected exec: %s", q)
}

func (c *memConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if !strings.Contains(query, "FROM conversations") {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}

	caller := args[0].Value.(string)
	topic := args[1].Value.(string)

	limit := -1
	if strings.Contains(query, "LIMIT") {
		limit = int(args[2].Value.(int64))
	}

	c.table.mu.Lock()
	defer c.table.mu.Unlock()

	var matched []memRow
	for _, r := range c.table.rows {
		if r.turn.CallerKey == caller && r.turn.TopicKey == topic {
			matched = append(matched, r)
		}
	}

	// ORDER BY id DESC [LIMIT n]
	var out [][]driver.Value
	for i := len(matched) - 1; i >= 0; i-- {
		if limit >= 0 && len(out) == limit {
			break
		}
		t := matched[i].turn
		out = append(out, []driver.Value{
			t.ID, t.CallerKey, t.TopicKey, t.Model, t.SystemPrompt,
			t.UserMessage, t.AssistantMessage, t.CreatedAt,
		})
	}
	return &memRows{rows: out}, nil
}

type memRows struct {
	rows [][]driver.Value
	pos  int
}

func (r *memRows) Columns() []string {
	return []string{
		"turn_id", "caller_key", "topic_key", "model", "system_prompt",
		"user_message", "assistant_message", "created_at",
	}
}

func (r *memRows) Close() error { return nil }

func (r *memRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}

func newMemDB() *sql.DB {
	return sql.OpenDB(&memConnector{table: &memTable{}})
}

func requireSameTurns(t *testing.T, want, got []Turn) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.Equal(t, want[i].ID, got[i].ID, "turn %d", i)
		require.Equal(t, want[i].CallerKey, got[i].CallerKey, "turn %d", i)
		require.Equal(t, want[i].TopicKey, got[i].TopicKey, "turn %d", i)
		require.Equal(t, want[i].Model, got[i].Model, "turn %d", i)
		require.Equal(t, want[i].SystemPrompt, got[i].SystemPrompt, "turn %d", i)
		require.Equal(t, want[i].UserMessage, got[i].UserMessage, "turn %d", i)
		require.Equal(t, want[i].AssistantMessage, got[i].AssistantMessage, "turn %d", i)
		require.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt), "turn %d created_at", i)
	}
}

func TestEnsureSchema(t *testing.T) {
	require.NoError(t, EnsureSchema(context.Background(), newMemDB()))
}

func TestPgStore_EmptyHistory(t *testing.T) {
	store := NewPgStore(newMemDB())

	turns, err := store.Read(context.Background(), NewPair("0912345678", "socratic"), 10)
	require.NoError(t, err)
	require.NotNil(t, turns)
	require.Empty(t, turns)
}

func TestPgStore_AppendAndWindow(t *testing.T) {
	store := NewPgStore(newMemDB())
	pair := NewPair("0912345678", "socratic")

	for n := 1; n <= 12; n++ {
		require.NoError(t, store.Append(context.Background(), testTurn(pair, n)))
	}

	// окно: последние 10, от старых к новым
	turns, err := store.Read(context.Background(), pair, 10)
	require.NoError(t, err)
	require.Len(t, turns, 10)
	require.Equal(t, "question 3", turns[0].UserMessage)
	require.Equal(t, "question 12", turns[9].UserMessage)

	// limit <= 0 — без ограничения
	all, err := store.Read(context.Background(), pair, 0)
	require.NoError(t, err)
	require.Len(t, all, 12)
	require.Equal(t, "question 1", all[0].UserMessage)
}

// На одинаковой последовательности Append оба бэкенда отдают один и тот же
// логический результат Read — бэкенды взаимозаменяемы.
func TestBackendEquivalence(t *testing.T) {
	fileStore := newTestStore(t)
	pgStore := NewPgStore(newMemDB())
	stores := []Store{fileStore, pgStore}

	pair := NewPair("0912345678", "socratic")
	other := NewPair("0912345678", "debate")

	for n := 1; n <= 12; n++ {
		turn := testTurn(pair, n)
		for _, store := range stores {
			require.NoError(t, store.Append(context.Background(), turn))
		}
	}

	for _, limit := range []int{10, 12, 0, 1, 100} {
		fromFile, err := fileStore.Read(context.Background(), pair, limit)
		require.NoError(t, err)
		fromPg, err := pgStore.Read(context.Background(), pair, limit)
		require.NoError(t, err)
		requireSameTurns(t, fromFile, fromPg)
	}

	// пара без истории — пустой результат в обоих
	fromFile, err := fileStore.Read(context.Background(), other, 10)
	require.NoError(t, err)
	fromPg, err := pgStore.Read(context.Background(), other, 10)
	require.NoError(t, err)
	require.Empty(t, fromFile)
	require.Empty(t, fromPg)
}
