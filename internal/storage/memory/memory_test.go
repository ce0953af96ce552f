package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendlens/internal/core"
	"spendlens/internal/ports"
)

func sample(id string) core.Expense {
	return core.Expense{
		ID:          id,
		Description: "Train to Milan",
		Amount:      core.Money{Cents: 2390},
		Category:    core.CategoryTransport,
		Date:        core.NewDate(2025, 6, 1),
		CreatedAt:   time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC),
		Tags:        []string{"trip"},
	}
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Insert(ctx, sample("a")))
	assert.Error(t, s.Insert(ctx, sample("a")))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, sample("a"), got)

	upd := sample("a")
	upd.Description = "Train to Rome"
	upd.CreatedAt = time.Now()
	require.NoError(t, s.Replace(ctx, upd))
	got, _ = s.Get(ctx, "a")
	assert.Equal(t, "Train to Rome", got.Description)
	assert.Equal(t, sample("a").CreatedAt, got.CreatedAt)

	assert.ErrorIs(t, s.Replace(ctx, sample("zz")), ports.ErrNotFound)

	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "a"), ports.ErrNotFound)
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New(sample("a"))

	got, _ := s.Get(ctx, "a")
	got.Tags[0] = "mutated"

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "trip", all[0].Tags[0])
}

func TestNewFromFileMissing(t *testing.T) {
	s, err := NewFromFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	all, _ := s.All(context.Background())
	assert.Empty(t, all)
}

func TestNewFromFileBrowserShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.json")
	blob := `[
	  {"id":"1","description":"Lunch at McDonald's","amount":12.5,"category":"Food & Dining",
	   "date":"2025-03-02","createdAt":"2025-03-02T12:00:00.000Z","aiSuggested":true,"tags":[]},
	  {"id":"2","description":"Taxi","amount":20,"category":"Transportation",
	   "date":"2025-03-03T00:00:00.000Z","createdAt":"2025-03-03T08:00:00Z"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(blob), 0o644))

	s, err := NewFromFile(path)
	require.NoError(t, err)

	e, err := s.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, int64(1250), e.Amount.Cents)
	assert.True(t, e.AISuggested)
	assert.Equal(t, core.NewDate(2025, 3, 2), e.Date)

	e, err = s.Get(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, core.NewDate(2025, 3, 3), e.Date)
	assert.NotNil(t, e.Tags)
}

func TestDecodeRejectsInvalidRecords(t *testing.T) {
	_, err := DecodeExpenses([]byte(`[{"id":"1","description":"x","amount":0,"category":"Other","date":"2025-01-01","createdAt":"2025-01-01T00:00:00Z"}]`))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = DecodeExpenses([]byte(`[{"id":"1","description":"x","amount":1,"category":"Other","date":"soon","createdAt":"2025-01-01T00:00:00Z"}]`))
	assert.ErrorIs(t, err, core.ErrInvalidDate)

	_, err = DecodeExpenses([]byte(`{`))
	assert.Error(t, err)
}

func TestEncodeDecodeKeepsFields(t *testing.T) {
	in := []core.Expense{sample("a")}
	data, err := EncodeExpenses(in)
	require.NoError(t, err)

	out, err := DecodeExpenses(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSaveFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "expenses.json")

	a := sample("a")
	b := sample("b")
	b.Date = core.NewDate(2023, 12, 31)
	s := New(a, b)
	require.NoError(t, s.SaveFile(path))

	loaded, err := NewFromFile(path)
	require.NoError(t, err)
	got, err := loaded.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, b.Date, got.Date)
	assert.Equal(t, b.Amount, got.Amount)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	decoded, err := DecodeExpenses(data)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, "b", decoded[0].ID, "oldest first")
}
