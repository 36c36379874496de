package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/iNicoNavarro/data-problems/internal/ddl"
)

// fakeRepo is a minimal Repository implementation for tests.
type fakeRepo struct {
	closed bool
	execs  []string
}

func (f *fakeRepo) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	return int64(len(rows)), nil
}
func (f *fakeRepo) Exec(ctx context.Context, sql string) error {
	f.execs = append(f.execs, sql)
	return nil
}
func (f *fakeRepo) Query(ctx context.Context, sql string, fn RowFunc) error { return nil }
func (f *fakeRepo) Close()                                                  { f.closed = true }

func TestRegisterAndNew_Success(t *testing.T) {
	t.Parallel()

	kind := "fake"
	var got Config
	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		got = cfg
		return &fakeRepo{}, nil
	})

	repo, err := New(context.Background(), Config{Kind: kind, Table: "ofertas"})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if repo == nil {
		t.Fatal("New returned nil repo")
	}
	if got.Table != "ofertas" {
		t.Fatalf("factory saw table %q, want ofertas", got.Table)
	}

	found := false
	for _, k := range ListKinds() {
		if k == kind {
			found = true
		}
	}
	if !found {
		t.Fatalf("registered kind %q not present in ListKinds: %v", kind, ListKinds())
	}
}

func TestNew_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Kind: "does-not-exist"})
	if err == nil {
		t.Fatal("expected error for unsupported kind")
	}
	got := err.Error()
	if !strings.HasPrefix(got, "unsupported storage.kind=does-not-exist (registered: ") {
		t.Fatalf("error = %q, want the kind and the registered kinds", got)
	}
}

func TestRegister_AllowsErrors(t *testing.T) {
	t.Parallel()

	want := errors.New("boom")
	Register("errkind", func(ctx context.Context, cfg Config) (Repository, error) {
		return nil, want
	})

	if _, err := New(context.Background(), Config{Kind: "errkind"}); !errors.Is(err, want) {
		t.Fatalf("want %v, got %v", want, err)
	}
}

func TestEnsureTable(t *testing.T) {
	t.Parallel()

	RegisterDDL("fake-ddl", func(ctx context.Context, repo Repository, def ddl.TableDef) error {
		return repo.Exec(ctx, "CREATE "+def.FQN)
	})

	repo := &fakeRepo{}
	def := ddl.TableDef{FQN: "etl_runs", Columns: []ddl.ColumnDef{{Name: "run_id", SQLType: "TEXT"}}}
	if err := EnsureTable(context.Background(), "fake-ddl", repo, def); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	if len(repo.execs) != 1 || repo.execs[0] != "CREATE etl_runs" {
		t.Fatalf("execs = %v", repo.execs)
	}

	err := EnsureTable(context.Background(), "missing", repo, def)
	if err == nil || !strings.Contains(err.Error(), "no DDL builder registered") {
		t.Fatalf("expected missing builder error, got %v", err)
	}
}
