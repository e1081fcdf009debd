package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/pacecalc/internal/model"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	st, err := Open("")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestCreateAndGet(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	if err := st.Create(ctx, 0, model.DefaultFormState()); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := st.Get(ctx, 0)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != model.DefaultFormState() {
		t.Fatalf("unexpected state: %+v", got)
	}
}

func TestCreateDuplicate(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	first := model.FormState{Pace: 300 * time.Second, Distance: 1000, ShowSplits: true}
	if err := st.Create(ctx, 3, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := st.Create(ctx, 3, model.DefaultFormState())
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	got, err := st.Get(ctx, 3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != first {
		t.Fatalf("duplicate create overwrote state: %+v", got)
	}
}

func TestUpdate(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	if err := st.Create(ctx, 1, model.DefaultFormState()); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := st.Update(ctx, 1, func(s *model.FormState) {
		s.Pace = 270 * time.Second
		s.SplitInterval = 1000
		s.Distance = 3000
		s.ShowSplits = false
		s.Label = "tempo"
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := st.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := model.FormState{Pace: 270 * time.Second, SplitInterval: 1000, Distance: 3000, Label: "tempo"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestUpdateAbsentIsNoop(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	called := false
	if err := st.Update(ctx, 42, func(*model.FormState) { called = true }); err != nil {
		t.Fatalf("update absent: %v", err)
	}
	if called {
		t.Fatalf("mutator ran for absent id")
	}
	ids, err := st.IDs(ctx)
	if err != nil {
		t.Fatalf("ids: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("update created a record: %v", ids)
	}
}

func TestRemoveIdempotent(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	if err := st.Create(ctx, 2, model.FormState{Distance: 5000}); err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := st.Remove(ctx, 2); err != nil {
			t.Fatalf("remove #%d: %v", i, err)
		}
	}
	got, err := st.Get(ctx, 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != model.DefaultFormState() {
		t.Fatalf("expected default for removed id, got %+v", got)
	}
}

func TestIDsSorted(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	for _, id := range []model.InstanceID{4, 0, 2} {
		if err := st.Create(ctx, id, model.DefaultFormState()); err != nil {
			t.Fatalf("create %d: %v", id, err)
		}
	}
	ids, err := st.IDs(ctx)
	if err != nil {
		t.Fatalf("ids: %v", err)
	}
	if len(ids) != 3 || ids[0] != 0 || ids[1] != 2 || ids[2] != 4 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "nested", "forms.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	if err := st.Create(context.Background(), 0, model.DefaultFormState()); err != nil {
		t.Fatalf("create: %v", err)
	}
}
