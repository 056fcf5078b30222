package sqlitestore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/phanxgames/pinboard"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "sub", "boards.db"), WithMkdirAll())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestGetMissing(t *testing.T) {
	st := openTemp(t)
	_, err := st.Get(context.Background(), "nope")
	if !errors.Is(err, pinboard.ErrNotFound) {
		t.Fatalf("Get missing: err = %v, want ErrNotFound", err)
	}
}

func TestPutGetOverwrite(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	if err := st.Put(ctx, "board", []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := st.Put(ctx, "board", []byte("two")); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(ctx, "board")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "two" {
		t.Errorf("Get = %q, want %q", got, "two")
	}
}

func TestKeysAndDelete(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	base := time.Unix(1_700_000_000, 0)
	tick := 0
	st.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Second) }

	for _, k := range []string{"a", "b", "c"} {
		if err := st.Put(ctx, k, []byte(k)); err != nil {
			t.Fatal(err)
		}
	}
	keys, err := st.Keys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 3 || keys[0] != "c" || keys[2] != "a" {
		t.Errorf("Keys = %v, want [c b a]", keys)
	}

	if err := st.Delete(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	if err := st.Delete(ctx, "b"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if _, err := st.Get(ctx, "b"); !errors.Is(err, pinboard.ErrNotFound) {
		t.Errorf("Get deleted: err = %v, want ErrNotFound", err)
	}
}

func TestGatewayRoundTrip(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	gw := pinboard.NewGateway(st, "board", nil)

	want := pinboard.BoardState{
		Camera: pinboard.Camera{X: 10, Y: -5, Scale: 2},
		Notes: []pinboard.Note{
			{ID: "note-1", Kind: pinboard.NoteSticky, X: 0, Y: 0, W: 100, H: 80, Text: "hi",
				Color: pinboard.MustParseHexColor("#fde68a")},
		},
	}
	if err := gw.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := gw.Load(ctx)
	if got == nil {
		t.Fatal("Load = nil")
	}
	if got.Camera != want.Camera {
		t.Errorf("Camera = %+v, want %+v", got.Camera, want.Camera)
	}
	if len(got.Notes) != 1 || got.Notes[0].Text != "hi" || got.Notes[0].W != 100 {
		t.Errorf("Notes = %+v", got.Notes)
	}
}

func TestMemoryDatabase(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	ctx := context.Background()
	if err := st.Put(ctx, "k", []byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(ctx, "k")
	if err != nil || len(got) != 3 {
		t.Fatalf("Get = %v, %v", got, err)
	}
}
