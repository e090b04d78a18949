package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/datac/internal/datac"
	"github.com/san-kum/datac/internal/quantity"
)

func volumeRecord(t *testing.T) *datac.Record {
	t.Helper()
	calc := datac.Func("volume", func(a datac.Args) (any, error) {
		h, _ := a.Float("height")
		w, _ := a.Float("width")
		d, _ := a.Float("depth")
		return h * w * d, nil
	})
	rec, err := datac.New(map[string]any{"width": 2.0, "depth": 3.0}, []float64{1, 2, 3}, "height", calc)
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	return rec
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir(), nil)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if st.Exists("box") {
		t.Fatal("expected no data file before save")
	}

	path, err := st.Save("box", volumeRecord(t))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if filepath.Base(path) != "box.dat" {
		t.Errorf("expected box.dat, got %s", path)
	}
	if !st.Exists("box") {
		t.Error("expected data file after save")
	}

	doc, err := st.Load("box")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if doc.AbscissaName != "height" {
		t.Errorf("expected abscissa name height, got %s", doc.AbscissaName)
	}
	if doc.OrdinateName != "volume" {
		t.Errorf("expected ordinate name volume, got %s", doc.OrdinateName)
	}
	if doc.Params["width"] != 2.0 || doc.Params["depth"] != 3.0 {
		t.Errorf("unexpected params: %v", doc.Params)
	}
	if len(doc.Params) != 2 {
		t.Errorf("reserved keys leaked into params: %v", doc.Params)
	}
	if doc.Ordinates == nil || doc.Ordinates.Dimensioned {
		t.Fatalf("expected plain ordinates, got %+v", doc.Ordinates)
	}
	want := []float64{6, 12, 18}
	for i, v := range want {
		if doc.Ordinates.Magnitudes[i] != v {
			t.Errorf("ordinate %d: expected %v, got %v", i, v, doc.Ordinates.Magnitudes[i])
		}
	}
}

func TestStoreLoad_Cached(t *testing.T) {
	dir := t.TempDir()
	st := New(dir, nil)

	if _, err := st.Save("box", volumeRecord(t)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(st.Path("box"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := st.Load("box")
	if err != nil {
		t.Fatalf("expected the saved document to be served from memory: %v", err)
	}
	if doc.OrdinateName != "volume" {
		t.Errorf("unexpected document %+v", doc)
	}

	if _, err := New(dir, nil).Load("box"); !errors.Is(err, ErrBadDocument) {
		t.Errorf("a fresh store should read the file, got %v", err)
	}
}

func TestStoreLoad_ReturnsCopies(t *testing.T) {
	st := New(t.TempDir(), nil)
	if _, err := st.Save("box", volumeRecord(t)); err != nil {
		t.Fatal(err)
	}

	first, err := st.Load("box")
	if err != nil {
		t.Fatal(err)
	}
	first.Params["width"] = 100.0
	first.Abscissae[0] = "changed"
	first.Ordinates.Magnitudes[0] = -1

	second, err := st.Load("box")
	if err != nil {
		t.Fatal(err)
	}
	if second.Params["width"] != 2.0 || second.Abscissae[0] != 1.0 || second.Ordinates.Magnitudes[0] != 6 {
		t.Errorf("cached document was mutated through a loaded copy: %+v", second)
	}
}

func TestStoreLoad_Missing(t *testing.T) {
	st := New(t.TempDir(), nil)
	_, err := st.Load("nothing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	st := New(dir, nil)
	if err := os.WriteFile(filepath.Join(dir, "bad.dat"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := st.Load("bad")
	if !errors.Is(err, ErrBadDocument) {
		t.Errorf("expected ErrBadDocument, got %v", err)
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir, nil)

	names, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected 0 datasets, got %d", len(names))
	}

	for _, n := range []string{"zeta", "alpha"} {
		if _, err := st.Save(n, volumeRecord(t)); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	names, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("expected [alpha zeta], got %v", names)
	}
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"), nil)
	names, err := st.List()
	if err != nil || len(names) != 0 {
		t.Errorf("expected empty list, got %v, %v", names, err)
	}
}

func TestCodec_Dimensioned(t *testing.T) {
	calc := datac.Func("period", func(a datac.Args) (any, error) {
		x, _ := a.Float("length")
		return quantity.New(2*x, "s"), nil
	})
	rec := datac.MustNew(map[string]any{"g": "9.81 m/s^2"}, []float64{1, 2}, "length", calc)

	var buf bytes.Buffer
	if err := Encode(&buf, rec.Projection()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"unit": "s"`) {
		t.Errorf("expected unit in encoding:\n%s", buf.String())
	}

	doc, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	ords, ok := doc.AsOrdinates()
	if !ok || !ords.Dimensioned() || ords.Unit() != "s" {
		t.Fatalf("expected dimensioned ordinates in s, got %+v", doc.Ordinates)
	}
	if v := ords.Values(); v[0] != 2 || v[1] != 4 {
		t.Errorf("unexpected magnitudes %v", v)
	}
	if !rec.Sweep().Matches(doc.Sweep()) {
		t.Error("decoded sweep should match the record sweep")
	}
}

func TestCodec_ProjectionRoundTrip(t *testing.T) {
	rec := volumeRecord(t)
	doc, err := FromRecord(rec)
	if err != nil {
		t.Fatal(err)
	}

	var a, b bytes.Buffer
	if err := Encode(&a, rec.Projection()); err != nil {
		t.Fatal(err)
	}
	if err := Encode(&b, doc.Projection()); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Errorf("projection changed through the codec:\n%s\nvs\n%s", a.String(), b.String())
	}
}

func TestDecodeDocument_Invalid(t *testing.T) {
	tests := []struct {
		name string
		m    map[string]any
	}{
		{"no abscissa name", map[string]any{"abscissae": []any{1.0}}},
		{"abscissae not list", map[string]any{"abscissa_name": "x", "abscissae": "1,2"}},
		{"ordinates wrong length", map[string]any{"abscissa_name": "x", "abscissae": []any{1.0}, "ordinates": []any{1.0, 2.0}}},
		{"ordinates wrong type", map[string]any{"abscissa_name": "x", "abscissae": []any{1.0}, "ordinates": "six"}},
		{"dimensioned without magnitudes", map[string]any{"abscissa_name": "x", "abscissae": []any{1.0}, "ordinates": map[string]any{"unit": "m"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeDocument(tt.m); !errors.Is(err, ErrBadDocument) {
				t.Errorf("expected ErrBadDocument, got %v", err)
			}
		})
	}
}

func TestDecodeDocument_NoOrdinates(t *testing.T) {
	rec := datac.MustNew(map[string]any{"k": 1}, []int{1, 2}, "x", nil)
	doc, err := FromRecord(rec)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Ordinates != nil || doc.OrdinateName != "" {
		t.Errorf("expected no ordinates, got %+v", doc)
	}
	if _, ok := doc.AsOrdinates(); ok {
		t.Error("AsOrdinates should report absence")
	}
}
