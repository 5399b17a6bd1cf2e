package editorjs

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantTime time.Time
		wantN    int
		wantErr  error
	}{
		{name: "empty input", input: "  "},
		{name: "null", input: "null"},
		{name: "milliseconds", input: `{"time":1700000000123,"blocks":[]}`, wantTime: time.UnixMilli(1700000000123)},
		{name: "fractional milliseconds truncated", input: `{"time":1700000000123.9,"blocks":[]}`, wantTime: time.UnixMilli(1700000000123)},
		{name: "blocks", input: `{"blocks":[{"id":"a","type":"paragraph","data":{"text":"x"}},{"type":"delimiter"}]}`, wantN: 2},
		{name: "malformed JSON", input: `{"blocks":[`, wantErr: ErrInvalidDocument},
		{name: "time is not a number", input: `{"time":"soon","blocks":[]}`, wantErr: ErrInvalidDocument},
		{name: "tunes not an object", input: `{"blocks":[{"type":"p","tunes":[1]}]}`, wantErr: ErrInvalidDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc, err := ParseDocument([]byte(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseDocument() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDocument() error = %v", err)
			}
			if !doc.Time.Equal(tt.wantTime) {
				t.Errorf("Time = %v, want %v", doc.Time, tt.wantTime)
			}
			if len(doc.Blocks) != tt.wantN {
				t.Errorf("len(Blocks) = %d, want %d", len(doc.Blocks), tt.wantN)
			}
		})
	}
}

func TestDocument_JSON(t *testing.T) {
	t.Parallel()

	const src = `{"time":1700000000123,"version":"2.28.0","blocks":[{"id":"a","type":"paragraph","data":{"n":3,"text":"x"},"tunes":{"zeta":"z","alpha":{"k":1}}},{"type":"delimiter"}]}`
	doc, err := ParseDocument([]byte(src))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}

	tunes := doc.Blocks[0].Tunes
	if len(tunes) != 2 || tunes[0].Name != "zeta" || tunes[1].Name != "alpha" {
		t.Fatalf("Tunes = %+v, want zeta then alpha", tunes)
	}
	if doc.Blocks[1].Data != nil {
		t.Errorf("Data = %v, want nil when the key is absent", doc.Blocks[1].Data)
	}
	if n, ok := doc.Blocks[0].Data.Int("n"); !ok || n != 3 {
		t.Errorf("Data.Int(n) = %d, %v", n, ok)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != src {
		t.Errorf("Marshal() =\n%s\nwant\n%s", out, src)
	}
}

func TestDocument_MarshalEmpty(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(Document{})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"blocks":[]}` {
		t.Errorf("Marshal() = %s", out)
	}
}

func TestTunes_Set(t *testing.T) {
	t.Parallel()

	var tunes Tunes
	tunes.Set("a", 1)
	tunes.Set("b", 2)
	tunes.Set("a", 3)
	if len(tunes) != 2 || tunes[0].Name != "a" || tunes[0].Value != 3 {
		t.Errorf("Tunes = %+v, want a=3 kept first", tunes)
	}
	if v, ok := tunes.Get("b"); !ok || v != 2 {
		t.Errorf("Get(b) = %v, %v", v, ok)
	}
	if _, ok := tunes.Get("c"); ok {
		t.Error("Get(c) found a value")
	}
}

func TestDocument_Validate(t *testing.T) {
	t.Parallel()

	full := &Document{Time: time.UnixMilli(1), Version: "2.28.0", Blocks: []Block{{ID: "a", Type: "paragraph"}}}

	tests := []struct {
		name     string
		doc      *Document
		required bool
		field    string
	}{
		{name: "complete document", doc: full, required: true},
		{name: "empty is fine when not required", doc: &Document{}},
		{name: "missing time", doc: &Document{Version: "1", Blocks: full.Blocks}, required: true, field: "time"},
		{name: "missing version", doc: &Document{Time: full.Time, Blocks: full.Blocks}, required: true, field: "version"},
		{name: "no blocks", doc: &Document{Time: full.Time, Version: "1"}, required: true, field: "blocks"},
		{name: "block without type", doc: &Document{Blocks: []Block{{ID: "z"}}}, field: "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.doc.Validate(tt.required)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
			if !errors.Is(err, ErrInvalidDocument) || !errors.Is(err, ErrValidation) {
				t.Errorf("error %v does not match both sentinels", err)
			}
		})
	}
}

func threeParagraphs(t *testing.T) *Document {
	t.Helper()
	r := newTestRegistry(t, nil)
	return decode(t, r, []string{"paragraph", "hidden"}, `{"blocks":[
		{"id":"a","type":"paragraph","data":{"text":"A"}},
		{"id":"b","type":"paragraph","data":{"text":"B"}},
		{"id":"c","type":"hidden","data":{}}
	]}`)
}

func blockIDs(blocks []Block) string {
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
	}
	return strings.Join(ids, ",")
}

func TestDocument_Range(t *testing.T) {
	t.Parallel()

	doc := threeParagraphs(t)
	tests := []struct {
		start, end int
		want       string
	}{
		{0, 3, "a,b,c"},
		{1, 2, "b"},
		{-5, 1, "a"},
		{2, 99, "c"},
		{2, 1, ""},
		{5, 9, ""},
	}
	for _, tt := range tests {
		if got := blockIDs(doc.Range(tt.start, tt.end)); got != tt.want {
			t.Errorf("Range(%d, %d) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}

	got := doc.Range(0, 1)
	got[0].ID = "changed"
	if doc.Blocks[0].ID != "a" {
		t.Error("Range() did not return a copy")
	}
}

func TestDocument_SetRange(t *testing.T) {
	t.Parallel()

	t.Run("replaces and verifies", func(t *testing.T) {
		t.Parallel()
		doc := threeParagraphs(t)
		nb := NewBlock("paragraph", Data{"text": "N"})
		if err := doc.SetRange(0, 2, []Block{nb}); err != nil {
			t.Fatalf("SetRange() error = %v", err)
		}
		if got := blockIDs(doc.Blocks); got != nb.ID+",c" {
			t.Errorf("Blocks = %q", got)
		}
		if !doc.Blocks[0].Typed() {
			t.Error("inserted block not typed")
		}
	})

	t.Run("empty range is a no-op", func(t *testing.T) {
		t.Parallel()
		doc := threeParagraphs(t)
		if err := doc.SetRange(2, 2, []Block{{Type: "nope"}}); err != nil {
			t.Fatalf("SetRange() error = %v", err)
		}
		if got := blockIDs(doc.Blocks); got != "a,b,c" {
			t.Errorf("Blocks = %q", got)
		}
	})

	t.Run("invalid block leaves the document unchanged", func(t *testing.T) {
		t.Parallel()
		doc := threeParagraphs(t)
		err := doc.SetRange(0, 3, []Block{NewBlock("paragraph", nil), {ID: "x", Type: "mystery"}})
		if !errors.Is(err, ErrUnknownFeature) {
			t.Fatalf("SetRange() error = %v, want ErrUnknownFeature", err)
		}
		if got := blockIDs(doc.Blocks); got != "a,b,c" {
			t.Errorf("Blocks = %q", got)
		}
	})
}

func TestDocument_InsertAppend(t *testing.T) {
	t.Parallel()

	doc := threeParagraphs(t)

	first := NewBlock("paragraph", Data{"text": "first"})
	if err := doc.Insert(-3, first); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	last := NewBlock("hidden", nil)
	if err := doc.Append(last); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if got := blockIDs(doc.Blocks); got != first.ID+",a,b,c,"+last.ID {
		t.Errorf("Blocks = %q", got)
	}

	if err := doc.Insert(0, Block{Type: "paragraph"}); !errors.Is(err, ErrMissingBlockID) {
		t.Errorf("Insert(no id) error = %v, want ErrMissingBlockID", err)
	}
	if err := doc.Append(NewBlock("link", nil)); !errors.Is(err, ErrUnknownFeature) {
		t.Errorf("Append(inactive) error = %v, want ErrUnknownFeature", err)
	}
	if err := (&Document{}).Append(NewBlock("paragraph", nil)); !errors.Is(err, ErrUnknownFeature) {
		t.Errorf("Append() on an unconverted document error = %v, want ErrUnknownFeature", err)
	}
}

func TestDocument_Lookup(t *testing.T) {
	t.Parallel()

	doc := threeParagraphs(t)
	if got := blockIDs(doc.BlocksByType("paragraph")); got != "a,b" {
		t.Errorf("BlocksByType(paragraph) = %q", got)
	}
	if got := doc.BlocksByType("link"); got != nil {
		t.Errorf("BlocksByType(inactive) = %v, want nil", got)
	}
	if b, ok := doc.BlockByID("b"); !ok || b.Data.String("text") != "B" {
		t.Errorf("BlockByID(b) = %+v, %v", b, ok)
	}
	if _, ok := doc.BlockByID("zz"); ok {
		t.Error("BlockByID(zz) found a block")
	}
	if got := doc.Tools(); len(got) != 2 {
		t.Errorf("Tools() = %v", got)
	}
}

func TestNewBlock(t *testing.T) {
	t.Parallel()

	a := NewBlock("paragraph", nil)
	b := NewBlock("paragraph", nil)
	if len(a.ID) != blockIDLength {
		t.Errorf("len(ID) = %d, want %d", len(a.ID), blockIDLength)
	}
	if a.ID == b.ID {
		t.Error("NewBlock() returned the same id twice")
	}
	if a.Data == nil {
		t.Error("Data = nil, want empty")
	}
}
