package editorjs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// blockIDLength matches the ids generated by the editor.
const blockIDLength = 10

// Document is a block document. Time is stored on the wire as Unix
// milliseconds.
type Document struct {
	Time    time.Time
	Version string
	Blocks  []Block

	reg   *Registry // set by Registry.ToDocument
	tools []string
}

// Block is one unit of content.
type Block struct {
	ID    string
	Type  string
	Data  Data // nil when the block carries no data key
	Tunes Tunes

	typed bool
}

// NewBlock returns a block of type kind with a fresh id.
func NewBlock(kind string, data Data) Block {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:blockIDLength]
	if data == nil {
		data = Data{}
	}
	return Block{ID: id, Type: kind, Data: data}
}

// Typed reports whether the block was converted by its feature, as opposed
// to a block of an unknown type kept as decoded.
func (b Block) Typed() bool { return b.typed }

// TuneValue is one entry of a block's tunes object.
type TuneValue struct {
	Name  string
	Value any
}

// Tunes is the ordered content of a block's tunes object. Order is the key
// order of the JSON object and is the order tunes are applied in.
type Tunes []TuneValue

// Get returns the value stored for name.
func (t Tunes) Get(name string) (any, bool) {
	for _, tv := range t {
		if tv.Name == name {
			return tv.Value, true
		}
	}
	return nil, false
}

// Set replaces the value for name in place, or appends it.
func (t *Tunes) Set(name string, v any) {
	for i := range *t {
		if (*t)[i].Name == name {
			(*t)[i].Value = v
			return
		}
	}
	*t = append(*t, TuneValue{Name: name, Value: v})
}

// Filter returns the entries for which keep returns true, in order.
func (t Tunes) Filter(keep func(name string) bool) Tunes {
	var out Tunes
	for _, tv := range t {
		if keep(tv.Name) {
			out = append(out, tv)
		}
	}
	return out
}

func (t Tunes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, tv := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(tv.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(tv.Value)
		if err != nil {
			return nil, fmt.Errorf("tune %q: %w", tv.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (t *Tunes) UnmarshalJSON(p []byte) error {
	dec := newDecoder(p)
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*t = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: tunes must be an object", ErrInvalidDocument)
	}
	var out Tunes
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("tune %q: %w", key, err)
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = out
	return nil
}

type blockJSON struct {
	ID    string `json:"id,omitempty"`
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Tunes Tunes  `json:"tunes,omitempty"`
}

func (b Block) MarshalJSON() ([]byte, error) {
	raw := blockJSON{ID: b.ID, Type: b.Type, Tunes: b.Tunes}
	if b.Data != nil {
		raw.Data = map[string]any(b.Data)
	}
	return json.Marshal(raw)
}

func (b *Block) UnmarshalJSON(p []byte) error {
	var raw struct {
		ID    string         `json:"id"`
		Type  string         `json:"type"`
		Data  map[string]any `json:"data"`
		Tunes Tunes          `json:"tunes"`
	}
	if err := newDecoder(p).Decode(&raw); err != nil {
		return err
	}
	*b = Block{ID: raw.ID, Type: raw.Type, Data: raw.Data, Tunes: raw.Tunes}
	return nil
}

type documentJSON struct {
	Time    *int64  `json:"time,omitempty"`
	Version string  `json:"version,omitempty"`
	Blocks  []Block `json:"blocks"`
}

func (d Document) MarshalJSON() ([]byte, error) {
	raw := documentJSON{Version: d.Version, Blocks: d.Blocks}
	if raw.Blocks == nil {
		raw.Blocks = []Block{}
	}
	if !d.Time.IsZero() {
		ms := d.Time.UnixMilli()
		raw.Time = &ms
	}
	return json.Marshal(raw)
}

func (d *Document) UnmarshalJSON(p []byte) error {
	var raw struct {
		Time    *json.Number `json:"time"`
		Version string       `json:"version"`
		Blocks  []Block      `json:"blocks"`
	}
	if err := newDecoder(p).Decode(&raw); err != nil {
		return err
	}
	doc := Document{Version: raw.Version, Blocks: raw.Blocks}
	if raw.Time != nil {
		t, err := parseMillis(*raw.Time)
		if err != nil {
			return err
		}
		doc.Time = t
	}
	*d = doc
	return nil
}

// parseMillis reads a Unix millisecond timestamp. Fractional milliseconds
// are truncated.
func parseMillis(n json.Number) (time.Time, error) {
	if ms, err := n.Int64(); err == nil {
		return time.UnixMilli(ms), nil
	}
	f, err := n.Float64()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q is not a timestamp", ErrInvalidDocument, n)
	}
	return time.UnixMilli(int64(f)), nil
}

// ParseDocument decodes a JSON document. An empty or null input yields an
// empty document.
func ParseDocument(p []byte) (*Document, error) {
	p = bytes.TrimSpace(p)
	doc := &Document{}
	if len(p) == 0 || bytes.Equal(p, []byte("null")) {
		return doc, nil
	}
	if err := json.Unmarshal(p, doc); err != nil {
		if errors.Is(err, ErrInvalidDocument) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return doc, nil
}

func newDecoder(p []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()
	return dec
}

// Validate checks the document envelope. When required, time and version
// must be set and blocks must not be empty. Every block needs a type.
func (d *Document) Validate(required bool) error {
	if required {
		if d.Time.IsZero() {
			return &ValidationError{Field: "time", Reason: "missing", Err: ErrInvalidDocument}
		}
		if d.Version == "" {
			return &ValidationError{Field: "version", Reason: "missing", Err: ErrInvalidDocument}
		}
		if len(d.Blocks) == 0 {
			return &ValidationError{Field: "blocks", Reason: "document has no blocks", Err: ErrInvalidDocument}
		}
	}
	for _, b := range d.Blocks {
		if b.Type == "" {
			return &ValidationError{BlockID: b.ID, Field: "type", Reason: "missing", Err: ErrInvalidDocument}
		}
	}
	return nil
}

// BlockByID returns the first block with id.
func (d *Document) BlockByID(id string) (Block, bool) {
	for _, b := range d.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

// BlocksByType returns the blocks of type kind. It is empty when kind is not
// an active feature of the document.
func (d *Document) BlocksByType(kind string) []Block {
	if !d.knows(kind) {
		return nil
	}
	var out []Block
	for _, b := range d.Blocks {
		if b.Type == kind {
			out = append(out, b)
		}
	}
	return out
}

// Range returns a copy of Blocks[start:end] with both bounds clamped.
func (d *Document) Range(start, end int) []Block {
	start, end = clampRange(start, end, len(d.Blocks))
	return slices.Clone(d.Blocks[start:end])
}

// SetRange replaces Blocks[start:end] with blocks. Bounds are clamped and an
// empty range is a no-op. Every block is verified before anything changes.
func (d *Document) SetRange(start, end int, blocks []Block) error {
	start, end = clampRange(start, end, len(d.Blocks))
	if start == end {
		return nil
	}
	verified := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		vb, err := d.verify(b)
		if err != nil {
			return err
		}
		verified = append(verified, vb)
	}
	d.Blocks = slices.Replace(d.Blocks, start, end, verified...)
	return nil
}

// Insert verifies b and inserts it at index, clamped to the block list.
func (d *Document) Insert(index int, b Block) error {
	vb, err := d.verify(b)
	if err != nil {
		return err
	}
	index = max(0, min(index, len(d.Blocks)))
	d.Blocks = slices.Insert(d.Blocks, index, vb)
	return nil
}

// Append verifies b and adds it at the end.
func (d *Document) Append(b Block) error {
	vb, err := d.verify(b)
	if err != nil {
		return err
	}
	d.Blocks = append(d.Blocks, vb)
	return nil
}

// Tools returns the tool names the document was converted for.
func (d *Document) Tools() []string {
	return slices.Clone(d.tools)
}

func (d *Document) knows(kind string) bool {
	if d.reg == nil || !slices.Contains(d.tools, kind) {
		return false
	}
	_, ok := d.reg.Handler(kind)
	return ok
}

func (d *Document) verify(b Block) (Block, error) {
	if !d.knows(b.Type) {
		return Block{}, &UnknownFeatureError{Name: b.Type}
	}
	if b.ID == "" {
		return Block{}, ErrMissingBlockID
	}
	if b.typed {
		return b, nil
	}
	h, _ := d.reg.Handler(b.Type)
	return createBlock(h, d.tools, b)
}

func clampRange(start, end, n int) (int, int) {
	end = max(min(end, n), 0)
	start = min(max(start, 0), end)
	return start, end
}
