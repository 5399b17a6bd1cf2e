package yamlutil_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-editorjs/internal/yamlutil"
)

type toolConfig struct {
	Tools []string `yaml:"tools"`
	Clean bool     `yaml:"clean"`
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		target  any
		opts    []yamlutil.Option
		wantErr error
		wantMsg string
	}{
		{name: "valid", data: "tools: [paragraph, header]\nclean: true", target: &toolConfig{}},
		{name: "unknown key is ignored by default", data: "tools: [a]\nextra: 1", target: &toolConfig{}},
		{name: "unknown key rejected when strict", data: "tools: [a]\nextra: 1", target: &toolConfig{}, opts: []yamlutil.Option{yamlutil.Strict()}, wantMsg: "yamlutil:"},
		{name: "empty", data: "", target: &toolConfig{}, wantErr: yamlutil.ErrEmpty},
		{name: "nil target", data: "tools: []", wantErr: yamlutil.ErrNilTarget},
		{name: "syntax error", data: "tools: [unclosed", target: &toolConfig{}, wantMsg: "yamlutil:"},
		{name: "over the size limit", data: "tools: [paragraph]", target: &toolConfig{}, opts: []yamlutil.Option{yamlutil.MaxSize(8)}, wantErr: yamlutil.ErrTooLarge},
		{name: "non-positive size keeps the default", data: "tools: [paragraph]", target: &toolConfig{}, opts: []yamlutil.Option{yamlutil.MaxSize(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := yamlutil.Decode([]byte(tt.data), tt.target, tt.opts...)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			case tt.wantMsg != "":
				if err == nil || !strings.HasPrefix(err.Error(), tt.wantMsg) {
					t.Errorf("error = %v, want prefix %q", err, tt.wantMsg)
				}
			case err != nil:
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDecode_Values(t *testing.T) {
	t.Parallel()

	var cfg toolConfig
	if err := yamlutil.UnmarshalStrict([]byte("tools: [paragraph, 見出し]\nclean: true"), &cfg); err != nil {
		t.Fatalf("UnmarshalStrict() error = %v", err)
	}
	if len(cfg.Tools) != 2 || cfg.Tools[1] != "見出し" || !cfg.Clean {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestDecode_SizeMessage(t *testing.T) {
	t.Parallel()

	err := yamlutil.Decode(make([]byte, 100), &toolConfig{}, yamlutil.MaxSize(50))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	for _, want := range []string{"100 bytes", "max 50"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error = %q, want %q", err, want)
		}
	}
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	out, err := yamlutil.Marshal(toolConfig{Tools: []string{"paragraph"}, Clean: true})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(out)
	for _, want := range []string{"tools:", "- paragraph", "clean: true"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}

	var back toolConfig
	if err := yamlutil.UnmarshalStrict(out, &back); err != nil {
		t.Fatalf("UnmarshalStrict() error = %v", err)
	}
	if len(back.Tools) != 1 || back.Tools[0] != "paragraph" || !back.Clean {
		t.Errorf("decoded = %+v", back)
	}
}

func TestToJSON(t *testing.T) {
	t.Parallel()

	src := `time: 1700000000123
version: 2.28.0
blocks:
  - id: a
    type: paragraph
    data:
      text: Hello
    tunes:
      text-alignment-tune:
        alignment: center
`
	out, err := yamlutil.ToJSON([]byte(src))
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	var doc struct {
		Time    int64  `json:"time"`
		Version string `json:"version"`
		Blocks  []struct {
			ID    string                    `json:"id"`
			Type  string                    `json:"type"`
			Data  map[string]any            `json:"data"`
			Tunes map[string]map[string]any `json:"tunes"`
		} `json:"blocks"`
	}
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if doc.Time != 1700000000123 || doc.Version != "2.28.0" {
		t.Errorf("header = %d %q", doc.Time, doc.Version)
	}
	if len(doc.Blocks) != 1 || doc.Blocks[0].Data["text"] != "Hello" {
		t.Fatalf("blocks = %+v", doc.Blocks)
	}
	if doc.Blocks[0].Tunes["text-alignment-tune"]["alignment"] != "center" {
		t.Errorf("tunes = %+v", doc.Blocks[0].Tunes)
	}

	if _, err := yamlutil.ToJSON(nil); !errors.Is(err, yamlutil.ErrEmpty) {
		t.Errorf("ToJSON(nil) error = %v, want ErrEmpty", err)
	}
}

func TestIsYAML(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"doc.yaml":     true,
		"doc.YML":      true,
		"dir/doc.yml":  true,
		"doc.json":     false,
		"doc.yaml.bak": false,
		"yaml":         false,
	}
	for path, want := range tests {
		if got := yamlutil.IsYAML(path); got != want {
			t.Errorf("IsYAML(%q) = %v, want %v", path, got, want)
		}
	}
}
