package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alnah/go-editorjs/internal/yamlutil"
)

// runConfig prints the client-side editor configuration.
func runConfig(ctx context.Context, f *configFlags, deps *Dependencies) error {
	s, err := openSession(ctx, f.common, f.source, sessionOptions{}, deps)
	if err != nil {
		return err
	}
	defer func() { _ = s.close() }()

	s.rc.WidgetID = f.widget
	cfg, err := s.reg.BuildConfig(s.tools, s.rc)
	if err != nil {
		return fmt.Errorf("building editor config: %w", err)
	}

	var out []byte
	if f.yaml {
		out, err = yamlutil.Marshal(cfg)
	} else {
		out, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding editor config: %w", err)
	}
	_, err = fmt.Fprintln(deps.Stdout, string(out))
	return err
}
