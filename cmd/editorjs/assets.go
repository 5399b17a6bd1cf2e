package main

import (
	"context"
	"fmt"
)

// runAssets lists the scripts and stylesheets of the enabled tools in load
// order, optionally followed by their include templates.
func runAssets(ctx context.Context, f *assetsFlags, deps *Dependencies) error {
	s, err := openSession(ctx, f.common, f.source, sessionOptions{}, deps)
	if err != nil {
		return err
	}
	defer func() { _ = s.close() }()

	js, css := s.reg.Assets(s.tools)
	for _, p := range js {
		fmt.Fprintf(deps.Stdout, "js  %s\n", p)
	}
	for _, p := range css {
		fmt.Fprintf(deps.Stdout, "css %s\n", p)
	}

	if f.templates {
		html, err := s.reg.RenderTemplates(s.tools, s.rc)
		if err != nil {
			return fmt.Errorf("rendering templates: %w", err)
		}
		if html != "" {
			fmt.Fprintln(deps.Stdout, string(html))
		}
	}
	return nil
}
