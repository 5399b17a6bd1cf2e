package main

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// runValidate checks every input document against the enabled tools.
func runValidate(ctx context.Context, positional []string, f *validateFlags, deps *Dependencies) error {
	if len(positional) == 0 {
		return ErrNoInput
	}

	s, err := openSession(ctx, f.common, f.source, sessionOptions{}, deps)
	if err != nil {
		return err
	}
	defer func() { _ = s.close() }()

	var errs error
	for _, input := range positional {
		files, err := discoverFiles(input, "")
		if err != nil {
			return fmt.Errorf("discovering files: %w", err)
		}
		for _, file := range files {
			if err := validateFile(s, file.InputPath, f.required); err != nil {
				s.log.Error("invalid document", zap.String("input", file.InputPath), zap.Error(err))
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", file.InputPath, err))
				continue
			}
			if !f.common.quiet {
				fmt.Fprintf(deps.Stdout, "ok %s\n", file.InputPath)
			}
		}
	}
	return errs
}

func validateFile(s *session, path string, required bool) error {
	content, err := readDocument(path)
	if err != nil {
		return err
	}
	doc, err := s.reg.Decode(s.tools, content)
	if err != nil {
		return err
	}
	if err := doc.Validate(required); err != nil {
		return err
	}
	return s.reg.ValidateForTools(s.tools, doc)
}
