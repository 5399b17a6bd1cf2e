// Package editorjs renders block documents written by the Editor.js client
// into sanitized HTML, and validates and normalizes them on the server.
//
// # Quick Start
//
// Build a registry once at startup, register handlers, then render:
//
//	reg, err := editorjs.NewRegistry(editorjs.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := features.RegisterDefaults(reg, features.Options{Store: store}); err != nil {
//	    log.Fatal(err)
//	}
//
//	tools := features.DefaultTools(true)
//	doc, err := reg.Decode(tools, body)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := reg.Render(ctx, tools, doc)
//
// # Rendering Pipeline
//
// Render runs these stages, in order:
//
//  1. Each block is rendered by the feature named by its type. Unknown
//     types, and blocks a feature omits, are skipped.
//  2. The block's tunes decorate the result, in the order they appear in the
//     document, when registered for the block's tool or for all tools.
//  3. The blocks are joined and parsed once. Inline tools rewrite matching
//     elements; bulk inline tools resolve all of their references with a
//     single EntityStore.ResolveMany call.
//  4. The output is cleaned against the union of every active handler's
//     allowlist, seeded with basic inline formatting tags.
//
// # Writing Handlers
//
// A block feature embeds *Feature and overrides RenderBlock, calling the
// embedded Validate before its own checks:
//
//	type Alert struct{ *editorjs.Feature }
//
//	func (a *Alert) Validate(v any) error {
//	    if err := a.Feature.Validate(v); err != nil {
//	        return err
//	    }
//	    b, _ := editorjs.AsBlock(v)
//	    if !b.Data.Has("text") {
//	        return editorjs.Invalid("text", "missing")
//	    }
//	    return nil
//	}
//
// Tunes embed *Tune and implement TuneElement. Inline tools embed
// *InlineFeature and implement ResolveMatch, or use ModelInline to rewrite
// entity references in bulk.
//
// # Documents
//
// Document time is stored as Unix milliseconds. Block tunes keep the key
// order of the JSON object they were decoded from.
package editorjs
