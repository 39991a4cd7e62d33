// Package gonext classifies and reports on a personal knowledge and task
// base kept as Markdown notes with YAML frontmatter.
//
// Notes carry a type, a status and hierarchical tags such as area/work or
// component/go/testing, plus reference fields: needs (task dependencies),
// next (the successor revision), parent_id and ref_id. On top of a note
// store gonext resolves the effective tag of each namespace, decides
// whether a task is doable now, finds the latest revision of a note and
// groups collections by domain, component and area.
//
// Reports come out as a flat list of instructions (headers, paragraphs,
// tables and stats) that a renderer draws; a report that fails yields no
// instruction at all.
//
// Usage:
//
//	v, err := gonext.New("./vault", gonext.WithReadOnly(true))
//	if err != nil {
//		return err
//	}
//	defer v.Close()
//
//	ins, err := v.Generate(ctx, "doable", gonext.ReportContext{})
//
// The store is a directory of Markdown files by default. A SQLite snapshot
// of the frontmatter or an in-memory store can take its place; see
// WithStoreKind and WithStore.
package gonext
