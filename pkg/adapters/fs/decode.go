package fs

import (
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cast"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

// Frontmatter keys understood by the decoder.
const (
	keyUUID         = "uuid"
	keyTitle        = "title"
	keyType         = "type"
	keyStatus       = "status"
	keyTags         = "tags"
	keyCreatedAt    = "created_at"
	keyDoneAt       = "done_at"
	keyBefore       = "before"
	keyAfter        = "after"
	keyPriority     = "priority"
	keyTimeEstimate = "time_estimate"
	keyNeeds        = "needs"
	keyNext         = "next"
	keyParentID     = "parent_id"
	keyRefID        = "ref_id"
)

// decoder turns frontmatter maps into notes. Malformed optional fields are
// logged and replaced by their zero value.
type decoder struct {
	loc    *time.Location
	logger *slog.Logger
}

func (d decoder) decode(id string, meta map[string]any) (*core.Note, error) {
	typ, err := core.ParseNoteType(cast.ToString(meta[keyType]))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", id)
	}
	status, err := core.ParseStatus(cast.ToString(meta[keyStatus]))
	if err != nil {
		d.logger.Warn("ignoring unknown status", "id", id, "status", meta[keyStatus])
		status = core.StatusNone
	}

	n := &core.Note{
		ID:           id,
		UUID:         cast.ToString(meta[keyUUID]),
		Title:        cast.ToString(meta[keyTitle]),
		Type:         typ,
		Status:       status,
		Tags:         core.ParseTags(d.strings(id, keyTags, meta[keyTags])),
		CreatedAt:    d.time(id, keyCreatedAt, meta[keyCreatedAt]),
		DoneAt:       d.time(id, keyDoneAt, meta[keyDoneAt]),
		Before:       d.time(id, keyBefore, meta[keyBefore]),
		After:        d.time(id, keyAfter, meta[keyAfter]),
		Priority:     d.float(id, keyPriority, meta[keyPriority]),
		TimeEstimate: cast.ToString(meta[keyTimeEstimate]),
		Needs:        unlinkAll(d.strings(id, keyNeeds, meta[keyNeeds])),
		Next:         unlink(cast.ToString(meta[keyNext])),
		ParentID:     unlink(cast.ToString(meta[keyParentID])),
		RefID:        unlink(cast.ToString(meta[keyRefID])),
	}
	if n.UUID == "" {
		n.UUID = path.Base(id)
	}
	return n, nil
}

// strings accepts a single string or a list. Non-string items are skipped.
func (d decoder) strings(id, key string, v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []string{t}
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				d.logger.Warn("ignoring non-string value", "id", id, "key", key, "value", item)
				continue
			}
			out = append(out, s)
		}
		return out
	}
	d.logger.Warn("ignoring unrecognized value type", "id", id, "key", key, "value", v)
	return nil
}

func (d decoder) time(id, key string, v any) *time.Time {
	if v == nil || v == "" {
		return nil
	}
	t, err := cast.ToTimeInDefaultLocationE(v, d.loc)
	if err != nil {
		d.logger.Warn("ignoring malformed date", "id", id, "key", key, "value", v)
		return nil
	}
	return &t
}

func (d decoder) float(id, key string, v any) float64 {
	if v == nil || v == "" {
		return 0
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		d.logger.Warn("ignoring malformed number", "id", id, "key", key, "value", v)
		return 0
	}
	return f
}

// unlink strips Obsidian wiki-link brackets: "[[abc]]" -> "abc".
func unlink(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "[["), "]]")
	if target, _, ok := strings.Cut(s, "|"); ok {
		s = target
	}
	return s
}

func unlinkAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = unlink(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// encode is the inverse of decode for the fields a note carries.
func encode(n *core.Note) map[string]any {
	meta := map[string]any{
		keyUUID: n.UUID,
		keyType: string(n.Type),
	}
	put := func(key, v string) {
		if v != "" {
			meta[key] = v
		}
	}
	putTime := func(key string, t *time.Time) {
		if t != nil {
			meta[key] = t.Format(time.RFC3339)
		}
	}
	put(keyTitle, n.Title)
	put(keyStatus, string(n.Status))
	put(keyTimeEstimate, n.TimeEstimate)
	put(keyNext, n.Next)
	put(keyParentID, n.ParentID)
	put(keyRefID, n.RefID)
	putTime(keyCreatedAt, n.CreatedAt)
	putTime(keyDoneAt, n.DoneAt)
	putTime(keyBefore, n.Before)
	putTime(keyAfter, n.After)
	if n.Priority != 0 {
		meta[keyPriority] = n.Priority
	}
	if len(n.Tags) > 0 {
		meta[keyTags] = n.RawTags()
	}
	if len(n.Needs) > 0 {
		meta[keyNeeds] = n.Needs
	}
	return meta
}
