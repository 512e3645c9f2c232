package style

import (
	"slices"
	"strings"
	"unicode"

	"pbc/css"
)

// Tree is a nested attribute tree. Values are scalars, []any or nested trees.
// Maps of type map[string]any are accepted everywhere and converted to Tree
// by Clone and Normalize.
type Tree map[string]any

// StyleKey is the top level key holding style categories.
const StyleKey = "style"

var spacingSides = []string{"top", "right", "bottom", "left"}

// Normalize returns canonical copy of attribute tree: zero dimensions
// collapsed, default values elided, empty nodes pruned. Style categories are
// expected under "style" key. Normalize is idempotent.
func Normalize(t Tree) Tree {
	out := t.Clone()
	if st, ok := AsTree(out[StyleKey]); ok {
		out[StyleKey] = normalizeStyle(st)
	}
	return prune(out)
}

// NormalizeStyle is Normalize for bare style tree (categories at the root).
func NormalizeStyle(t Tree) Tree {
	return prune(normalizeStyle(t.Clone()))
}

// normalizeStyle applies category specific rules in place.
func normalizeStyle(st Tree) Tree {
	if spacing, ok := AsTree(st["spacing"]); ok {
		for _, box := range []string{"padding", "margin"} {
			sides, ok := AsTree(spacing[box])
			if !ok {
				if s, ok := spacing[box].(string); ok {
					spacing[box] = collapseZero(s)
				}
				continue
			}
			for _, side := range spacingSides {
				if s, ok := sides[side].(string); ok {
					sides[side] = collapseZero(s)
				}
			}
		}
		switch gap := spacing["blockGap"].(type) {
		case string:
			spacing["blockGap"] = collapseZero(gap)
		case Tree:
			for k, v := range gap {
				if s, ok := v.(string); ok {
					gap[k] = collapseZero(s)
				}
			}
		}
	}

	if typo, ok := AsTree(st["typography"]); ok {
		for _, k := range []string{"letterSpacing", "wordSpacing"} {
			if s, ok := typo[k].(string); ok {
				typo[k] = collapseZero(s)
			}
		}
		if s, ok := typo["fontStyle"].(string); ok && strings.EqualFold(strings.TrimSpace(s), "normal") {
			delete(typo, "fontStyle")
		}
		if s, ok := typo["textDecoration"].(string); ok && strings.EqualFold(strings.TrimSpace(s), "none") {
			delete(typo, "textDecoration")
		}
	}
	return st
}

func collapseZero(s string) string {
	if z, ok := NormalizeZeroDimension(s); ok {
		return z
	}
	return s
}

// prune removes nil, blank strings and (after recursion) empty collections.
func prune(t Tree) Tree {
	for k, v := range t {
		if pv, keep := pruneValue(v); keep {
			t[k] = pv
		} else {
			delete(t, k)
		}
	}
	return t
}

func pruneValue(v any) (any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case string:
		return val, strings.TrimSpace(val) != ""
	case Tree:
		val = prune(val)
		return val, len(val) > 0
	case []any:
		out := make([]any, 0, len(val))
		for _, e := range val {
			if pe, keep := pruneValue(e); keep {
				out = append(out, pe)
			}
		}
		return out, len(out) > 0
	}
	return v, true
}

// AsTree accepts both Tree and map[string]any.
func AsTree(v any) (Tree, bool) {
	switch t := v.(type) {
	case Tree:
		return t, true
	case map[string]any:
		return Tree(t), true
	}
	return nil, false
}

// Clone returns deep copy. Nested map[string]any values become Tree and
// []string values become []any.
func (t Tree) Clone() Tree {
	if t == nil {
		return Tree{}
	}
	out := make(Tree, len(t))
	for k, v := range t {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Tree:
		return val.Clone()
	case map[string]any:
		return Tree(val).Clone()
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = e
		}
		return out
	}
	return v
}

// Get returns value at path.
func (t Tree) Get(path ...string) (any, bool) {
	var cur any = t
	for _, p := range path {
		m, ok := AsTree(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = m[p]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// GetTree returns sub-tree at path.
func (t Tree) GetTree(path ...string) (Tree, bool) {
	v, ok := t.Get(path...)
	if !ok {
		return nil, false
	}
	return AsTree(v)
}

// GetString returns scalar at path coerced to string, "" when absent.
func (t Tree) GetString(path ...string) string {
	v, ok := t.Get(path...)
	if !ok {
		return ""
	}
	s, _ := Scalar(v)
	return s
}

// Set stores value at path creating intermediate trees. Non tree values on the
// way are replaced.
func (t Tree) Set(v any, path ...string) {
	if len(path) == 0 {
		return
	}
	cur := t
	for _, p := range path[:len(path)-1] {
		next, ok := AsTree(cur[p])
		if !ok {
			next = Tree{}
			cur[p] = next
		}
		cur = next
	}
	cur[path[len(path)-1]] = v
}

// Delete removes value at path and prunes parents which became empty.
func (t Tree) Delete(path ...string) {
	if len(path) == 0 {
		return
	}
	if len(path) == 1 {
		delete(t, path[0])
		return
	}
	sub, ok := AsTree(t[path[0]])
	if !ok {
		return
	}
	sub.Delete(path[1:]...)
	if len(sub) == 0 {
		delete(t, path[0])
	}
}

// Leaves returns sorted dotted paths of all scalar leaves. Slices are leaves.
func (t Tree) Leaves() []string {
	var out []string
	walkLeaves(t, "", func(path string, _ any) {
		out = append(out, path)
	})
	slices.Sort(out)
	return out
}

func walkLeaves(t Tree, prefix string, fn func(path string, v any)) {
	for k, v := range t {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if sub, ok := AsTree(v); ok {
			walkLeaves(sub, path, fn)
			continue
		}
		fn(path, v)
	}
}

// Flatten turns tree into CSS-like declarations: every leaf path is joined
// with "-" and converted to kebab-case, prefix (when not empty) is the first
// path element. Declarations are ordered by path. Leaves which are not
// scalars are joined with spaces when possible and skipped otherwise.
func (t Tree) Flatten(prefix string) *css.Declarations {
	type leaf struct {
		key, value string
	}
	var leaves []leaf
	walkLeaves(t, "", func(path string, v any) {
		value, ok := flatValue(v)
		if !ok {
			return
		}
		parts := strings.Split(path, ".")
		if prefix != "" {
			parts = append([]string{prefix}, parts...)
		}
		for i := range parts {
			parts[i] = Kebab(parts[i])
		}
		leaves = append(leaves, leaf{key: strings.Join(parts, "-"), value: value})
	})
	slices.SortFunc(leaves, func(a, b leaf) int { return strings.Compare(a.key, b.key) })

	decls := css.NewDeclarations()
	for _, l := range leaves {
		decls.SetRaw(l.key, l.value)
	}
	return decls
}

func flatValue(v any) (string, bool) {
	if list, ok := v.([]any); ok {
		parts := make([]string, 0, len(list))
		for _, e := range list {
			s, ok := Scalar(e)
			if !ok {
				return "", false
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, " "), len(parts) > 0
	}
	return Scalar(v)
}

// Kebab converts camelCase identifier to kebab-case.
func Kebab(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		if r == '_' {
			r = '-'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
