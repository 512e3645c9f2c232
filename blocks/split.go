package blocks

import (
	"slices"

	"go.uber.org/zap"

	"pbc/css"
	"pbc/style"
)

// SplitResult is the partition of an attribute tree for a block type.
// Native is carried by the block, External holds flattened declarations of
// style categories the block cannot carry and Dropped is the audit view of
// everything that did not stay native (externalized style sub-trees plus
// discarded simple attributes).
type SplitResult struct {
	Native   style.Tree
	External *css.Declarations
	Dropped  style.Tree
}

// Splitter partitions normalized attribute trees according to the support
// table.
type Splitter struct {
	log *zap.Logger
}

// NewSplitter creates a splitter.
func NewSplitter(log *zap.Logger) *Splitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Splitter{log: log.Named("split")}
}

// Split normalizes attrs and partitions it. Native style categories are kept
// whole and are not inspected, except letter and word spacing of native
// typography: only zero has native form there, other values go to External.
// Unknown block types externalize all style.
func (s *Splitter) Split(typ Type, attrs style.Tree) SplitResult {
	res := SplitResult{
		Native:   style.Tree{},
		External: css.NewDeclarations(),
		Dropped:  style.Tree{},
	}

	tree := style.Normalize(attrs)
	sup, known := Lookup(typ)
	if !known {
		s.log.Debug("Unknown block type, externalizing all style", zap.String("block", string(typ)))
	}

	for _, key := range sortedTreeKeys(tree) {
		value := tree[key]
		if key != style.StyleKey {
			if sup.AllowsAttr(key) {
				res.Native[key] = value
			} else {
				res.Dropped[key] = value
			}
			continue
		}

		st, ok := style.AsTree(value)
		if !ok {
			// malformed style is treated as absent
			s.log.Debug("Ignoring malformed style", zap.String("block", string(typ)), zap.Any("style", value))
			continue
		}
		for _, category := range sortedTreeKeys(st) {
			sub := st[category]
			if sup.AllowsStyle(category) {
				if category == "typography" {
					sub = res.demoteZeroOnly(sub)
				}
				if sub != nil {
					res.Native.Set(sub, style.StyleKey, category)
				}
				continue
			}
			res.External.Merge(flattenCategory(category, sub))
			res.Dropped.Set(sub, style.StyleKey, category)
		}
	}

	if res.External.Len() > 0 {
		s.log.Debug("Style externalized",
			zap.String("block", string(typ)),
			zap.String("declarations", res.External.Inline()))
	}
	return res
}

// Typography properties natively expressing zero only.
var zeroOnlyTypography = []string{"letterSpacing", "wordSpacing"}

// demoteZeroOnly moves non zero letter and word spacing of typography tree
// to External and Dropped. Returns typography left native, nil when nothing
// is left.
func (res *SplitResult) demoteZeroOnly(sub any) any {
	typo, ok := style.AsTree(sub)
	if !ok {
		return sub
	}
	var kept style.Tree
	for _, key := range zeroOnlyTypography {
		v, ok := style.Scalar(typo[key])
		if !ok {
			continue
		}
		if _, ext := style.ZeroOrExternal(v); ext != "" {
			if kept == nil {
				kept = typo.Clone()
			}
			delete(kept, key)
			res.External.SetRaw("typography-"+style.Kebab(key), ext)
			res.Dropped.Set(ext, style.StyleKey, "typography", key)
		}
	}
	switch {
	case kept == nil:
		return sub
	case len(kept) == 0:
		return nil
	}
	return kept
}

// flattenCategory flattens style category which may be a tree or a scalar
// (shadow is usually a plain string).
func flattenCategory(category string, v any) *css.Declarations {
	if sub, ok := style.AsTree(v); ok {
		return sub.Flatten(category)
	}
	return style.Tree{category: v}.Flatten("")
}

func sortedTreeKeys(t style.Tree) []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
