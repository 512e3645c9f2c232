package convert

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"pbc/config"
	"pbc/state"
)

// Artifact extensions, every document produces set of files sharing the same
// base name.
const (
	extMarkup     = ".html"
	extStylesheet = ".css"
	extFonts      = ".fonts.json"
	extInventory  = ".inventory.txt"
)

// buildOutputBase returns output path of the document without extension. It
// uses either document id or user-defined template and takes into account
// whether to preserve source directory structure on the output. Path is
// cleaned up and if requested transliterated.
func buildOutputBase(doc *Source, src string, index int, dst string, env *state.LocalEnv) string {
	outDir := determineOutputDir(src, dst, env)
	defaultBase := filepath.Join(outDir, cleanPathSegment(doc.ID, env))

	tmpl := env.Cfg.Conversion.OutputNameTemplate
	if tmpl == "" {
		return defaultBase
	}

	expandedName := expandOutputNameTemplate(doc, src, index, tmpl, env)
	if expandedName == "" {
		// fallback to default name if template expansion failed
		return defaultBase
	}
	return assemblePathWithSubdirs(outDir, expandedName, env)
}

func determineOutputDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(src))
}

func expandOutputNameTemplate(doc *Source, src string, index int, tmpl string, env *state.LocalEnv) string {
	values := newValues(config.OutputNameTemplateFieldName, doc, src, index)
	expandedName, err := expandTemplate(config.OutputNameTemplateFieldName, tmpl, values)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.String("id", doc.ID), zap.Error(err))
		return ""
	}
	return filepath.FromSlash(expandedName)
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output path,
// cleaning and transliterating segments as needed.
func assemblePathWithSubdirs(outDir, expandedName string, env *state.LocalEnv) string {
	segments := splitAndCleanPath(expandedName)
	if len(segments) == 0 {
		return outDir
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, outDir)
	for _, segment := range segments {
		parts = append(parts, cleanPathSegment(segment, env))
	}
	return filepath.Join(parts...)
}

// splitAndCleanPath splits path into segments dropping empty, "." and ".."
// ones, so template cannot escape destination directory.
func splitAndCleanPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); ; head, tail = filepath.Split(head) {
		if tail != "" && tail != "." && tail != ".." {
			segments = slices.Insert(segments, 0, tail)
		}
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" || head == path {
			break
		}
		path = head
	}
	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Conversion.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
