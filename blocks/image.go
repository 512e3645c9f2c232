package blocks

import (
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"golang.org/x/net/html"

	"pbc/style"
)

// ImageClasses returns figure class list of image block rebuilt from
// attributes.
func ImageClasses(attrs style.Tree) []string {
	classes := []string{"wp-block-image"}
	add := func(c string) {
		if c != "" && !slices.Contains(classes, c) {
			classes = append(classes, c)
		}
	}

	if align := style.SanitizeKeyword(attrs.GetString("align"), alignments...); align != "" {
		add("align" + align)
	}
	if size := slug.Make(attrs.GetString("sizeSlug")); size != "" {
		add("size-" + size)
	}
	if attrs.GetString("width") != "" || attrs.GetString("height") != "" {
		add("is-resized")
	}
	if _, ok := attrs.Get(style.StyleKey, "border"); ok {
		add("has-custom-border")
	}
	for _, c := range CustomClasses(attrs.GetString("className")) {
		add(c)
	}
	return classes
}

// isAutoImageClass reports classes generated from image attributes, those
// are always rebuilt.
func isAutoImageClass(c string) bool {
	switch {
	case c == "wp-block-image", c == "is-resized", c == "has-custom-border":
		return true
	case strings.HasPrefix(c, "size-"):
		return true
	case strings.HasPrefix(c, "align"):
		return slices.Contains(alignments, strings.TrimPrefix(c, "align"))
	}
	return false
}

// NormalizeImage rewrites class attribute of the first figure element in
// content: stale generated classes are removed and current ones are put
// first. The rest of the markup is kept byte for byte. Content without
// figure is wrapped into one, empty content is returned unchanged.
func NormalizeImage(attrs style.Tree, content string) string {
	if strings.TrimSpace(content) == "" {
		return content
	}

	classes := ImageClasses(attrs)

	z := html.NewTokenizer(strings.NewReader(content))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := len(z.Raw())
		if tt != html.StartTagToken {
			offset += raw
			continue
		}
		name, hasAttr := z.TagName()
		if string(name) != "figure" {
			offset += raw
			continue
		}

		var tagAttrs []html.Attribute
		for hasAttr {
			var key, val []byte
			key, val, hasAttr = z.TagAttr()
			tagAttrs = append(tagAttrs, html.Attribute{Key: string(key), Val: string(val)})
		}
		tag := figureTag(tagAttrs, classes)
		return content[:offset] + tag + content[offset+raw:]
	}

	return `<figure class="` + strings.Join(classes, " ") + `">` + content + `</figure>`
}

// figureTag renders figure start tag with class attribute replaced, other
// attributes keep their order.
func figureTag(attrs []html.Attribute, classes []string) string {
	merged := slices.Clone(classes)
	for _, a := range attrs {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if !isAutoImageClass(c) && !slices.Contains(merged, c) {
				merged = append(merged, c)
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("<figure")
	writeAttr(&sb, "class", strings.Join(merged, " "))
	for _, a := range attrs {
		if a.Key == "class" {
			continue
		}
		writeAttr(&sb, a.Key, a.Val)
	}
	sb.WriteByte('>')
	return sb.String()
}
