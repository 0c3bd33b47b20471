package extract

import (
	"regexp"
	"strings"
)

// xmlExtractor handles Android markup: layout files yield class usages,
// values files yield resource declarations, and any markup file can
// reference resources with @type/name.
type xmlExtractor struct{}

func (xmlExtractor) Language() string { return "xml" }

var (
	xmlClassTagPattern = regexp.MustCompile(`<\s*((?:[a-z]\w*\.)+[A-Z]\w*)`)
	xmlClassAttrPattern = regexp.MustCompile(
		`(?:class|android:name|tools:context)="((?:[a-z]\w*\.)+[A-Z]\w*)"`)
	xmlResourceDeclPattern = regexp.MustCompile(
		`<(string|color|dimen|style|bool|integer|item|attr|plurals|declare-styleable|string-array|integer-array|array)[^>]*\sname="([^"]+)"`)
	xmlResourceRefPattern = regexp.MustCompile(
		`@(string|color|drawable|dimen|style|id|layout|mipmap|font|anim|animator|menu|raw|plurals|array|xml|navigation)/([\w.]+)`)
)

func (xmlExtractor) Extract(path string, content []byte) (*Result, error) {
	lines := splitLines(content)
	res := &Result{}

	isValues := strings.Contains(path, "/res/values")
	for i, line := range lines {
		lineNo := i + 1
		for _, m := range xmlClassTagPattern.FindAllStringSubmatch(line, -1) {
			res.XMLUsages = append(res.XMLUsages, XMLUsage{ClassName: m[1], Line: lineNo})
		}
		for _, m := range xmlClassAttrPattern.FindAllStringSubmatch(line, -1) {
			res.XMLUsages = append(res.XMLUsages, XMLUsage{ClassName: m[1], Line: lineNo})
		}
		if isValues {
			for _, m := range xmlResourceDeclPattern.FindAllStringSubmatch(line, -1) {
				res.Resources = append(res.Resources, Resource{ResType: m[1], Name: m[2]})
			}
		}
		for _, m := range xmlResourceRefPattern.FindAllStringSubmatch(line, -1) {
			res.ResourceUsages = append(res.ResourceUsages, ResourceUsage{
				ResType: m[1], Name: m[2], Line: lineNo,
			})
		}
	}
	return res, nil
}
