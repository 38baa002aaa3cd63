package core

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// PathMatcher compiles a single Swagger path template (e.g.
// "/pet/{petId}/uploadImage") into an anchored regex and the ordered list
// of its {name} capture names, per §4.A.
type PathMatcher struct {
	template    string
	regex       *regexp.Regexp
	paramNames  []string
	specificity int
}

// NewPathMatcher compiles template into a PathMatcher. It rejects an empty
// template, an unclosed "{", an empty "{}" name, and a template that
// repeats the same {name} token — the last of which resolves the
// positional-mapping ambiguity noted for path parameters by making a
// non-unique template a construction-time error instead of a silent
// mis-mapping.
func NewPathMatcher(template string) (*PathMatcher, error) {
	if template == "" {
		return nil, fmt.Errorf("path template cannot be empty")
	}

	var regexBuf strings.Builder
	regexBuf.WriteString("^")

	var paramNames []string
	specificity := 0

	i := 0
	for i < len(template) {
		if template[i] == '{' {
			end := strings.Index(template[i:], "}")
			if end == -1 {
				return nil, fmt.Errorf("unclosed path parameter at position %d in template %q", i, template)
			}

			paramName := template[i+1 : i+end]
			if paramName == "" {
				return nil, fmt.Errorf("empty path parameter at position %d in template %q", i, template)
			}

			for _, existing := range paramNames {
				if existing == paramName {
					return nil, fmt.Errorf("duplicate path parameter %q in template %q", paramName, template)
				}
			}

			paramNames = append(paramNames, paramName)
			regexBuf.WriteString("([^/]+)")

			i += end + 1
			specificity--
		} else {
			c := template[i]
			if strings.ContainsRune(`\.+*?()|[]{}^$`, rune(c)) {
				regexBuf.WriteByte('\\')
			}
			regexBuf.WriteByte(c)
			i++

			if c != '/' {
				specificity++
			}
		}
	}

	regexBuf.WriteString("$")

	regex, err := regexp.Compile(regexBuf.String())
	if err != nil {
		return nil, fmt.Errorf("failed to compile path pattern for template %q: %w", template, err)
	}

	return &PathMatcher{
		template:    template,
		regex:       regex,
		paramNames:  paramNames,
		specificity: specificity,
	}, nil
}

// Match reports whether path satisfies the template and, if so, returns
// the captured {name} -> value map.
func (pm *PathMatcher) Match(path string) (bool, map[string]string) {
	matches := pm.regex.FindStringSubmatch(path)
	if matches == nil {
		return false, nil
	}
	if len(matches) != len(pm.paramNames)+1 {
		return false, nil
	}

	params := make(map[string]string, len(pm.paramNames))
	for i, name := range pm.paramNames {
		params[name] = matches[i+1]
	}
	return true, params
}

// Template returns the original path template.
func (pm *PathMatcher) Template() string { return pm.template }

// ParamNames returns the {name} tokens in declaration order.
func (pm *PathMatcher) ParamNames() []string { return pm.paramNames }

// PathMatcherSet orders a collection of PathMatchers so the most specific
// template wins when more than one could match a URL.
type PathMatcherSet struct {
	matchers []*PathMatcher
}

// NewPathMatcherSet compiles templates and orders them by specificity
// (highest first), then template length (longest first), then
// lexicographically, mirroring the precedence rules implied by §4.A/§4.J.
func NewPathMatcherSet(templates []string) (*PathMatcherSet, error) {
	matchers := make([]*PathMatcher, 0, len(templates))
	for _, template := range templates {
		matcher, err := NewPathMatcher(template)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, matcher)
	}

	sort.Slice(matchers, func(i, j int) bool {
		if matchers[i].specificity != matchers[j].specificity {
			return matchers[i].specificity > matchers[j].specificity
		}
		if len(matchers[i].template) != len(matchers[j].template) {
			return len(matchers[i].template) > len(matchers[j].template)
		}
		return matchers[i].template < matchers[j].template
	})

	return &PathMatcherSet{matchers: matchers}, nil
}

// Match returns the first matching template, its captured parameters, and
// whether any matcher matched path.
func (pms *PathMatcherSet) Match(path string) (template string, params map[string]string, found bool) {
	for _, matcher := range pms.matchers {
		if matched, p := matcher.Match(path); matched {
			return matcher.template, p, true
		}
	}
	return "", nil, false
}

// Templates returns all path templates in the set, in match order.
func (pms *PathMatcherSet) Templates() []string {
	templates := make([]string, len(pms.matchers))
	for i, m := range pms.matchers {
		templates[i] = m.template
	}
	return templates
}
