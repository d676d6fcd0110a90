package bootstrap

import "strings"

// RenderReadme substitutes the first <Project Name> with name. An empty name
// returns tmpl unchanged.
func RenderReadme(tmpl, name string) string {
	if name == "" {
		return tmpl
	}
	return strings.Replace(tmpl, projectPlaceholder, name, 1)
}
