package rules

import (
	"embed"
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/reaandrew/vmlint/core"
)

//go:embed templates/*.jinja
var templatesFS embed.FS

// renderTemplate renders one of the embedded remediation templates. This
// happens once per rule at construction, so a broken template surfaces as
// a configuration error before the run starts.
func renderTemplate(name string, ctx pongo2.Context) (string, error) {
	raw, err := templatesFS.ReadFile(fmt.Sprintf("templates/%s.jinja", name))
	if err != nil {
		return "", fmt.Errorf("%w: missing remediation template %q", core.ErrConfiguration, name)
	}

	tpl, err := pongo2.FromBytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: remediation template %q: %v", core.ErrConfiguration, name, err)
	}

	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: rendering remediation template %q: %v", core.ErrConfiguration, name, err)
	}
	return strings.TrimSpace(out), nil
}
