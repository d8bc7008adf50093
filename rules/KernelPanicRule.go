package rules

import (
	"github.com/flosch/pongo2/v6"

	"github.com/reaandrew/vmlint/core"
	"github.com/reaandrew/vmlint/queries"
	"github.com/reaandrew/vmlint/search"
)

const rescueDocURL = "https://cloud.google.com/compute/docs/troubleshooting/rescue-vm"

// Signatures of a crashed or unbootable kernel.
var kernelPanicErrorMessages = []string{
	"Kernel panic - not syncing",
	"kernel BUG at",
	"Unable to mount root fs on unknown-block",
}

const kernelPanicFilter = `textPayload:("Kernel panic" OR "kernel BUG at" OR "Unable to mount root fs")`

// NewKernelPanicRule builds the rule that flags instances whose serial
// output shows a kernel panic or an unbootable root filesystem.
func NewKernelPanicRule(searches *search.Registry, env queries.Environment) (core.Rule, error) {
	patterns, err := search.NewPatternSet(kernelPanicErrorMessages, kernelPanicFilter)
	if err != nil {
		return nil, err
	}

	remediation, err := renderTemplate("kernelpanic", pongo2.Context{"rescue_doc": rescueDocURL})
	if err != nil {
		return nil, err
	}

	return &serialLogRule{
		id:          "serial/kernel-panic",
		patterns:    patterns,
		summary:     "Kernel panic detected",
		remediation: remediation,
		searches:    searches,
		env:         env,
	}, nil
}
