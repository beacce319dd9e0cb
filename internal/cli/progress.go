package cli

import (
	"fmt"
	"io"
	"os"
)

// buildReport prints one line per build stage. A nil report is silent.
type buildReport struct {
	out io.Writer
}

func newBuildReport(out io.Writer) *buildReport {
	if out == nil {
		return nil
	}
	return &buildReport{out: out}
}

func (r *buildReport) stage(name, format string, args ...any) {
	if r == nil {
		return
	}
	fmt.Fprintf(r.out, "%-9s %s\n", name+":", fmt.Sprintf(format, args...))
}

func (r *buildReport) queued(queued, planned int) {
	if skipped := planned - queued; skipped > 0 {
		r.stage("queued", "%d of %d plan tasks (%d skipped as duplicates)", queued, planned, skipped)
		return
	}
	r.stage("queued", "%d plan tasks", planned)
}

func (r *buildReport) rendered(rendered, queued, helpers int) {
	detail := fmt.Sprintf("%d of %d tasks", rendered, queued)
	if empty := queued - rendered; empty > 0 {
		detail += fmt.Sprintf(", %d empty", empty)
	}
	if helpers > 0 {
		detail += fmt.Sprintf(", %d %s", helpers, plural(helpers, "helper", "helpers"))
	}
	r.stage("rendered", "%s", detail)
}

func (r *buildReport) failed(name string, err error) {
	r.stage(name, "failed: %v", err)
}

// progressEnabled reports whether build stages go to stderr.
func progressEnabled() bool {
	if IsJSONOutput() || IsJSONLOutput() {
		return false
	}
	if noProgress || IsNonInteractive() {
		return false
	}
	if _, ok := os.LookupEnv("FIGSCRIPT_NO_PROGRESS"); ok {
		return false
	}
	return true
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
