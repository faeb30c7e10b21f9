package reload

import "strings"

// turboRuntimeEntry identifies the Turbo runtime bundle inside a served
// module path. Only this one module ever gets the snippet appended.
const turboRuntimeEntry = "@hotwired/turbo/dist/turbo.es2017-esm.js"

// turboRefreshSnippet subscribes the client runtime to the hot-update signal
// filtered to the turbo-refresh event and asks Turbo to render a refresh.
const turboRefreshSnippet = `
if (import.meta.hot) {
  import.meta.hot.on("` + TurboRefreshEvent + `", () => {
    window.Turbo.session.refresh(document.baseURI);
  });
}
`

// TransformContext carries the details of one transform invocation. TestEnv
// mirrors the test-runner environment flag and is passed explicitly instead
// of being read from the process environment.
type TransformContext struct {
	SSR     bool
	TestEnv bool
}

// IsTurboRuntime reports whether id names the Turbo runtime bundle.
func IsTurboRuntime(id string) bool {
	return strings.Contains(id, turboRuntimeEntry)
}

// TransformRuntime appends the refresh listener to the Turbo runtime bundle.
// It returns the (possibly unchanged) content and whether it was modified.
// Content is only ever appended, never rewritten. Server-side rendering
// passes are skipped unless the test-runner flag keeps them deterministic.
func (o *Orchestrator) TransformRuntime(id, code string, ctx TransformContext) (string, bool) {
	if !o.config.Turbo {
		return code, false
	}
	if ctx.SSR && !ctx.TestEnv {
		return code, false
	}
	if !IsTurboRuntime(id) {
		return code, false
	}
	return code + turboRefreshSnippet, true
}
