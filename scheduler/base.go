package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ACCESS-NRI/hpcpy/render"
)

// base carries what every variant needs: the executor, a tagged logger and
// the scratch directory for rendered job scripts.
type base struct {
	exec      Executor
	logger    *slog.Logger
	scriptDir string
}

// Option configures a client variant at construction time.
type Option func(*base)

// WithScriptDir overrides the directory rendered job scripts are written to.
func WithScriptDir(dir string) Option {
	return func(b *base) { b.scriptDir = dir }
}

func newBase(exec Executor, logger *slog.Logger, name string, opts ...Option) base {
	if logger == nil {
		logger = slog.Default()
	}
	b := base{
		exec:      exec,
		logger:    logger.With("client", name),
		scriptDir: render.DefaultScriptDir(),
	}
	for _, o := range opts {
		o(&b)
	}
	return b
}

// RenderJobScript renders templatePath with tmplContext and writes the result
// into the scratch directory, returning the rendered script's path.
func (b *base) RenderJobScript(templatePath string, tmplContext map[string]any) (string, error) {
	return render.WriteScript(templatePath, b.scriptDir, tmplContext)
}

// scriptToSubmit resolves the script path for a request, rendering first when
// asked to.
func (b *base) scriptToSubmit(req *SubmitRequest) (string, error) {
	if !req.Render {
		return req.Script, nil
	}
	return b.RenderJobScript(req.Script, req.Context)
}

func isState(ctx context.Context, c Client, jobID string, want JobState) (bool, error) {
	s, err := c.Status(ctx, jobID)
	if err != nil {
		return false, err
	}
	return s == want, nil
}

// formatVariables renders environment variables as "k=v,k=v" with keys sorted
// for a stable command line. Values are coerced with %v and commas inside
// values are passed through untouched.
func formatVariables(vars map[string]any) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, vars[k]))
	}
	return strings.Join(pairs, ",")
}

// coerceVariables converts variable values to strings for environment
// injection.
func coerceVariables(vars map[string]any) map[string]string {
	if len(vars) == 0 {
		return nil
	}
	env := make(map[string]string, len(vars))
	for k, v := range vars {
		env[k] = fmt.Sprintf("%v", v)
	}
	return env
}

// splitDirectives flattens raw directive strings ("-q express") into argv
// tokens, since the executor never passes anything through a shell.
func splitDirectives(directives []string) []string {
	var out []string
	for _, d := range directives {
		out = append(out, strings.Fields(d)...)
	}
	return out
}

// firstLine trims stdout to its first non-empty line.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
