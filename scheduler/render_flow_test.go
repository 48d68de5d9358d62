package scheduler_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ACCESS-NRI/hpcpy/executor"
	"github.com/ACCESS-NRI/hpcpy/mocks"
	"github.com/ACCESS-NRI/hpcpy/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Submitting with Render set goes template → scratch dir → qsub <rendered>.

func TestSubmitRendersTemplate(t *testing.T) {
	tmplDir := t.TempDir()
	scratch := filepath.Join(t.TempDir(), "job_scripts")

	tmpl := filepath.Join(tmplDir, "job.sh")
	require.NoError(t, os.WriteFile(tmpl, []byte("#!/bin/bash\necho {{.msg}}\n"), 0o644))

	var submitted string
	ex := mocks.NewExecutor(t)
	ex.On("Execute", mock.Anything, mock.MatchedBy(func(argv []string) bool {
		submitted = argv[len(argv)-1]
		return argv[0] == "qsub"
	}), mock.Anything).Return(executor.Result{Stdout: "1.pbs\n"}, nil)

	client := scheduler.NewPBS(ex, nil, scheduler.WithScriptDir(scratch))

	job, err := client.Submit(context.Background(), &scheduler.SubmitRequest{
		Script:  tmpl,
		Render:  true,
		Context: map[string]any{"msg": "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "1.pbs", job.ID)

	// The rendered script, not the template, was handed to qsub.
	assert.Equal(t, scratch, filepath.Dir(submitted))
	content, err := os.ReadFile(submitted)
	require.NoError(t, err)
	assert.Contains(t, string(content), "echo hello")
}

func TestRenderJobScript(t *testing.T) {
	scratch := t.TempDir()
	tmpl := filepath.Join(t.TempDir(), "job.sh")
	require.NoError(t, os.WriteFile(tmpl, []byte("#SBATCH -p {{.queue}}\n"), 0o644))

	client := scheduler.NewSlurm(nil, nil, scheduler.WithScriptDir(scratch))

	path, err := client.RenderJobScript(tmpl, map[string]any{"queue": "normal"})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#SBATCH -p normal\n", string(content))
}
