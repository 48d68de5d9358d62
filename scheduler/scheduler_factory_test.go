package scheduler_test

import (
	"testing"

	"github.com/ACCESS-NRI/hpcpy/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func availabilitySet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestDetect_PBS(t *testing.T) {
	kind, err := scheduler.Detect(availabilitySet("qsub"), false)
	require.NoError(t, err)
	assert.Equal(t, scheduler.KindPBS, kind)
}

func TestDetect_Slurm(t *testing.T) {
	kind, err := scheduler.Detect(availabilitySet("sbatch"), false)
	require.NoError(t, err)
	assert.Equal(t, scheduler.KindSlurm, kind)
}

func TestDetect_Precedence(t *testing.T) {
	// Both present: fixed order puts PBS first.
	kind, err := scheduler.Detect(availabilitySet("qsub", "sbatch"), false)
	require.NoError(t, err)
	assert.Equal(t, scheduler.KindPBS, kind)
}

func TestDetect_NoneFound(t *testing.T) {
	_, err := scheduler.Detect(availabilitySet(), false)
	assert.ErrorIs(t, err, scheduler.ErrNoClient)
}

func TestDetect_DevMode(t *testing.T) {
	kind, err := scheduler.Detect(availabilitySet(), true)
	require.NoError(t, err)
	assert.Equal(t, scheduler.KindMock, kind)
}

func TestNew_Variants(t *testing.T) {
	for _, kind := range []string{scheduler.KindPBS, scheduler.KindSlurm, scheduler.KindMock} {
		c, err := scheduler.New(kind, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, kind, c.Name())
	}
}

func TestNew_Unknown(t *testing.T) {
	_, err := scheduler.New("lsf", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lsf")
}
