package scheduler_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ACCESS-NRI/hpcpy/executor"
	"github.com/ACCESS-NRI/hpcpy/mocks"
	"github.com/ACCESS-NRI/hpcpy/scheduler"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const slurmStatusJSON = `{
	"jobs": [
		{
			"job_id": 123,
			"name": "test",
			"job_state": ["RUNNING"]
		}
	]
}`

type SlurmTestSuite struct {
	suite.Suite
	executor *mocks.Executor
	impl     *scheduler.Slurm
}

func (suite *SlurmTestSuite) BeforeTest(suiteName, testName string) {
	suite.executor = mocks.NewExecutor(suite.T())
	suite.impl = scheduler.NewSlurm(suite.executor, nil)
}

func (suite *SlurmTestSuite) TestSubmit() {
	// Arrange
	suite.executor.On(
		"Execute",
		mock.Anything,
		mock.MatchedBy(func(argv []string) bool {
			return argv[0] == "sbatch" && argv[1] == "--parsable" &&
				argv[len(argv)-1] == "test.sh"
		}),
		mock.Anything,
	).Return(executor.Result{Stdout: "123\n"}, nil)
	ctx := context.Background()

	// Act
	job, err := suite.impl.Submit(ctx, &scheduler.SubmitRequest{Script: "test.sh"})

	// Assert
	suite.NoError(err)
	suite.Equal("123", job.ID)
}

func (suite *SlurmTestSuite) TestSubmitClusterSuffix() {
	suite.executor.On("Execute", mock.Anything, mock.Anything, mock.Anything).
		Return(executor.Result{Stdout: "456;cluster1\n"}, nil)

	job, err := suite.impl.Submit(context.Background(), &scheduler.SubmitRequest{Script: "test.sh"})

	suite.NoError(err)
	suite.Equal("456", job.ID)
}

func (suite *SlurmTestSuite) TestSubmitVariablesGoThroughEnvironment() {
	// Arrange: SLURM receives job variables via the submission environment.
	suite.executor.On(
		"Execute",
		mock.Anything,
		mock.MatchedBy(func(argv []string) bool {
			// No -v flag on the sbatch command line.
			return !strings.Contains(strings.Join(argv, " "), "-v ")
		}),
		mock.MatchedBy(func(env map[string]string) bool {
			return env["a"] == "1" && env["b"] == "test"
		}),
	).Return(executor.Result{Stdout: "789\n"}, nil)

	// Act
	_, err := suite.impl.Submit(context.Background(), &scheduler.SubmitRequest{
		Script:    "test.sh",
		Variables: map[string]any{"a": 1, "b": "test"},
	})

	// Assert
	suite.NoError(err)
}

func (suite *SlurmTestSuite) TestSubmitCommandDependsOn() {
	argv, err := suite.impl.SubmitCommand(&scheduler.SubmitRequest{
		Script:    "test.sh",
		DependsOn: []string{"job1", "job2"},
	})

	suite.NoError(err)
	suite.Equal("sbatch --parsable --dependency=afterok:job1:job2 test.sh", strings.Join(argv, " "))
}

func (suite *SlurmTestSuite) TestSubmitCommandQueueWalltime() {
	argv, err := suite.impl.SubmitCommand(&scheduler.SubmitRequest{
		Script:   "test.sh",
		Queue:    "normal",
		Walltime: 150 * time.Minute,
	})

	suite.NoError(err)
	suite.Equal("sbatch --parsable -p normal --time 150 test.sh", strings.Join(argv, " "))
}

func (suite *SlurmTestSuite) TestStatusRunning() {
	// Arrange
	suite.executor.On(
		"Execute",
		mock.Anything,
		mock.MatchedBy(func(argv []string) bool {
			return argv[0] == "squeue" && argv[1] == "-j" && argv[2] == "123"
		}),
		mock.Anything,
	).Return(executor.Result{Stdout: slurmStatusJSON}, nil)

	// Act
	state, err := suite.impl.Status(context.Background(), "123")

	// Assert
	suite.NoError(err)
	suite.Equal(scheduler.StateRunning, state)
}

func (suite *SlurmTestSuite) TestStatusScalarJobState() {
	// Older squeue releases emit job_state as a plain string.
	payload := strings.Replace(slurmStatusJSON, `["RUNNING"]`, `"PENDING"`, 1)
	suite.executor.On("Execute", mock.Anything, mock.Anything, mock.Anything).
		Return(executor.Result{Stdout: payload}, nil)

	state, err := suite.impl.Status(context.Background(), "123")

	suite.NoError(err)
	suite.Equal(scheduler.StateQueued, state)
}

func (suite *SlurmTestSuite) TestStatusPurgedJob() {
	suite.executor.On("Execute", mock.Anything, mock.Anything, mock.Anything).
		Return(executor.Result{ExitCode: 1, Stderr: "slurm_load_jobs error: Invalid job id specified\n"}, nil)

	state, err := suite.impl.Status(context.Background(), "999999")

	suite.NoError(err)
	suite.Equal(scheduler.StateUnknown, state)
}

func (suite *SlurmTestSuite) TestStatusNoJobs() {
	suite.executor.On("Execute", mock.Anything, mock.Anything, mock.Anything).
		Return(executor.Result{Stdout: `{"jobs": []}`}, nil)

	state, err := suite.impl.Status(context.Background(), "123")

	suite.NoError(err)
	suite.Equal(scheduler.StateUnknown, state)
}

func (suite *SlurmTestSuite) TestStatusExecutorFailure() {
	suite.executor.On("Execute", mock.Anything, mock.Anything, mock.Anything).
		Return(executor.Result{ExitCode: 1, Stderr: "squeue: error: some transport failure\n"}, nil)

	_, err := suite.impl.Status(context.Background(), "123")

	var qErr *scheduler.QueryError
	suite.ErrorAs(err, &qErr)
	suite.Equal("123", qErr.JobID)
}

func (suite *SlurmTestSuite) TestDeleteAlreadyGone() {
	suite.executor.On(
		"Execute",
		mock.Anything,
		mock.MatchedBy(func(argv []string) bool { return argv[0] == "scancel" }),
		mock.Anything,
	).Return(executor.Result{ExitCode: 1, Stderr: "scancel: error: Invalid job id specified\n"}, nil)

	err := suite.impl.Delete(context.Background(), "999999")

	suite.NoError(err)
}

func (suite *SlurmTestSuite) TestHoldRelease() {
	suite.executor.On(
		"Execute",
		mock.Anything,
		mock.MatchedBy(func(argv []string) bool {
			return argv[0] == "scontrol" && (argv[1] == "hold" || argv[1] == "release")
		}),
		mock.Anything,
	).Return(executor.Result{}, nil)

	suite.NoError(suite.impl.Hold(context.Background(), "123"))
	suite.NoError(suite.impl.Release(context.Background(), "123"))
}

func TestSlurmTestSuite(t *testing.T) {
	suite.Run(t, &SlurmTestSuite{})
}
