package lwfm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTrigger(t *testing.T) {
	fireDefn := JobDefn{
		Name:           "post-process",
		EntryPointPath: "/apps/post.sh",
		Args:           []string{"--input", "run42"},
	}
	trigger := NewTrigger(
		"job-42",
		"nersc",
		StatusComplete,
		fireDefn,
		"local",
	)
	require.Equal(t, "Trigger", trigger.Kind)
	require.Equal(t, "job-42", trigger.SourceJobID)
	require.Equal(t, "nersc", trigger.SourceSiteName)
	require.Equal(t, StatusComplete, trigger.AwaitedStatus)
	require.Equal(t, fireDefn, trigger.FireDefn)
	require.Equal(t, "local", trigger.TargetSiteName)
	require.Empty(t, trigger.HandlerID)
	require.Nil(t, trigger.Created)
}

func TestTriggerIsRepeatable(t *testing.T) {
	for _, status := range CanonicalStatusesAll() {
		trigger := NewTrigger("job-42", "", status, JobDefn{}, "local")
		require.Equal(t, status == StatusInfo, trigger.IsRepeatable())
	}
}

func TestTriggerRoundTrip(t *testing.T) {
	targetContext := NewChildJobContext(NewJobContext())
	trigger := NewTrigger(
		"job-42",
		"nersc",
		StatusInfo,
		JobDefn{EntryPointPath: "/apps/notify.sh"},
		"local",
	)
	trigger.TargetContext = &targetContext

	triggerBytes, err := json.Marshal(trigger)
	require.NoError(t, err)

	unmarshaled := Trigger{}
	err = json.Unmarshal(triggerBytes, &unmarshaled)
	require.NoError(t, err)
	require.Equal(t, trigger, unmarshaled)
	require.NotNil(t, unmarshaled.TargetContext)
	require.Equal(t, targetContext.ID, unmarshaled.TargetContext.ID)
}

func TestWatchJobContext(t *testing.T) {
	testCases := []struct {
		name           string
		watch          Watch
		expectedOrigin string
		expectedNative string
	}{
		{
			name:           "fully specified",
			watch:          NewWatch("job-3", "job-2", "job-1", "slurm-998877", "nersc"),
			expectedOrigin: "job-1",
			expectedNative: "slurm-998877",
		},
		{
			name:           "seminal job with defaults",
			watch:          NewWatch("job-1", "", "", "", "local"),
			expectedOrigin: "job-1",
			expectedNative: "job-1",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			jobContext := testCase.watch.JobContext()
			require.Equal(t, testCase.watch.JobID, jobContext.ID)
			require.Equal(t, testCase.watch.ParentJobID, jobContext.ParentJobID)
			require.Equal(t, testCase.expectedOrigin, jobContext.OriginJobID)
			require.Equal(t, testCase.expectedNative, jobContext.NativeID)
			require.Equal(t, testCase.watch.SiteName, jobContext.SiteName)
		})
	}
}
