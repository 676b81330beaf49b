package lwfm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testErrorType   = "Trigger"
	testErrorID     = "12345678-1234-1234-1234-123456789012"
	testErrorReason = "the emitTime field is not a timestamp"
)

func TestNewErrAuthentication(t *testing.T) {
	err := NewErrAuthentication(testErrorReason)
	require.Equal(t, "AuthenticationError", err.Kind)
	require.Contains(t, err.Error(), testErrorReason)
}

func TestNewErrBadRequest(t *testing.T) {
	testCases := []struct {
		name       string
		err        *ErrBadRequest
		assertions func(t *testing.T, err *ErrBadRequest)
	}{
		{
			name: "without details",
			err:  NewErrBadRequest(testErrorReason),
			assertions: func(t *testing.T, err *ErrBadRequest) {
				require.Contains(t, err.Error(), testErrorReason)
			},
		},
		{
			name: "with details",
			err: NewErrBadRequest(
				testErrorReason,
				"emitTime is required",
				"nativeStatus is required",
			),
			assertions: func(t *testing.T, err *ErrBadRequest) {
				require.Contains(t, err.Error(), testErrorReason)
				require.Contains(t, err.Error(), "emitTime is required")
				require.Contains(t, err.Error(), "nativeStatus is required")
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, "BadRequestError", testCase.err.Kind)
			testCase.assertions(t, testCase.err)
		})
	}
}

func TestNewErrNotFound(t *testing.T) {
	err := NewErrNotFound(testErrorType, testErrorID)
	require.Equal(t, "NotFoundError", err.Kind)
	require.Contains(t, err.Error(), testErrorType)
	require.Contains(t, err.Error(), testErrorID)
}

func TestNewErrConflict(t *testing.T) {
	err := NewErrConflict("Watch", testErrorID, "")
	require.Equal(t, "ConflictError", err.Kind)
	require.Contains(t, err.Error(), testErrorID)

	err = NewErrConflict("Watch", testErrorID, testErrorReason)
	require.Equal(t, testErrorReason, err.Error())
}

func TestNewErrInternalServer(t *testing.T) {
	err := NewErrInternalServer()
	require.Equal(t, "InternalServerError", err.Kind)
	require.Contains(t, err.Error(), "internal server error")
}

func TestNewErrNotSupported(t *testing.T) {
	err := NewErrNotSupported(testErrorReason)
	require.Equal(t, "NotSupportedError", err.Kind)
	require.Equal(t, testErrorReason, err.Error())
}
