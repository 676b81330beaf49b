package lwfm

import (
	"crypto/tls"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testAPIAddress          = "localhost:8080"
	testAPIToken            = "11235813213455"
	testClientAllowInsecure = true
)

func requireBaseClient(t *testing.T, baseClient *baseClient) {
	require.Equal(t, testAPIAddress, baseClient.apiAddress)
	require.Equal(t, testAPIToken, baseClient.apiToken)
	require.IsType(t, &http.Client{}, baseClient.httpClient)
	require.IsType(t, &http.Transport{}, baseClient.httpClient.Transport)
	require.IsType(
		t,
		&tls.Config{},
		baseClient.httpClient.Transport.(*http.Transport).TLSClientConfig,
	)
	require.Equal(
		t,
		testClientAllowInsecure,
		baseClient.httpClient.Transport.(*http.Transport).TLSClientConfig.InsecureSkipVerify, // nolint: lll
	)
}
