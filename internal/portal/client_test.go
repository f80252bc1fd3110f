// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package portal_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ununennium119/Net2Emami/internal/config"
	"github.com/Ununennium119/Net2Emami/internal/info"
	"github.com/Ununennium119/Net2Emami/internal/logger"
	"github.com/Ununennium119/Net2Emami/internal/portal"
	"github.com/Ununennium119/Net2Emami/internal/portal/fake"
)

var testCredentials = config.Credentials{Username: "student", Password: "secret"}

func newClient(fakePortal *fake.Portal, opts ...portal.Option) *portal.Client {
	opts = append([]portal.Option{portal.WithEndpoints(fakePortal.LoginURL(), fakePortal.LogoutURL())}, opts...)
	return portal.NewClient(opts...)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		status        int
		expectedKind  portal.Kind
		expectedError error
	}{
		"status 200 is a success": {
			status:       http.StatusOK,
			expectedKind: portal.KindSuccess,
		},
		"status 401 is rejected": {
			status:        http.StatusUnauthorized,
			expectedKind:  portal.KindRejectedByServer,
			expectedError: portal.ErrRejectedByServer,
		},
		"status 503 is rejected": {
			status:        http.StatusServiceUnavailable,
			expectedKind:  portal.KindRejectedByServer,
			expectedError: portal.ErrRejectedByServer,
		},
		"status 204 is rejected": {
			status:        http.StatusNoContent,
			expectedKind:  portal.KindRejectedByServer,
			expectedError: portal.ErrRejectedByServer,
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			fakePortal := fake.NewPortal(t, logger.NewNullLogger())
			fakePortal.ScriptLogin(test.status)
			client := newClient(fakePortal)

			result := client.Login(t.Context(), testCredentials)
			assert.Equal(t, test.expectedKind, result.Kind)
			assert.Equal(t, test.status, result.StatusCode)
			assert.Equal(t, test.expectedError == nil, result.OK())
			if test.expectedError != nil {
				assert.ErrorIs(t, result.Err(), test.expectedError)
			} else {
				assert.NoError(t, result.Err())
			}

			calls := fakePortal.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, http.MethodPost, calls[0].Method)
			assert.Equal(t, "student", calls[0].Username)
			assert.Equal(t, "secret", calls[0].Password)
			assert.Equal(t, result.RequestID, calls[0].RequestID)
			assert.Equal(t, info.UserAgent(), calls[0].UserAgent)
		})
	}
}

func TestLogout(t *testing.T) {
	t.Parallel()

	fakePortal := fake.NewPortal(t, logger.NewNullLogger())
	fakePortal.ScriptLogout(http.StatusServiceUnavailable)
	client := newClient(fakePortal)

	result := client.Logout(t.Context())
	assert.False(t, result.OK())
	assert.ErrorIs(t, result.Err(), portal.ErrRejectedByServer)
	assert.EqualError(t, result.Err(), "rejected by server: status 503")

	result = client.Logout(t.Context())
	assert.True(t, result.OK())

	calls := fakePortal.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodGet, calls[0].Method)
	assert.Equal(t, fake.LogoutPath, calls[0].Path)
	assert.NotEqual(t, calls[0].RequestID, calls[1].RequestID)
}

func TestTransportFailures(t *testing.T) {
	t.Parallel()

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		fakePortal := fake.NewPortal(t, logger.NewNullLogger())
		fakePortal.DelayLogin(500 * time.Millisecond)
		client := newClient(fakePortal, portal.WithTimeout(50*time.Millisecond))

		start := time.Now()
		result := client.Login(t.Context(), testCredentials)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
		assert.Equal(t, portal.KindTransientNetworkFailure, result.Kind)
		assert.Zero(t, result.StatusCode)
		assert.ErrorIs(t, result.Err(), portal.ErrTransientNetworkFailure)
	})

	t.Run("connection refused", func(t *testing.T) {
		t.Parallel()

		fakePortal := fake.NewPortal(t, logger.NewNullLogger())
		client := newClient(fakePortal)
		fakePortal.Close()

		result := client.Logout(t.Context())
		assert.Equal(t, portal.KindTransientNetworkFailure, result.Kind)
		assert.ErrorIs(t, result.Err(), portal.ErrTransientNetworkFailure)
		assert.True(t, strings.HasPrefix(result.Err().Error(), "request failed to send: "))
	})

	t.Run("invalid endpoint", func(t *testing.T) {
		t.Parallel()

		client := portal.NewClient(portal.WithEndpoints("http://[::1]:namedport/login", ""))
		result := client.Login(t.Context(), testCredentials)
		assert.Equal(t, portal.KindTransientNetworkFailure, result.Kind)
	})
}

func TestCanceledContextDoesNotAbortRequest(t *testing.T) {
	t.Parallel()

	fakePortal := fake.NewPortal(t, logger.NewNullLogger())
	client := newClient(fakePortal)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	result := client.Logout(ctx)
	assert.True(t, result.OK())
	assert.Len(t, fakePortal.Calls(), 1)
}

func TestKindStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Success", portal.KindSuccess.String())
	assert.Equal(t, "TransientNetworkFailure", portal.KindTransientNetworkFailure.String())
	assert.Equal(t, "RejectedByServer", portal.KindRejectedByServer.String())
	assert.Equal(t, "Kind(7)", portal.Kind(7).String())
}
