package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderio/travel-server/internal/api/testutils"
	"github.com/wanderio/travel-server/internal/models"
)

func TestSignup(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Test case 1: Successful signup
	signupReq := models.SignupRequest{
		User:     "alice",
		Password: "pw123",
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/tenants/"+testutils.TestTenant+"/user/signup",
		signupReq,
		nil,
	)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.Envelope[models.TokenResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	assert.NotEmpty(t, resp.Context)

	subject, err := testCtx.Tokens.Verify(resp.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)

	// Test case 2: Duplicate username
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/tenants/"+testutils.TestTenant+"/user/signup",
		signupReq,
		nil,
	)

	assert.Equal(t, http.StatusConflict, w.Code)

	// Test case 3: Invalid request (missing password)
	invalidReq := models.SignupRequest{
		User: "bob",
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/tenants/"+testutils.TestTenant+"/user/signup",
		invalidReq,
		nil,
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Test case 1: Successful login with the standing test account
	loginReq := models.LoginRequest{
		User:     testutils.TestUserName,
		Password: testutils.TestPassword,
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/tenants/"+testutils.TestTenant+"/user/login",
		loginReq,
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.Envelope[models.TokenResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	subject, err := testCtx.Tokens.Verify(resp.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, testutils.TestUserName, subject)

	// Test case 2: Wrong password
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/tenants/"+testutils.TestTenant+"/user/login",
		models.LoginRequest{User: testutils.TestUserName, Password: "wrong"},
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Test case 3: Unknown user looks the same as a wrong password
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/tenants/"+testutils.TestTenant+"/user/login",
		models.LoginRequest{User: "nobody", Password: "pw123"},
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Test case 4: Missing fields
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/tenants/"+testutils.TestTenant+"/user/login",
		models.LoginRequest{User: testutils.TestUserName},
		nil,
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
