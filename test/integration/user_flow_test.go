package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type User struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	ReferralCode string `json:"referral_code"`
	IsVerified   bool   `json:"is_verified"`
}

type RegisterResponse struct {
	User      User `json:"user"`
	Placement struct {
		UserID   uint    `json:"user_id"`
		ParentID *uint   `json:"parent_id"`
		Position *string `json:"position"`
	} `json:"placement"`
}

func registerUser(t *testing.T, username, sponsorCode string) RegisterResponse {
	t.Helper()

	request := struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		SponsorCode string `json:"sponsor_code"`
	}{
		Username:    username,
		Email:       username + "@test.local",
		SponsorCode: sponsorCode,
	}

	payload, err := json.Marshal(request)
	require.NoError(t, err)

	resp, err := http.Post(BaseURL+"/users", "application/json", bytes.NewBuffer(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var response RegisterResponse
	err = json.NewDecoder(resp.Body).Decode(&response)
	require.NoError(t, err)
	return response
}

func TestUserRegistrationAPI(t *testing.T) {
	requireServer(t)

	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	var rootCode string

	// Test Case 1: Register root user without sponsor
	t.Run("Register Root User", func(t *testing.T) {
		response := registerUser(t, "it_root_"+suffix, "")
		assert.NotZero(t, response.User.ID)
		assert.NotEmpty(t, response.User.ReferralCode)
		rootCode = response.User.ReferralCode
	})

	// Test Case 2: Register downline under the root's referral code
	t.Run("Register Sponsored Users", func(t *testing.T) {
		first := registerUser(t, "it_left_"+suffix, rootCode)
		require.NotNil(t, first.Placement.ParentID)
		require.NotNil(t, first.Placement.Position)
		assert.Equal(t, "left", *first.Placement.Position)

		second := registerUser(t, "it_right_"+suffix, rootCode)
		require.NotNil(t, second.Placement.Position)
		assert.Equal(t, "right", *second.Placement.Position)
	})

	// Test Case 3: Unknown sponsor code is rejected
	t.Run("Reject Unknown Sponsor Code", func(t *testing.T) {
		request := struct {
			Username    string `json:"username"`
			Email       string `json:"email"`
			SponsorCode string `json:"sponsor_code"`
		}{
			Username:    "it_orphan_" + suffix,
			Email:       "it_orphan_" + suffix + "@test.local",
			SponsorCode: "NOSUCHCODE",
		}

		payload, err := json.Marshal(request)
		require.NoError(t, err)

		resp, err := http.Post(BaseURL+"/users", "application/json", bytes.NewBuffer(payload))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	// Test Case 4: Sponsor chain endpoint
	t.Run("Sponsor Chain", func(t *testing.T) {
		leaf := registerUser(t, "it_leaf_"+suffix, rootCode)

		resp, err := http.Get(fmt.Sprintf("%s/users/%d/sponsor-chain", BaseURL, leaf.User.ID))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var response struct {
			SponsorChain []uint `json:"sponsor_chain"`
		}
		err = json.NewDecoder(resp.Body).Decode(&response)
		require.NoError(t, err)
		assert.NotEmpty(t, response.SponsorChain)
	})
}
