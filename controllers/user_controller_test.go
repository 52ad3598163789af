package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wangari/restaurant-api/config"
	"github.com/wangari/restaurant-api/models"
	"github.com/wangari/restaurant-api/services"
)

func setupUserTestDB(t *testing.T) *gorm.DB {
	db := setupOrderTestDB(t)
	return db
}

// setupMockAuth0Server creates a mock HTTP server that simulates Auth0's
// /userinfo endpoint
func setupMockAuth0Server(userInfoMap map[string]*services.Auth0UserInfo) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || len(authHeader) < 7 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		token := authHeader[7:] // Remove "Bearer " prefix

		userInfo, exists := userInfoMap[token]
		if !exists {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(userInfo); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
}

func TestCreateUser(t *testing.T) {
	db := setupUserTestDB(t)
	config.SetDB(db)

	mockServer := setupMockAuth0Server(map[string]*services.Auth0UserInfo{
		"valid-token": {
			Sub:   "auth0|newuser123",
			Email: "newuser@example.com",
			Name:  "New User",
			Phone: "+254700000001",
		},
		"no-email-token": {
			Sub:  "auth0|noemail123",
			Name: "No Email User",
		},
	})
	defer mockServer.Close()

	config.SetConfig(&config.Config{
		Auth0Domain: mockServer.URL,
	})

	tests := []struct {
		name           string
		auth0ID        string
		role           string
		accessToken    string
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name:           "Successfully create user from Auth0 userinfo",
			auth0ID:        "auth0|newuser123",
			role:           "customer",
			accessToken:    "valid-token",
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.True(t, response["success"].(bool))
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "auth0|newuser123", data["auth0_id"])
				assert.Equal(t, "newuser@example.com", data["email"])
				assert.Equal(t, "New User", data["name"])
				assert.Equal(t, "customer", data["role"])
				assert.Equal(t, float64(0), data["loyalty_points"])
			},
		},
		{
			name:           "Staff role from custom claim is honored",
			auth0ID:        "auth0|newuser123",
			role:           "chef",
			accessToken:    "valid-token",
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "chef", data["role"])
			},
		},
		{
			name:           "Unknown role claim falls back to customer",
			auth0ID:        "auth0|newuser123",
			role:           "superadmin",
			accessToken:    "valid-token",
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "customer", data["role"])
			},
		},
		{
			name:           "Fail when Auth0 returns no email",
			auth0ID:        "auth0|noemail123",
			role:           "customer",
			accessToken:    "no-email-token",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "MISSING_EMAIL",
		},
		{
			name:           "Fail with invalid token",
			auth0ID:        "auth0|whoever",
			role:           "customer",
			accessToken:    "bad-token",
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "AUTH0_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Each case starts from a clean table so duplicate checks
			// don't leak between cases
			db.Exec("DELETE FROM users")

			router := setupTestRouter()
			router.POST("/users",
				mockAuthMiddleware(tt.auth0ID, tt.role, tt.accessToken),
				CreateUser,
			)

			req, _ := http.NewRequest(http.MethodPost, "/users", bytes.NewBuffer([]byte("{}")))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			}

			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestCreateUser_DuplicateRejected(t *testing.T) {
	db := setupUserTestDB(t)
	config.SetDB(db)

	mockServer := setupMockAuth0Server(map[string]*services.Auth0UserInfo{
		"valid-token": {
			Sub:   "auth0|dup123",
			Email: "dup@example.com",
			Name:  "Dup User",
		},
	})
	defer mockServer.Close()

	config.SetConfig(&config.Config{Auth0Domain: mockServer.URL})

	router := setupTestRouter()
	router.POST("/users",
		mockAuthMiddleware("auth0|dup123", "customer", "valid-token"),
		CreateUser,
	)

	for i, expected := range []int{http.StatusCreated, http.StatusConflict} {
		req, _ := http.NewRequest(http.MethodPost, "/users", bytes.NewBuffer([]byte("{}")))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, expected, w.Code, "request %d", i+1)
	}
}

func TestGetMyProfile(t *testing.T) {
	db := setupUserTestDB(t)
	config.SetDB(db)

	user := seedTestUser(t, db, "auth0|profile1", "Profile User", models.RoleCustomer)
	require.NoError(t, db.Model(&user).UpdateColumn("loyalty_points", 42).Error)

	router := setupTestRouter()
	router.GET("/users/me",
		mockAuthMiddleware(user.Auth0ID, "customer", "mock-token"),
		GetMyProfile,
	)

	req, _ := http.NewRequest(http.MethodGet, "/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	userData := data["user"].(map[string]interface{})
	assert.Equal(t, "Profile User", userData["name"])
	assert.Equal(t, float64(42), userData["loyalty_points"])
	assert.Equal(t, "Bronze", data["loyalty_tier"])
}

func TestGetMyProfile_NotFound(t *testing.T) {
	db := setupUserTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.GET("/users/me",
		mockAuthMiddleware("auth0|ghost", "customer", "mock-token"),
		GetMyProfile,
	)

	req, _ := http.NewRequest(http.MethodGet, "/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "USER_NOT_FOUND", errorData["code"])
}
