package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/talkbase/talkbase-backend/internal/platform/logger"
	"github.com/talkbase/talkbase-backend/internal/requestdata"
)

const testSecret = "test-secret"

func signToken(t *testing.T, accountID, userID uuid.UUID) string {
	t.Helper()
	claims := jwt.MapClaims{
		"account_id": accountID.String(),
		"sub":        userID.String(),
		"exp":        time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	am := NewAuthMiddleware(log, testSecret)

	accountID := uuid.New()
	userID := uuid.New()

	var captured *requestdata.RequestData
	r := gin.New()
	r.Use(am.RequireAuth())
	r.GET("/protected", func(c *gin.Context) {
		captured = requestdata.GetRequestData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, accountID, userID))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	if captured == nil {
		t.Fatalf("expected request data on context")
	}
	if captured.AccountID != accountID {
		t.Fatalf("account id: got=%s want=%s", captured.AccountID, accountID)
	}
	if captured.UserID != userID {
		t.Fatalf("user id: got=%s want=%s", captured.UserID, userID)
	}
}

func TestRequireAuthRejectsBadTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	am := NewAuthMiddleware(log, testSecret)

	r := gin.New()
	r.Use(am.RequireAuth())
	r.GET("/protected", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}
