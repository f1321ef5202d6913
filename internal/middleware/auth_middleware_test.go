package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/kodzovi/eventbook/internal/helpers"
)

func contextWithAuthorization(value string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if value != "" {
		c.Request.Header.Set("Authorization", value)
	}
	return c
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken(contextWithAuthorization("Bearer abc.def.ghi"))
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", token)

	_, ok = BearerToken(contextWithAuthorization(""))
	assert.False(t, ok)

	_, ok = BearerToken(contextWithAuthorization("Basic dXNlcjpwYXNz"))
	assert.False(t, ok)

	_, ok = BearerToken(contextWithAuthorization("Bearer "))
	assert.False(t, ok)
}

// runGuard sends a context carrying the given role claims through a guard and
// reports whether it let the request continue.
func runGuard(guard gin.HandlerFunc, roles helpers.RoleClaims) bool {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(contextClaimsKey, &helpers.TokenClaims{Roles: roles})
	guard(c)
	return !c.IsAborted()
}

func TestRoleGuards(t *testing.T) {
	superuser := helpers.RoleClaims{Superuser: true}
	admin := helpers.RoleClaims{Admin: true}
	organizer := helpers.RoleClaims{Organizer: true}
	client := helpers.RoleClaims{Client: true}
	nobody := helpers.RoleClaims{}

	cases := []struct {
		name    string
		guard   gin.HandlerFunc
		allowed []helpers.RoleClaims
		denied  []helpers.RoleClaims
	}{
		{"superuser", RequireSuperuser(), []helpers.RoleClaims{superuser}, []helpers.RoleClaims{admin, organizer, client, nobody}},
		{"admin", RequireAdmin(), []helpers.RoleClaims{admin, superuser}, []helpers.RoleClaims{organizer, client, nobody}},
		{"organizer", RequireOrganizer(), []helpers.RoleClaims{organizer}, []helpers.RoleClaims{superuser, admin, client, nobody}},
		{"client", RequireClient(), []helpers.RoleClaims{client}, []helpers.RoleClaims{superuser, admin, organizer, nobody}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, roles := range tc.allowed {
				assert.True(t, runGuard(tc.guard, roles), "expected %+v to pass", roles)
			}
			for _, roles := range tc.denied {
				assert.False(t, runGuard(tc.guard, roles), "expected %+v to be rejected", roles)
			}
		})
	}
}

func TestRoleGuardWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RequireAdmin()(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}
