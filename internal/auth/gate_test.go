package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gkicks/gkicks-pos-service/internal/model"
	"github.com/gkicks/gkicks-pos-service/pkg/cache"
	"github.com/gkicks/gkicks-pos-service/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

type fakeAdmins struct {
	users map[string]*model.AdminUser
	err   error
}

func (f *fakeAdmins) FindActiveByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[email], nil
}

func newTestGate(t *testing.T) (*Gate, *SessionStore, *fakeAdmins) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisClient(&cache.Config{Addr: mr.Addr()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { rc.Close() })

	store := NewSessionStore(rc, "session:", time.Hour)
	admins := &fakeAdmins{users: map[string]*model.AdminUser{
		"admin@gkicks.test":   {ID: 1, Email: "admin@gkicks.test", Name: "Admin", Role: "admin", IsActive: true},
		"cashier@gkicks.test": {ID: 4, Email: "cashier@gkicks.test", Name: "Jane Cruz", Role: "staff", IsActive: true},
	}}
	gate := NewGate(NewTokenVerifier(testSecret), store, admins, "gkicks_session", logger.NewNop())
	return gate, store, admins
}

func serve(gate *Gate, req *http.Request, roles ...string) (*httptest.ResponseRecorder, *Identity) {
	var got *Identity
	r := gin.New()
	r.GET("/x", gate.Require(roles...), func(c *gin.Context) {
		got = GetIdentity(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, got
}

func signed(t *testing.T, email, role string) string {
	t.Helper()
	tok, err := NewTokenVerifier(testSecret).Sign(email, role, "", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestBearerTokenAccepted(t *testing.T) {
	gate, _, _ := newTestGate(t)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+signed(t, "cashier@gkicks.test", "staff"))

	w, id := serve(gate, req, model.RoleAdmin, model.RoleStaff)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	if id == nil || id.UserID != 4 || id.Name != "Jane Cruz" {
		t.Errorf("identity = %+v", id)
	}
}

func TestRoleMismatchIsUnauthorized(t *testing.T) {
	gate, _, _ := newTestGate(t)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+signed(t, "cashier@gkicks.test", "staff"))

	w, _ := serve(gate, req, model.RoleAdmin)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if w.Body.String() != `{"error":"Unauthorized"}` {
		t.Errorf("body = %s", w.Body)
	}
}

func TestInvalidTokenFallsBackToCookie(t *testing.T) {
	gate, store, _ := newTestGate(t)
	key, err := store.Create(context.Background(), &SessionData{Email: "admin@gkicks.test", Role: "admin"})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	req.AddCookie(&http.Cookie{Name: "gkicks_session", Value: key})

	w, id := serve(gate, req, model.RoleAdmin)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if id.UserID != 1 || id.Role != "admin" {
		t.Errorf("identity = %+v", id)
	}
}

func TestRejectsMissingAndUnknownCredentials(t *testing.T) {
	gate, _, _ := newTestGate(t)

	cases := map[string]*http.Request{
		"no credentials": httptest.NewRequest(http.MethodGet, "/x", nil),
	}

	unknownCookie := httptest.NewRequest(http.MethodGet, "/x", nil)
	unknownCookie.AddCookie(&http.Cookie{Name: "gkicks_session", Value: "missing"})
	cases["unknown cookie"] = unknownCookie

	wrongSecret := httptest.NewRequest(http.MethodGet, "/x", nil)
	tok, _ := NewTokenVerifier("other-secret").Sign("admin@gkicks.test", "admin", "", time.Hour)
	wrongSecret.Header.Set("Authorization", "Bearer "+tok)
	cases["wrong secret"] = wrongSecret

	unknownUser := httptest.NewRequest(http.MethodGet, "/x", nil)
	unknownUser.Header.Set("Authorization", "Bearer "+signed(t, "ex-employee@gkicks.test", "admin"))
	cases["inactive user"] = unknownUser

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			w, _ := serve(gate, req, model.RoleAdmin, model.RoleStaff)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestLookupFailureIsUnauthorized(t *testing.T) {
	gate, _, admins := newTestGate(t)
	admins.err = errors.New("db down")

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+signed(t, "admin@gkicks.test", "admin"))

	w, _ := serve(gate, req, model.RoleAdmin)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestVerifyRejectsExpiredAndNoneAlg(t *testing.T) {
	v := NewTokenVerifier(testSecret)

	expired, _ := v.Sign("admin@gkicks.test", "admin", "", -time.Minute)
	if _, err := v.Verify(expired); err == nil {
		t.Error("expired token accepted")
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Email: "admin@gkicks.test", Role: "admin"})
	s, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := v.Verify(s); err == nil {
		t.Error("alg=none token accepted")
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":  "abc",
		"bearer abc":  "abc",
		"Basic abc":   "",
		"Bearer ":     "",
		"":            "",
		"Bearer  xyz": "xyz",
	}
	for in, want := range tests {
		if got := bearerToken(in); got != want {
			t.Errorf("bearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}
