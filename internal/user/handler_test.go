package user

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"inkwell/internal/common"
	"inkwell/internal/dbmysql"
)

type viewRecorder struct {
	status int
	view   string
	data   map[string]interface{}
}

func (v *viewRecorder) Render(w http.ResponseWriter, status int, view string, data map[string]interface{}) {
	v.status, v.view, v.data = status, view, data
	w.WriteHeader(status)
}

func newUserRouter(t *testing.T) (*mux.Router, *MockUserRepository, *MockFollowRepository, *common.SessionManager) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	userRepo := NewMockUserRepository(ctrl)
	followRepo := NewMockFollowRepository(ctrl)
	sessions := common.NewSessionManager("test-secret")
	handler := NewUserHandler(
		NewUserService(userRepo, sessions, time.Hour),
		NewFollowService(userRepo, followRepo),
		&viewRecorder{},
	)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	router.Use(sessions.Middleware)
	return router, userRepo, followRepo, sessions
}

func authCookie(t *testing.T, sessions *common.SessionManager, id common.Identity) *http.Cookie {
	t.Helper()
	token, err := sessions.GenerateToken(id.UserID, id.Username, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: common.SessionCookie, Value: token}
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestFollowRoute_AnonymousRedirectsToLogin(t *testing.T) {
	router, _, _, _ := newUserRouter(t)

	req := postForm("/profile/leo/follow", url.Values{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login?next=%2Fprofile%2Fleo%2Ffollow", rec.Header().Get("Location"))
}

func TestFollowRoute_UnknownAuthorNotFound(t *testing.T) {
	router, userRepo, _, sessions := newUserRouter(t)
	userRepo.EXPECT().GetUserByUsername(gomock.Any(), "ghost").Return(nil, gorm.ErrRecordNotFound)

	req := postForm("/profile/ghost/follow", url.Values{})
	req.AddCookie(authCookie(t, sessions, anna))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFollowRoute_RedirectsBackToProfile(t *testing.T) {
	router, userRepo, followRepo, sessions := newUserRouter(t)
	userRepo.EXPECT().GetUserByUsername(gomock.Any(), "leo").Return(leo, nil)
	followRepo.EXPECT().FollowExists(gomock.Any(), uint64(1), uint64(2)).Return(false, nil)
	followRepo.EXPECT().CreateFollow(gomock.Any(), gomock.Any()).Return(nil)

	req := postForm("/profile/leo/follow", url.Values{})
	req.AddCookie(authCookie(t, sessions, anna))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/profile/leo", rec.Header().Get("Location"))
}

// After login the user is sent back to the page that interrupted them, but
// only site-local paths qualify. Anything that could leave the site, like a
// protocol-relative "//evil.com", falls back to the index.
func TestLogin_NextRedirectStaysOnSite(t *testing.T) {
	hashed, err := common.HashPassword("secret123")
	require.NoError(t, err)
	stored := &dbmysql.User{UserID: 1, Username: "anna", PasswordHash: hashed}

	tests := []struct {
		name string
		next string
		want string
	}{
		{"local path is honoured", "/posts/5", "/posts/5"},
		{"protocol-relative host is rejected", "//evil.com", "/"},
		{"absolute url is rejected", "https://evil.com", "/"},
		{"empty falls back to the index", "", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, userRepo, _, _ := newUserRouter(t)
			userRepo.EXPECT().GetUserByUsername(gomock.Any(), "anna").Return(stored, nil)

			req := postForm("/auth/login", url.Values{
				"username": {"anna"},
				"password": {"secret123"},
				"next":     {tt.next},
			})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}
