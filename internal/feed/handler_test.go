package feed

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

// viewRecorder stands in for the template layer and remembers what the
// handler asked it to render.
type viewRecorder struct {
	status int
	view   string
	data   map[string]interface{}
}

func (v *viewRecorder) Render(w http.ResponseWriter, status int, view string, data map[string]interface{}) {
	v.status, v.view, v.data = status, view, data
	w.WriteHeader(status)
}

type handlerMocks struct {
	posts    *MockPosts
	groups   *MockGroups
	comments *MockComments
	users    *MockUserDirectory
	follows  *MockFollowChecker
	images   *MockImageStore
}

func newFeedRouter(t *testing.T) (*mux.Router, *handlerMocks, *viewRecorder, *common.SessionManager) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := &handlerMocks{
		posts:    NewMockPosts(ctrl),
		groups:   NewMockGroups(ctrl),
		comments: NewMockComments(ctrl),
		users:    NewMockUserDirectory(ctrl),
		follows:  NewMockFollowChecker(ctrl),
		images:   NewMockImageStore(ctrl),
	}
	sessions := common.NewSessionManager("test-secret")
	feeds := NewFeedService(m.posts, m.groups, m.comments, m.users, m.follows, newFakePageCache(), 10)
	authoring := NewAuthoringService(m.posts, m.groups, m.comments, m.images)
	render := &viewRecorder{}

	router := mux.NewRouter()
	NewFeedHandler(feeds, authoring, render).RegisterRoutes(router)
	router.Use(sessions.Middleware)
	return router, m, render, sessions
}

func sessionCookie(t *testing.T, sessions *common.SessionManager, id common.Identity) *http.Cookie {
	t.Helper()
	token, err := sessions.GenerateToken(id.UserID, id.Username, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: common.SessionCookie, Value: token}
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestEditPostHandler(t *testing.T) {
	stored := &dbmysql.Post{PostID: 5, Text: "original", AuthorID: 1}

	tests := []struct {
		name         string
		viewer       common.Identity
		mockSetup    func(m *handlerMocks)
		wantLocation string
	}{
		{
			name:   "author edit redirects to the post",
			viewer: common.Identity{UserID: 1, Username: "anna"},
			mockSetup: func(m *handlerMocks) {
				m.posts.EXPECT().GetPostByID(gomock.Any(), uint64(5)).Return(stored, nil)
				m.posts.EXPECT().UpdatePost(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantLocation: "/posts/5",
		},
		{
			name:   "non-owner is silently redirected to the post",
			viewer: common.Identity{UserID: 2, Username: "leo"},
			mockSetup: func(m *handlerMocks) {
				// no UpdatePost expectation: the post must stay untouched
				m.posts.EXPECT().GetPostByID(gomock.Any(), uint64(5)).Return(stored, nil)
			},
			wantLocation: "/posts/5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m, _, sessions := newFeedRouter(t)
			tt.mockSetup(m)

			req := formRequest(http.MethodPost, "/posts/5/edit", url.Values{"text": {"changed"}})
			req.AddCookie(sessionCookie(t, sessions, tt.viewer))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
		})
	}
}

func TestGroupPostsHandler_UnknownSlugNotFound(t *testing.T) {
	router, m, _, _ := newFeedRouter(t)
	m.groups.EXPECT().GetGroupBySlug(gomock.Any(), "missing").Return(nil, gorm.ErrRecordNotFound)

	req := httptest.NewRequest(http.MethodGet, "/group/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileHandler_UnknownUsernameNotFound(t *testing.T) {
	router, m, _, _ := newFeedRouter(t)
	m.users.EXPECT().GetUserByUsername(gomock.Any(), "ghost").Return(nil, gorm.ErrRecordNotFound)

	req := httptest.NewRequest(http.MethodGet, "/profile/ghost", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostDetailHandler_UnknownPostNotFound(t *testing.T) {
	router, m, _, _ := newFeedRouter(t)
	m.posts.EXPECT().GetPostByID(gomock.Any(), uint64(99)).Return(nil, gorm.ErrRecordNotFound)

	req := httptest.NewRequest(http.MethodGet, "/posts/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// Every write route redirects anonymous visitors to login with the original
// path preserved. No mock expectations are set: nothing may reach a service.
func TestWriteRoutes_AnonymousRedirectToLogin(t *testing.T) {
	tests := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/create"},
		{http.MethodPost, "/create"},
		{http.MethodPost, "/posts/5/edit"},
		{http.MethodPost, "/posts/5/comment"},
		{http.MethodGet, "/follow"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			router, _, _, _ := newFeedRouter(t)

			req := httptest.NewRequest(tt.method, tt.target, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/auth/login?next="+url.QueryEscape(tt.target), rec.Header().Get("Location"))
		})
	}
}

func TestIndexHandler_RendersGlobalFeed(t *testing.T) {
	router, m, render, _ := newFeedRouter(t)
	m.posts.EXPECT().CountPosts(gomock.Any()).Return(int64(2), nil)
	m.posts.EXPECT().ListPosts(gomock.Any(), 0, 10).Return(somePosts(2), nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "index", render.view)
}
