package user

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"inkwell/internal/common"
	"inkwell/internal/views"
)

// UserHandler is the HTTP boundary for signup, login, and the follow /
// unfollow actions.
type UserHandler struct {
	users   UserService
	follows FollowService
	render  views.Renderer
}

func NewUserHandler(users UserService, follows FollowService, render views.Renderer) *UserHandler {
	return &UserHandler{users: users, follows: follows, render: render}
}

func (h *UserHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/auth/signup", h.SignupForm).Methods("GET")
	r.HandleFunc("/auth/signup", h.Signup).Methods("POST")
	r.HandleFunc("/auth/login", h.LoginForm).Methods("GET")
	r.HandleFunc("/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/auth/logout", h.Logout).Methods("POST")
	r.HandleFunc("/profile/{username}/follow", common.RequireLogin(h.Follow)).Methods("POST")
	r.HandleFunc("/profile/{username}/unfollow", common.RequireLogin(h.Unfollow)).Methods("POST")
}

func (h *UserHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "signup", map[string]interface{}{})
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	_, token, err := h.users.Register(r.Context(), username, password)
	if errors.Is(err, common.ErrValidation) {
		h.render.Render(w, http.StatusOK, "signup", map[string]interface{}{
			"errors":   []string{err.Error()},
			"username": username,
		})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.setSession(w, token)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *UserHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "login", map[string]interface{}{
		"next": r.URL.Query().Get("next"),
	})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	_, token, err := h.users.Login(r.Context(), username, password)
	if errors.Is(err, common.ErrValidation) {
		h.render.Render(w, http.StatusOK, "login", map[string]interface{}{
			"errors":   []string{err.Error()},
			"username": username,
		})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.setSession(w, token)

	http.Redirect(w, r, safeNext(r.FormValue("next")), http.StatusFound)
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	err := h.follows.Follow(r.Context(), common.CurrentIdentity(r), username)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/profile/"+url.PathEscape(username), http.StatusFound)
}

func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	err := h.follows.Unfollow(r.Context(), common.CurrentIdentity(r), username)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/profile/"+url.PathEscape(username), http.StatusFound)
}

// safeNext sends the user back to wherever login interrupted them. Only
// site-local paths qualify; "//host" is a protocol-relative URL and would
// redirect off-site, so it falls back to the index like any other junk.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func (h *UserHandler) setSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *UserHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, common.ErrUnauthenticated):
		http.Redirect(w, r, "/auth/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
