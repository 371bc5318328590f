package feed

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"inkwell/internal/common"
	"inkwell/internal/pagination"
	"inkwell/internal/views"
)

// FeedHandler is the HTTP boundary for the listing and authoring views.
// Write operations end in redirects; failed validation re-renders the
// submitting form with the field errors.
type FeedHandler struct {
	feeds     *FeedService
	authoring *AuthoringService
	render    views.Renderer
}

func NewFeedHandler(feeds *FeedService, authoring *AuthoringService, render views.Renderer) *FeedHandler {
	return &FeedHandler{feeds: feeds, authoring: authoring, render: render}
}

func (h *FeedHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/group/{slug}", h.GroupPosts).Methods("GET")
	r.HandleFunc("/profile/{username}", h.Profile).Methods("GET")
	r.HandleFunc("/posts/{id:[0-9]+}", h.PostDetail).Methods("GET")
	r.HandleFunc("/create", common.RequireLogin(h.CreatePostForm)).Methods("GET")
	r.HandleFunc("/create", common.RequireLogin(h.CreatePost)).Methods("POST")
	r.HandleFunc("/posts/{id:[0-9]+}/edit", common.RequireLogin(h.EditPostForm)).Methods("GET")
	r.HandleFunc("/posts/{id:[0-9]+}/edit", common.RequireLogin(h.EditPost)).Methods("POST")
	r.HandleFunc("/posts/{id:[0-9]+}/comment", common.RequireLogin(h.AddComment)).Methods("POST")
	r.HandleFunc("/follow", common.RequireLogin(h.FollowIndex)).Methods("GET")
}

// Index is the global feed. The service serves it through the response
// cache, so the page may lag writes by up to the cache TTL.
func (h *FeedHandler) Index(w http.ResponseWriter, r *http.Request) {
	page := pagination.ParsePageParam(r.URL.Query().Get("page"))
	result, err := h.feeds.GlobalFeed(r.Context(), page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render.Render(w, http.StatusOK, "index", map[string]interface{}{
		"page_obj": result,
	})
}

func (h *FeedHandler) GroupPosts(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	page := pagination.ParsePageParam(r.URL.Query().Get("page"))

	result, err := h.feeds.GroupFeed(r.Context(), slug, page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render.Render(w, http.StatusOK, "group_list", map[string]interface{}{
		"group":    result.Group,
		"page_obj": result,
	})
}

func (h *FeedHandler) Profile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	page := pagination.ParsePageParam(r.URL.Query().Get("page"))
	viewer := common.CurrentIdentity(r)

	result, err := h.feeds.AuthorFeed(r.Context(), username, viewer, page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render.Render(w, http.StatusOK, "profile", map[string]interface{}{
		"author":    result.Author,
		"following": result.Following,
		"page_obj":  result,
	})
}

func (h *FeedHandler) PostDetail(w http.ResponseWriter, r *http.Request) {
	postID := pathID(r)
	page := pagination.ParsePageParam(r.URL.Query().Get("page"))

	result, err := h.feeds.PostDetail(r.Context(), postID, page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render.Render(w, http.StatusOK, "post_detail", map[string]interface{}{
		"post":     result.Post,
		"comments": result.Comments,
		"page_obj": result.Page,
	})
}

func (h *FeedHandler) CreatePostForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "create_post", map[string]interface{}{})
}

func (h *FeedHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	identity := common.CurrentIdentity(r)
	input, err := parsePostForm(r)
	if err != nil {
		h.render.Render(w, http.StatusOK, "create_post", map[string]interface{}{
			"errors": []string{err.Error()},
		})
		return
	}

	_, err = h.authoring.CreatePost(r.Context(), identity, input)
	if errors.Is(err, common.ErrValidation) {
		h.render.Render(w, http.StatusOK, "create_post", map[string]interface{}{
			"errors": []string{err.Error()},
			"text":   input.Text,
		})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/profile/"+url.PathEscape(identity.Username), http.StatusFound)
}

func (h *FeedHandler) EditPostForm(w http.ResponseWriter, r *http.Request) {
	postID := pathID(r)
	result, err := h.feeds.PostDetail(r.Context(), postID, 1)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	// only the author sees the edit form; everyone else is sent to the
	// read-only view, same as a rejected edit submission
	if common.CurrentIdentity(r).UserID != result.Post.AuthorID {
		http.Redirect(w, r, postDetailPath(postID), http.StatusFound)
		return
	}
	h.render.Render(w, http.StatusOK, "create_post", map[string]interface{}{
		"post":    result.Post,
		"is_edit": true,
	})
}

func (h *FeedHandler) EditPost(w http.ResponseWriter, r *http.Request) {
	identity := common.CurrentIdentity(r)
	postID := pathID(r)

	input, err := parsePostForm(r)
	if err != nil {
		h.render.Render(w, http.StatusOK, "create_post", map[string]interface{}{
			"errors":  []string{err.Error()},
			"is_edit": true,
		})
		return
	}

	_, err = h.authoring.EditPost(r.Context(), identity, postID, input)
	switch {
	case errors.Is(err, common.ErrUnauthorized):
		// not the author: silently send them to the post instead of an error page
		http.Redirect(w, r, postDetailPath(postID), http.StatusFound)
	case errors.Is(err, common.ErrValidation):
		h.render.Render(w, http.StatusOK, "create_post", map[string]interface{}{
			"errors":  []string{err.Error()},
			"text":    input.Text,
			"is_edit": true,
		})
	case err != nil:
		h.fail(w, r, err)
	default:
		http.Redirect(w, r, postDetailPath(postID), http.StatusFound)
	}
}

func (h *FeedHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	identity := common.CurrentIdentity(r)
	postID := pathID(r)

	_, err := h.authoring.AddComment(r.Context(), identity, postID, CommentInput{
		Text: r.FormValue("text"),
	})
	if errors.Is(err, common.ErrValidation) {
		// invalid comments must not persist; re-present the post with the error
		result, derr := h.feeds.PostDetail(r.Context(), postID, 1)
		if derr != nil {
			h.fail(w, r, derr)
			return
		}
		h.render.Render(w, http.StatusOK, "post_detail", map[string]interface{}{
			"post":     result.Post,
			"comments": result.Comments,
			"page_obj": result.Page,
			"errors":   []string{err.Error()},
		})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, postDetailPath(postID), http.StatusFound)
}

// FollowIndex is the personal feed: posts from authors the viewer follows.
func (h *FeedHandler) FollowIndex(w http.ResponseWriter, r *http.Request) {
	page := pagination.ParsePageParam(r.URL.Query().Get("page"))
	result, err := h.feeds.PersonalFeed(r.Context(), common.CurrentIdentity(r), page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render.Render(w, http.StatusOK, "follow", map[string]interface{}{
		"page_obj": result,
	})
}

// fail maps service failures onto HTTP responses. Validation never reaches
// here; the callers handle it by re-rendering their form.
func (h *FeedHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
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

const maxUploadBytes = 10 << 20

func parsePostForm(r *http.Request) (PostInput, error) {
	input := PostInput{}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && err != http.ErrNotMultipart {
		return input, fmt.Errorf("%w: malformed form submission", common.ErrValidation)
	}

	input.Text = r.FormValue("text")

	if raw := r.FormValue("group"); raw != "" {
		groupID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return input, fmt.Errorf("%w: invalid group", common.ErrValidation)
		}
		input.GroupID = &groupID
	}

	if file, header, err := r.FormFile("image"); err == nil {
		input.Image = file
		input.ImageName = header.Filename
	}
	return input, nil
}

func pathID(r *http.Request) uint64 {
	// the {id:[0-9]+} route pattern guarantees this parses
	id, _ := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	return id
}

func postDetailPath(postID uint64) string {
	return fmt.Sprintf("/posts/%d", postID)
}
