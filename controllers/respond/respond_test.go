package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"foodgram-backend/services/errs"
	"foodgram-backend/structs"

	"github.com/gin-gonic/gin"
)

func serve(t *testing.T, path string, handler gin.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	route := gin.New()
	route.GET(path, handler)
	w := httptest.NewRecorder()
	route.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"Validation", errs.NewValidation("name", "This field is required."), http.StatusBadRequest, `{"name":["This field is required."]}`},
		{"Conflict", errs.NewConflict("Recipe is already in favorites."), http.StatusBadRequest, `{"detail":"Recipe is already in favorites."}`},
		{"NotFoundDetail", errs.NewNotFound("There is no avatar to delete."), http.StatusNotFound, `{"detail":"There is no avatar to delete."}`},
		{"NotFound", fmt.Errorf("recipe 3: %w", errs.ErrNotFound), http.StatusNotFound, `{"detail":"Not found."}`},
		{"Forbidden", errs.ErrForbidden, http.StatusForbidden, `{"detail":"You do not have permission to perform this action."}`},
		{"Auth", errs.ErrAuth, http.StatusUnauthorized, `{"detail":"Authentication credentials were not provided."}`},
		{"Internal", errors.New("database is gone"), http.StatusInternalServerError, `{"detail":"internal error"}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := serve(t, "/", func(ctx *gin.Context) { Error(ctx, c.err) }, "/")
			if w.Code != c.status {
				t.Errorf("Expected %d, got %d", c.status, w.Code)
			}
			if w.Body.String() != c.body {
				t.Errorf("Expected body %s, got %s", c.body, w.Body.String())
			}
		})
	}
}

func TestBindError(t *testing.T) {
	if err := RegisterValidators(); err != nil {
		t.Fatalf("RegisterValidators failed: %v", err)
	}
	handler := func(c *gin.Context) {
		var param structs.RegisterParam
		if err := c.ShouldBindJSON(&param); err != nil {
			BindError(c, err)
		}
	}

	gin.SetMode(gin.TestMode)
	route := gin.New()
	route.POST("/", handler)

	t.Run("Fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := `{"email":"not-an-email","username":"bad name","first_name":"A","last_name":"B","password":"short"}`
		route.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		var fields map[string][]string
		if err := json.Unmarshal(w.Body.Bytes(), &fields); err != nil {
			t.Fatalf("Failed to decode %s: %v", w.Body.String(), err)
		}
		want := map[string]string{
			"email":    "Enter a valid email address.",
			"username": "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.",
			"password": "Ensure this field has at least 8 characters.",
		}
		for field, message := range want {
			if len(fields[field]) != 1 || fields[field][0] != message {
				t.Errorf("Expected %s to be %q, got %v", field, message, fields[field])
			}
		}
		if _, ok := fields["first_name"]; ok {
			t.Errorf("Did not expect first_name to be flagged: %v", fields)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		w := httptest.NewRecorder()
		route.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{")))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestParamID(t *testing.T) {
	handler := func(c *gin.Context) {
		if id, ok := ParamID(c, "id"); ok {
			c.String(http.StatusOK, "%d", id)
		}
	}
	for target, status := range map[string]int{"/items/12": http.StatusOK, "/items/0": http.StatusNotFound, "/items/x": http.StatusNotFound, "/items/-1": http.StatusNotFound} {
		if w := serve(t, "/items/:id", handler, target); w.Code != status {
			t.Errorf("%s: expected %d, got %d", target, status, w.Code)
		}
	}
}

func TestPage(t *testing.T) {
	handler := func(c *gin.Context) {
		var param structs.PageParam
		_ = c.ShouldBindQuery(&param)
		Page(c, []int{1, 2}, 25, param, 10)
	}

	cases := []struct {
		target   string
		next     string
		previous string
	}{
		{"/api/recipes/?tags=lunch", "http://example.com/api/recipes/?page=2&tags=lunch", ""},
		{"/api/recipes/?page=2", "http://example.com/api/recipes/?page=3", "http://example.com/api/recipes/"},
		{"/api/recipes/?page=3", "", "http://example.com/api/recipes/?page=2"},
	}
	for _, c := range cases {
		t.Run(c.target, func(t *testing.T) {
			w := serve(t, "/api/recipes/", handler, c.target)
			var page struct {
				Count    int     `json:"count"`
				Next     *string `json:"next"`
				Previous *string `json:"previous"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
				t.Fatalf("Failed to decode %s: %v", w.Body.String(), err)
			}
			if page.Count != 25 {
				t.Errorf("Expected count 25, got %d", page.Count)
			}
			if got := deref(page.Next); got != c.next {
				t.Errorf("Expected next %q, got %q", c.next, got)
			}
			if got := deref(page.Previous); got != c.previous {
				t.Errorf("Expected previous %q, got %q", c.previous, got)
			}
		})
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
