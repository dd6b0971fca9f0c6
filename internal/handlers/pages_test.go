package handlers

import (
	"net/http"
	"strings"
	"testing"

	"blog/internal/service"
)

func TestStaticPages(t *testing.T) {
	auth, posts, comments := newMocks()
	r := newTestRouter(&service.Service{Authorization: auth, Posts: posts, Comments: comments})

	cases := map[string]string{
		"/about":   "About Me",
		"/contact": "Contact Me",
	}
	for path, want := range cases {
		w := doRequest(r, http.MethodGet, path, "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), want) {
			t.Fatalf("%s: body missing %q", path, want)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	auth, posts, comments := newMocks()
	r := newTestRouter(&service.Service{Authorization: auth, Posts: posts, Comments: comments})

	w := doRequest(r, http.MethodGet, "/no-such-page", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "does not exist") {
		t.Fatalf("expected not-found page, got %s", w.Body.String())
	}
}
