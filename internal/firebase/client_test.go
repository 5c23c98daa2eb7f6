package firebase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func keysOf(children []Child) []string {
	keys := make([]string, len(children))
	for i, c := range children {
		keys[i] = c.Key
	}
	return keys
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseChildren(t *testing.T) {
	t.Run("Null", func(t *testing.T) {
		children, err := ParseChildren([]byte(" null\n"))
		if err != nil || len(children) != 0 {
			t.Fatalf("children=%v err=%v", children, err)
		}
	})

	t.Run("ArrayKeepsOrderAndHoles", func(t *testing.T) {
		children, err := ParseChildren([]byte(`[{"title":"a"},null,{"title":"c"}]`))
		if err != nil {
			t.Fatal(err)
		}
		if got := keysOf(children); !equalStrings(got, []string{"0", "1", "2"}) {
			t.Fatalf("keys = %v", got)
		}
		if string(children[1].Value) != "null" {
			t.Fatalf("hole = %s", children[1].Value)
		}
	})

	t.Run("ObjectKeyOrder", func(t *testing.T) {
		children, err := ParseChildren([]byte(`{"b":1,"10":2,"a":3,"2":4,"-Nx":5}`))
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"2", "10", "-Nx", "a", "b"}
		if got := keysOf(children); !equalStrings(got, want) {
			t.Fatalf("keys = %v, want %v", got, want)
		}
	})

	t.Run("Scalar", func(t *testing.T) {
		if _, err := ParseChildren([]byte(`"hello"`)); !errors.Is(err, ErrUnexpectedRoot) {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestClientFetchRoot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.json" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("auth") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Permission denied"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"q1","title":"Capitals"}]`))
	}))
	defer srv.Close()

	t.Run("Authorized", func(t *testing.T) {
		c := NewClient(srv.URL, "secret", time.Second, zerolog.Nop())
		children, err := c.FetchRoot(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(children) != 1 || children[0].Key != "0" {
			t.Fatalf("children = %+v", children)
		}
	})

	t.Run("Denied", func(t *testing.T) {
		c := NewClient(srv.URL, "", time.Second, zerolog.Nop())
		if _, err := c.FetchRoot(context.Background()); err == nil {
			t.Fatal("expected an error for HTTP 401")
		}
	})
}

func TestClientTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c := NewClient(srv.URL, "", 50*time.Millisecond, zerolog.Nop())
	if _, err := c.FetchRoot(context.Background()); err == nil {
		t.Fatal("expected a timeout error")
	}
}
