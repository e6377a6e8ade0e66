package debug

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/go-didact/didact/pkg/element"
	"github.com/go-didact/didact/pkg/memdom"
	"github.com/go-didact/didact/pkg/reconciler"
	"github.com/go-didact/didact/pkg/scheduler"
)

func startTestServer(t *testing.T) (*reconciler.Renderer, string) {
	t.Helper()
	doc := memdom.NewDocument()
	container := memdom.NewRoot("root")
	r := reconciler.NewRenderer(doc, container, scheduler.Immediate{})

	srv := NewServer(r, nil)
	port, err := srv.Start(0)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(srv.Stop)
	return r, fmt.Sprintf("http://127.0.0.1:%d", port)
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body)
}

func TestHealthEndpoint(t *testing.T) {
	_, base := startTestServer(t)
	code, body := get(t, base+"/health")
	if code != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Errorf("health = %d %q", code, body)
	}
}

func TestTreeEndpointBeforeFirstCommit(t *testing.T) {
	_, base := startTestServer(t)
	code, _ := get(t, base+"/tree")
	if code != http.StatusServiceUnavailable {
		t.Errorf("code = %d, want 503", code)
	}
}

func TestTreeEndpointServesCommittedTree(t *testing.T) {
	r, base := startTestServer(t)
	// Props at several depths: the recursive snapshot shape must encode
	// cleanly all the way down.
	r.Render(element.New("div", element.Props{"id": "app"},
		element.New("ul", element.Props{"class": "items"},
			element.New("li", element.Props{"title": "first"}, "hi"),
		),
	))

	code, body := get(t, base+"/tree")
	if code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", code, body)
	}

	var tree reconciler.FiberSnapshot
	if err := json.Unmarshal([]byte(body), &tree); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if tree.Tag != "#root" || len(tree.Children) != 1 || tree.Children[0].Tag != "div" {
		t.Fatalf("tree = %+v", tree)
	}
	li := tree.Children[0].Children[0].Children[0]
	if li.Tag != "li" || li.Props["title"] != "first" {
		t.Errorf("li snapshot = %+v", li)
	}
}

func TestStatsEndpoint(t *testing.T) {
	r, base := startTestServer(t)
	r.Render(element.New("p", nil))
	r.Render(element.New("p", nil))

	code, body := get(t, base+"/stats")
	if code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	var stats reconciler.Stats
	if err := json.Unmarshal([]byte(body), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Commits != 2 || stats.RendersStarted != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, base := startTestServer(t)
	resp, err := http.Post(base+"/tree", "text/plain", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("code = %d", resp.StatusCode)
	}
}

func TestStartTwiceReturnsSamePort(t *testing.T) {
	doc := memdom.NewDocument()
	r := reconciler.NewRenderer(doc, memdom.NewRoot("root"), scheduler.Immediate{})
	srv := NewServer(r, nil)
	port, err := srv.Start(0)
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Stop()

	again, err := srv.Start(0)
	if err != nil || again != port {
		t.Errorf("second Start = %d, %v; want %d", again, err, port)
	}
}
