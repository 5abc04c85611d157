package pongo_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-htmlview/pkg/markup"
	"github.com/goliatone/go-htmlview/pkg/testsupport"
	"github.com/goliatone/go-htmlview/pkg/view"
	"github.com/goliatone/go-htmlview/pkg/view/pongo"
)

func newRenderer(t *testing.T, opts ...pongo.Option) *view.Renderer {
	t.Helper()

	loader, err := pongo.New(opts...)
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	r, err := view.New(
		view.WithEnv(view.EnvDevelopment),
		view.WithPath(filepath.Join("testdata", "views")),
		view.WithLoader(loader),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestLoaderRendersIncludes(t *testing.T) {
	r := newRenderer(t)

	got := testsupport.MustRender(t, r, "home", view.Context{"name": "Ada", "title": "  Site  "})
	testsupport.AssertGolden(t, filepath.Join("testdata", "home.golden"), got)
}

func TestLoaderResolvesDirectoryIndex(t *testing.T) {
	r := newRenderer(t)

	got := testsupport.MustRender(t, r, "blog", view.Context{
		"doctype": "",
		"body":    `<b>ok</b><script>alert(1)</script>`,
	})
	if want := "<article><b>ok</b></article>"; got != want {
		t.Fatalf("render = %q, want %q", got, want)
	}
}

func TestLoaderEscapesValuesAndEmbedsMarkup(t *testing.T) {
	r := newRenderer(t)

	got := testsupport.MustRender(t, r, "escape", view.Context{"doctype": "", "value": "<b>x</b>"})
	if want := "<p>&lt;b&gt;x&lt;/b&gt;</p>"; got != want {
		t.Fatalf("escaped render = %q, want %q", got, want)
	}

	got = testsupport.MustRender(t, r, "badge", view.Context{
		"doctype": "",
		"badge":   markup.H("span", markup.Props{"className": "badge"}, "new"),
	})
	if want := `<p><span class="badge">new</span></p>`; got != want {
		t.Fatalf("markup render = %q, want %q", got, want)
	}
}

func TestLoaderMissingTemplate(t *testing.T) {
	loader, err := pongo.New()
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	dir, _ := filepath.Abs(filepath.Join("testdata", "views"))

	_, err = loader.Load(filepath.Join(dir, "nope"))
	if !errors.Is(err, view.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}

	export, err := loader.Load(filepath.Join(dir, "home.tpl"))
	if err != nil {
		t.Fatalf("load with extension: %v", err)
	}
	if tpl, ok := export.(*pongo.Template); !ok || tpl.Path() != filepath.Join(dir, "home.tpl") {
		t.Fatalf("unexpected export %#v", export)
	}
}

func TestLoaderReportsCompileErrors(t *testing.T) {
	r := newRenderer(t)

	_, err := r.RenderFirst(testsupport.Context(), []string{"broken", "home"}, nil)
	if err == nil {
		t.Fatalf("expected compile error")
	}
	if errors.Is(err, view.ErrNoTemplateFound) || errors.Is(err, view.ErrTemplateNotFound) {
		t.Fatalf("compile error reported as a miss: %v", err)
	}
	if !strings.Contains(err.Error(), "pongo: compile template") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoaderRejectsPlainText(t *testing.T) {
	r := newRenderer(t)

	_, err := r.Render(testsupport.Context(), "text", nil)
	if !errors.Is(err, view.ErrInvalidTemplateOutput) {
		t.Fatalf("expected ErrInvalidTemplateOutput, got %v", err)
	}
}

func TestLoaderFromFS(t *testing.T) {
	files := fstest.MapFS{
		"pages/hello.tpl":  {Data: []byte(`<p>{{ greeting|lowerfirst }}, {{ site }}</p>`)},
		"mail/index.html":  {Data: []byte(`<p>mail</p>`)},
		"outside/note.tpl": {Data: []byte(`<p>note</p>`)},
	}

	loader, err := pongo.New(
		pongo.WithFS(files, "/bundle"),
		pongo.WithGlobalData(map[string]any{"site": "Docs"}),
	)
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	r, err := view.New(
		view.WithEnv(view.EnvDevelopment),
		view.WithPath("/bundle/pages"),
		view.WithNamespace("mail", "/bundle/mail"),
		view.WithNamespace("elsewhere", "/other"),
		view.WithLoader(loader),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	got := testsupport.MustRender(t, r, "hello", view.Context{"doctype": "", "greeting": "Hello"})
	if want := "<p>hello, Docs</p>"; got != want {
		t.Fatalf("render = %q, want %q", got, want)
	}

	got = testsupport.MustRender(t, r, "mail:", view.Context{"doctype": ""})
	if got != "<p>mail</p>" {
		t.Fatalf("mail render = %q", got)
	}

	_, err = r.Render(testsupport.Context(), "elsewhere:note", nil)
	if !errors.Is(err, view.ErrNoTemplateFound) {
		t.Fatalf("expected ErrNoTemplateFound outside the bundle root, got %v", err)
	}
}

func TestLoaderRegisterFilter(t *testing.T) {
	loader, err := pongo.New()
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}

	if err := loader.RegisterFilter("trim", func(in any, _ any) (any, error) { return in, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}
	if err := loader.RegisterFilter("", nil); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoaderExtensions(t *testing.T) {
	loader, err := pongo.New(pongo.WithExtensions("jinja", " ", ".htm"))
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	got := loader.Extensions()
	if len(got) != 2 || got[0] != ".jinja" || got[1] != ".htm" {
		t.Fatalf("extensions = %v", got)
	}
}

func TestMarkdownFilter(t *testing.T) {
	r := newRenderer(t)

	got := testsupport.MustRender(t, r, "note", view.Context{
		"doctype": "",
		"text":    "Some *bold* words <script>alert(1)</script>",
	})
	if !strings.HasPrefix(got, `<div class="note"><p>Some <em>bold</em> words`) {
		t.Fatalf("markdown render = %q", got)
	}
	if strings.Contains(got, "script") {
		t.Fatalf("markdown render kept script: %q", got)
	}

	got = testsupport.MustRender(t, r, "note", view.Context{"doctype": ""})
	if want := `<div class="note"></div>`; got != want {
		t.Fatalf("empty markdown render = %q, want %q", got, want)
	}
}

func TestLoaderLoopsOverNodeSlices(t *testing.T) {
	r := newRenderer(t)
	want := `<ul><li>a</li><li class="b">b</li></ul>`

	elements := []*markup.Element{
		markup.H("li", nil, "a"),
		markup.H("li", markup.Props{"className": "b"}, "b"),
	}
	got := testsupport.MustRender(t, r, "list", view.Context{"doctype": "", "items": elements})
	if got != want {
		t.Fatalf("[]*Element render = %q, want %q", got, want)
	}

	nodes := []markup.Node{elements[0], elements[1]}
	got = testsupport.MustRender(t, r, "list", view.Context{"doctype": "", "items": nodes})
	if got != want {
		t.Fatalf("[]Node render = %q, want %q", got, want)
	}
}

func TestLoaderExecuteErrorNamesTemplateOnce(t *testing.T) {
	r := newRenderer(t)

	_, err := r.Render(testsupport.Context(), "call", view.Context{"name": "Ada"})
	if err == nil {
		t.Fatal("expected execution error")
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "view: execute template ") {
		t.Fatalf("unexpected error prefix: %v", err)
	}
	if n := strings.Count(msg, "execute template"); n != 1 {
		t.Fatalf("template path wrapped %d times: %v", n, err)
	}
}
