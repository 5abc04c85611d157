package view_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-htmlview/pkg/markup"
	"github.com/goliatone/go-htmlview/pkg/view"
)

func paragraph(text string) func(view.Context) any {
	return func(view.Context) any {
		return markup.H("p", nil, text)
	}
}

func TestCandidates(t *testing.T) {
	got := view.Candidates("/views/home", nil)
	want := []string{
		"/views/home",
		"/views/home.tpl",
		"/views/home.html",
		"/views/home/index.tpl",
		"/views/home/index.html",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}

	got = view.Candidates("/views/home.tpl", nil)
	want = []string{
		"/views/home.tpl",
		"/views/home.tpl/index.tpl",
		"/views/home.tpl/index.html",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("candidates with extension mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryLoadAppliesExtensionAndIndexRules(t *testing.T) {
	reg := view.NewRegistry()
	reg.MustRegister("/views/home.tpl", paragraph("home"))
	reg.MustRegister("/views/blog/index.html", paragraph("blog"))
	reg.MustRegister("/views/raw", paragraph("raw"))

	for _, path := range []string{"/views/home", "/views/home.tpl", "/views/blog", "/views/raw", "/views/./home"} {
		if _, err := reg.Load(path); err != nil {
			t.Fatalf("Load(%q): %v", path, err)
		}
	}

	_, err := reg.Load("/views/missing")
	if !errors.Is(err, view.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}

	if diff := cmp.Diff([]string{"/views/blog/index.html", "/views/home.tpl", "/views/raw"}, reg.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := view.NewRegistry()
	if err := reg.Register("/views/home.tpl", paragraph("a")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("/views/home.tpl", paragraph("b")); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := reg.Register("", paragraph("c")); err == nil {
		t.Fatalf("expected empty path error")
	}
	if err := reg.Register("/views/nil.tpl", nil); err == nil {
		t.Fatalf("expected nil export error")
	}
}

func TestLoadFirstOrder(t *testing.T) {
	reg := view.NewRegistry()
	reg.MustRegister("/views/a.tpl", paragraph("a"))
	reg.MustRegister("/views/b.tpl", paragraph("b"))

	match, err := view.LoadFirst(reg, []string{"/views/missing", "/views/b", "/views/a"})
	if err != nil {
		t.Fatalf("LoadFirst: %v", err)
	}
	if match.Path != "/views/b" {
		t.Fatalf("matched %q, want /views/b", match.Path)
	}
}

func TestLoadFirstExhaustion(t *testing.T) {
	paths := []string{"/views/x", "/views/y"}
	_, err := view.LoadFirst(view.NewRegistry(), paths)

	var notFound *view.NoTemplateFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NoTemplateFoundError, got %T %v", err, err)
	}
	if diff := cmp.Diff(paths, notFound.Paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(err, view.ErrNoTemplateFound) {
		t.Fatalf("expected errors.Is ErrNoTemplateFound")
	}
}

func TestLoadFirstStopsOnLoaderFailure(t *testing.T) {
	broken := errors.New("syntax error")
	calls := 0
	loader := view.LoaderFunc(func(path string) (any, error) {
		calls++
		return nil, broken
	})

	_, err := view.LoadFirst(loader, []string{"/views/a", "/views/b"})
	if !errors.Is(err, broken) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("loader called %d times, want 1", calls)
	}
}

func TestLoadFirstRejectsNonInvocableExport(t *testing.T) {
	reg := view.NewRegistry()
	reg.MustRegister("/views/data.tpl", map[string]any{"title": "x"})

	_, err := view.LoadFirst(reg, []string{"/views/data"})
	var exportErr *view.InvalidTemplateExportError
	if !errors.As(err, &exportErr) {
		t.Fatalf("expected InvalidTemplateExportError, got %v", err)
	}
	if exportErr.Path != "/views/data" {
		t.Fatalf("path = %q", exportErr.Path)
	}
	if !errors.Is(err, view.ErrInvalidTemplateExport) {
		t.Fatalf("expected errors.Is ErrInvalidTemplateExport")
	}
}

func TestAsTemplate(t *testing.T) {
	node := markup.H("p", nil)
	exports := map[string]any{
		"template func": view.TemplateFunc(func(context.Context, view.Context) (any, error) { return node, nil }),
		"context func":  func(context.Context, view.Context) (any, error) { return node, nil },
		"error func":    func(view.Context) (any, error) { return node, nil },
		"plain func":    func(view.Context) any { return node },
	}
	for name, export := range exports {
		tpl, ok := view.AsTemplate(export)
		if !ok {
			t.Fatalf("%s: expected invocable export", name)
		}
		got, err := tpl.Execute(context.Background(), nil)
		if err != nil || got != node {
			t.Fatalf("%s: Execute = %v, %v", name, got, err)
		}
	}

	for _, export := range []any{nil, "text", 42, map[string]any{}, func() {}} {
		if _, ok := view.AsTemplate(export); ok {
			t.Fatalf("AsTemplate(%T) accepted a non-invocable export", export)
		}
	}
}

func TestChainLoaderShadowsLaterLoaders(t *testing.T) {
	compiled := view.NewRegistry()
	compiled.MustRegister("/views/home.tpl", paragraph("compiled"))
	disk := view.NewRegistry()
	disk.MustRegister("/views/home.tpl", paragraph("disk"))
	disk.MustRegister("/views/about.tpl", paragraph("about"))

	chain := view.ChainLoader{compiled, nil, disk}

	export, err := chain.Load("/views/home")
	if err != nil {
		t.Fatalf("load home: %v", err)
	}
	tpl, _ := view.AsTemplate(export)
	out, _ := tpl.Execute(context.Background(), nil)
	if got := markup.TextContent(out.(markup.Node)); got != "compiled" {
		t.Fatalf("home rendered %q, want compiled", got)
	}

	if _, err := chain.Load("/views/about"); err != nil {
		t.Fatalf("load about: %v", err)
	}
	if _, err := chain.Load("/views/none"); !errors.Is(err, view.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}
