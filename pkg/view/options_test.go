package view_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-htmlview/pkg/view"
)

func TestApplyDefaultOptionsDefaults(t *testing.T) {
	t.Setenv(view.EnvVar, "")

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	got := view.ApplyDefaultOptions(view.Options{})
	want := view.ResolvedOptions{
		Env:            view.EnvDevelopment,
		NamespacePaths: map[string]string{view.DefaultNamespace: filepath.Join(cwd, "view")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("resolved options mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyDefaultOptionsReadsEnvironment(t *testing.T) {
	t.Setenv(view.EnvVar, "production")

	if got := view.ApplyDefaultOptions(view.Options{}).Env; got != "production" {
		t.Fatalf("env = %q, want production", got)
	}
	if got := view.ApplyDefaultOptions(view.Options{Env: "staging"}).Env; got != "staging" {
		t.Fatalf("explicit env = %q, want staging", got)
	}
}

func TestApplyDefaultOptionsFoldsPath(t *testing.T) {
	input := map[string]string{
		"admin":               "/srv/admin",
		view.DefaultNamespace: "/ignored",
	}

	got := view.ApplyDefaultOptions(view.Options{Path: "/srv/views", NamespacePaths: input})
	want := map[string]string{
		"admin":               "/srv/admin",
		view.DefaultNamespace: "/srv/views",
	}
	if diff := cmp.Diff(want, got.NamespacePaths); diff != "" {
		t.Fatalf("namespace paths mismatch (-want +got):\n%s", diff)
	}

	input["admin"] = "/changed"
	input["extra"] = "/extra"
	if got.NamespacePaths["admin"] != "/srv/admin" {
		t.Fatalf("resolved options alias the caller map")
	}
	if _, ok := got.NamespacePaths["extra"]; ok {
		t.Fatalf("resolved options alias the caller map")
	}
	if input[view.DefaultNamespace] != "/ignored" {
		t.Fatalf("caller map was modified")
	}
}

func TestApplyDefaultOptionsMakesPathsAbsolute(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	got := view.ApplyDefaultOptions(view.Options{
		Path:           "templates",
		NamespacePaths: map[string]string{"mail": "./mail"},
	})
	if want := filepath.Join(cwd, "templates"); got.NamespacePaths[view.DefaultNamespace] != want {
		t.Fatalf("default path = %q, want %q", got.NamespacePaths[view.DefaultNamespace], want)
	}
	if want := filepath.Join(cwd, "mail"); got.NamespacePaths["mail"] != want {
		t.Fatalf("mail path = %q, want %q", got.NamespacePaths["mail"], want)
	}
}
