package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-htmlview/pkg/view"
)

type scriptedDriver struct {
	inputs   []string
	confirms []bool
	selects  []int
	infos    []string
	err      error
}

func (d *scriptedDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	if len(d.inputs) == 0 {
		return "", nil
	}
	next := d.inputs[0]
	d.inputs = d.inputs[1:]
	if cfg.Validator != nil {
		if err := cfg.Validator(next); err != nil {
			return "", err
		}
	}
	return next, nil
}

func (d *scriptedDriver) Confirm(context.Context, ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return true, nil
	}
	next := d.confirms[0]
	d.confirms = d.confirms[1:]
	return next, nil
}

func (d *scriptedDriver) Select(context.Context, SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return 0, nil
	}
	next := d.selects[0]
	d.selects = d.selects[1:]
	return next, nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func TestNewSessionRequiresDriver(t *testing.T) {
	if _, err := NewSession(nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestChooseTemplate(t *testing.T) {
	s, _ := NewSession(&scriptedDriver{selects: []int{1, 5}})

	got, err := s.ChooseTemplate(context.Background(), []string{"home", "admin:dashboard"})
	if err != nil || got != "admin:dashboard" {
		t.Fatalf("ChooseTemplate = %q, %v", got, err)
	}
	if _, err := s.ChooseTemplate(context.Background(), []string{"home"}); err == nil {
		t.Fatalf("expected out of range selection error")
	}
	if _, err := s.ChooseTemplate(context.Background(), nil); err == nil {
		t.Fatalf("expected empty list error")
	}
}

func TestCollectContext(t *testing.T) {
	driver := &scriptedDriver{
		inputs:   []string{"title", "Welcome", "user.age", "36", ""},
		confirms: []bool{false},
	}
	s, _ := NewSession(driver)

	got, err := s.CollectContext(context.Background(), view.Context{"site": "Docs", "title": "Old"})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := view.Context{
		"site":    "Docs",
		"title":   "Welcome",
		"user":    map[string]any{"age": 36},
		"doctype": "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("context mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infos) != 1 {
		t.Fatalf("expected one info message, got %v", driver.infos)
	}
}

func TestCollectContextPropagatesAbort(t *testing.T) {
	s, _ := NewSession(&scriptedDriver{err: ErrAborted})
	if _, err := s.CollectContext(context.Background(), nil); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestValidateKey(t *testing.T) {
	if err := validateKey("user.name"); err != nil {
		t.Fatalf("valid key rejected: %v", err)
	}
	if err := validateKey("a=b"); err == nil {
		t.Fatalf("expected error for '='")
	}
}
