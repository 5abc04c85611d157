package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-htmlview/internal/datafile"
	"github.com/goliatone/go-htmlview/pkg/view"
)

// Session walks the user through choosing a template and filling in its
// render context.
type Session struct {
	driver Driver
}

// NewSession wraps driver.
func NewSession(driver Driver) (*Session, error) {
	if driver == nil {
		return nil, errors.New("prompt: driver is required")
	}
	return &Session{driver: driver}, nil
}

// ChooseTemplate asks for one of ids.
func (s *Session) ChooseTemplate(ctx context.Context, ids []string) (string, error) {
	if len(ids) == 0 {
		return "", errors.New("prompt: no templates to choose from")
	}
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:  "Template",
		Options:  ids,
		PageSize: 15,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(ids) {
		return "", fmt.Errorf("prompt: invalid template selection %d", idx)
	}
	return ids[idx], nil
}

// CollectContext asks for key/value pairs until an empty key is entered, then
// whether to keep the doctype. Answers are layered over base.
func (s *Session) CollectContext(ctx context.Context, base view.Context) (view.Context, error) {
	var pairs []string
	for {
		key, err := s.driver.Input(ctx, InputConfig{
			Message:   "Context key (empty to finish)",
			Help:      "Dotted keys such as user.name build nested values.",
			Validator: validateKey,
		})
		if err != nil {
			return nil, err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			break
		}

		current := ""
		if v, ok := base[key]; ok && v != nil {
			current = fmt.Sprint(v)
		}
		value, err := s.driver.Input(ctx, InputConfig{
			Message: fmt.Sprintf("Value for %s", key),
			Default: current,
			Help:    "Parsed as YAML, so 3 is a number and true is a boolean.",
		})
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, key+"="+value)
	}

	answers, err := datafile.ParseAssignments(pairs)
	if err != nil {
		return nil, err
	}

	keepDoctype, err := s.driver.Confirm(ctx, ConfirmConfig{
		Message: "Prepend the doctype?",
		Default: true,
	})
	if err != nil {
		return nil, err
	}
	if !keepDoctype {
		answers[view.DoctypeKey] = ""
	}

	merged := view.Merge(base, answers)
	if err := s.driver.Info(ctx, fmt.Sprintf("Rendering with %d context keys", len(merged))); err != nil {
		return nil, err
	}
	return merged, nil
}

func validateKey(key string) error {
	if strings.ContainsAny(key, "= \t") {
		return errors.New("keys cannot contain spaces or '='")
	}
	return nil
}
