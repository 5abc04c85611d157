package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-htmlview/pkg/view"
)

func newTemplatesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List template identifiers found on disk",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.renderer()
			if err != nil {
				return err
			}
			ids, err := discoverTemplates(r.Namespaces())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

type templateFile struct {
	ID   string
	Path string
}

// discoverTemplates walks every namespace directory and returns identifiers
// for template files, sorted. Directory indexes are listed by directory name.
// Missing directories are skipped.
func discoverTemplates(namespaces view.Namespaces) ([]string, error) {
	files, err := discoverFiles(namespaces)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(files))
	for _, file := range files {
		ids = append(ids, file.ID)
	}
	return ids, nil
}

func discoverFiles(namespaces view.Namespaces) ([]templateFile, error) {
	var files []templateFile
	for _, ns := range namespaces.Names() {
		dir, _ := namespaces.Lookup(ns)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isTemplateFile(path) {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			files = append(files, templateFile{ID: identifier(ns, rel), Path: path})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("templates: walk %s: %w", dir, err)
		}
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].ID == files[j].ID {
			return files[i].Path < files[j].Path
		}
		return files[i].ID < files[j].ID
	})
	return files, nil
}

func identifier(namespace, rel string) string {
	name := filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
	if name == view.DefaultTemplate {
		name = ""
	} else {
		name = strings.TrimSuffix(name, "/"+view.DefaultTemplate)
	}
	if namespace == view.DefaultNamespace {
		if name == "" {
			return view.DefaultTemplate
		}
		return name
	}
	return namespace + ":" + name
}

func isTemplateFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range view.DefaultExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}
