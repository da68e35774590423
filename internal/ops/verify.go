package ops

import (
	"fmt"
	"os"

	"github.com/aidanlsb/relink/internal/model"
	"github.com/aidanlsb/relink/internal/parser"
	"github.com/aidanlsb/relink/internal/paths"
	"github.com/aidanlsb/relink/internal/project"
)

// Issue is one problem found during link verification.
type Issue struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Verify re-parses the given files from disk and reports links whose targets
// no longer resolve. It is run after a committed move as a safety net; issues
// are reported as warnings, not failures.
func Verify(files []string) []Issue {
	var issues []Issue
	cache := make(map[string]string)

	readTarget := func(path string) (string, bool) {
		if content, ok := cache[path]; ok {
			return content, true
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", false
		}
		cache[path] = string(data)
		return cache[path], true
	}

	for _, path := range files {
		content, ok := readTarget(path)
		if !ok {
			issues = append(issues, Issue{File: path, Message: "file does not exist"})
			continue
		}
		file, _ := parser.Parse(content, path)
		issues = append(issues, checkFile(file, content, readTarget)...)
	}
	return issues
}

// CheckProject verifies every link in the project under root: file targets
// must exist, anchors must match a heading, and reference uses must have a
// matching definition.
func CheckProject(root string, cfg *project.Config) ([]Issue, []string, error) {
	corpus, err := project.ParseAll(root, cfg)
	if err != nil {
		return nil, nil, err
	}

	readTarget := func(path string) (string, bool) {
		if content, ok := corpus.Contents[path]; ok {
			return content, true
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", false
		}
		return string(data), true
	}

	var issues []Issue
	for _, file := range corpus.Files {
		issues = append(issues, checkFile(file, corpus.Contents[file.Path], readTarget)...)
	}
	return issues, corpus.Warnings, nil
}

func checkFile(file *model.ParsedFile, content string, readTarget func(string) (string, bool)) []Issue {
	var issues []Issue

	for _, link := range file.Links {
		switch {
		case link.Kind == model.KindAnchor:
			if !parser.HasAnchor(content, link.Href) {
				issues = append(issues, Issue{
					File:    file.Path,
					Line:    link.Line,
					Message: fmt.Sprintf("anchor %q does not match any heading", link.Href),
				})
			}

		case link.Kind == model.KindReference:
			if _, ok := file.Definition(link.Href); !ok {
				issues = append(issues, Issue{
					File:    file.Path,
					Line:    link.Line,
					Message: fmt.Sprintf("reference %q has no definition", link.Href),
				})
			}

		case link.Kind.HasFileTarget():
			if link.ResolvedPath == "" {
				issues = append(issues, Issue{
					File:    file.Path,
					Line:    link.Line,
					Message: fmt.Sprintf("target of %q could not be resolved", link.Href),
				})
				continue
			}
			if _, err := os.Stat(link.ResolvedPath); err != nil {
				issues = append(issues, Issue{
					File:    file.Path,
					Line:    link.Line,
					Message: fmt.Sprintf("target %q does not exist", link.Href),
				})
				continue
			}
			_, fragment := paths.SplitFragment(link.Href)
			if fragment == "" || !paths.IsMarkdown(link.ResolvedPath) {
				continue
			}
			target, ok := readTarget(link.ResolvedPath)
			if !ok {
				continue
			}
			if !parser.HasAnchor(target, fragment) {
				issues = append(issues, Issue{
					File:    file.Path,
					Line:    link.Line,
					Message: fmt.Sprintf("anchor %q not found in target", fragment),
				})
			}
		}
	}
	return issues
}
