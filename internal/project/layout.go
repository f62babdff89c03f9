package project

import (
	"errors"
	"path/filepath"
	"strings"
)

// Overrides replaces individual artifact paths. Empty fields keep the default
// derived from the project name.
type Overrides struct {
	FullFilesList  string
	ProcessedFiles string
	CleanCSV       string
	RawCSV         string
	RunningSummary string
	FullSummary    string
	PartialSummary string
	Destination    string
}

// Layout lists the resolved artifact paths of one project.
type Layout struct {
	Name     string
	Root     string
	OutDir   string
	ListsDir string

	FullFilesList  string
	ProcessedFiles string
	CleanCSV       string
	RawCSV         string
	RunningSummary string
	FullSummary    string
	PartialSummary string
	Destination    string
	HistoryDB      string
	LockFile       string
}

// NewLayout resolves the project layout under cacheDir.
func NewLayout(cacheDir, name string, overrides Overrides) (Layout, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Layout{}, errors.New("project name is required")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return Layout{}, errors.New("project name must be a single path segment")
	}

	root := filepath.Join(cacheDir, name)
	out := filepath.Join(root, "out")
	lists := filepath.Join(root, "working_file_lists")

	return Layout{
		Name:           name,
		Root:           root,
		OutDir:         out,
		ListsDir:       lists,
		FullFilesList:  pick(overrides.FullFilesList, filepath.Join(lists, "full_file_list.txt")),
		ProcessedFiles: pick(overrides.ProcessedFiles, filepath.Join(lists, "processed_file_list.txt")),
		CleanCSV:       pick(overrides.CleanCSV, filepath.Join(out, "files.csv")),
		RawCSV:         pick(overrides.RawCSV, filepath.Join(out, "files_raw.csv")),
		RunningSummary: pick(overrides.RunningSummary, filepath.Join(out, "summary.txt")),
		FullSummary:    pick(overrides.FullSummary, filepath.Join(out, "full_summary.txt")),
		PartialSummary: pick(overrides.PartialSummary, filepath.Join(out, "partial_summary.txt")),
		Destination:    pick(overrides.Destination, filepath.Join(root, "destination.txt")),
		HistoryDB:      filepath.Join(root, "history.db"),
		LockFile:       filepath.Join(root, ".lock"),
	}, nil
}

func pick(override, fallback string) string {
	if trimmed := strings.TrimSpace(override); trimmed != "" {
		return filepath.Clean(trimmed)
	}
	return fallback
}

// NameFromDir derives a project name from a destination directory by
// replacing path separators with underscores.
func NameFromDir(dir string) string {
	cleaned := filepath.Clean(strings.TrimSpace(dir))
	if vol := filepath.VolumeName(cleaned); vol != "" {
		cleaned = strings.ReplaceAll(cleaned, ":", "")
	}
	replacer := strings.NewReplacer("/", "_", `\`, "_")
	return replacer.Replace(cleaned)
}

// directories returns every directory the layout needs, including parents of
// overridden artifact paths.
func (l Layout) directories() []string {
	dirs := []string{l.Root, l.OutDir, l.ListsDir}
	for _, path := range []string{
		l.FullFilesList, l.ProcessedFiles, l.CleanCSV, l.RawCSV,
		l.RunningSummary, l.FullSummary, l.PartialSummary, l.Destination,
	} {
		dirs = append(dirs, filepath.Dir(path))
	}
	return dirs
}
