package manifest

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mikanbox/droplink/tool"
	"github.com/mikanbox/droplink/types"
)

// metadataWorkers bounds the goroutines doing stat/mime work during a build
// so a large selection cannot starve the goroutines serving requests.
const metadataWorkers = 4

type pendingFile struct {
	index       int
	path        string
	displayName string
}

// Build turns a list of user-chosen paths into manifest entries. Regular
// files become one entry each; directories are walked recursively and each
// contained file is labeled "<dirName>/<relative path>" with forward
// slashes. Any unreadable path fails the whole build.
func Build(paths []string) (*Manifest, error) {
	if len(paths) == 0 {
		return nil, ErrInvalidSelection
	}

	var pending []pendingFile
	for _, raw := range paths {
		canonical, err := canonicalize(raw)
		if err != nil {
			return nil, &FileSystemError{Path: raw, Err: err}
		}
		info, err := os.Stat(canonical)
		if err != nil {
			return nil, &FileSystemError{Path: raw, Err: err}
		}

		if info.Mode().IsRegular() {
			name := filepath.Base(canonical)
			pending = append(pending, pendingFile{
				index:       len(pending),
				path:        canonical,
				displayName: name,
			})
			continue
		}

		if info.IsDir() {
			label := filepath.Base(canonical)
			walkErr := filepath.WalkDir(canonical, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.Type().IsRegular() {
					return nil
				}
				relative, err := filepath.Rel(canonical, path)
				if err != nil {
					return err
				}
				pending = append(pending, pendingFile{
					index:       len(pending),
					path:        path,
					displayName: label + "/" + filepath.ToSlash(relative),
				})
				return nil
			})
			if walkErr != nil {
				return nil, &FileSystemError{Path: raw, Err: walkErr}
			}
		}
	}

	if len(pending) == 0 {
		return nil, ErrEmptySelection
	}

	entries, err := describeAll(pending)
	if err != nil {
		return nil, err
	}
	return New(entries)
}

func canonicalize(raw string) (string, error) {
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

// describeAll stats every pending file on a bounded worker pool and fills
// in size, mime type and a fresh opaque id. Order of the input is kept.
func describeAll(pending []pendingFile) ([]types.FileEntry, error) {
	entries := make([]types.FileEntry, len(pending))
	jobs := make(chan pendingFile)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := 0; i < metadataWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				info, err := os.Stat(job.path)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = &FileSystemError{Path: job.path, Err: err}
					}
					mu.Unlock()
					continue
				}
				entries[job.index] = types.FileEntry{
					ID:           tool.NewEntryID(),
					DisplayName:  job.displayName,
					DownloadName: filepath.Base(job.path),
					Size:         info.Size(),
					Extension:    tool.FileExtension(job.path),
					MimeType:     tool.GuessMimeType(job.path),
					SourcePath:   job.path,
				}
			}
		}()
	}

	for _, job := range pending {
		jobs <- job
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return entries, nil
}
