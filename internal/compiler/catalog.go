package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/shelflife/internal/inventory"
)

// LoadMode controls how errors are handled during catalog loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Load error codes, shared by every CLI command that reads a catalog.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeNoItems     = "E007" // Catalog declares no items
	ErrCodeCompile     = "E008" // Item failed to compile
)

// CatalogItem is a compiled item and its catalog id.
type CatalogItem struct {
	ID   string
	Item *inventory.Item
}

// Catalog is the result of loading CUE item definitions.
type Catalog struct {
	Items     []CatalogItem
	FileCount int
}

// LoadError represents an error that occurred during catalog loading.
type LoadError struct {
	Code    string
	Item    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadCatalog loads and compiles item definitions from a CUE file or a
// directory of CUE files (one CUE package).
//
// Items come back in declaration order. If mode is LoadModeFailFast the
// first item that fails to compile stops loading; with LoadModeCollectAll
// every failure is reported and the remaining items are still returned.
// A nil Catalog means nothing could be loaded at all.
func LoadCatalog(path string, mode LoadMode) (*Catalog, []error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing catalog: %v", err)}}
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	cfg := &load.Config{Dir: path}
	args := []string{"."}
	fileCount := 1
	if !info.IsDir() {
		cfg.Dir = filepath.Dir(path)
		args = []string{filepath.Base(path)}
	} else {
		files, err := FindCUEFiles(path)
		if err != nil {
			return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
		}
		if len(files) == 0 {
			return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", path)}}
		}
		fileCount = len(files)
	}

	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	itemsVal := value.LookupPath(cue.ParsePath("item"))
	if !itemsVal.Exists() {
		return nil, []error{&LoadError{Code: ErrCodeNoItems, Message: fmt.Sprintf("no items declared in %s", path)}}
	}

	iter, err := itemsVal.Fields()
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating items: %v", err)}}
	}

	catalog := &Catalog{FileCount: fileCount}
	var errs []error
	for iter.Next() {
		id, item, err := CompileItem(iter.Value())
		if err != nil {
			errs = append(errs, convertCompileError(err, iter.Label()))
			if mode == LoadModeFailFast {
				return catalog, errs
			}
			continue
		}
		catalog.Items = append(catalog.Items, CatalogItem{ID: id, Item: item})
	}

	return catalog, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compile error to a LoadError with position info.
func convertCompileError(err error, item string) *LoadError {
	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeCompile,
			Item:    item,
			Message: fmt.Sprintf("item %s: %s: %s", item, compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeCompile,
		Item:    item,
		Message: fmt.Sprintf("item %s: %v", item, err),
	}
}
