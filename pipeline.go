package fastglyph

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/fastglyph/bitmap"
	"github.com/bodgit/fastglyph/codegen"
	"github.com/bodgit/fastglyph/font"
)

const workers = 10

// ErrDuplicateExport is returned when two files in the same directory would
// export to the same generated files
var ErrDuplicateExport = errors.New("duplicate export")

// exportRoot is the path of the generated files without extension
func exportRoot(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file))
}

func (s *Session) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		seen := make(map[string]string)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() {
				return nil
			}

			switch filepath.Ext(file) {
			case font.Extension, bitmap.Extension:
			default:
				return nil
			}

			root := exportRoot(file)
			if other, ok := seen[root]; ok {
				return fmt.Errorf("%w: \"%s\" and \"%s\" both export to \"%s.h\"", ErrDuplicateExport, other, file, root)
			}
			seen[root] = file

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (s *Session) exportFile(file string, o codegen.Options) error {
	dir := filepath.Dir(file)
	o.Name = ""
	o.Filename = filepath.Base(exportRoot(file))

	switch filepath.Ext(file) {
	case font.Extension:
		state, err := s.LoadFont(file)
		if err != nil {
			return err
		}
		defer s.forget(state)

		if _, err := s.ExportFont(state, dir, o); err != nil {
			if errors.Is(err, codegen.ErrIncompleteFont) {
				s.logger.Printf("Skipping \"%s\", %s\n", file, err)
				return nil
			}
			return err
		}
	case bitmap.Extension:
		state, err := s.LoadBitmap(file)
		if err != nil {
			return err
		}
		defer s.forget(state)

		if _, err := s.ExportBitmap(state, dir, o); err != nil {
			return err
		}
	}

	return nil
}

func (s *Session) exportWorker(ctx context.Context, in <-chan string, o codegen.Options) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if err := ctx.Err(); err != nil {
				errc <- err
				return
			}
			if err := s.exportFile(file, o); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// ExportTree exports every font and bitmap found under path, each into the
// directory holding it and named after its file. Name and Filename in o are
// ignored. Incomplete fonts are logged and skipped. Two files differing only
// by extension return ErrDuplicateExport.
func (s *Session) ExportTree(ctx context.Context, path string, o codegen.Options) error {
	if path == "" {
		return ErrMissingDestination
	}

	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := s.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		errc, err := s.exportWorker(ctx, files, o)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	if err := waitForPipeline(errcList...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}
