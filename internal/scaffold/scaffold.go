// Package scaffold generates starter project files for the reload server
package scaffold

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

var (
	//go:embed all:templates
	// File is the embedded filesystem containing the project templates
	File embed.FS
)

// Info carries the values rendered into the project templates.
type Info struct {
	Patterns []string
	Addr     string
	Turbo    bool
}

// Project renders the starter project into destination. Existing files
// are left alone and reported as errors so a re-run never clobbers work.
func Project(destination string, info Info) []error {
	return process("templates/project", info, destination)
}

func process(src string, info Info, dest string) []error {
	fi, err := stat(src)
	if err != nil {
		return []error{fmt.Errorf("failed to stat source %q: %w", src, err)}
	}

	if fi.IsDir() {
		return processDir(src, info, dest)
	}
	return processFile(src, info, dest)
}

func processDir(dir string, info Info, destination string) []error {
	var errs []error

	if err := os.MkdirAll(destination, 0750); err != nil {
		errs = append(errs, fmt.Errorf("failed to create directory %q: %w", destination, err))
		return errs
	}

	entries, err := File.ReadDir(dir)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to read directory %q: %w", dir, err))
		return errs
	}

	for _, entry := range entries {
		srcPath := dir + "/" + entry.Name()
		destPath := filepath.Join(destination, entry.Name())
		if subErrs := process(srcPath, info, destPath); len(subErrs) > 0 {
			errs = append(errs, subErrs...)
		}
	}
	return errs
}

func processFile(file string, info Info, destination string) []error {
	var errs []error

	content, err := render(file, info)
	if err != nil {
		errs = append(errs, fmt.Errorf("template processing error for %q: %w", file, err))
		return errs
	}

	if err := writeContent(destination, content); err != nil {
		errs = append(errs, fmt.Errorf("write error for %q: %w", destination, err))
	}

	return errs
}

func render(file string, info Info) (io.Reader, error) {
	data, err := File.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file %q: %w", file, err)
	}

	tmpl, err := template.New(filepath.Base(file)).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("template parse error: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, info); err != nil {
		return nil, fmt.Errorf("template execute error: %w", err)
	}

	return strings.NewReader(buf.String()), nil
}

func writeContent(destination string, content io.Reader) error {
	destFile, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600) //nolint:gosec // G304: destination comes from the CLI
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("file already exists")
		}
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		_ = destFile.Close()
	}()

	if _, err := io.Copy(destFile, content); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	return nil
}

func stat(name string) (fs.FileInfo, error) {
	f, err := File.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return f.Stat()
}
