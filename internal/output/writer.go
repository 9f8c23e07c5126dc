package output

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/natefinch/atomic"
)

// Writer is the interface for artifact destinations.
type Writer interface {
	// Write replaces the destination content with data.
	Write(data []byte) error
}

// WriterFactory creates a Writer for the given artifact path.
type WriterFactory func(path string) Writer

// StdoutWriter writes rendered artifacts to a stream instead of disk.
type StdoutWriter struct {
	out    io.Writer
	header string
}

// NewStdoutWriter creates a writer that sends output to the given writer.
// If w is nil, os.Stdout is used.
func NewStdoutWriter(w io.Writer) *StdoutWriter {
	if w == nil {
		w = os.Stdout
	}

	return &StdoutWriter{out: w}
}

// StdoutWriterFactory returns a WriterFactory that prints every artifact
// to w, preceded by a "==> path <==" header line.
func StdoutWriterFactory(w io.Writer) WriterFactory {
	return func(path string) Writer {
		sw := NewStdoutWriter(w)
		sw.header = fmt.Sprintf("==> %s <==\n", path)

		return sw
	}
}

// Write sends data to the underlying stream.
func (sw *StdoutWriter) Write(data []byte) error {
	if sw.header != "" {
		if _, err := io.WriteString(sw.out, sw.header); err != nil {
			return fmt.Errorf("writing to stdout: %w", err)
		}
	}

	_, err := sw.out.Write(data)
	if err != nil {
		return fmt.Errorf("writing to stdout: %w", err)
	}

	if sw.header != "" && len(data) > 0 && data[len(data)-1] != '\n' {
		if _, err := io.WriteString(sw.out, "\n"); err != nil {
			return fmt.Errorf("writing to stdout: %w", err)
		}
	}

	return nil
}

// FileWriter replaces an artifact on disk. The new content is written to a
// temporary file in the same directory and renamed over the target, so a
// reader never observes a half-written artifact. The parent directory must
// already exist.
type FileWriter struct {
	path   string
	perm   os.FileMode
	logger *slog.Logger
}

// FileWriterOption configures a FileWriter.
type FileWriterOption func(*FileWriter)

// WithPermissions overrides the default file permissions (0644).
func WithPermissions(perm os.FileMode) FileWriterOption {
	return func(fw *FileWriter) {
		fw.perm = perm
	}
}

// WithLogger sets a logger for the FileWriter.
func WithLogger(logger *slog.Logger) FileWriterOption {
	return func(fw *FileWriter) {
		fw.logger = logger
	}
}

// NewFileWriter creates a writer that writes to the specified file path.
func NewFileWriter(path string, opts ...FileWriterOption) *FileWriter {
	fw := &FileWriter{
		path:   path,
		perm:   0o644,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(fw)
	}

	return fw
}

// FileWriterFactory returns a WriterFactory producing FileWriters that share
// opts.
func FileWriterFactory(opts ...FileWriterOption) WriterFactory {
	return func(path string) Writer {
		return NewFileWriter(path, opts...)
	}
}

// Write atomically replaces the file content with data.
func (fw *FileWriter) Write(data []byte) error {
	if err := atomic.WriteFile(fw.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing file %s: %w", fw.path, err)
	}

	// atomic.WriteFile creates new files with the temp file mode (0600).
	if err := os.Chmod(fw.path, fw.perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", fw.path, err)
	}

	fw.logger.Debug("artifact written", slog.String("path", fw.path), slog.Int("bytes", len(data)))

	return nil
}

// Path returns the output file path.
func (fw *FileWriter) Path() string {
	return fw.path
}
