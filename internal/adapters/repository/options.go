package repository

import "os"

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithFileMode sets the permission bits of the saved document.
func WithFileMode(mode os.FileMode) FileOption {
	return func(s *FileStore) {
		if mode != 0 {
			s.mode = mode
		}
	}
}

// WithIndent toggles pretty-printed output. On by default so the document stays hand-editable.
func WithIndent(indent bool) FileOption {
	return func(s *FileStore) {
		s.indent = indent
	}
}
