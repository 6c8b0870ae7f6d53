package restclient

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// FormField is one multipart form value: either a literal string or a path
// to a file whose contents become the field's content.
type FormField struct {
	value string
	file  bool
}

// TextField returns a form field holding a literal string value.
func TextField(value string) FormField {
	return FormField{value: value}
}

// FileField returns a form field whose content is read from the named file
// when the request executes. A missing or unreadable file surfaces as a
// transport failure during execution, not before it.
func FileField(path string) FormField {
	return FormField{value: path, file: true}
}

// IsFile reports whether the field streams from a file.
func (f FormField) IsFile() bool { return f.file }

// Value returns the literal value, or the file path for file fields.
func (f FormField) Value() string { return f.value }

// encodeForm builds a multipart/form-data payload from the field map.
// The body is produced lazily through a pipe so file contents stream from
// disk while the transport sends; any file error tears the pipe down and
// fails the in-flight request. Field order follows map iteration and is
// not reproducible.
func encodeForm(fields map[string]FormField) (contentType string, body io.Reader) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		for name, field := range fields {
			if err := writeFormField(mw, name, field); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		pw.CloseWithError(mw.Close())
	}()

	return mw.FormDataContentType(), pr
}

func writeFormField(mw *multipart.Writer, name string, field FormField) error {
	if !field.IsFile() {
		return mw.WriteField(name, field.Value())
	}

	f, err := os.Open(field.Value())
	if err != nil {
		return err
	}
	defer f.Close()

	part, err := mw.CreateFormFile(name, filepath.Base(field.Value()))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}
