package validators

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
)

// UploadedFile is one received form file.
type UploadedFile struct {
	Field    string
	Filename string
	Data     []byte
}

// ParseForm parses a multipart or urlencoded form body, capped at maxBytes.
func ParseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
	}
	return nil
}

// FormFiles reads every file sent under field, accepting both "field" and
// "field[]". Files are returned in form order.
func FormFiles(r *http.Request, field string) ([]UploadedFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var headers []*multipart.FileHeader
	for _, key := range []string{field, field + "[]"} {
		headers = append(headers, r.MultipartForm.File[key]...)
	}

	out := make([]UploadedFile, 0, len(headers))
	for _, header := range headers {
		data, err := readFile(header)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read uploaded file")
		}
		out = append(out, UploadedFile{Field: field, Filename: header.Filename, Data: data})
	}
	return out, nil
}

// HasTextValue reports whether field (or "field[]") was sent as a plain form
// value instead of a file. Call it after ParseForm.
func HasTextValue(r *http.Request, field string) bool {
	for _, key := range []string{field, field + "[]"} {
		if len(r.PostForm[key]) > 0 {
			return true
		}
	}
	return false
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
