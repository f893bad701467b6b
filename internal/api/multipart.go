package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"marketplace/client/internal/models"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartRequest encodes the file under the "file" field with its declared
// content type, followed by the plain form fields.
func multipartRequest(op, path string, file models.File, fields map[string]string) (*request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(file.Name)))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("%s: create file part: %w", op, err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, fmt.Errorf("%s: write file part: %w", op, err)
	}

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("%s: write field %s: %w", op, name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%s: close multipart: %w", op, err)
	}

	return &request{
		op:          op,
		method:      http.MethodPost,
		path:        path,
		body:        &buf,
		contentType: w.FormDataContentType(),
	}, nil
}
