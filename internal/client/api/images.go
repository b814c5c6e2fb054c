package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
)

// ImageService uploads and deletes pictures.
type ImageService struct{ c *Client }

// Upload sends r as the multipart field "file" and returns the stored URL.
func (s *ImageService) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("copy %s: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	data, err := s.c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/images",
		raw:         &buf,
		contentType: mw.FormDataContentType(),
	})
	if err != nil {
		return "", err
	}
	return decodeUploadURL(data)
}

// Delete removes a stored image by id.
func (s *ImageService) Delete(ctx context.Context, id string) error {
	_, err := s.c.do(ctx, request{method: http.MethodDelete, path: "/images", query: url.Values{"id": {id}}})
	return err
}
