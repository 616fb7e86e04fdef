package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/felixgeelhaar/courtdesk/internal/errors"
)

// Upload is a file to attach to a case.
type Upload struct {
	CaseID   int64
	Title    string
	Filename string
	Content  io.Reader
}

// ListDocuments returns evidence, newest first.
func (c *Client) ListDocuments(ctx context.Context, filter DocumentFilter) ([]Document, error) {
	var docs []Document
	if err := c.do(ctx, http.MethodGet, "/documents", filter.values(), nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// UploadDocument sends a file as multipart form data.
func (c *Client) UploadDocument(ctx context.Context, up Upload) (*Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("caseId", strconv.FormatInt(up.CaseID, 10)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeAPIEncode, "encode upload", err)
	}
	if up.Title != "" {
		if err := mw.WriteField("title", up.Title); err != nil {
			return nil, errors.Wrap(errors.ErrCodeAPIEncode, "encode upload", err)
		}
	}
	part, err := mw.CreateFormFile("file", up.Filename)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAPIEncode, "encode upload", err)
	}
	if _, err := io.Copy(part, up.Content); err != nil {
		return nil, errors.Wrap(errors.ErrCodeAPIEncode, "read upload content", err)
	}
	if err := mw.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeAPIEncode, "encode upload", err)
	}

	var resp struct {
		Document Document `json:"document"`
	}
	if err := c.send(ctx, http.MethodPost, "/documents", nil, &buf, mw.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	return &resp.Document, nil
}

// VerifyDocument marks a document as verified by the court.
func (c *Client) VerifyDocument(ctx context.Context, id int64) (*Document, error) {
	var resp struct {
		Document Document `json:"document"`
	}
	if err := c.do(ctx, http.MethodPut, "/documents/"+strconv.FormatInt(id, 10)+"/verify", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Document, nil
}

// DeleteDocument removes a document.
func (c *Client) DeleteDocument(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/documents/"+strconv.FormatInt(id, 10), nil, nil, nil)
}
