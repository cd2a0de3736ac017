package api

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"eventdesk/internal/models"
)

// EncodeDraft renders the draft as a multipart body. The image part, when
// present, comes first, followed by the text fields in form order. An image
// with a recorded Size is sent only if the file still has that size.
func EncodeDraft(draft *models.FormDraft) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if draft.Image != nil {
		if err := writeImage(w, draft.Image); err != nil {
			return nil, "", err
		}
	}

	for _, kv := range draft.Values() {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", kv[0], err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

func writeImage(w *multipart.Writer, img *models.ImageFile) error {
	f, err := os.Open(img.Path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	name := img.Name
	if name == "" {
		name = filepath.Base(img.Path)
	}

	ctype := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if ctype == "" {
		ctype = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, models.FieldImage, name))
	h.Set("Content-Type", ctype)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create image part: %w", err)
	}

	if img.Size <= 0 {
		if _, err := io.Copy(part, f); err != nil {
			return fmt.Errorf("failed to copy image: %w", err)
		}
		return nil
	}

	n, err := io.Copy(part, io.LimitReader(f, img.Size+1))
	if err != nil {
		return fmt.Errorf("failed to copy image: %w", err)
	}

	if n != img.Size {
		return fmt.Errorf("%w: %s is %d bytes, attached as %d", ErrImageChanged, img.Path, n, img.Size)
	}

	return nil
}
