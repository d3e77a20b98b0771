package table

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"projecttable/internal/project"
)

// MaxPreviewBytes caps the size of a file rendered as a preview.
const MaxPreviewBytes = 8 << 20

// DerivePreview renders f as a data URL. It is meant to run off the event
// loop; the caller applies the result with FinishPreview.
func DerivePreview(ctx context.Context, f project.PendingFile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer fh.Close()

	data, err := io.ReadAll(io.LimitReader(fh, MaxPreviewBytes+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Path, err)
	}
	if len(data) > MaxPreviewBytes {
		return "", fmt.Errorf("%s: larger than %d bytes", f.Path, MaxPreviewBytes)
	}
	return "data:" + f.ContentType() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
