package tlg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	"github.com/tgfetch/TGFetch/internal/errs"
	"github.com/tgfetch/TGFetch/internal/types"
)

// progressWriter drives the onProgress callback while streaming a download
// to disk.
type progressWriter struct {
	dst        *os.File
	current    int64
	total      int64
	onProgress func(current, total int64)
}

func (w *progressWriter) Write(p []byte) (int, error) {
	n, err := w.dst.Write(p)
	w.current += int64(n)
	if w.onProgress != nil {
		w.onProgress(w.current, w.total)
	}
	return n, err
}

func (tc *client) DownloadMedia(ctx context.Context, msg *types.Message, destPath string, onProgress func(current, total int64)) (string, error) {
	ll := tc.getLogger("DownloadMedia").WithField("message-id", msg.ID)
	loc, total, err := inputLocation(msg)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", fmt.Errorf("can not create destination dir: %w", err)
	}
	f, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("can not create destination file: %w", err)
	}
	pw := &progressWriter{dst: f, total: total, onProgress: onProgress}
	_, err = downloader.NewDownloader().Download(tc.api(), loc).Stream(ctx, pw)
	closeErr := f.Close()
	if err != nil {
		if rmErr := os.Remove(destPath); rmErr != nil {
			ll.WithError(rmErr).Warn("can not remove partial file")
		}
		return "", mapDownloadErr(err)
	}
	if closeErr != nil {
		return "", fmt.Errorf("can not close destination file: %w", closeErr)
	}
	ll.Debugf("downloaded %d bytes", pw.current)
	return destPath, nil
}

// inputLocation builds the file location of a message's media payload.
func inputLocation(msg *types.Message) (tg.InputFileLocationClass, int64, error) {
	if msg.Media == nil {
		return nil, 0, errors.New("message has no media")
	}
	if photo := msg.Media.Photo; photo != nil {
		return &tg.InputPhotoFileLocation{
			ID:            photo.ID,
			AccessHash:    photo.AccessHash,
			FileReference: photo.FileReference,
			ThumbSize:     photo.ThumbType,
		}, photo.Size, nil
	}
	if doc := msg.Media.Document; doc != nil {
		return &tg.InputDocumentFileLocation{
			ID:            doc.ID,
			AccessHash:    doc.AccessHash,
			FileReference: doc.FileReference,
		}, doc.Size, nil
	}
	return nil, 0, errors.New("unsupported media payload")
}

// mapDownloadErr folds transport failures into the closed error taxonomy.
func mapDownloadErr(err error) error {
	if _, ok := tgerr.AsFloodWait(err); ok {
		return &errs.RequestTimeoutErr{Err: err}
	}
	var rpcErr *tgerr.Error
	if errors.As(err, &rpcErr) {
		switch {
		case rpcErr.IsOneOf("FILE_REFERENCE_EXPIRED", "FILE_REFERENCE_INVALID", "FILE_REFERENCE_EMPTY"):
			return &errs.FileReferenceExpiredErr{Err: err}
		case rpcErr.IsOneOf("TIMEOUT"):
			return &errs.RequestTimeoutErr{Err: err}
		case rpcErr.Code == 401:
			return &errs.UnauthorizedErr{Err: err}
		case rpcErr.IsOneOf("FILE_TOO_LARGE"):
			return &errs.FileTooLargeErr{Err: err}
		case rpcErr.Code == 400:
			return &errs.BadRequestErr{Err: err}
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &errs.RequestTimeoutErr{Err: err}
	}
	return err
}
