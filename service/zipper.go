package service

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrEmptyFolder = errors.New("folder contains no files")

// BundleStore is what the download flow needs from the object store
type BundleStore interface {
	List(ctx context.Context, prefix string) ([]string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// WriteZip streams every object stored under prefix into a single zip
// archive. Entry names are relative to the prefix so the archive
// unpacks into the model's original folder structure
func WriteZip(ctx context.Context, store BundleStore, prefix string, w io.Writer) error {
	keys, err := store.List(ctx, prefix)
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		return ErrEmptyFolder
	}

	zw := zip.NewWriter(w)

	for _, key := range keys {
		if err := addEntry(ctx, store, zw, prefix, key); err != nil {
			zw.Close()
			return err
		}
	}

	return zw.Close()
}

func addEntry(ctx context.Context, store BundleStore, zw *zip.Writer, prefix, key string) error {
	rc, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()

	f, err := zw.Create(strings.TrimPrefix(key, prefix+"/"))
	if err != nil {
		return fmt.Errorf("failed to create zip entry for %s, %w", key, err)
	}

	if _, err := io.Copy(f, rc); err != nil {
		return fmt.Errorf("failed to write zip entry for %s, %w", key, err)
	}

	return nil
}
