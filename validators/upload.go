package validators

import (
	"errors"
	"mime/multipart"

	"github.com/spf13/viper"
)

var (
	ErrNoFiles            = errors.New("no files provided")
	ErrTooManyFiles       = errors.New("too many files in one upload")
	ErrUploadFileTooLarge = errors.New("file too large")
	ErrUploadNameTooLong  = errors.New("file name is too long")
	ErrUploadNameEmpty    = errors.New("file has no name")
)

const maxFileNameSize = 255

// UploadValidator checks the multipart file set of a model upload.
// Per-file transport errors are handled later by the upload session,
// this only rejects requests that are malformed from the start
func UploadValidator(files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return ErrNoFiles
	}

	if limit := viper.GetInt("upload.max_files"); len(files) > limit {
		return ErrTooManyFiles
	}

	maxFileSize := viper.GetInt64("upload.max_size")

	for _, fh := range files {
		if fh.Filename == "" {
			return ErrUploadNameEmpty
		}

		if len(fh.Filename) > maxFileNameSize {
			return ErrUploadNameTooLong
		}

		if fh.Size > maxFileSize {
			return ErrUploadFileTooLarge
		}
	}

	return nil
}
