package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Storage & Upload Errors
var (
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrImageTooLarge        = errors.New("image exceeds the size limit")
	ErrStorageUpload        = errors.New("image upload failed")
	ErrStorageDelete        = errors.New("image deletion failed")
	ErrForeignStoragePath   = errors.New("path belongs to another user")
)

// AI Formatting Errors
var (
	ErrFormatterUnavailable = errors.New("text formatter unavailable")
	ErrFormatterEmpty       = errors.New("text formatter returned nothing")
)

// Storage & Upload Error Constructors

func NewUnsupportedImageTypeError(contentType string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnsupportedMediaType,
		err:        ErrUnsupportedImageType,
		Details:    fmt.Sprintf("%s is not an accepted image type", contentType),
		Field:      "file",
	}
}

func NewImageTooLargeError(size, limit int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusRequestEntityTooLarge,
		err:        ErrImageTooLarge,
		Details:    fmt.Sprintf("File is %d bytes, the limit is %d bytes", size, limit),
		Field:      "file",
	}
}

func NewStorageUploadError(key string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrStorageUpload,
		Details:    fmt.Sprintf("Could not store %s", key),
		Cause:      cause,
	}
}

func NewStorageDeleteError(key string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrStorageDelete,
		Details:    fmt.Sprintf("Could not delete %s", key),
		Cause:      cause,
	}
}

func NewForeignStoragePathError(key string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrForeignStoragePath,
		Details:    fmt.Sprintf("%s is outside your storage prefix", key),
		Field:      "path",
	}
}

// AI Formatting Error Constructors

func NewFormatterUnavailableError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrFormatterUnavailable,
		Cause:      cause,
	}
}

// Error Type Checkers

func IsUnsupportedImageTypeError(err error) bool {
	return errors.Is(err, ErrUnsupportedImageType)
}

func IsImageTooLargeError(err error) bool {
	return errors.Is(err, ErrImageTooLarge)
}

func IsStorageDeleteError(err error) bool {
	return errors.Is(err, ErrStorageDelete)
}
