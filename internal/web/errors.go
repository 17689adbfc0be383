package web

import (
	"errors"
	"net/http"

	"github.com/KaramelBytes/alsobought-cli/internal/orders"
	"github.com/KaramelBytes/alsobought-cli/internal/pipeline"
	"github.com/KaramelBytes/alsobought-cli/internal/recommend"
)

var errBadUpload = errors.New("bad request")

func isMaxBytes(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case isMaxBytes(err), errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errDatasetNotFound), errors.Is(err, recommend.ErrUnknownItem):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrNoRepeatBuyers), errors.Is(err, recommend.ErrEmptyMatrix):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBadUpload),
		errors.Is(err, orders.ErrMissingColumn),
		errors.Is(err, orders.ErrBadQuantity),
		errors.Is(err, orders.ErrUnsupportedFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusRequestEntityTooLarge:
		return "too_large"
	case http.StatusUnprocessableEntity:
		return "unprocessable"
	default:
		return "internal_error"
	}
}
