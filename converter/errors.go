package converter

import "errors"

var ErrOutputConflict = errors.New("output path conflict")

// BookError is a failure confined to one book. The batch records it on the
// book and moves on; any other error from Convert aborts the run.
type BookError struct {
	Err error
}

func (e *BookError) Error() string {
	return e.Err.Error()
}

func (e *BookError) Unwrap() error {
	return e.Err
}

func bookError(err error) error {
	return &BookError{Err: err}
}
