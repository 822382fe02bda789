package fetcher

import (
	"errors"
	"fmt"
)

// Stage identifies which part of a scan a fetch belonged to
type Stage string

const (
	StagePage   Stage = "page"
	StageScript Stage = "script"
)

// ErrUnexpectedStatus is wrapped by FetchError for non-2xx responses
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// FetchError describes a failed page or script download
type FetchError struct {
	Stage      Stage  `json:"stage"`
	URL        string `json:"url"`
	StatusCode int    `json:"status_code,omitempty"`
	Err        error  `json:"-"`
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: %v %d", e.Stage, e.URL, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsPageError reports whether err is a failure to fetch the root page
func IsPageError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Stage == StagePage
}
