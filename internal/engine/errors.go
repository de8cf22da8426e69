package engine

import "fmt"

// ProbeError represents a metadata extraction failure.
type ProbeError struct {
	Message  string
	Original error
}

func (e *ProbeError) Error() string {
	if e.Original != nil {
		return fmt.Sprintf("probe error: %s: %v", e.Message, e.Original)
	}
	return fmt.Sprintf("probe error: %s", e.Message)
}

func (e *ProbeError) Unwrap() error {
	return e.Original
}

// DownloadError represents a download or transcode failure.
type DownloadError struct {
	Message  string
	Original error
}

func (e *DownloadError) Error() string {
	if e.Original != nil {
		return fmt.Sprintf("download error: %s: %v", e.Message, e.Original)
	}
	return fmt.Sprintf("download error: %s", e.Message)
}

func (e *DownloadError) Unwrap() error {
	return e.Original
}
