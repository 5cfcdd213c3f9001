package model

import (
	"encoding/json"
	"fmt"
)

// Status is the conversion state of a Book in a batch.
type Status int

const (
	StatusPending Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusError
}

func ParseStatus(v string) (Status, error) {
	switch v {
	case "", "pending":
		return StatusPending, nil
	case "success":
		return StatusSuccess, nil
	case "error":
		return StatusError, nil
	}
	return StatusPending, fmt.Errorf("unknown book status %q", v)
}

func (s Status) MarshalJSON() ([]byte, error) {
	switch s {
	case StatusPending, StatusSuccess, StatusError:
		return json.Marshal(s.String())
	}
	return nil, fmt.Errorf("cannot marshal %v", s)
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("book status must be a string: %w", err)
	}
	parsed, err := ParseStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Book is one entry of a batch job.
type Book struct {
	InfoURL      string `json:"info_url"`
	BaseURL      string `json:"base_url"`
	Description  string `json:"description"`
	SourcePath   string `json:"epub"`
	OutputFolder string `json:"output_folder"`
	Status       Status `json:"status"`
	Error        string `json:"error"`
}

type BatchReport struct {
	Success     int    `json:"success"`
	Skipped     int    `json:"skipped"`
	Error       int    `json:"error"`
	ElapsedTime string `json:"elapsed_time"`
}

// Total is the number of books accounted for by the report.
func (r BatchReport) Total() int {
	return r.Success + r.Skipped + r.Error
}

type BatchJob struct {
	Report BatchReport `json:"report"`
	Books  []*Book     `json:"books"`
}
