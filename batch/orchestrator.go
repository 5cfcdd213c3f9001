// Package batch converts a list of books one after another and records the
// outcome of each so an interrupted run can be resumed.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"epub2pwa/converter"
	"epub2pwa/model"
)

type Converter interface {
	Convert(ctx context.Context, book *model.Book) error
}

type Saver interface {
	Save(job *model.BatchJob) error
}

type Orchestrator struct {
	converter Converter
	saver     Saver
	now       func() time.Time
}

// New returns an orchestrator. A nil saver keeps the job in memory only.
func New(conv Converter, saver Saver) *Orchestrator {
	return &Orchestrator{
		converter: conv,
		saver:     saver,
		now:       time.Now,
	}
}

// Run converts every pending book in list order. Books that already carry a
// final status are counted as skipped and left untouched. The job is saved
// after each book that changes status. Errors that are not tied to a single
// book stop the run; the last saved document is then the resume point.
func (o *Orchestrator) Run(ctx context.Context, job *model.BatchJob) error {
	start := o.now()
	job.Report = model.BatchReport{}

	for i, book := range job.Books {
		if err := ctx.Err(); err != nil {
			return err
		}
		if book.Status != model.StatusPending {
			job.Report.Skipped++
			continue
		}
		log.Printf("[%d/%d] Converting %s", i+1, len(job.Books), book.SourcePath)

		if err := o.convert(ctx, book); err != nil {
			return err
		}
		switch book.Status {
		case model.StatusSuccess:
			job.Report.Success++
		case model.StatusError:
			job.Report.Error++
			log.Printf("Failed %s: %s", book.SourcePath, book.Error)
		}
		if err := o.save(job, start); err != nil {
			return err
		}
	}
	if err := o.save(job, start); err != nil {
		return err
	}
	log.Printf("Batch done: %d converted, %d failed, %d skipped in %s",
		job.Report.Success, job.Report.Error, job.Report.Skipped, job.Report.ElapsedTime)
	return nil
}

// convert moves book out of pending, or returns a run level error.
func (o *Orchestrator) convert(ctx context.Context, book *model.Book) error {
	if strings.TrimSpace(book.OutputFolder) == "" {
		book.Status = model.StatusError
		book.Error = "output folder not set"
		return nil
	}
	if _, err := os.Stat(book.SourcePath); err != nil {
		book.Status = model.StatusError
		if errors.Is(err, fs.ErrNotExist) {
			book.Error = fmt.Sprintf("source file not found: %s", book.SourcePath)
		} else {
			book.Error = fmt.Sprintf("cannot access source file: %v", err)
		}
		return nil
	}

	err := o.converter.Convert(ctx, book)
	switch {
	case err == nil:
		book.Status = model.StatusSuccess
		book.Error = ""
	case converter.IsBookError(err):
		book.Status = model.StatusError
		book.Error = err.Error()
	default:
		return fmt.Errorf("failed to convert %s: %w", book.SourcePath, err)
	}
	return nil
}

func (o *Orchestrator) save(job *model.BatchJob, start time.Time) error {
	job.Report.ElapsedTime = o.now().Sub(start).Round(time.Millisecond).String()
	if o.saver == nil {
		return nil
	}
	if err := o.saver.Save(job); err != nil {
		return fmt.Errorf("failed to save batch job: %w", err)
	}
	return nil
}
