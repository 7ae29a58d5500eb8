package batch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/report-cards/internal/raster"
	"github.com/jonathan/report-cards/internal/rendering"
	"github.com/jonathan/report-cards/internal/types"
)

// DefaultWorkers bounds how many reports render at once when Options.Workers is unset.
const DefaultWorkers = 4

// DocumentRenderer lays out a single report card.
type DocumentRenderer interface {
	Render(rc *types.ReportContext) (*types.RenderedDocument, error)
}

// ImageConverter turns a rendered PDF into a JPEG page image.
type ImageConverter interface {
	ToJPEG(ctx context.Context, pdf []byte) ([]byte, error)
}

// Options configures a Renderer. Zero values fall back to defaults.
type Options struct {
	Engine    DocumentRenderer
	Converter ImageConverter
	Workers   int
	Logger    logrus.FieldLogger
	// Now stamps archive entries. Called once per batch.
	Now func() time.Time
}

// Renderer runs batches. It holds no per-batch state and may be reused.
type Renderer struct {
	engine    DocumentRenderer
	converter ImageConverter
	workers   int
	logger    logrus.FieldLogger
	now       func() time.Time
}

// NewRenderer creates a Renderer from opts.
func NewRenderer(opts Options) *Renderer {
	r := &Renderer{
		engine:    opts.Engine,
		converter: opts.Converter,
		workers:   opts.Workers,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	if r.engine == nil {
		r.engine = rendering.NewEngine(rendering.Options{})
	}
	if r.converter == nil {
		r.converter = raster.NewConverter()
	}
	if r.workers <= 0 {
		r.workers = DefaultWorkers
	}
	if r.logger == nil {
		r.logger = logrus.StandardLogger()
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// rendered is what a worker hands back to the collector.
type rendered struct {
	index     int
	outcome   StudentOutcome
	artifacts []Artifact
	warnings  []string
}

// RenderBatch renders every context in the requested formats and zips the results
// in input order. One student failing does not stop the others.
//
// If ctx is cancelled, students not yet started are skipped, the archive is
// discarded and the partial result is returned together with ctx.Err().
func (r *Renderer) RenderBatch(ctx context.Context, contexts []*types.ReportContext, formats FormatSet) (*BatchResult, error) {
	if len(contexts) == 0 {
		return nil, &BatchEmptyError{Message: "no students selected"}
	}
	if formats.Empty() {
		return nil, &BatchEmptyError{Message: "no output formats selected"}
	}

	result := &BatchResult{
		RunID:   uuid.New(),
		Entries: make([]StudentOutcome, len(contexts)),
	}
	log := r.logger.WithField("run_id", result.RunID.String())
	log.WithFields(logrus.Fields{
		"students": len(contexts),
		"formats":  formats.String(),
		"workers":  r.workers,
	}).Info("starting report batch")

	collected := make([]*rendered, len(contexts))
	results := make(chan rendered)
	done := make(chan struct{})

	// Single collector: the only writer of collected.
	go func() {
		defer close(done)
		for res := range results {
			res := res
			collected[res.index] = &res
		}
	}()

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, rc := range contexts {
		i, rc := i, rc
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res := r.renderStudent(ctx, i, rc, formats)
			results <- res
			return nil
		})
	}
	_ = g.Wait()
	close(results)
	<-done

	archive := newArchiveWriter(r.now())
	for i, res := range collected {
		if res == nil {
			result.Entries[i] = StudentOutcome{
				StudentID:  studentID(contexts[i]),
				Identifier: identify(i, contexts[i]),
				Skipped:    true,
				Err:        ctx.Err(),
			}
			result.Failed++
			continue
		}

		outcome := res.outcome
		for _, art := range res.artifacts {
			name, err := archive.add(art.Name, art.Data)
			if err != nil {
				return nil, err
			}
			outcome.Files = append(outcome.Files, name)
		}
		for _, msg := range res.warnings {
			result.Warnings = append(result.Warnings, Warning{Student: outcome.Identifier, Message: msg})
		}
		r.logOutcome(log, outcome, res.warnings)

		result.Entries[i] = outcome
		if outcome.OK() {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	if err := ctx.Err(); err != nil {
		log.WithError(err).Warn("report batch cancelled, archive discarded")
		return result, err
	}

	data, err := archive.close()
	if err != nil {
		return nil, err
	}
	result.Archive = data

	log.WithFields(logrus.Fields{
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
		"warnings":  len(result.Warnings),
		"bytes":     len(data),
	}).Info("report batch finished")
	return result, nil
}

// RenderStudent produces the requested artifacts for one context. The
// returned outcome has no Files set; callers decide where artifacts go.
func (r *Renderer) RenderStudent(ctx context.Context, rc *types.ReportContext, formats FormatSet) (StudentOutcome, []Artifact, []string) {
	res := r.renderStudent(ctx, 0, rc, formats)
	return res.outcome, res.artifacts, res.warnings
}

func (r *Renderer) renderStudent(ctx context.Context, index int, rc *types.ReportContext, formats FormatSet) rendered {
	res := rendered{
		index: index,
		outcome: StudentOutcome{
			StudentID:  studentID(rc),
			Identifier: identify(index, rc),
		},
	}
	id := res.outcome.Identifier

	doc, err := r.engine.Render(rc)
	if err != nil {
		res.outcome.Err = &StudentRenderError{Student: id, Cause: err}
		return res
	}
	res.warnings = doc.Warnings

	if formats.PDF {
		res.artifacts = append(res.artifacts, Artifact{Name: doc.Filename, MIME: MIMEPDF, Data: doc.PDF})
	}
	if formats.Image {
		jpg, err := r.converter.ToJPEG(ctx, doc.PDF)
		if err != nil {
			res.outcome.ImageErr = err
		} else {
			name := strings.TrimSuffix(doc.Filename, ".pdf") + ".jpg"
			res.artifacts = append(res.artifacts, Artifact{Name: name, MIME: MIMEJPEG, Data: jpg})
		}
	}
	return res
}

func (r *Renderer) logOutcome(log logrus.FieldLogger, outcome StudentOutcome, warnings []string) {
	entry := log.WithFields(logrus.Fields{
		"student":    outcome.Identifier,
		"student_id": outcome.StudentID,
	})
	for _, w := range warnings {
		entry.Warn(w)
	}
	if outcome.Err != nil {
		entry.WithError(outcome.Err).Error("report not rendered")
		return
	}
	if outcome.ImageErr != nil {
		entry.WithError(outcome.ImageErr).Warn("page image not produced")
	}
	entry.WithField("files", outcome.Files).Debug("report rendered")
}

func studentID(rc *types.ReportContext) int64 {
	if rc == nil {
		return 0
	}
	return rc.StudentID
}

// identify names a student for logs and warnings, falling back to its position.
func identify(index int, rc *types.ReportContext) string {
	if rc != nil {
		if id := strings.TrimSpace(rc.Identifier()); id != "" {
			return id
		}
		if rc.StudentID != 0 {
			return fmt.Sprintf("student %d", rc.StudentID)
		}
	}
	return fmt.Sprintf("student #%d", index+1)
}
