package provision

import (
	"context"
	"time"
)

// UpCall records the arguments of one BringUp invocation.
type UpCall struct {
	Boxes []string
	Tag   string
}

// Recorder is a Provisioner for tests: it records calls and returns
// configured results instead of touching Vagrant.
type Recorder struct {
	Ups       []UpCall
	TearDowns int

	UpDuration time.Duration
	UpErr      error
	DownErr    error
}

func (r *Recorder) BringUp(_ context.Context, boxes []string, tag string) (time.Duration, error) {
	r.Ups = append(r.Ups, UpCall{Boxes: boxes, Tag: tag})
	return r.UpDuration, r.UpErr
}

func (r *Recorder) TearDown(_ context.Context) error {
	r.TearDowns++
	return r.DownErr
}
