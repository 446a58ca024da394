package serial

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/toyctl/pkg/controller"
	fx "github.com/robotalks/toyctl/pkg/framework"
)

// LineReader posts every line read from a stream as a text command.
type LineReader struct {
	Source string
	Stream io.ReadCloser
}

// NewLineReader creates a LineReader.
func NewLineReader(source string, stream io.ReadCloser) *LineReader {
	return &LineReader{Source: source, Stream: stream}
}

// Name implements Named.
func (r *LineReader) Name() string {
	return r.Source
}

// AddToLoop implements LoopAdder.
func (r *LineReader) AddToLoop(l *fx.Loop) {
	l.AddRunnable(r)
}

// Run implements Runnable. It returns when the stream ends.
func (r *LineReader) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, r.Stream, func() error {
		scanner := bufio.NewScanner(r.Stream)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			res := controller.Submit(ctx, controller.NewTextInput(r.Source, line))
			glog.V(2).Infof("%s: %q ok=%v", r.Source, line, res.OK())
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
		glog.Infof("%s: end of stream", r.Source)
		return nil
	})
}
