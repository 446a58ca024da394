package controller

import (
	"context"
	"errors"

	"github.com/robotalks/toyctl/pkg/command"
	fx "github.com/robotalks/toyctl/pkg/framework"
)

// ErrDropped is the result error of an input no controller handled.
var ErrDropped = errors.New("input dropped")

// Encoding is the wire form of an Input.
type Encoding int

// Encodings.
const (
	Text Encoding = iota
	Frame
)

// Input is a raw command received by a transport, posted to the
// loop as a message.
type Input struct {
	// Source names the transport, for logging.
	Source   string
	Encoding Encoding
	Line     string
	Frame    []byte

	resultCh chan Result
}

// Result is the outcome of an Input.
type Result struct {
	Command command.Command
	// Decoded is false when the input was malformed.
	Decoded bool
	Err     error
}

// OK tells if the command was executed.
func (r Result) OK() bool {
	return r.Decoded && r.Err == nil
}

// NewTextInput creates an Input from a text line.
func NewTextInput(source, line string) *Input {
	return &Input{Source: source, Encoding: Text, Line: line, resultCh: make(chan Result, 1)}
}

// NewFrameInput creates an Input from a binary frame.
func NewFrameInput(source string, frame []byte) *Input {
	return &Input{Source: source, Encoding: Frame, Frame: frame, resultCh: make(chan Result, 1)}
}

// NewMessage implements Message.
func (in *Input) NewMessage() fx.Message { return &Input{resultCh: make(chan Result, 1)} }

// Drop implements Dropper.
func (in *Input) Drop() {
	in.Complete(Result{Err: ErrDropped})
}

// Complete delivers the result. Only the first result is kept.
func (in *Input) Complete(res Result) {
	select {
	case in.resultCh <- res:
	default:
	}
}

// ResultChan receives the result once the input is handled.
func (in *Input) ResultChan() <-chan Result {
	return in.resultCh
}

// Submit posts in to the loop found in ctx and waits for the result.
// ctx must come from a Runnable started by the loop.
func Submit(ctx context.Context, in *Input) Result {
	ctl := fx.LoopCtlFrom(ctx)
	ctl.PostMessage(in)
	ctl.TriggerNext()
	select {
	case res := <-in.resultCh:
		return res
	case <-ctx.Done():
		return Result{Err: ctx.Err()}
	}
}
