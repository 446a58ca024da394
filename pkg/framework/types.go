package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// RunFunc is the func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Message is the abstract message consumed by the loop.
type Message interface {
	// NewMessage creates an empty message.
	NewMessage() Message
}

// Dropper is implemented by messages that must be told when
// no controller took them in the iteration they were posted to.
type Dropper interface {
	Drop()
}

// Controller defines the abstract controlling logic.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc defines the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(ctx ControlContext) error {
	return f(ctx)
}

// ControlContext provides the context of current control iteration.
type ControlContext interface {
	// Context retrieves context.Context.
	Context() context.Context
	// Time is when the iteration started.
	Time() time.Time
	// PriorityLevel gets the current priority level.
	PriorityLevel() int
	// Messages retrieves the messages collected when
	// this iteration starts.
	Messages() MessageStore

	LoopControl
}

// Priority levels, run in ascending order within one iteration.
const (
	// PrLvInput is for controllers collecting inputs.
	PrLvInput int = iota
	// PrLvControl is for controllers consuming messages.
	PrLvControl
	// PrLvActuate is for controllers driving hardware.
	PrLvActuate
	// PrLvPostProc is for post-processing, e.g. publishing state.
	PrLvPostProc

	// PriorityLevels is the total levels of priorities.
	PriorityLevels
)

// LoopControl exposes access to the controlling loop.
// It's safe to be used from any goroutine.
type LoopControl interface {
	// PostMessage enqueues the message for the next iteration.
	PostMessage(Message)
	// TriggerNext schedules the next iteration to be executed
	// as soon as possible.
	TriggerNext()
}

// MessageStore provides access to the messages of an iteration.
type MessageStore interface {
	// ProcessMessages visits the remaining messages in posting order.
	ProcessMessages(MessageProcessor)
	// Len is the number of remaining messages.
	Len() int
}

// MessageProcessor is used by MessageStore to process messages.
type MessageProcessor interface {
	ProcessMessage(MessageProcessingContext)
}

// ProcessMessageFunc is the func form of MessageProcessor.
type ProcessMessageFunc func(MessageProcessingContext)

// ProcessMessage implements MessageProcessor.
func (f ProcessMessageFunc) ProcessMessage(mc MessageProcessingContext) {
	f(mc)
}

// MessageProcessingContext provides context for current message.
type MessageProcessingContext interface {
	// CurrentMessage gets the current message being processed.
	CurrentMessage() Message
	// MessageTaken removes the message from the store.
	MessageTaken()
	// StopProcessing skips the remaining messages.
	StopProcessing()
}
