package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"faq-chat-be/internal/constant"
	"faq-chat-be/internal/pkg/logger"
)

// Status is the lifecycle state of one agent run. Transitions are monotonic:
// Queued → InProgress → one of the terminal states; no state is revisited.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusTimedOut   Status = "timed_out"
)

// Terminal reports whether the run can make no further progress.
func (s Status) Terminal() bool {
	return s != StatusQueued && s != StatusInProgress
}

// Run is an immutable snapshot of one agent run. Poll returns a fresh
// snapshot instead of mutating in place, so a Run value can be shared
// across suspension points safely.
type Run struct {
	Id        string
	ThreadId  string
	Status    Status
	Attempts  int
	LastError string
}

var (
	// ErrAgentUnavailable covers agent lookup and thread/run creation
	// failures before the run exists remotely.
	ErrAgentUnavailable = errors.New("agent unavailable")
	// ErrRunFailed is wrapped with the remote run's last error.
	ErrRunFailed = errors.New("agent run failed")
	// ErrRunTimedOut means the attempt cap was reached before a terminal
	// status, or polling was cancelled.
	ErrRunTimedOut = errors.New("agent run timed out")
	// ErrNoAssistantResponse means the completed thread holds no
	// assistant-authored message.
	ErrNoAssistantResponse = errors.New("no assistant response found")
)

// Runner drives one remote asynchronous conversational job to a terminal
// state and retrieves its answer text.
type Runner struct {
	client       Client
	agentId      string
	pollInterval time.Duration
	maxAttempts  int
	logger       logger.ILogger
}

func NewRunner(client Client, agentId string, pollInterval time.Duration, maxAttempts int, log logger.ILogger) *Runner {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 60
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Runner{
		client:       client,
		agentId:      agentId,
		pollInterval: pollInterval,
		maxAttempts:  maxAttempts,
		logger:       log,
	}
}

// Start creates a remote thread, posts the user message and starts a run.
// All failures before the run exists are reported as ErrAgentUnavailable.
func (r *Runner) Start(ctx context.Context, userText string) (Run, error) {
	agent, err := r.client.GetAgent(ctx, r.agentId)
	if err != nil {
		return Run{}, fmt.Errorf("%w: get agent %s: %v", ErrAgentUnavailable, r.agentId, err)
	}

	threadId, err := r.client.CreateThread(ctx)
	if err != nil {
		return Run{}, fmt.Errorf("%w: create thread: %v", ErrAgentUnavailable, err)
	}

	if _, err := r.client.PostMessage(ctx, threadId, constant.ChatMessageRoleUser, userText); err != nil {
		return Run{}, fmt.Errorf("%w: post message: %v", ErrAgentUnavailable, err)
	}

	info, err := r.client.CreateRun(ctx, threadId, agent.Id)
	if err != nil {
		return Run{}, fmt.Errorf("%w: create run: %v", ErrAgentUnavailable, err)
	}

	run := snapshot(info, 0)
	r.logger.Info("agent", "run created", map[string]interface{}{
		"run_id":    run.Id,
		"thread_id": run.ThreadId,
		"status":    string(run.Status),
	})
	return run, nil
}

// Poll waits one interval, then fetches the run's current status and returns
// a new snapshot with the attempt counter advanced. Calling Poll on a run in
// a terminal state returns it unchanged.
func (r *Runner) Poll(ctx context.Context, run Run) (Run, error) {
	if run.Status.Terminal() {
		return run, nil
	}

	select {
	case <-ctx.Done():
		return run, ctx.Err()
	case <-time.After(r.pollInterval):
	}

	info, err := r.client.GetRun(ctx, run.ThreadId, run.Id)
	if err != nil {
		return run, err
	}

	next := snapshot(info, run.Attempts+1)
	r.logger.Debug("agent", "poll tick", map[string]interface{}{
		"run_id":  next.Id,
		"status":  string(next.Status),
		"attempt": next.Attempts,
		"max":     r.maxAttempts,
	})
	return next, nil
}

// Await polls until the run reaches a terminal status or the attempt cap.
// Reaching the cap with a non-terminal status yields a timed-out run.
// Cancellation stops local polling only; the remote run is not aborted.
func (r *Runner) Await(ctx context.Context, run Run) (Run, error) {
	for !run.Status.Terminal() && run.Attempts < r.maxAttempts {
		next, err := r.Poll(ctx, run)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				run.Status = StatusTimedOut
				return run, fmt.Errorf("%w: polling cancelled after %d attempts", ErrRunTimedOut, run.Attempts)
			}
			return run, fmt.Errorf("%w: fetch run status: %v", ErrAgentUnavailable, err)
		}
		run = next
	}

	switch {
	case run.Status == StatusFailed:
		return run, fmt.Errorf("%w: %s", ErrRunFailed, run.LastError)
	case !run.Status.Terminal():
		run.Status = StatusTimedOut
		return run, fmt.Errorf("%w: status still %s after %d attempts", ErrRunTimedOut, StatusInProgress, run.Attempts)
	case run.Status == StatusTimedOut:
		return run, fmt.Errorf("%w: remote run expired", ErrRunTimedOut)
	}
	return run, nil
}

// FetchAnswer scans the thread's messages in chronological order and returns
// the first assistant-authored message's text.
func (r *Runner) FetchAnswer(ctx context.Context, run Run) (string, error) {
	messages, err := r.client.ListMessages(ctx, run.ThreadId)
	if err != nil {
		return "", fmt.Errorf("%w: list messages: %v", ErrAgentUnavailable, err)
	}

	for _, m := range messages {
		if m.Role == constant.ChatMessageRoleAssistant && m.Content != "" {
			return m.Content, nil
		}
	}
	return "", ErrNoAssistantResponse
}

// Execute drives the full lifecycle for one user message: start, await a
// terminal status, fetch the answer. Only a Completed run proceeds to
// message retrieval.
func (r *Runner) Execute(ctx context.Context, userText string) (string, Run, error) {
	run, err := r.Start(ctx, userText)
	if err != nil {
		return "", run, err
	}

	run, err = r.Await(ctx, run)
	if err != nil {
		return "", run, err
	}

	answer, err := r.FetchAnswer(ctx, run)
	if err != nil {
		return "", run, err
	}

	r.logger.Info("agent", "run completed", map[string]interface{}{
		"run_id":   run.Id,
		"attempts": run.Attempts,
	})
	return answer, run, nil
}

func snapshot(info *RunInfo, attempts int) Run {
	run := Run{
		Id:       info.Id,
		ThreadId: info.ThreadId,
		Status:   info.Status,
		Attempts: attempts,
	}
	if info.RunError != nil {
		run.LastError = info.RunError.Message
	}
	return run
}
