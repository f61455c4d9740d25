package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
	"github.com/custodia-labs/quantscholar/internal/core/ports/driven"
	"github.com/custodia-labs/quantscholar/internal/core/ports/driving"
	"github.com/custodia-labs/quantscholar/internal/logger"
)

// Ensure Controller implements the interface.
var _ driving.SessionController = (*Controller)(nil)

// User-visible texts.
const (
	// GreetingText opens the conversation once the analysis is ready.
	GreetingText = "I've analyzed the paper. Ask me about specific equations, the identification " +
		"strategy, or why the authors made certain modeling choices."

	// ChatErrorText replaces an assistant reply whose stream failed.
	ChatErrorText = "I encountered an error trying to answer that. Please try again."

	// AnalysisFailedNotice is shown when extraction fails.
	AnalysisFailedNotice = "Failed to analyze paper. Please try again."

	// ReadFailedNotice is shown when the file cannot be read.
	ReadFailedNotice = "Could not read the selected file. Please choose another one."
)

// Controller coordinates one analysis session: upload, concurrent
// extraction and chat bootstrap, then streamed tutor replies.
//
// Every asynchronous completion carries the generation it was started in.
// Reset bumps the generation, so results that land afterwards are dropped.
type Controller struct {
	encoder      driving.DocumentEncoder
	gateway      driving.AIGateway
	conversation driven.ConversationStore

	mu         sync.Mutex
	generation uint64
	phase      domain.Phase
	document   *domain.DocumentPayload
	analysis   *domain.Analysis
	chat       *domain.ChatSession
	notice     string

	changes chan struct{}
}

// NewController creates a new session controller.
func NewController(
	encoder driving.DocumentEncoder,
	gateway driving.AIGateway,
	conversation driven.ConversationStore,
) *Controller {
	return &Controller{
		encoder:      encoder,
		gateway:      gateway,
		conversation: conversation,
		changes:      make(chan struct{}, 1),
	}
}

// SelectFile moves the session to analyzing and starts the pipeline in the
// background. The final state is Ready on success and Idle on any failure.
func (c *Controller) SelectFile(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.ErrInvalidInput
	}

	c.mu.Lock()
	if c.phase != domain.PhaseIdle {
		c.mu.Unlock()
		return domain.ErrSessionBusy
	}
	c.generation++
	gen := c.generation
	c.phase = domain.PhaseAnalyzing
	c.notice = ""
	c.mu.Unlock()

	logger.Section("Analysis session")
	logger.Info("analyzing %s", path)
	c.notify()

	go c.analyze(ctx, gen, path)
	return nil
}

// analyze encodes the document, then opens the chat and runs extraction concurrently.
func (c *Controller) analyze(ctx context.Context, gen uint64, path string) {
	doc, err := c.encoder.Encode(ctx, path)
	if err != nil {
		c.fail(gen, err)
		return
	}
	if !c.attachDocument(gen, doc) {
		return
	}

	var analysis *domain.Analysis
	var g errgroup.Group

	g.Go(func() error {
		chat, err := c.gateway.OpenChat(doc)
		if err != nil {
			return err
		}
		c.attachChat(gen, chat)
		return nil
	})
	g.Go(func() error {
		result, err := c.gateway.ExtractAnalysis(ctx, doc)
		if err != nil {
			return err
		}
		analysis = result
		return nil
	})

	if err := g.Wait(); err != nil {
		c.fail(gen, err)
		return
	}
	c.ready(gen, analysis)
}

func (c *Controller) attachDocument(gen uint64, doc *domain.DocumentPayload) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false
	}
	c.document = doc
	return true
}

// attachChat exposes the chat handle as soon as it exists, before extraction finishes.
func (c *Controller) attachChat(gen uint64, chat *domain.ChatSession) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.chat = chat
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) ready(gen uint64, analysis *domain.Analysis) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		logger.Debug("dropping stale analysis result (generation %d)", gen)
		return
	}
	c.phase = domain.PhaseReady
	c.analysis = analysis
	c.conversation.AddAssistant(GreetingText)
	c.mu.Unlock()

	logger.Info("analysis ready: %s", analysis.Title)
	c.notify()
}

// fail returns to idle and discards everything built for the session,
// including a chat that opened successfully.
func (c *Controller) fail(gen uint64, err error) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		logger.Debug("dropping stale failure (generation %d): %v", gen, err)
		return
	}
	c.clearLocked()
	c.notice = noticeFor(err)
	c.mu.Unlock()

	logger.Warn("analysis failed: %v", err)
	c.notify()
}

// Submit appends the user message and a streaming placeholder, then streams
// the reply into the placeholder in the background.
func (c *Controller) Submit(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	c.mu.Lock()
	chat := c.chat
	gen := c.generation
	if chat == nil {
		c.mu.Unlock()
		return false
	}
	id, ok := c.conversation.Begin(text)
	c.mu.Unlock()

	if !ok {
		logger.Debug("submit ignored: a reply is still streaming")
		return false
	}
	c.notify()

	go c.stream(ctx, gen, chat, id, text)
	return true
}

// stream applies fragments in arrival order. It stops listening once the
// session has been reset.
func (c *Controller) stream(ctx context.Context, gen uint64, chat *domain.ChatSession, id, text string) {
	for fragment, err := range c.gateway.SendMessage(ctx, chat, text) {
		if err != nil {
			c.applyLocked(gen, func() error { return c.conversation.Fail(id, ChatErrorText) })
			logger.Warn("tutor reply failed: %v", err)
			return
		}
		if !c.applyLocked(gen, func() error { return c.conversation.AppendFragment(id, fragment) }) {
			return
		}
	}
	c.applyLocked(gen, func() error { return c.conversation.Complete(id) })
}

// applyLocked runs fn against the conversation if gen is still current and
// reports whether it did.
func (c *Controller) applyLocked(gen uint64, fn func() error) bool {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return false
	}
	err := fn()
	c.mu.Unlock()

	if err != nil {
		logger.Warn("conversation update rejected: %v", err)
		return false
	}
	c.notify()
	return true
}

// Reset discards the session from any phase.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.generation++
	c.clearLocked()
	c.notice = ""
	c.mu.Unlock()

	logger.Debug("session reset")
	c.notify()
}

// DismissNotice clears the failure notice.
func (c *Controller) DismissNotice() {
	c.mu.Lock()
	c.notice = ""
	c.mu.Unlock()
	c.notify()
}

// Snapshot returns a read-only copy of the session.
func (c *Controller) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := domain.Snapshot{
		Phase:     c.phase,
		Analysis:  c.analysis,
		Messages:  c.conversation.Messages(),
		ChatOpen:  c.chat != nil,
		Streaming: c.conversation.Streaming(),
		Notice:    c.notice,
	}
	if c.document != nil {
		snap.FileName = c.document.FileName
		snap.UploadedAt = c.document.LoadedAt
	}
	return snap
}

// Changes delivers a coalesced signal after every state change.
func (c *Controller) Changes() <-chan struct{} {
	return c.changes
}

// clearLocked drops all session artifacts (caller must hold lock).
func (c *Controller) clearLocked() {
	c.phase = domain.PhaseIdle
	c.document = nil
	c.analysis = nil
	c.chat = nil
	c.conversation.Clear()
}

func (c *Controller) notify() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

func noticeFor(err error) string {
	if errors.Is(err, domain.ErrRead) {
		return ReadFailedNotice
	}
	return AnalysisFailedNotice
}
