package scheduler

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"StockDash/internal/dashboard"
	"StockDash/internal/model"
	"StockDash/internal/notifier"

	"github.com/robfig/cron/v3"
)

const helpText = "Available commands:\n" +
	"• /summary\n" +
	"• /list\n" +
	"• /add SYMBOL [START END]\n" +
	"• /remove SYMBOL\n" +
	"• /refresh"

// Scheduler manages the cron tasks and chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Service  *dashboard.Service
	Notifier notifier.Notifier // nil disables notifications
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, svc *dashboard.Service, n notifier.Notifier) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Service:  svc,
		Notifier: n,
		Ctx:      ctx,
	}
}

// RegisterAll registers the refresh and digest tasks. An empty spec skips
// that task.
func (s *Scheduler) RegisterAll(refreshCron, digestCron string) error {
	if refreshCron != "" {
		if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
			return fmt.Errorf("register refresh task: %w", err)
		}
	}
	if digestCron != "" {
		if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
			return fmt.Errorf("register digest task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunRefreshNow refetches every tracked symbol immediately.
func (s *Scheduler) RunRefreshNow() []*model.FetchResult {
	return s.refresh()
}

func (s *Scheduler) refreshTask() { s.refresh() }

func (s *Scheduler) refresh() []*model.FetchResult {
	log.Println("[INFO] running refresh task")
	results := s.Service.Refresh(s.Ctx)
	var failed []string
	for _, r := range results {
		if !r.OK() {
			failed = append(failed, notifier.FormatFetchResult(r))
		}
	}
	log.Printf("[INFO] refreshed %d symbols, %d failed", len(results), len(failed))
	if len(failed) > 0 {
		s.trySend("⚠️ <b>Refresh errors</b>\n" + strings.Join(failed, "\n"))
	}
	return results
}

func (s *Scheduler) digestTask() {
	log.Println("[INFO] running digest task")
	s.trySend(s.summary())
}

func (s *Scheduler) summary() string {
	snap := s.Service.Snapshot()
	return notifier.FormatSummaryTable(snap.Summary, snap.Errors, s.Service.Now())
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	args := fields[1:]
	switch strings.ToLower(fields[0]) {
	case "/summary":
		return s.summary()
	case "/list":
		return notifier.FormatSymbolList(s.Service.Snapshot().Symbols)
	case "/add":
		return s.add(args)
	case "/remove":
		if len(args) != 1 {
			return "Usage: /remove SYMBOL"
		}
		removed, err := s.Service.Untrack(args[0])
		if err != nil {
			return failure(err)
		}
		sym := html.EscapeString(strings.ToUpper(args[0]))
		if !removed {
			return fmt.Sprintf("%s is not tracked", sym)
		}
		return fmt.Sprintf("🗑 removed %s", sym)
	case "/refresh":
		results := s.refresh()
		return fmt.Sprintf("🔄 refreshed %d symbols\n\n%s", len(results), s.summary())
	default:
		return helpText
	}
}

func (s *Scheduler) add(args []string) string {
	if len(args) != 1 && len(args) != 3 {
		return "Usage: /add SYMBOL [START END]"
	}
	var start, end *time.Time
	if len(args) == 3 {
		st, err := model.ParseDay(args[1])
		if err != nil {
			return failure(err)
		}
		en, err := model.ParseDay(args[2])
		if err != nil {
			return failure(err)
		}
		start, end = &st, &en
	}
	w, err := s.Service.ResolveWindow(start, end)
	if err != nil {
		return failure(err)
	}
	res, err := s.Service.Track(s.Ctx, args[0], w)
	if err != nil {
		return failure(err)
	}
	return notifier.FormatFetchResult(res)
}

// failure renders err for an HTML chat reply.
func failure(err error) string {
	return "❌ " + html.EscapeString(err.Error())
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
