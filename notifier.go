package holdemtable

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/weedbox/holdemtable/settlement"
)

// Notifier delivers chat messages about a table. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, tableID string, message string) error
}

// ReportDeliverer sends the settlement report once a table closes.
type ReportDeliverer interface {
	Deliver(ctx context.Context, report *settlement.Report, recipients []string) error
}

type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, tableID string, message string) error {
	n.logger.InfoContext(ctx, message, "table", tableID)
	return nil
}

type LogReportDeliverer struct {
	logger *slog.Logger
}

func NewLogReportDeliverer(logger *slog.Logger) *LogReportDeliverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReportDeliverer{logger: logger}
}

func (d *LogReportDeliverer) Deliver(ctx context.Context, report *settlement.Report, recipients []string) error {
	d.logger.InfoContext(ctx, "settlement report",
		"recipients", recipients,
		"leftover_units", report.LeftoverUnits,
		"report", report.String(),
	)
	return nil
}

type notification struct {
	tableID string
	message string
}

// asyncNotifier hands messages to the wrapped notifier on its own goroutine.
// Messages are dropped while the buffer is full.
type asyncNotifier struct {
	target  Notifier
	logger  *slog.Logger
	timeout time.Duration
	queue   chan notification
	mu      sync.RWMutex
	closed  bool
	done    chan struct{}
}

func newAsyncNotifier(target Notifier, size int, timeout time.Duration, logger *slog.Logger) *asyncNotifier {
	if size <= 0 {
		size = DefaultNotifyBuffer
	}

	n := &asyncNotifier{
		target:  target,
		logger:  logger,
		timeout: timeout,
		queue:   make(chan notification, size),
		done:    make(chan struct{}),
	}
	go n.run()
	return n
}

func (n *asyncNotifier) run() {
	defer close(n.done)

	for msg := range n.queue {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		if err := n.target.Notify(ctx, msg.tableID, msg.message); err != nil {
			n.logger.Warn("notify failed", "table", msg.tableID, "error", err)
		}
		cancel()
	}
}

// Send never blocks.
func (n *asyncNotifier) Send(tableID string, message string) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		return false
	}

	select {
	case n.queue <- notification{tableID: tableID, message: message}:
		return true
	default:
		n.logger.Warn("notification dropped", "table", tableID, "message", message)
		return false
	}
}

// Close stops accepting messages and waits for the queue to drain.
func (n *asyncNotifier) Close() {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()

	<-n.done
}
