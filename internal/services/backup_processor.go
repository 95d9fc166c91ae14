package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"financetracker/internal/amqp"
	"financetracker/internal/snapshot"
)

// BackupProcessorConfig holds configuration for the backup processor
type BackupProcessorConfig struct {
	// Interval is how often a full backup runs regardless of changes (default: 1h)
	Interval time.Duration

	// Debounce is how long to wait after a change burst before backing up (default: 30s)
	Debounce time.Duration
}

// DefaultBackupProcessorConfig returns sensible defaults
func DefaultBackupProcessorConfig() BackupProcessorConfig {
	return BackupProcessorConfig{
		Interval: 1 * time.Hour,
		Debounce: 30 * time.Second,
	}
}

// BackupProcessor mirrors the collection to a backup store. It reloads from
// the source on every backup instead of trusting message payloads, so a
// replayed or reordered change message can never push stale balances.
type BackupProcessor struct {
	source snapshot.Loader
	target snapshot.Saver
	config BackupProcessorConfig

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	dirty   chan struct{}
}

// NewBackupProcessor creates a new backup processor
func NewBackupProcessor(source snapshot.Loader, target snapshot.Saver, config BackupProcessorConfig) *BackupProcessor {
	return &BackupProcessor{
		source: source,
		target: target,
		config: config,
		dirty:  make(chan struct{}, 1),
	}
}

// Start begins the backup loop. Returns an error if already running.
func (p *BackupProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("backup processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	slog.InfoContext(ctx, "Backup processor started",
		"interval", p.config.Interval,
		"debounce", p.config.Debounce)
	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *BackupProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	// Signal stop
	close(p.stopCh)

	// Wait for completion or context cancellation
	select {
	case <-p.doneCh:
		slog.InfoContext(ctx, "Backup processor stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Backup processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	return nil
}

// IsRunning returns whether the processor is currently running
func (p *BackupProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// HandleChange is the AMQP consumer handler. Any change just marks the
// collection dirty; the loop coalesces bursts into one backup.
func (p *BackupProcessor) HandleChange(msg *amqp.LedgerChangeMessage) error {
	slog.Info("Ledger change received",
		"op", msg.Op,
		"transaction_id", msg.TransactionID,
		"year", msg.Year,
		"month", msg.Month)
	p.MarkDirty()
	return nil
}

// MarkDirty schedules a backup after the debounce window.
func (p *BackupProcessor) MarkDirty() {
	select {
	case p.dirty <- struct{}{}:
	default:
	}
}

// runLoop is the main backup loop
func (p *BackupProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.backup(ctx)
		case <-p.dirty:
			if !p.waitDebounce(ctx) {
				return
			}
			p.backup(ctx)
		}
	}
}

// waitDebounce sleeps out the debounce window, absorbing further dirty
// marks. Returns false when the processor is stopping.
func (p *BackupProcessor) waitDebounce(ctx context.Context) bool {
	if p.config.Debounce <= 0 {
		return true
	}
	timer := time.NewTimer(p.config.Debounce)
	defer timer.Stop()
	for {
		select {
		case <-p.stopCh:
			return false
		case <-ctx.Done():
			return false
		case <-p.dirty:
			// keep absorbing, the timer already covers the burst
		case <-timer.C:
			return true
		}
	}
}

// backup copies the current collection from source to target.
func (p *BackupProcessor) backup(ctx context.Context) {
	months, err := p.source.LoadAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Backup load failed", "error", err)
		return
	}
	if err := p.target.SaveAll(ctx, months); err != nil {
		slog.ErrorContext(ctx, "Backup save failed", "error", err)
		return
	}
	slog.InfoContext(ctx, "Backup completed", "months", len(months))
}
