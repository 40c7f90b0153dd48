package service

import (
	"context"
	"log"
	"time"

	"River_Social/internal/model"
	"River_Social/internal/pkg"
	"River_Social/internal/repository/mysql"
)

type Sender func(ctx context.Context, ev *model.RealtimeOutbox) error

// OutboxRelayer 实时事件投递器，从 outbox 表批量取待发事件交给 sender
type OutboxRelayer struct {
	outbox    OutboxStore
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(outbox OutboxStore, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		outbox:    outbox,
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run 启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.outbox.PendingEvents(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query err: %v", err)
		return
	}
	for i := range rows {
		ev := rows[i]
		if err = r.sender(ctx, &ev); err != nil {
			_ = r.outbox.MarkEventFailed(ctx, ev.ID)
			continue
		}
		_ = r.outbox.MarkEventSent(ctx, ev.ID)
	}
}

// LogSender 默认 sender（占位）：未接 Kafka 时只打印
func LogSender(ctx context.Context, ev *model.RealtimeOutbox) error {
	log.Printf("OUTBOX SEND type=%s room=%s user=%d payload=%s", ev.EventType, ev.Room, ev.UserID, ev.Payload)
	return nil
}

// KafkaSender key 用房间名保证同一房间内的分区有序
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ev *model.RealtimeOutbox) error {
		return p.Send(ctx, ev.Room, ev.EventType, []byte(ev.Payload))
	}
}

// CounterReconciler 冗余计数对账器：评论数/点赞数定期与真实行数比对
type CounterReconciler struct {
	repo      *mysql.CounterReconcilerRepository
	batchSize int
	interval  time.Duration
}

func NewCounterReconciler(repo *mysql.CounterReconcilerRepository) *CounterReconciler {
	return &CounterReconciler{
		repo:      repo,
		batchSize: 500,
		interval:  5 * time.Minute,
	}
}

func (r *CounterReconciler) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.reconcileOnce(ctx)
		}
	}
}

func (r *CounterReconciler) reconcileOnce(ctx context.Context) {
	rows, err := r.repo.RecentPostCounters(ctx, r.batchSize)
	if err != nil {
		log.Printf("reconcile list err: %v", err)
		return
	}
	for _, p := range rows {
		realComments, err := r.repo.RealCommentsCount(ctx, p.ID)
		if err != nil {
			continue
		}
		realLikes, err := r.repo.RealLikesCount(ctx, p.ID)
		if err != nil {
			continue
		}
		if realComments != p.CommentsCount {
			_ = r.repo.ReconcileCommentsCount(ctx, p.ID, realComments)
		}
		if realLikes != p.LikesCount {
			_ = r.repo.ReconcileLikesCount(ctx, p.ID, realLikes)
		}
	}
}
