package service

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/autobitstack/orchestrator-svc/internal/broker"
	"github.com/autobitstack/orchestrator-svc/internal/config"
	"github.com/autobitstack/orchestrator-svc/internal/data/postgres"
	"github.com/autobitstack/orchestrator-svc/internal/ledger/evm"
	"github.com/autobitstack/orchestrator-svc/internal/queue"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/running"
)

type service struct {
	log        *logan.Entry
	ingestor   *ingestor
	dispatcher *queue.Dispatcher
}

func newService(cfg config.Config) *service {
	log := cfg.Log()
	db := cfg.DB()

	hub := evm.NewHub(cfg.Network(), log)
	schedules := postgres.NewSchedules(db)

	q := queue.New(log, schedules)
	scheduler := NewScheduler(log, q, hub)

	swaps := broker.NewClient(cfg.Broker(), log)
	trigger := NewTrigger(log, swaps, hub, postgres.NewStatusRecords(db), cfg.Assets())

	dispatcher := queue.NewDispatcher(log, schedules, cfg.Queue().PollPeriod)
	dispatcher.Register(QueueDCA, NewDCAWorker(log, hub, trigger).Handle)
	dispatcher.Register(QueueLimit, NewLimitWorker(log, hub, swaps, trigger).Handle)

	return &service{
		log:        log,
		ingestor:   newIngestor(log, hub, scheduler, postgres.NewHubEntries(db)),
		dispatcher: dispatcher,
	}
}

func (s *service) run(ctx context.Context) {
	s.log.Info("Service started")

	go running.WithBackOff(ctx, s.log, "ingestor", s.ingestor.run,
		time.Second, time.Second, time.Minute)

	s.dispatcher.Run(ctx)
}

func Run(cfg config.Config) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	newService(cfg).run(ctx)
}
