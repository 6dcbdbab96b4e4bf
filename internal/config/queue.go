package config

import (
	"time"

	"gitlab.com/distributed_lab/figure/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

type Queue struct {
	PollPeriod time.Duration
}

const defaultPollPeriod = time.Second

func (c *config) Queue() Queue {
	return c.queueOnce.Do(func() interface{} {
		var cfg struct {
			PollPeriod time.Duration `fig:"poll_period"`
		}

		raw, err := c.getter.GetStringMap("queue")
		if err == nil && raw != nil {
			if err = figure.Out(&cfg).From(raw).Please(); err != nil {
				panic(errors.Wrap(err, "failed to figure out queue"))
			}
		}

		if cfg.PollPeriod == 0 {
			cfg.PollPeriod = defaultPollPeriod
		}

		return Queue{PollPeriod: cfg.PollPeriod}
	}).(Queue)
}
