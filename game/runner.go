package game

import (
	"context"
	"time"
)

// Runner is the round clock: it owns the 1-second tick that drives every
// phase transition. Exactly one Runner runs per Round.
type Runner struct {
	round         *Round
	tickerCreator PeriodicTickerChannelCreator
}

func NewRunner(round *Round, tickerCreator PeriodicTickerChannelCreator) *Runner {
	return &Runner{round: round, tickerCreator: tickerCreator}
}

func (rn *Runner) Run(ctx context.Context, started chan struct{}) {
	ticker := rn.tickerCreator.Create(time.Second)

	close(started)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker:
			rn.round.Tick()
		}
	}
}
