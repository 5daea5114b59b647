package game

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type CurrencyLedger interface {
	Credit(ctx context.Context, username string, amount int) (int, error)
	Balance(ctx context.Context, username string) (int, error)
}

// RewardsObserver pays the round-win bonus. It is a plain consumer of
// snapshots: the round itself never touches the ledger. Watching the
// finished transition keyed by round id makes the payout exactly-once even
// though it observes the same finished snapshot many times.
type RewardsObserver struct {
	round         *Round
	ledger        CurrencyLedger
	tickerCreator PeriodicTickerChannelCreator
	winBonus      int
	logger        zerolog.Logger

	lastPaidRound int
}

func NewRewardsObserver(round *Round, ledger CurrencyLedger, tickerCreator PeriodicTickerChannelCreator, winBonus int, logger zerolog.Logger) *RewardsObserver {
	return &RewardsObserver{
		round:         round,
		ledger:        ledger,
		tickerCreator: tickerCreator,
		winBonus:      winBonus,
		logger:        logger,
	}
}

func (ro *RewardsObserver) Run(ctx context.Context, started chan struct{}) {
	ticker := ro.tickerCreator.Create(time.Second)

	close(started)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker:
			ro.observe(ctx)
		}
	}
}

func (ro *RewardsObserver) observe(ctx context.Context) {
	snap := ro.round.Snapshot()

	if snap.Phase != PhaseFinished || snap.RoundID <= ro.lastPaidRound || len(snap.Players) == 0 {
		return
	}

	winner := snap.Players[0]
	ro.lastPaidRound = snap.RoundID

	balance, err := ro.ledger.Credit(ctx, winner.Name, ro.winBonus)
	if err != nil {
		ro.logger.Error().Err(err).
			Int("round", snap.RoundID).
			Str("winner", winner.Name).
			Msg("failed to credit win bonus")
		return
	}

	ro.logger.Info().
		Int("round", snap.RoundID).
		Str("winner", winner.Name).
		Int("amount", ro.winBonus).
		Int("balance", balance).
		Msg("win bonus credited")
}
