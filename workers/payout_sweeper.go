// workers/payout_sweeper.go
package workers

import (
	"context"
	"errors"
	"log"
	"time"

	"health-to-earn-service/models"
	"health-to-earn-service/services"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// ErrPayoutNotImplemented marks the payout extension point: reward records
// are selected and logged, but no tokens move yet.
var ErrPayoutNotImplemented = errors.New("payout transfer not implemented")

// PayoutSweeper periodically scans for unprocessed reward records and hands
// each one to the payout step. A record is marked processed only after its
// payout succeeds, so a failed payout leaves the record eligible for the
// next sweep.
type PayoutSweeper struct {
	DB     *gorm.DB
	Bridge services.WalletBridge
}

func NewPayoutSweeper(db *gorm.DB, bridge services.WalletBridge) *PayoutSweeper {
	return &PayoutSweeper{DB: db, Bridge: bridge}
}

// Sweep runs one scan. Safe to invoke concurrently with itself: the flag
// flip is a guarded conditional update, so overlapping sweeps cannot mark a
// record processed twice.
func (s *PayoutSweeper) Sweep(ctx context.Context) error {
	var pending []models.ActivityReward
	if err := s.DB.WithContext(ctx).Where("is_processed = ?", false).Find(&pending).Error; err != nil {
		return err
	}

	if len(pending) == 0 {
		return nil
	}

	log.Printf("[SWEEP] 📥 Found %d unprocessed reward(s)", len(pending))

	for _, reward := range pending {
		if err := s.payout(ctx, &reward); err != nil {
			log.Printf("[SWEEP] ⏭️ Skipping reward %s: %v", reward.ID, err)
			continue
		}

		if err := s.DB.WithContext(ctx).Model(&models.ActivityReward{}).
			Where("id = ? AND is_processed = ?", reward.ID, false).
			Update("is_processed", true).Error; err != nil {
			log.Printf("[SWEEP] ❌ Failed to mark reward %s processed: %v", reward.ID, err)
		}
	}

	return nil
}

// payout will transfer the day's reward to reward.Address, using the wallet
// bridge for the active signer and network connection.
func (s *PayoutSweeper) payout(ctx context.Context, reward *models.ActivityReward) error {
	return ErrPayoutNotImplemented
}

// StartScheduler runs Sweep on a fixed interval until ctx is cancelled.
func (s *PayoutSweeper) StartScheduler(ctx context.Context, interval time.Duration) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := s.Sweep(ctx); err != nil {
				log.Printf("[SWEEP] ❌ Sweep failed: %v", err)
			}
		}),
	)

	go func() {
		<-ctx.Done()
		_ = sched.Shutdown()
	}()
}
