package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yeremiapane/gobblego/utils"
)

const DefaultPollInterval = 60 * time.Second

// CartPoller refreshes the cart (and orders, when set) on a fixed interval so
// changes made by other diners show up. Between ticks the view can be stale
// by up to Interval.
type CartPoller struct {
	Cart     *CartService
	Orders   *OrderService
	Sessions *SessionService
	Interval time.Duration
	StopChan chan struct{}

	mutex    sync.Mutex
	cancel   context.CancelFunc
	stopOnce sync.Once
	done     chan struct{}
}

func NewCartPoller(cart *CartService, orders *OrderService, sessions *SessionService, interval time.Duration) *CartPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &CartPoller{
		Cart:     cart,
		Orders:   orders,
		Sessions: sessions,
		Interval: interval,
		StopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (cp *CartPoller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	cp.mutex.Lock()
	cp.cancel = cancel
	cp.mutex.Unlock()

	go func() {
		defer close(cp.done)
		ticker := time.NewTicker(cp.Interval)
		defer ticker.Stop()

		utils.InfoLogger.Infof("Cart poller started (interval %s)", cp.Interval)
		for {
			select {
			case <-ticker.C:
				cp.poll(ctx)
			case <-cp.StopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the loop and cancels any fetch still in flight.
func (cp *CartPoller) Stop() {
	cp.stopOnce.Do(func() {
		close(cp.StopChan)
		cp.mutex.Lock()
		if cp.cancel != nil {
			cp.cancel()
		}
		started := cp.cancel != nil
		cp.mutex.Unlock()
		if started {
			<-cp.done
		}
		utils.InfoLogger.Info("Cart poller stopped")
	})
}

func (cp *CartPoller) poll(ctx context.Context) {
	// Belum join meja, tidak ada yang perlu di-refresh
	if !cp.Sessions.Current().Joined() {
		return
	}

	if _, err := cp.Cart.Fetch(ctx); err != nil && !stopping(ctx, err) {
		utils.ErrorLogger.Warnf("Cart poll failed: %v", err)
	}
	if cp.Orders != nil {
		if _, err := cp.Orders.Refresh(ctx); err != nil && !stopping(ctx, err) {
			utils.ErrorLogger.Warnf("Order poll failed: %v", err)
		}
	}
}

// stopping reports errors caused by shutdown rather than by the backend.
func stopping(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, ErrViewClosed)
}
