package simulator

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ashendes/crypto-storefront/internal/metrics"
)

// DefaultFailureRate is used when chaos is enabled without a rate
const DefaultFailureRate = 0.4

var errChaos = errors.New("simulated provider failure")

// Chaos injects latency and failures into simulated provider calls
type Chaos struct {
	service string

	mutex       sync.RWMutex
	failureRate float64
	slowMode    bool
	minDelay    time.Duration
	maxDelay    time.Duration

	randMutex sync.Mutex
	rand      *rand.Rand
}

func NewChaos(service string) *Chaos {
	return &Chaos{
		service:  service,
		minDelay: 5 * time.Second,
		maxDelay: 10 * time.Second,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetFailureRate sets the fraction of calls that fail, clamped to [0, 1]
func (c *Chaos) SetFailureRate(rate float64) {
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}

	c.mutex.Lock()
	c.failureRate = rate
	c.mutex.Unlock()

	metrics.ChaosFailureRate.WithLabelValues(c.service).Set(rate)
}

// SetSlowMode toggles delayed responses
func (c *Chaos) SetSlowMode(enabled bool) {
	c.mutex.Lock()
	c.slowMode = enabled
	c.mutex.Unlock()

	value := 0.0
	if enabled {
		value = 1
	}
	metrics.ChaosSlowMode.WithLabelValues(c.service).Set(value)
}

// SetDelayRange changes the slow mode delay bounds
func (c *Chaos) SetDelayRange(shortest, longest time.Duration) {
	if longest < shortest {
		longest = shortest
	}
	c.mutex.Lock()
	c.minDelay, c.maxDelay = shortest, longest
	c.mutex.Unlock()
}

func (c *Chaos) FailureRate() float64 {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.failureRate
}

func (c *Chaos) SlowMode() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.slowMode
}

// Disable turns off every fault
func (c *Chaos) Disable() {
	c.SetFailureRate(0)
	c.SetSlowMode(false)
}

// Apply delays and fails the current call according to the chaos settings.
// The delay ends early when ctx is done.
func (c *Chaos) Apply(ctx context.Context) error {
	c.mutex.RLock()
	rate, slow := c.failureRate, c.slowMode
	minDelay, maxDelay := c.minDelay, c.maxDelay
	c.mutex.RUnlock()

	if slow {
		delay := minDelay
		if span := maxDelay - minDelay; span > 0 {
			delay += time.Duration(c.randInt63n(int64(span)))
		}
		log.WithField("delay_ms", delay.Milliseconds()).Debug("Chaos: Simulating slow response")

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	if rate > 0 && c.randFloat() < rate {
		return errChaos
	}
	return nil
}

func (c *Chaos) randFloat() float64 {
	c.randMutex.Lock()
	defer c.randMutex.Unlock()
	return c.rand.Float64()
}

func (c *Chaos) randInt63n(n int64) int64 {
	c.randMutex.Lock()
	defer c.randMutex.Unlock()
	return c.rand.Int63n(n)
}
