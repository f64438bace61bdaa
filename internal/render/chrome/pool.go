package chrome

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ChromePool manages Chrome instances with a simple FIFO availability queue.
// The crawl is sequential, so the pool mostly buys crash recovery and
// restart-after-count hygiene rather than parallelism.
type ChromePool struct {
	config        *Config
	logger        *zap.Logger
	instances     []*ChromeInstance
	queue         chan int // FIFO queue of available instance IDs
	mu            sync.RWMutex
	totalRenders  atomic.Int64
	totalRestarts atomic.Int64
	createdAt     time.Time
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewChromePool creates a pool with config.CalculatePoolSize() instances.
func NewChromePool(config *Config, logger *zap.Logger) (*ChromePool, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	poolSize := config.CalculatePoolSize()
	logger.Info("Initializing Chrome pool", zap.Int("pool_size", poolSize))

	ctx, cancel := context.WithCancel(context.Background())
	pool := &ChromePool{
		config:    config,
		logger:    logger,
		instances: make([]*ChromeInstance, poolSize),
		queue:     make(chan int, poolSize),
		createdAt: time.Now().UTC(),
		ctx:       ctx,
		cancel:    cancel,
	}

	for i := 0; i < poolSize; i++ {
		instance, err := NewChromeInstance(i, config, logger)
		if err != nil {
			pool.Shutdown()
			return nil, fmt.Errorf("failed to create Chrome instance %d: %w", i, err)
		}
		pool.instances[i] = instance
		pool.queue <- i
	}

	logger.Info("Chrome pool initialized", zap.Int("instances", poolSize))
	return pool, nil
}

// Acquire takes an instance from the pool, blocking until one is free or
// the context expires.
func (p *ChromePool) Acquire(ctx context.Context) (*ChromeInstance, error) {
	select {
	case <-p.ctx.Done():
		return nil, ErrPoolShutdown
	case <-ctx.Done():
		return nil, ctx.Err()
	case instanceID := <-p.queue:
		p.mu.RLock()
		instance := p.instances[instanceID]
		p.mu.RUnlock()
		return instance, nil
	}
}

// Release returns an instance to the pool, restarting it first when it has
// served its render quota or stopped responding.
func (p *ChromePool) Release(instance *ChromeInstance) {
	p.totalRenders.Add(1)

	needsRestart := instance.RendersDone() >= p.config.RestartAfterCount || !instance.IsAlive()
	if needsRestart {
		if err := p.restart(instance.ID); err != nil {
			p.logger.Error("Chrome restart failed, instance removed from rotation",
				zap.Int("instance_id", instance.ID),
				zap.Error(err))
			return
		}
	}

	select {
	case p.queue <- instance.ID:
	default:
		// Queue full would mean a double release; drop on the floor.
		p.logger.Warn("Release with full queue", zap.Int("instance_id", instance.ID))
	}
}

// restart replaces the instance at the given slot with a fresh browser.
func (p *ChromePool) restart(id int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	old := p.instances[id]
	old.Close()

	replacement, err := NewChromeInstance(id, p.config, p.logger)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRestartFailed, err)
	}

	p.instances[id] = replacement
	p.totalRestarts.Add(1)
	p.logger.Info("Chrome instance restarted", zap.Int("instance_id", id))
	return nil
}

// Shutdown closes all instances. Safe to call more than once.
func (p *ChromePool) Shutdown() {
	p.cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, instance := range p.instances {
		if instance != nil {
			instance.Close()
		}
	}

	p.logger.Info("Chrome pool shut down",
		zap.Int64("total_renders", p.totalRenders.Load()),
		zap.Int64("total_restarts", p.totalRestarts.Load()),
		zap.Duration("uptime", time.Since(p.createdAt)))
}
