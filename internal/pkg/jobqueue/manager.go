package jobqueue

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/josdesi/gpac-backend/app/models"
	"github.com/josdesi/gpac-backend/internal/pkg/database"
	"github.com/josdesi/gpac-backend/internal/pkg/env"
	"github.com/josdesi/gpac-backend/internal/pkg/feeagreement"
	"github.com/josdesi/gpac-backend/internal/pkg/sendout"
)

// Manager manages the global job queue and background tasks
type Manager struct {
	queue           *Queue
	scheduleTicker  *time.Ticker
	reprocessTicker *time.Ticker
	stopCh          chan struct{}
	wg              sync.WaitGroup
	mu              sync.Mutex
	running         bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global job queue manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		workerCount := 5
		if v, err := strconv.Atoi(env.GetEnv("JOB_QUEUE_WORKERS", "5")); err == nil && v > 0 {
			workerCount = v
		}

		globalManager = &Manager{
			queue:  NewQueue(workerCount),
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the job queue and background tasks
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue and background tasks")

	// Start the job queue
	m.queue.Start()

	// Scheduled sendouts are checked every minute
	m.scheduleTicker = time.NewTicker(1 * time.Minute)
	m.wg.Add(1)
	go m.scheduleWorker()

	// Unresolved webhook events are retried every 5 minutes
	m.reprocessTicker = time.NewTicker(5 * time.Minute)
	m.wg.Add(1)
	go m.reprocessWorker()

	log.Info("[JobQueue Manager] Started successfully")
}

// Stop stops the job queue and background tasks
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping job queue and background tasks...")

	if m.scheduleTicker != nil {
		m.scheduleTicker.Stop()
	}
	if m.reprocessTicker != nil {
		m.reprocessTicker.Stop()
	}

	// Signal workers to stop
	close(m.stopCh)
	m.running = false

	// Wait for background workers to finish
	m.wg.Wait()

	// Stop the job queue
	m.queue.Stop()

	log.Info("[JobQueue Manager] Stopped successfully")
}

// scheduleWorker runs periodically to enqueue delivery jobs for scheduled
// sendouts that are due
func (m *Manager) scheduleWorker() {
	defer m.wg.Done()
	log.Info("[JobQueue Manager] Started sendout schedule worker")

	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Schedule worker stopping")
			return
		case <-m.scheduleTicker.C:
			if err := m.enqueueDueSendouts(); err != nil {
				log.Errorf("[JobQueue Manager] Error enqueuing due sendouts: %v", err)
			}
		}
	}
}

// reprocessWorker runs periodically to replay provider webhook events that
// arrived before their signature request was registered
func (m *Manager) reprocessWorker() {
	defer m.wg.Done()
	log.Info("[JobQueue Manager] Started webhook reprocess worker")

	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Reprocess worker stopping")
			return
		case <-m.reprocessTicker.C:
			if err := m.enqueueUnresolvedWebhookEvents(); err != nil {
				log.Errorf("[JobQueue Manager] Error enqueuing webhook replays: %v", err)
			}
		}
	}
}

// enqueueDueSendouts moves due scheduled sendouts into the delivery queue.
// The status flips to sending before the job is picked up so a sendout is
// never enqueued twice across sweeps.
func (m *Manager) enqueueDueSendouts() error {
	repo := sendout.NewRepository(database.GetDB())
	due, err := repo.ListDueScheduled(50)
	if err != nil {
		return err
	}

	for i := range due {
		so := &due[i]
		so.Status = models.SendoutStatusSending
		if err := repo.SaveSendout(so); err != nil {
			log.Errorf("[JobQueue Manager] Failed to claim sendout %d: %v", so.ID, err)
			continue
		}
		payload := SendoutDeliveryJobPayload{SendoutID: so.ID, SendoutUUID: so.UUID}
		if _, err := m.queue.EnqueueJob(JobTypeSendoutDelivery, payload.ToMap()); err != nil {
			log.Errorf("[JobQueue Manager] Failed to enqueue sendout %d: %v", so.ID, err)
		}
	}
	return nil
}

// enqueueUnresolvedWebhookEvents replays stored envelope events that have no
// workflow resolution yet
func (m *Manager) enqueueUnresolvedWebhookEvents() error {
	repo := feeagreement.NewRepository(database.GetDB())
	events, err := repo.ListUnprocessedDocusignEvents(100)
	if err != nil {
		return err
	}

	for _, ev := range events {
		payload := WebhookReprocessJobPayload{
			Provider: string(feeagreement.ProviderDocusign),
			EventID:  ev.EventID,
		}
		if _, err := m.queue.EnqueueJob(JobTypeWebhookReprocess, payload.ToMap()); err != nil {
			log.Errorf("[JobQueue Manager] Failed to enqueue replay for event %s: %v", ev.EventID, err)
		}
	}
	return nil
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
