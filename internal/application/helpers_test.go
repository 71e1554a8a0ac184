package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"visit-bot/config"
	"visit-bot/internal/domain/entity"
	"visit-bot/internal/domain/geo"
	"visit-bot/internal/infrastructure/storage"
)

var (
	testTarget = geo.Coordinate{Latitude: 10.0, Longitude: 20.0}
	testNow    = time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
)

type stubNotifier struct {
	mu    sync.Mutex
	days  []time.Time
	sizes []int
	err   error
}

func (n *stubNotifier) NotifyAllSubmitted(_ context.Context, day time.Time, rosterSize int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.days = append(n.days, day)
	n.sizes = append(n.sizes, rosterSize)
	return nil
}

func (n *stubNotifier) calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.days)
}

type stubGuard struct {
	seen map[string]bool
}

func (g *stubGuard) Acquire(_ context.Context, key string) (bool, error) {
	if g.seen[key] {
		return false, nil
	}
	g.seen[key] = true
	return true, nil
}

type stubMetrics struct {
	mu         sync.Mutex
	saved      int
	rejections map[string]int
	broadcasts int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{rejections: make(map[string]int)}
}

func (m *stubMetrics) VisitSaved() {
	m.mu.Lock()
	m.saved++
	m.mu.Unlock()
}

func (m *stubMetrics) VisitRejected(reason string) {
	m.mu.Lock()
	m.rejections[reason]++
	m.mu.Unlock()
}

func (m *stubMetrics) ReportGenerated(bool) {}

func (m *stubMetrics) BroadcastSent() {
	m.mu.Lock()
	m.broadcasts++
	m.mu.Unlock()
}

type stubLinker struct{}

func (stubLinker) FileURL(filePath string) string {
	return "https://files.example/bot-token/" + filePath
}

type testEnv struct {
	participants *storage.MemoryParticipantRepository
	shops        *storage.MemoryShopRepository
	visits       *storage.MemoryVisitRepository
	states       *storage.MemoryStateStore
	notifier     *stubNotifier
	metrics      *stubMetrics

	participantSvc *ParticipantService
	complianceSvc  *ComplianceService
	visitSvc       *VisitService
}

func newTestEnv(t *testing.T, access config.Access) *testEnv {
	t.Helper()

	env := &testEnv{
		participants: storage.NewMemoryParticipantRepository(),
		shops:        storage.NewMemoryShopRepository(entity.Shop{Code: "SHOP1", Name: "Corner store"}),
		visits:       storage.NewMemoryVisitRepository(),
		states:       storage.NewMemoryStateStore(),
		notifier:     &stubNotifier{},
		metrics:      newStubMetrics(),
	}
	clock := func() time.Time { return testNow }

	env.participantSvc = NewParticipantService(env.participants, access)
	env.participantSvc.now = clock
	env.complianceSvc = NewComplianceService(env.visits, time.UTC)
	env.complianceSvc.now = clock
	env.visitSvc = NewVisitService(VisitDependencies{
		Participants: env.participantSvc,
		Compliance:   env.complianceSvc,
		Shops:        env.shops,
		Visits:       env.visits,
		States:       env.states,
		Notifier:     env.notifier,
		Metrics:      env.metrics,
		Target:       testTarget,
		RadiusMeters: config.GeofenceRadiusMeters,
	})
	env.visitSvc.now = clock

	return env
}

func (e *testEnv) register(t *testing.T, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, e.participants.Upsert(context.Background(), &entity.Participant{
			ID:           id,
			FirstName:    "User",
			Role:         entity.RoleEmployee,
			Active:       true,
			RegisteredAt: testNow.Add(-24 * time.Hour),
		}))
	}
}
