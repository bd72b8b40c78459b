package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"divisafe-support/internal/domain"
)

// EscalationTTL es la vida de una escalacion; pasado ese tiempo se descarta.
const EscalationTTL = 24 * time.Hour

var ErrEscalationNotFound = errors.New("escalation not found")

// EscalationStore guarda pedidos de intervencion humana con expiracion.
type EscalationStore interface {
	Create(ctx context.Context, esc domain.Escalation) error
	Get(ctx context.Context, id string) (domain.Escalation, error)
	ListPending(ctx context.Context) ([]domain.Escalation, error)
	Resolve(ctx context.Context, id, moderator string) (domain.Escalation, error)
}

type memoryEscalationItem struct {
	esc       domain.Escalation
	expiresAt time.Time
}

type memoryEscalationStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]memoryEscalationItem
}

func NewMemoryEscalationStore(ttl time.Duration) EscalationStore {
	if ttl <= 0 {
		ttl = EscalationTTL
	}
	return &memoryEscalationStore{
		ttl:   ttl,
		now:   func() time.Time { return time.Now().UTC() },
		items: make(map[string]memoryEscalationItem),
	}
}

func (s *memoryEscalationStore) Create(_ context.Context, esc domain.Escalation) error {
	if strings.TrimSpace(esc.ID) == "" {
		return fmt.Errorf("escalation id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[esc.ID] = memoryEscalationItem{esc: esc, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *memoryEscalationStore) Get(_ context.Context, id string) (domain.Escalation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.lookup(id)
	if !ok {
		return domain.Escalation{}, ErrEscalationNotFound
	}
	return item.esc, nil
}

func (s *memoryEscalationStore) ListPending(_ context.Context) ([]domain.Escalation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Escalation
	for id := range s.items {
		item, ok := s.lookup(id)
		if ok && item.esc.Status == domain.EscalationPending {
			out = append(out, item.esc)
		}
	}
	sortEscalations(out)
	return out, nil
}

func (s *memoryEscalationStore) Resolve(_ context.Context, id, moderator string) (domain.Escalation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.lookup(id)
	if !ok {
		return domain.Escalation{}, ErrEscalationNotFound
	}
	markResolved(&item.esc, moderator, s.now())
	s.items[id] = item
	return item.esc, nil
}

// lookup borra la entrada si ya vencio. Requiere s.mu tomado.
func (s *memoryEscalationStore) lookup(id string) (memoryEscalationItem, bool) {
	item, ok := s.items[id]
	if !ok {
		return memoryEscalationItem{}, false
	}
	if s.now().After(item.expiresAt) {
		delete(s.items, id)
		return memoryEscalationItem{}, false
	}
	return item, true
}

type redisEscalationStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisEscalationStore guarda cada escalacion como JSON con TTL y un ZSET de pendientes.
func NewRedisEscalationStore(client *redis.Client, ttl time.Duration) EscalationStore {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = EscalationTTL
	}
	return &redisEscalationStore{
		client: client,
		ttl:    ttl,
		prefix: "escalation:",
	}
}

func (s *redisEscalationStore) itemKey(id string) string { return s.prefix + "item:" + id }
func (s *redisEscalationStore) pendingKey() string      { return s.prefix + "pending" }

func (s *redisEscalationStore) Create(ctx context.Context, esc domain.Escalation) error {
	if strings.TrimSpace(esc.ID) == "" {
		return fmt.Errorf("escalation id is required")
	}
	data, err := json.Marshal(esc)
	if err != nil {
		return fmt.Errorf("marshal escalation: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.itemKey(esc.ID), data, s.ttl)
	if esc.Status == domain.EscalationPending {
		pipe.ZAdd(ctx, s.pendingKey(), redis.Z{Score: float64(esc.CreatedAt.UnixMilli()), Member: esc.ID})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store escalation: %w", err)
	}
	return nil
}

func (s *redisEscalationStore) Get(ctx context.Context, id string) (domain.Escalation, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Escalation{}, ErrEscalationNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	data, err := s.client.Get(ctx, s.itemKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Escalation{}, ErrEscalationNotFound
	}
	if err != nil {
		return domain.Escalation{}, err
	}
	var esc domain.Escalation
	if err := json.Unmarshal(data, &esc); err != nil {
		return domain.Escalation{}, fmt.Errorf("unmarshal escalation: %w", err)
	}
	return esc, nil
}

func (s *redisEscalationStore) ListPending(ctx context.Context) ([]domain.Escalation, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	ids, err := s.client.ZRange(ctx, s.pendingKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.itemKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	var out []domain.Escalation
	var stale []interface{}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var esc domain.Escalation
		if err := json.Unmarshal([]byte(raw), &esc); err != nil {
			stale = append(stale, ids[i])
			continue
		}
		if esc.Status != domain.EscalationPending {
			stale = append(stale, ids[i])
			continue
		}
		out = append(out, esc)
	}
	if len(stale) > 0 {
		_ = s.client.ZRem(ctx, s.pendingKey(), stale...).Err()
	}
	sortEscalations(out)
	return out, nil
}

func (s *redisEscalationStore) Resolve(ctx context.Context, id, moderator string) (domain.Escalation, error) {
	esc, err := s.Get(ctx, id)
	if err != nil {
		return domain.Escalation{}, err
	}
	markResolved(&esc, moderator, time.Now().UTC())
	data, err := json.Marshal(esc)
	if err != nil {
		return domain.Escalation{}, fmt.Errorf("marshal escalation: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	pipe := s.client.TxPipeline()
	// XX: si la clave vencio entre Get y Set no se recrea sin TTL.
	pipe.SetArgs(ctx, s.itemKey(id), data, redis.SetArgs{Mode: "XX", KeepTTL: true})
	pipe.ZRem(ctx, s.pendingKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Escalation{}, ErrEscalationNotFound
		}
		return domain.Escalation{}, fmt.Errorf("resolve escalation: %w", err)
	}
	return esc, nil
}

func markResolved(esc *domain.Escalation, moderator string, at time.Time) {
	if esc.Status == domain.EscalationResolved {
		return
	}
	esc.Status = domain.EscalationResolved
	esc.ResolvedAt = &at
	esc.ResolvedBy = strings.TrimSpace(moderator)
}

var priorityRank = map[string]int{
	domain.PriorityEmergency: 0,
	domain.PriorityHigh:      1,
	domain.PriorityMedium:    2,
}

// sortEscalations ordena por prioridad y despues por antiguedad.
func sortEscalations(list []domain.Escalation) {
	sort.SliceStable(list, func(i, j int) bool {
		pi, pj := priorityRank[list[i].Priority], priorityRank[list[j].Priority]
		if pi != pj {
			return pi < pj
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}
