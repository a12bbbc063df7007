// Package memory реализует хранилище в памяти с транзакциями на снимках.
// Используется в тестах и при STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/repository"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

type state struct {
	firms         map[uuid.UUID]*uuid.UUID // firm -> admin
	teams         map[uuid.UUID]entity.MatterTeam
	keyDates      map[uuid.UUID]entity.KeyDate
	events        map[uuid.UUID]entity.CalendarEvent
	directions    map[uuid.UUID]entity.Direction
	policies      map[uuid.UUID]entity.EscalationPolicy
	notifications map[uuid.UUID]entity.Notification
	notifKeys     map[string]uuid.UUID
	acks          map[uuid.UUID]entity.Acknowledgement
}

func newState() *state {
	return &state{
		firms:         make(map[uuid.UUID]*uuid.UUID),
		teams:         make(map[uuid.UUID]entity.MatterTeam),
		keyDates:      make(map[uuid.UUID]entity.KeyDate),
		events:        make(map[uuid.UUID]entity.CalendarEvent),
		directions:    make(map[uuid.UUID]entity.Direction),
		policies:      make(map[uuid.UUID]entity.EscalationPolicy),
		notifications: make(map[uuid.UUID]entity.Notification),
		notifKeys:     make(map[string]uuid.UUID),
		acks:          make(map[uuid.UUID]entity.Acknowledgement),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	return &state{
		firms:         cloneMap(s.firms),
		teams:         cloneMap(s.teams),
		keyDates:      cloneMap(s.keyDates),
		events:        cloneMap(s.events),
		directions:    cloneMap(s.directions),
		policies:      cloneMap(s.policies),
		notifications: cloneMap(s.notifications),
		notifKeys:     cloneMap(s.notifKeys),
		acks:          cloneMap(s.acks),
	}
}

// Store хранит зафиксированное состояние. Транзакция работает с собственной
// копией и журналом записей; журнал применяется к состоянию только при
// фиксации, поэтому откат не трогает чужие записи.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data *state
}

func NewStore() *Store {
	return &Store{data: newState()}
}

func (s *Store) Repositories() repository.Repositories {
	return (&view{store: s}).repositories()
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	tx := &txState{data: s.data.clone()}
	s.mu.RUnlock()

	if err := fn(ctx, (&view{store: s, tx: tx}).repositories()); err != nil {
		return err
	}
	return s.commit(tx.ops)
}

// commit проигрывает журнал на копии текущего состояния и подменяет его
// целиком. Если запись больше не применима, транзакция не фиксируется.
func (s *Store) commit(ops []writeOp) error {
	if len(ops) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.clone()
	for _, op := range ops {
		if err := op(next); err != nil {
			return err
		}
	}
	s.data = next
	return nil
}

type writeOp func(st *state) error

type txState struct {
	mu   sync.RWMutex
	data *state
	ops  []writeOp
}

// view связывает репозитории либо с общим состоянием, либо с транзакцией.
type view struct {
	store *Store
	tx    *txState
}

func (v *view) repositories() repository.Repositories {
	return repository.Repositories{
		KeyDates:       &keyDateRepo{v: v},
		CalendarEvents: &calendarEventRepo{v: v},
		Directions:     &directionRepo{v: v},
		Policies:       &policyRepo{v: v},
		Notifications:  &notificationRepo{v: v},
	}
}

// read возвращает состояние для чтения и функцию освобождения блокировки.
func (v *view) read() (*state, func()) {
	if v.tx != nil {
		v.tx.mu.RLock()
		return v.tx.data, v.tx.mu.RUnlock
	}
	v.store.mu.RLock()
	return v.store.data, v.store.mu.RUnlock
}

// write применяет op сразу. Внутри транзакции op ещё и попадает в журнал,
// поэтому она не должна менять ничего, кроме переданного состояния.
func (v *view) write(op writeOp) error {
	if v.tx == nil {
		v.store.mu.Lock()
		defer v.store.mu.Unlock()
		return op(v.store.data)
	}

	v.tx.mu.Lock()
	defer v.tx.mu.Unlock()
	if err := op(v.tx.data); err != nil {
		return err
	}
	v.tx.ops = append(v.tx.ops, op)
	return nil
}

// PutFirm регистрирует фирму и, при наличии, её администратора.
func (s *Store) PutFirm(firmID uuid.UUID, adminID *uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.firms[firmID] = adminID
}

// PutMatter сохраняет дело вместе с ролевыми слотами.
func (s *Store) PutMatter(team entity.MatterTeam) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.firms[team.FirmID]; !ok {
		s.data.firms[team.FirmID] = nil
	}
	team.Assignments = append([]entity.Assignment(nil), team.Assignments...)
	s.data.teams[team.MatterID] = team
}

func (s *Store) FindTeam(_ context.Context, firmID, matterID uuid.UUID) (*entity.MatterTeam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	team, ok := s.data.teams[matterID]
	if !ok || team.FirmID != firmID {
		return nil, apperror.ErrMatterNotFound
	}
	team.FirmAdminID = s.data.firms[firmID]
	team.Assignments = append([]entity.Assignment(nil), team.Assignments...)
	return &team, nil
}

func (s *Store) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(s.data.firms))
	for id := range s.data.firms {
		ids = append(ids, id)
	}
	return ids, nil
}

func (st *state) matterLabels(matterID uuid.UUID) (string, string) {
	team, ok := st.teams[matterID]
	if !ok {
		return "", ""
	}
	return team.Reference, team.Title
}
