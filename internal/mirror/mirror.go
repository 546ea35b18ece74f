// Package mirror is the consumer-side companion of the HTTP API: a
// client-local, per-tenant copy of grid, catalog, pricing and ledger state.
// Mutations are applied optimistically before the server round trip resolves
// and tracked as explicit pending/confirmed/failed records, so a caller can
// always see which parts of the local view the server has not acknowledged.
// The mirror is never authoritative; on failure the optimistic state is left
// in place and the mutation is marked failed rather than rolled back.
package mirror

import (
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lucaferri/lido-manager/internal/repository"
)

// MutationState tags the lifecycle of one optimistic mutation.
type MutationState string

const (
	StatePending   MutationState = "pending"
	StateConfirmed MutationState = "confirmed"
	StateFailed    MutationState = "failed"
)

// Mutation records one locally applied change awaiting server confirmation.
// TempKey is set for creates and names the placeholder record that a
// Confirm call replaces with the server's version.
type Mutation struct {
	ID        string
	Op        string
	TempKey   string
	State     MutationState
	Err       string
	AppliedAt time.Time
}

// ErrUnknownMutation is returned when a confirmation or failure targets a
// mutation id the mirror has never issued.
var ErrUnknownMutation = errors.New("unknown mutation")

// ErrNotMirrored is returned when an optimistic update addresses an entity
// the mirror does not hold.
var ErrNotMirrored = errors.New("entity not in mirror")

type catalogEntry struct {
	key  string
	item repository.CatalogItem
}

type txnEntry struct {
	key string
	txn repository.Transaction
}

// Mirror is one tenant's local cache. Construct one per account with New;
// there is deliberately no package-level instance.
type Mirror struct {
	mu           sync.Mutex
	settings     repository.Settings
	spots        map[string]repository.Spot // keyed by grid label
	catalog      []catalogEntry
	prices       map[string]float64
	transactions []txnEntry // most recent first
	mutations    map[string]*Mutation
	order        []string // mutation ids in issue order
}

// New returns an empty mirror for one tenant.
func New() *Mirror {
	return &Mirror{
		spots:     make(map[string]repository.Spot),
		prices:    make(map[string]float64),
		mutations: make(map[string]*Mutation),
	}
}

// ----- hydration (server truth replaces local state) -----

// HydrateSettings replaces the local settings copy.
func (m *Mirror) HydrateSettings(s repository.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
}

// HydrateSpots replaces the local grid with a server response.
func (m *Mirror) HydrateSpots(spots []repository.Spot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spots = make(map[string]repository.Spot, len(spots))
	for _, s := range spots {
		m.spots[s.Label()] = s
	}
}

// HydrateCatalog replaces the local menu with a server response.
func (m *Mirror) HydrateCatalog(items []repository.CatalogItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = m.catalog[:0]
	for _, it := range items {
		m.catalog = append(m.catalog, catalogEntry{key: strconv.FormatUint(it.ID, 10), item: it})
	}
}

// HydratePrices replaces the local price rules with a server response.
func (m *Mirror) HydratePrices(rules []repository.PriceRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices = make(map[string]float64, len(rules))
	for _, r := range rules {
		m.prices[r.Row] = r.DailyPrice
	}
}

// HydrateTransactions replaces the local ledger view with a server response
// (expected most-recent-first, as the server returns it).
func (m *Mirror) HydrateTransactions(txns []repository.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = m.transactions[:0]
	for _, t := range txns {
		m.transactions = append(m.transactions, txnEntry{key: strconv.FormatUint(t.ID, 10), txn: t})
	}
}

// ----- reads -----

// Settings returns the local settings copy.
func (m *Mirror) Settings() repository.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// Spots returns the local grid ordered by row then number.
func (m *Mirror) Spots() []repository.Spot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]repository.Spot, 0, len(m.spots))
	for _, s := range m.spots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Number < out[j].Number
	})
	return out
}

// Spot returns one spot by label.
func (m *Mirror) Spot(label string) (repository.Spot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.spots[label]
	return s, ok
}

// Catalog returns the local menu in insertion order.
func (m *Mirror) Catalog() []repository.CatalogItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]repository.CatalogItem, len(m.catalog))
	for i, e := range m.catalog {
		out[i] = e.item
	}
	return out
}

// Transactions returns the local ledger view, most recent first.
func (m *Mirror) Transactions() []repository.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]repository.Transaction, len(m.transactions))
	for i, e := range m.transactions {
		out[i] = e.txn
	}
	return out
}

// PriceFor returns the daily price for a grid row, zero when no rule exists.
func (m *Mirror) PriceFor(row string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prices[row]
}

// ----- optimistic mutations -----

func (m *Mirror) newMutation(op, tempKey string) *Mutation {
	mut := &Mutation{
		ID:        uuid.NewString(),
		Op:        op,
		TempKey:   tempKey,
		State:     StatePending,
		AppliedAt: time.Now().UTC(),
	}
	m.mutations[mut.ID] = mut
	m.order = append(m.order, mut.ID)
	return mut
}

// UpdateSpot applies a partial spot update locally and returns the pending
// mutation id. Sunbeds are clamped the same way the server clamps them.
func (m *Mirror) UpdateSpot(label string, status *string, sunbeds *int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.spots[label]
	if !ok {
		return "", ErrNotMirrored
	}
	if status != nil {
		s.Status = *status
	}
	if sunbeds != nil {
		s.Sunbeds = repository.ClampSunbeds(*sunbeds)
	}
	m.spots[label] = s
	return m.newMutation("spot.update", "").ID, nil
}

// Resize regenerates the local grid to rows x cols the way the server's sync
// does: overlap keeps status and sunbeds, new positions start free,
// out-of-bounds spots disappear.
func (m *Mirror) Resize(rows, cols int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make(map[string]repository.Spot, rows*cols)
	for r := 0; r < rows; r++ {
		label := repository.RowLabel(r)
		for c := 1; c <= cols; c++ {
			s := repository.Spot{Row: label, Number: uint32(c), Status: repository.StatusFree}
			if prev, ok := m.spots[s.Label()]; ok {
				s.Status = prev.Status
				s.Sunbeds = prev.Sunbeds
			}
			next[s.Label()] = s
		}
	}
	m.spots = next
	m.settings.Rows = rows
	m.settings.Cols = cols
	return m.newMutation("grid.sync", "").ID
}

// AddCatalogItem inserts a menu item under a temporary key and returns the
// key together with the pending mutation id.
func (m *Mirror) AddCatalogItem(name, category string, price float64) (tempKey, mutationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tempKey = uuid.NewString()
	m.catalog = append(m.catalog, catalogEntry{
		key:  tempKey,
		item: repository.CatalogItem{Name: name, Category: category, Price: price},
	})
	return tempKey, m.newMutation("catalog.create", tempKey).ID
}

// DeleteCatalogItem removes a menu item by key (temporary or server id).
func (m *Mirror) DeleteCatalogItem(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.catalog {
		if e.key == key {
			m.catalog = append(m.catalog[:i], m.catalog[i+1:]...)
			return m.newMutation("catalog.delete", "").ID, nil
		}
	}
	return "", ErrNotMirrored
}

// SetPrice stores a row's daily price locally.
func (m *Mirror) SetPrice(row string, price float64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[row] = price
	return m.newMutation("price.upsert", "").ID
}

// RecordSale prepends an optimistic transaction under a temporary key,
// computing the total the same way the server does and flipping every
// referenced umbrella spot to occupied locally.
func (m *Mirror) RecordSale(items []repository.TransactionItem, paymentMethod string) (tempKey, mutationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tempKey = uuid.NewString()
	txn := repository.Transaction{
		PaidAt:        time.Now().UTC(),
		PaymentMethod: paymentMethod,
		Total:         repository.ComputeTotal(items),
		Items:         items,
	}
	m.transactions = append([]txnEntry{{key: tempKey, txn: txn}}, m.transactions...)

	for _, it := range items {
		if it.Type != repository.ItemUmbrella || it.Reference == "" {
			continue
		}
		if s, ok := m.spots[it.Reference]; ok {
			s.Status = repository.StatusOccupied
			m.spots[it.Reference] = s
		}
	}
	return tempKey, m.newMutation("transaction.create", tempKey).ID
}

// ----- reconciliation -----

// ConfirmCatalogItem resolves a pending catalog create: the placeholder
// under the mutation's temp key is replaced by the server-confirmed item.
func (m *Mirror) ConfirmCatalogItem(mutationID string, server repository.CatalogItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mut, ok := m.mutations[mutationID]
	if !ok {
		return ErrUnknownMutation
	}
	for i, e := range m.catalog {
		if e.key == mut.TempKey {
			m.catalog[i] = catalogEntry{key: strconv.FormatUint(server.ID, 10), item: server}
			break
		}
	}
	mut.State = StateConfirmed
	return nil
}

// ConfirmTransaction resolves a pending sale: the optimistic record under
// the mutation's temp key is replaced by the server-confirmed transaction.
func (m *Mirror) ConfirmTransaction(mutationID string, server repository.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mut, ok := m.mutations[mutationID]
	if !ok {
		return ErrUnknownMutation
	}
	for i, e := range m.transactions {
		if e.key == mut.TempKey {
			m.transactions[i] = txnEntry{key: strconv.FormatUint(server.ID, 10), txn: server}
			break
		}
	}
	mut.State = StateConfirmed
	return nil
}

// Confirm marks a non-create mutation as acknowledged by the server.
func (m *Mirror) Confirm(mutationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mut, ok := m.mutations[mutationID]
	if !ok {
		return ErrUnknownMutation
	}
	mut.State = StateConfirmed
	return nil
}

// Fail marks a mutation as rejected by the server. The optimistic local
// state is deliberately left in place; callers inspect Failed() to surface
// the divergence.
func (m *Mirror) Fail(mutationID string, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mut, ok := m.mutations[mutationID]
	if !ok {
		return ErrUnknownMutation
	}
	mut.State = StateFailed
	if cause != nil {
		mut.Err = cause.Error()
	}
	return nil
}

// Pending returns the mutations still awaiting a server response, oldest
// first.
func (m *Mirror) Pending() []Mutation {
	return m.snapshot(StatePending)
}

// Failed returns the mutations the server rejected, oldest first.
func (m *Mirror) Failed() []Mutation {
	return m.snapshot(StateFailed)
}

func (m *Mirror) snapshot(state MutationState) []Mutation {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Mutation
	for _, id := range m.order {
		if mut := m.mutations[id]; mut.State == state {
			out = append(out, *mut)
		}
	}
	return out
}
