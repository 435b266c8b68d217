package liststore

import (
	"encoding/json"
	"errors"
	"sync"

	"precivox-base/pkg/logger"
	"precivox-base/pkg/models"
	"precivox-base/pkg/storage"
)

// Store is the single owner of session list state: the current working
// list, the saved list collection, and which list/page the user is
// looking at. It is constructed once per session and passed around by
// reference instead of being rebuilt from scattered local state.
//
// Every mutation goes through a pure transition, stamps a fresh
// revision, and is mirrored to the persistence adapter. Persistence is
// best effort: failures are logged and the in-memory state stays
// authoritative for the rest of the session.
type Store struct {
	mu       sync.Mutex
	adapter  storage.Adapter
	current  models.Lista
	allLists []models.Lista
	selected *models.Lista
	page     string
	revision int64
}

// New builds a store over the given adapter with an empty default
// list. Call Hydrate to restore a previous session.
func New(adapter storage.Adapter) *Store {
	return &Store{
		adapter:  adapter,
		current:  CreateEmpty(),
		allLists: []models.Lista{},
	}
}

// Hydrate restores state from the adapter. Missing or malformed blobs
// fall back to the empty defaults; hydration never fails the session.
func (s *Store) Hydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, err := s.adapter.Get(storage.KeyCurrentList); err == nil {
		var list models.Lista
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			logger.Dedup("liststore: discarding unreadable saved list: %v", err)
		} else if len(list.Items) > 0 {
			s.current = list
			s.revision = list.Revision
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.Dedup("liststore: could not load saved list: %v", err)
	}

	if raw, err := s.adapter.Get(storage.KeyAllLists); err == nil {
		var lists []models.Lista
		if err := json.Unmarshal([]byte(raw), &lists); err != nil {
			logger.Dedup("liststore: discarding unreadable list collection: %v", err)
		} else if len(lists) > 0 {
			s.allLists = lists
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.Dedup("liststore: could not load list collection: %v", err)
	}

	if page, err := s.adapter.Get(storage.KeyCurrentPage); err == nil {
		s.page = page
	}
}

// persist mirrors a value under key. Errors are non-fatal.
func (s *Store) persist(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Dedup("liststore: could not serialize %s: %v", key, err)
		return
	}
	if err := s.adapter.Set(key, string(data)); err != nil {
		logger.Dedup("liststore: could not persist %s: %v", key, err)
	}
}

func (s *Store) persistCurrent() {
	s.persist(storage.KeyCurrentList, s.current)
}

func (s *Store) persistAllLists() {
	s.persist(storage.KeyAllLists, s.allLists)
}

// stamp assigns the next revision to the candidate and installs it as
// the current list.
func (s *Store) stamp(list models.Lista) {
	s.revision++
	list.Revision = s.revision
	s.current = list
}

// Current returns a copy of the working list.
func (s *Store) Current() models.Lista {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// AllLists returns a copy of the saved list collection.
func (s *Store) AllLists() []models.Lista {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Lista, len(s.allLists))
	for i, l := range s.allLists {
		out[i] = l.Clone()
	}
	return out
}

// Revision returns the revision of the current list.
func (s *Store) Revision() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// AddProduct merges delta units of product into the working list.
func (s *Store) AddProduct(product models.Product, delta int) models.Lista {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp(AddItem(s.current, product, delta))
	s.persistCurrent()
	return s.current.Clone()
}

// RemoveProduct drops the product from the working list.
func (s *Store) RemoveProduct(productID string) models.Lista {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp(RemoveItem(s.current, productID))
	s.persistCurrent()
	return s.current.Clone()
}

// SetProductQuantity sets the exact quantity (clamped at zero) for the
// product in the working list.
func (s *Store) SetProductQuantity(productID string, quantity int) models.Lista {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp(SetQuantity(s.current, productID, quantity))
	s.persistCurrent()
	return s.current.Clone()
}

// ClearCurrent empties the working list but keeps its identity.
func (s *Store) ClearCurrent() models.Lista {
	s.mu.Lock()
	defer s.mu.Unlock()
	cleared := s.current.Clone()
	cleared.Items = []models.ListItem{}
	s.stamp(cleared)
	s.persistCurrent()
	return s.current.Clone()
}

// ReplaceCurrent swaps in a fully-built candidate list. This is the
// atomic commit point used by the suggestion reconciler.
func (s *Store) ReplaceCurrent(list models.Lista) models.Lista {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp(list.Clone())
	s.persistCurrent()
	return s.current.Clone()
}

// NewEmptyList creates a fresh list, registers it in the collection
// and makes it the working list.
func (s *Store) NewEmptyList() models.Lista {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := CreateEmpty()
	s.allLists = UpsertIntoCollection(s.allLists, list)
	s.stamp(list)
	s.selected = &list
	s.persistCurrent()
	s.persistAllLists()
	s.persist(storage.KeySelected, list)
	return s.current.Clone()
}

// DuplicateList copies a list into the collection and returns the copy.
func (s *Store) DuplicateList(list models.Lista) models.Lista {
	s.mu.Lock()
	defer s.mu.Unlock()

	dup := Duplicate(list)
	s.allLists = UpsertIntoCollection(s.allLists, dup)
	s.persistAllLists()
	return dup
}

// DeleteList removes a list from the collection by ID.
func (s *Store) DeleteList(listID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.allLists = DeleteFromCollection(s.allLists, listID)
	s.persistAllLists()
}

// SaveCurrent promotes the working list into the saved collection.
func (s *Store) SaveCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.allLists = UpsertIntoCollection(s.allLists, s.current)
	s.persistAllLists()
}

// SelectForView marks a list as the one being inspected in detail and
// mirrors it so a reload lands on the same view.
func (s *Store) SelectForView(list models.Lista) {
	s.mu.Lock()
	defer s.mu.Unlock()

	selected := list.Clone()
	s.selected = &selected
	s.persist(storage.KeySelected, selected)
}

// Selected returns the list under detailed view, if any.
func (s *Store) Selected() *models.Lista {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil {
		return nil
	}
	sel := s.selected.Clone()
	return &sel
}

// EditList makes a saved list the working list.
func (s *Store) EditList(list models.Lista) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(list.Clone())
	s.persistCurrent()
}

// GoToPage records the active page identifier for session continuity.
func (s *Store) GoToPage(page string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.page = page
	if err := s.adapter.Set(storage.KeyCurrentPage, page); err != nil {
		logger.Dedup("liststore: could not persist %s: %v", storage.KeyCurrentPage, err)
	}
}

// Page returns the last recorded page identifier.
func (s *Store) Page() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// TotalItems sums the quantities in the working list.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.TotalQuantity()
}

// TotalPrice sums price*quantity over the working list.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.TotalPrice()
}
