// SPDX-License-Identifier: ISC

package token

// StoreState - the serialisable form of a store
//
// only the primary records and the retired set are carried; both index
// views are rebuilt on restore
type StoreState struct {
	Tokens  []Token `json:"tokens"`
	Retired []ID    `json:"retired,omitempty"`
}

// Export - produce the serialisable state, tokens in ascending id order
func (store *Store) Export() StoreState {
	state := StoreState{
		Tokens:  make([]Token, 0, len(store.tokens)),
		Retired: make([]ID, 0, len(store.retired)),
	}
	for _, id := range store.order {
		state.Tokens = append(state.Tokens, *store.tokens[id])
	}

	var retired idList
	for id := range store.retired {
		retired = retired.insert(id)
	}
	state.Retired = retired
	return state
}

// FromState - rebuild a store and its indexes from exported state
func FromState(state StoreState) (*Store, error) {
	store := NewStore()
	for _, t := range state.Tokens {
		err := store.Insert(t.ID, t.Owner, t.Metadata)
		if nil != err {
			return nil, err
		}
	}
	for _, id := range state.Retired {
		store.retired[id] = struct{}{}
	}
	return store, nil
}
