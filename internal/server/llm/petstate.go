package llm

import "sync"

// Default pet attributes for a new session.
const (
	DefaultHealth = 80
	DefaultMood   = 80
)

// PetState holds a session's current pet attributes on the 0-100 scale.
type PetState struct {
	Health int
	Mood   int
}

// PetStateTracker keeps per-session pet attributes in memory. State is scoped
// to a single process and resets on restart; clients may re-seed attributes
// with every request.
type PetStateTracker struct {
	mu    sync.Mutex
	state map[string]PetState
}

func NewPetStateTracker() *PetStateTracker {
	return &PetStateTracker{state: make(map[string]PetState)}
}

func stateKey(userID, sessionID string) string {
	return userID + "/" + sessionID
}

// Seed initializes or overrides a session's attributes. Nil pointers leave
// the corresponding attribute untouched (or at its default for new sessions).
func (t *PetStateTracker) Seed(userID, sessionID string, health, mood *int) PetState {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := stateKey(userID, sessionID)
	s, ok := t.state[key]
	if !ok {
		s = PetState{Health: DefaultHealth, Mood: DefaultMood}
	}
	if health != nil {
		s.Health = Clamp(*health)
	}
	if mood != nil {
		s.Mood = Clamp(*mood)
	}
	t.state[key] = s
	return s
}

// Get returns the session's attributes, defaulting for unknown sessions.
func (t *PetStateTracker) Get(userID, sessionID string) PetState {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.state[stateKey(userID, sessionID)]; ok {
		return s
	}
	return PetState{Health: DefaultHealth, Mood: DefaultMood}
}

// Set stores the session's attributes, clamped to the 0-100 scale.
func (t *PetStateTracker) Set(userID, sessionID string, health, mood int) PetState {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := PetState{Health: Clamp(health), Mood: Clamp(mood)}
	t.state[stateKey(userID, sessionID)] = s
	return s
}

// Forget drops a session's attributes, typically after the session history
// is deleted.
func (t *PetStateTracker) Forget(userID, sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.state, stateKey(userID, sessionID))
}
