package order

import "sync"

// userLocks hands out one mutex per user so two checkouts from the same
// account (rapid double-clicks) serialize instead of racing. Overselling is
// already ruled out by the conditional inventory update; this only prevents
// duplicate orders from one user.
type userLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func (u *userLocks) lock(userID uint) func() {
	u.mu.Lock()
	if u.locks == nil {
		u.locks = make(map[uint]*sync.Mutex)
	}
	l, ok := u.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		u.locks[userID] = l
	}
	u.mu.Unlock()

	l.Lock()
	return l.Unlock
}
