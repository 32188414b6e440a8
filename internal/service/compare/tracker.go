package compare

import (
	"sync"

	"github.com/NastyaGoryachaya/crypto-compare-service/internal/domain"
)

// Tracker — «побеждает последний запрос»: результат публикуется, только если его токен
// новее уже опубликованного. Один Tracker на сессию пользователя.
type Tracker struct {
	mu        sync.Mutex
	next      uint64
	published uint64
	latest    *domain.ComparisonResult
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin выдаёт токен для нового запроса; токены строго возрастают.
func (t *Tracker) Begin() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	return t.next
}

// Publish сохраняет результат запроса token. false — результат устарел и отброшен.
func (t *Tracker) Publish(token uint64, res domain.ComparisonResult) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if token <= t.published {
		return false
	}
	t.published = token
	res.Token = token
	t.latest = &res
	return true
}

// Current сообщает, является ли token последним выданным.
func (t *Tracker) Current(token uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return token == t.next
}

func (t *Tracker) Latest() (domain.ComparisonResult, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.latest == nil {
		return domain.ComparisonResult{}, false
	}
	return *t.latest, true
}
