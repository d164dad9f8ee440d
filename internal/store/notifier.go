package store

import (
	"sync"
)

// Change — категория изменения состояния, доставляемая подписчикам.
type Change uint8

const (
	ChangeGameData Change = iota // данные бэкенда (игрок, сессия, комната, сущности)
	ChangePosition               // позиция либо прицеливание
	ChangeRooms                  // фазы комнат
	ChangeLocal                  // локальные поля (оружие, патроны, флаги)
)

// Notifier занимается только рассылкой уведомлений об изменениях
// подписчикам. Подписчик получает категории, а состояние читает сам
// через Snapshot: уведомления коалесцируются без потери смысла.
type Notifier struct {
	mu          sync.RWMutex
	subscribers map[string]chan Change
}

func NewNotifier() *Notifier {
	return &Notifier{
		subscribers: make(map[string]chan Change),
	}
}

// Register создает личный канал для подписчика.
func (n *Notifier) Register(id string) chan Change {
	n.mu.Lock()
	defer n.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := n.subscribers[id]; ok {
		close(old)
	}

	ch := make(chan Change, 16)
	n.subscribers[id] = ch
	return ch
}

// Unregister удаляет подписчика.
func (n *Notifier) Unregister(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if ch, ok := n.subscribers[id]; ok {
		close(ch)
		delete(n.subscribers, id)
	}
}

// Broadcast отправляет изменение всем подписчикам без блокировки:
// медленный подписчик теряет уведомление, но не состояние.
func (n *Notifier) Broadcast(c Change) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for _, ch := range n.subscribers {
		select {
		case ch <- c:
		default:
		}
	}
}

// SubscriberCount возвращает количество активных подписчиков.
func (n *Notifier) SubscriberCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subscribers)
}
