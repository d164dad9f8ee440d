package engine

import (
	"container/heap"
	"time"
)

// TaskItem обертка для элемента очереди отложенных задач
type TaskItem struct {
	Fn    func()    // Сама задача
	RunAt time.Time // Момент запуска. Чем раньше, тем выше приоритет.
	Epoch uint64    // Эпоха сессии на момент планирования
	Index int       // Индекс в куче (нужен для update)
}

// TaskQueue реализует heap.Interface и хранит TaskItems
type TaskQueue []*TaskItem

func (tq TaskQueue) Len() int { return len(tq) }

func (tq TaskQueue) Less(i, j int) bool {
	// MinHeap по времени запуска
	return tq[i].RunAt.Before(tq[j].RunAt)
}

func (tq TaskQueue) Swap(i, j int) {
	tq[i], tq[j] = tq[j], tq[i]
	tq[i].Index = i
	tq[j].Index = j
}

func (tq *TaskQueue) Push(x interface{}) {
	n := len(*tq)
	item := x.(*TaskItem)
	item.Index = n
	*tq = append(*tq, item)
}

func (tq *TaskQueue) Pop() interface{} {
	old := *tq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.Index = -1 // для безопасности
	*tq = old[0 : n-1]
	return item
}

// NextRunAt возвращает время ближайшей задачи.
func (tq TaskQueue) NextRunAt() (time.Time, bool) {
	if len(tq) == 0 {
		return time.Time{}, false
	}
	return tq[0].RunAt, true
}

// PopDue снимает ближайшую задачу, если ее время пришло.
func (tq *TaskQueue) PopDue(now time.Time) (*TaskItem, bool) {
	if len(*tq) == 0 || (*tq)[0].RunAt.After(now) {
		return nil, false
	}
	return heap.Pop(tq).(*TaskItem), true
}
