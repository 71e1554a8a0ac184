package telegram

import "sync"

// dispatcher выполняет задачи одного участника строго по очереди,
// задачи разных участников выполняются параллельно.
// Воркер участника завершается, когда его очередь опустела.
type dispatcher struct {
	mu      sync.Mutex
	workers map[int64]*worker
	wg      sync.WaitGroup
}

type worker struct {
	queue []func()
}

func newDispatcher() *dispatcher {
	return &dispatcher{workers: make(map[int64]*worker)}
}

// Dispatch ставит задачу в очередь участника и никогда не блокируется.
func (d *dispatcher) Dispatch(key int64, job func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if w, ok := d.workers[key]; ok {
		w.queue = append(w.queue, job)
		return
	}

	w := &worker{queue: []func(){job}}
	d.workers[key] = w
	d.wg.Add(1)
	go d.run(key, w)
}

func (d *dispatcher) run(key int64, w *worker) {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		if len(w.queue) == 0 {
			delete(d.workers, key)
			d.mu.Unlock()
			return
		}
		job := w.queue[0]
		w.queue[0] = nil
		w.queue = w.queue[1:]
		d.mu.Unlock()

		job()
	}
}

// Wait ждёт завершения всех поставленных задач
func (d *dispatcher) Wait() {
	d.wg.Wait()
}
