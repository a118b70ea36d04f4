package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Record - элемент коллекции
type Record interface {
	Common() Content
}

// Collection - копия одного ресурса в памяти.
// Снимок меняется только после ответа сервера, подписчики получают копию.
// Выборки считаются заново при каждом вызове
type Collection[T Record] struct {
	client   *Client
	path     string
	resource string

	mu      sync.RWMutex
	items   []T
	subs    map[int]func([]T)
	nextSub int
}

func NewCollection[T Record](c *Client, path string) *Collection[T] {
	return &Collection[T]{
		client:   c,
		path:     path,
		resource: strings.Trim(path, "/"),
		subs:     make(map[int]func([]T)),
	}
}

func Projects(c *Client) *Collection[Project] {
	return NewCollection[Project](c, "/projects")
}

func Services(c *Client) *Collection[Service] {
	return NewCollection[Service](c, "/services")
}

// Resource - имя ресурса в ленте изменений
func (col *Collection[T]) Resource() string {
	return col.resource
}

// Load заменяет снимок списком с сервера
func (col *Collection[T]) Load(ctx context.Context) error {
	var items []T
	if err := col.client.do(ctx, http.MethodGet, col.path, nil, &items); err != nil {
		return err
	}
	col.mutate(func(_ []T) []T { return items })
	return nil
}

// Add создает запись и добавляет ее в начало; ID выдает сервер
func (col *Collection[T]) Add(ctx context.Context, item T) (T, error) {
	var resp envelope[T]
	if err := col.client.do(ctx, http.MethodPost, col.path, item, &resp); err != nil {
		var zero T
		return zero, err
	}

	col.mutate(func(items []T) []T {
		return append([]T{resp.Data}, items...)
	})
	return resp.Data, nil
}

func (col *Collection[T]) Update(ctx context.Context, id string, patch Patch) (T, error) {
	return col.replace(ctx, http.MethodPut, col.itemPath(id), patch)
}

func (col *Collection[T]) SetStatus(ctx context.Context, id string, status Status) (T, error) {
	return col.replace(ctx, http.MethodPatch, col.itemPath(id)+"/status", map[string]Status{"status": status})
}

func (col *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := col.client.do(ctx, http.MethodDelete, col.itemPath(id), nil, nil); err != nil {
		return err
	}

	col.mutate(func(items []T) []T {
		out := make([]T, 0, len(items))
		for _, it := range items {
			if it.Common().ID != id {
				out = append(out, it)
			}
		}
		return out
	})
	return nil
}

func (col *Collection[T]) replace(ctx context.Context, method, path string, body any) (T, error) {
	var resp envelope[T]
	if err := col.client.do(ctx, method, path, body, &resp); err != nil {
		var zero T
		return zero, err
	}

	updated := resp.Data
	id := updated.Common().ID
	col.mutate(func(items []T) []T {
		out := make([]T, len(items))
		copy(out, items)
		for i := range out {
			if out[i].Common().ID == id {
				out[i] = updated
				return out
			}
		}
		return append(out, updated)
	})
	return updated, nil
}

func (col *Collection[T]) itemPath(id string) string {
	return col.path + "/" + url.PathEscape(id)
}

// Subscribe возвращает функцию отписки
func (col *Collection[T]) Subscribe(fn func([]T)) func() {
	col.mu.Lock()
	id := col.nextSub
	col.nextSub++
	col.subs[id] = fn
	col.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			col.mu.Lock()
			delete(col.subs, id)
			col.mu.Unlock()
		})
	}
}

// mutate меняет снимок под блокировкой, уведомляет без нее
func (col *Collection[T]) mutate(fn func([]T) []T) {
	col.mu.Lock()
	col.items = fn(col.items)
	snapshot := col.snapshotLocked()
	subs := make([]func([]T), 0, len(col.subs))
	for _, s := range col.subs {
		subs = append(subs, s)
	}
	col.mu.Unlock()

	for _, s := range subs {
		s(snapshot)
	}
}

func (col *Collection[T]) snapshotLocked() []T {
	out := make([]T, len(col.items))
	copy(out, col.items)
	return out
}

// All - копия снимка, новые первыми
func (col *Collection[T]) All() []T {
	col.mu.RLock()
	defer col.mu.RUnlock()
	return col.snapshotLocked()
}

func (col *Collection[T]) Find(id string) (T, bool) {
	col.mu.RLock()
	defer col.mu.RUnlock()
	for _, it := range col.items {
		if it.Common().ID == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (col *Collection[T]) ByStatus(status Status) []T {
	return col.filter(func(c Content) bool { return c.Status == status })
}

func (col *Collection[T]) Active() []T   { return col.ByStatus(StatusActive) }
func (col *Collection[T]) Drafts() []T   { return col.ByStatus(StatusDraft) }
func (col *Collection[T]) Archived() []T { return col.ByStatus(StatusArchived) }

// Categories - уникальные непустые категории в порядке появления
func (col *Collection[T]) Categories() []string {
	col.mu.RLock()
	defer col.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, it := range col.items {
		cat := it.Common().Category
		if cat == "" || seen[cat] {
			continue
		}
		seen[cat] = true
		out = append(out, cat)
	}
	return out
}

// Search ищет без учета регистра по названию, описанию и тегам; пустой запрос - все записи
func (col *Collection[T]) Search(q string) []T {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return col.All()
	}
	return col.filter(func(c Content) bool {
		if strings.Contains(strings.ToLower(c.Title), q) || strings.Contains(strings.ToLower(c.Description), q) {
			return true
		}
		for _, tag := range c.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	})
}

func (col *Collection[T]) filter(keep func(Content) bool) []T {
	col.mu.RLock()
	defer col.mu.RUnlock()

	var out []T
	for _, it := range col.items {
		if keep(it.Common()) {
			out = append(out, it)
		}
	}
	return out
}
