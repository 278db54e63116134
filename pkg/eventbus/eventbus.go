package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultListenerTimeout = time.Minute

// Event представляет собой любое событие в системе.
type Event interface {
	Name() string
}

// Listener - это обработчик (слушатель) событий.
type Listener func(ctx context.Context, event Event) error

// Bus - это наша шина событий.
type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	wg        sync.WaitGroup
	timeout   time.Duration
	logger    *zap.Logger
}

// New создает новую шину событий.
func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		timeout:   DefaultListenerTimeout,
		logger:    logger,
	}
}

// SetTimeout меняет время, которое даётся одному слушателю.
func (b *Bus) SetTimeout(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.timeout = d
}

// Subscribe подписывает слушателя на определенное событие.
func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish публикует событие. Каждый подписчик вызывается в своей горутине,
// ошибки слушателей только логируются.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	eventName := event.Name()
	listeners, ok := b.listeners[eventName]
	if !ok {
		return
	}

	for _, listener := range listeners {
		b.wg.Add(1)
		go func(l Listener) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("Паника в обработчике события", zap.String("event", eventName), zap.Any("panic", r))
				}
			}()

			// Запрос мог уже завершиться, поэтому контекст отвязан от него.
			ctxWithTimeout, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
			defer cancel()

			if err := l(ctxWithTimeout, event); err != nil {
				b.logger.Error("Ошибка в обработчике события",
					zap.String("event", eventName),
					zap.Error(err),
				)
			}
		}(listener)
	}
}

// Wait ждёт завершения всех запущенных обработчиков. Вызывается при остановке сервера.
func (b *Bus) Wait() {
	b.wg.Wait()
}
