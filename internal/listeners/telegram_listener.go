package listeners

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"office-docflow/internal/events"
	"office-docflow/pkg/eventbus"
	"office-docflow/pkg/telegram"
)

var collectionTitles = map[string]string{
	"letters":      "Письма",
	"inquiries":    "Запросы",
	"proposals":    "Предложения",
	"procurements": "Закупки",
	"invoices":     "Счета-фактуры",
	"controls":     "Контроль",
	"assets":       "Формы М-7",
}

// TelegramListener сообщает в чаты подразделений о новых записях, которые им видны.
// Подразделение-автор уведомление не получает.
type TelegramListener struct {
	notifier telegram.ServiceInterface
	chats    map[string]int64
	logger   *zap.Logger
}

func NewTelegramListener(notifier telegram.ServiceInterface, chats map[string]int64, logger *zap.Logger) *TelegramListener {
	return &TelegramListener{notifier: notifier, chats: chats, logger: logger}
}

func (l *TelegramListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.RecordCreated, l.handle)
	l.logger.Info("TelegramListener подписан на событие", zap.String("event", events.RecordCreated), zap.Int("chats", len(l.chats)))
}

func (l *TelegramListener) handle(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.RecordCreatedEvent)
	if !ok {
		return nil
	}

	text := fmt.Sprintf("%s: новая запись #%d от подразделения %s", title(e.Collection), e.ID, e.BranchID)
	var errs []error
	for _, branch := range audience(e.Collection) {
		chatID, ok := l.chats[branch]
		if !ok || branch == e.BranchID {
			continue
		}
		if err := l.notifier.SendMessage(ctx, chatID, text); err != nil {
			l.logger.Warn("Не удалось отправить уведомление", zap.String("branch", branch), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func title(collection string) string {
	if t, ok := collectionTitles[collection]; ok {
		return t
	}
	return collection
}
