package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/locallibrary/internal/domain/catalog"
)

type fakePublisher struct {
	keys     []string
	messages []any
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, routingKey string, message any) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, routingKey)
	f.messages = append(f.messages, message)
	return nil
}

func TestMQPublisher_Publish(t *testing.T) {
	fake := &fakePublisher{}
	p := NewMQPublisher(fake, zap.NewNop())

	e := catalog.NewEvent(catalog.KindBook, catalog.ActionCreated, "b1")
	require.NoError(t, p.Publish(context.Background(), e))

	assert.Equal(t, []string{"catalog.book.created"}, fake.keys)
	got, ok := fake.messages[0].(catalog.Event)
	require.True(t, ok)
	assert.Equal(t, "/catalog/book/b1", got.Path)
}

func TestMQPublisher_PublishError(t *testing.T) {
	fake := &fakePublisher{err: errors.New("channel closed")}
	p := NewMQPublisher(fake, zap.NewNop())

	err := p.Publish(context.Background(), catalog.NewEvent(catalog.KindAuthor, catalog.ActionDeleted, "a1"))
	assert.EqualError(t, err, "channel closed")
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Publish(context.Background(), catalog.Event{}))
}
