// Package events 把目录变更事件投递到消息队列
package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/locallibrary/internal/domain/catalog"
)

// messagePublisher pkg/mq.Publisher 满足此接口
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// MQPublisher 基于RabbitMQ的事件发布
type MQPublisher struct {
	pub messagePublisher
	log *zap.Logger
}

// NewMQPublisher 创建事件发布器
func NewMQPublisher(pub messagePublisher, log *zap.Logger) *MQPublisher {
	return &MQPublisher{pub: pub, log: log}
}

// Publish 发布事件
func (p *MQPublisher) Publish(ctx context.Context, e catalog.Event) error {
	if err := p.pub.Publish(ctx, e.RoutingKey(), e); err != nil {
		return err
	}
	p.log.Debug("目录事件已发布",
		zap.String("routing_key", e.RoutingKey()),
		zap.String("id", e.ID),
	)
	return nil
}

// Noop 未启用消息队列时使用
type Noop struct{}

// Publish 丢弃事件
func (Noop) Publish(context.Context, catalog.Event) error { return nil }
