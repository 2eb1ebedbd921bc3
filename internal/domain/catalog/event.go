package catalog

import "time"

// Action 变更动作
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event 目录变更事件
type Event struct {
	Kind       Kind      `json:"kind"`
	Action     Action    `json:"action"`
	ID         string    `json:"id"`
	Path       string    `json:"path,omitempty"` // 删除事件为空
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent 创建事件,删除事件不带路径
func NewEvent(kind Kind, action Action, id string) Event {
	e := Event{Kind: kind, Action: action, ID: id, OccurredAt: time.Now().UTC()}
	if action != ActionDeleted {
		e.Path = Path(kind, id)
	}
	return e
}

// RoutingKey 消息路由键 catalog.<kind>.<action>
func (e Event) RoutingKey() string {
	return "catalog." + string(e.Kind) + "." + string(e.Action)
}
