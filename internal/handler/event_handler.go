package handler

import (
	"net/http"
	"vault-archive-go/internal/service"
	"vault-archive-go/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// EventHandler 通过 WebSocket 向客户端推送档案生命周期事件。
type EventHandler struct {
	hub *service.EventHub
}

// NewEventHandler 创建一个新的 EventHandler 实例。
func NewEventHandler(hub *service.EventHub) *EventHandler {
	return &EventHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 事件流是只读公开数据，跨域订阅直接放行
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Stream 将连接升级为 WebSocket 并持续推送档案事件。
func (h *EventHandler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warnf("[EventHandler] WebSocket 升级失败: %v", err)
		return
	}

	ch := h.hub.Subscribe()
	log.Info("[EventHandler] 新的事件流订阅者已接入")

	// 读取循环只用于感知客户端断开
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.hub.Unsubscribe(ch)
				_ = conn.Close()
				return
			}
		}
	}()

	for event := range ch {
		if err := conn.WriteJSON(event); err != nil {
			log.Warnf("[EventHandler] 推送事件失败，断开订阅者: %v", err)
			h.hub.Unsubscribe(ch)
			_ = conn.Close()
			return
		}
	}
}
