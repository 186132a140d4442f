package services

import (
	"context"
	"encoding/json"
	"log"
)

// NotifyFriendEvent delivers a friend event to its recipient. When
// RabbitMQ is up the event goes through the exchange so every instance's
// consumer can push it; without RabbitMQ it goes straight to this
// instance's WebSocket connections. Delivery is best effort and never
// fails the triggering operation.
func NotifyFriendEvent(ctx context.Context, event FriendEvent) {
	if rabbitChannel != nil {
		if err := PublishFriendEvent(ctx, event); err != nil {
			log.Println("Failed to publish friend event:", err)
		}
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Println("Failed to marshal friend event:", err)
		return
	}
	GlobalWSConnManager.Send(event.UserID, data)
}
