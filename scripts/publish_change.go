//go:build ignore
// +build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/service-directory/internal/domain"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	serviceID := flag.String("service", uuid.NewString(), "Service id in the event")
	category := flag.String("category", string(domain.CategoryPharmacy), "Category of the changed service")
	previous := flag.String("previous", "", "Previous category (for updates that move a service)")
	action := flag.String("action", string(domain.ActionCreated), "created|updated|deleted")
	group := flag.String("group", "directory-catalog-workers", "Worker consumer group to watch")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := domain.ServiceChangedEvent{
		EventID:          uuid.New(),
		ServiceID:        *serviceID,
		Action:           domain.ChangeAction(*action),
		Category:         domain.Category(*category),
		PreviousCategory: domain.Category(*previous),
		Status:           domain.StatusActive,
		OccurredAt:       time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamServiceChanged,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: %s\n", domain.StreamServiceChanged)
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Service ID: %s (%s, %s)\n", event.ServiceID, event.Action, event.Category)

	// Ждем, пока воркер подтвердит сообщение
	fmt.Printf("\nWaiting for group %q to acknowledge...\n", *group)

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("Timeout: message still pending or group does not exist")
			return
		case <-ticker.C:
			groups, err := client.XInfoGroups(ctx, domain.StreamServiceChanged).Result()
			if err != nil {
				continue
			}
			for _, g := range groups {
				if g.Name != *group {
					continue
				}
				if g.Pending == 0 && g.LastDeliveredID >= result {
					fmt.Printf("Acknowledged by %s\n", g.Name)
					return
				}
			}
		}
	}
}
